package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow holds one whole document per collection name.
type collectionRow struct {
	Name      string `gorm:"primaryKey;size:64"`
	Document  string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string {
	return "collections"
}

// GormStore keeps documents in a relational table instead of files.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate collections table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	var row collectionRow
	if err := s.db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("store: collection %q: %w", name, ErrMissing)
		}
		return fmt.Errorf("store: query %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(row.Document), v); err != nil {
		return fmt.Errorf("store: decode %q: %w", name, err)
	}
	return nil
}

func (s *GormStore) Save(name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", name, err)
	}
	row := collectionRow{Name: name, Document: string(data), UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store: upsert %q: %w", name, err)
	}
	return nil
}

func (s *GormStore) Ensure(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	data, err := json.Marshal(emptyDocument(name))
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", name, err)
	}
	row := collectionRow{Name: name, Document: string(data), UpdatedAt: time.Now()}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("store: provision %q: %w", name, err)
	}
	return nil
}
