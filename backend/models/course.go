package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCredits     = 3
	DefaultMaxStudents = 30

	// DateLayout is the on-disk format of course start and end dates.
	DateLayout = "2006-01-02"
)

type Course struct {
	ID           string          `json:"id"`
	CourseNumber string          `json:"courseNumber"`
	Name         string          `json:"name"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Credits      int             `json:"credits"`
	MaxStudents  int             `json:"maxStudents"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CourseRef is the short form returned by deletes and roster listings.
type CourseRef struct {
	ID           string `json:"id"`
	CourseNumber string `json:"courseNumber"`
	Name         string `json:"name"`
}

func (c Course) Ref() CourseRef {
	return CourseRef{ID: c.ID, CourseNumber: c.CourseNumber, Name: c.Name}
}
