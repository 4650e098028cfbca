// Package services keeps the users, courses, enrollments and payments
// collections consistent with each other.
//
// Every mutating operation runs its whole load-validate-save cycle while
// holding the collection locks it needs, so no two requests in the process
// can interleave on the same collection.
package services

import (
	"time"

	"university/backend/models"
	"university/backend/store"
)

type Options struct {
	// HashPasswords stores bcrypt hashes instead of verbatim passwords.
	HashPasswords bool
	Now           func() time.Time
	NewID         func() string
}

type Service struct {
	store         store.Store
	locks         *store.Locks
	hashPasswords bool
	now           func() time.Time
	newID         func() string
}

// New builds a Service over st. Share one Service per store: the collection
// locks live here.
func New(st store.Store, opts Options) *Service {
	s := &Service{
		store:         st,
		locks:         store.NewLocks(models.Collections...),
		hashPasswords: opts.HashPasswords,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = store.GenerateID
	}
	return s
}

// Provision creates any collection that does not exist yet.
func (s *Service) Provision() error {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Write,
		models.CollectionCourses:     store.Write,
		models.CollectionEnrollments: store.Write,
		models.CollectionPayments:    store.Write,
	})
	defer release()

	for _, name := range models.Collections {
		if err := s.store.Ensure(name); err != nil {
			return ioFailure(err)
		}
	}
	return nil
}

func (s *Service) loadUsers() ([]models.User, error) {
	return load[models.User](s.store, models.CollectionUsers)
}

func (s *Service) loadCourses() ([]models.Course, error) {
	return load[models.Course](s.store, models.CollectionCourses)
}

func (s *Service) loadEnrollments() ([]models.Enrollment, error) {
	return load[models.Enrollment](s.store, models.CollectionEnrollments)
}

func (s *Service) loadPayments() ([]models.Payment, error) {
	return load[models.Payment](s.store, models.CollectionPayments)
}

func load[T any](st store.Store, name string) ([]T, error) {
	records, err := store.LoadCollection[T](st, name)
	if err != nil {
		return nil, ioFailure(err)
	}
	return records, nil
}

func save[T any](st store.Store, name string, records []T) error {
	if err := store.SaveCollection(st, name, records); err != nil {
		return ioFailure(err)
	}
	return nil
}

func indexUsers(users []models.User) map[string]models.User {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func indexCourses(courses []models.Course) map[string]models.Course {
	m := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		m[c.ID] = c
	}
	return m
}

const (
	unknownStudent = "Unknown Student"
	unknownCourse  = "Unknown Course"
	unknownEmail   = "Unknown Email"
	unknown        = "Unknown"
)

// studentLabels resolves display fields for a possibly dangling student reference.
func studentLabels(users map[string]models.User, id string) (name, number, email string) {
	u, ok := users[id]
	if !ok || !u.IsStudent() {
		return unknownStudent, unknown, unknownEmail
	}
	return u.Name, u.StudentNumber, u.Email
}

func courseLabels(courses map[string]models.Course, id string) (name, number string) {
	c, ok := courses[id]
	if !ok {
		return unknownCourse, unknown
	}
	return c.Name, c.CourseNumber
}
