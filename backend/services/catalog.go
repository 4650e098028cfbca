package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"university/backend/models"
	"university/backend/store"
)

const courseNumberPrefix = "CRS-"

// CourseInput carries create and update fields. Zero values of Description,
// Credits and MaxStudents mean "default" on create and "keep" on update.
type CourseInput struct {
	CourseNumber string
	Name         string
	StartDate    string
	EndDate      string
	Price        *decimal.Decimal
	Description  string
	Credits      int
	MaxStudents  int
}

type validCourse struct {
	number string
	name   string
	start  string
	end    string
	price  decimal.Decimal
}

var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (in CourseInput) validate() (validCourse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" || in.Price == nil {
		return validCourse{}, fail(KindValidation, "Name, start date, end date, and price are required")
	}
	start, okStart := parseDate(in.StartDate)
	end, okEnd := parseDate(in.EndDate)
	if !okStart || !okEnd {
		return validCourse{}, fail(KindValidation, "Invalid start or end date")
	}
	if !end.After(start) {
		return validCourse{}, fail(KindValidation, "End date must be after start date")
	}
	if in.Price.IsNegative() {
		return validCourse{}, fail(KindValidation, "Price must be a valid positive number")
	}
	if in.Credits < 0 || in.MaxStudents < 0 {
		return validCourse{}, fail(KindValidation, "Credits and max students cannot be negative")
	}
	return validCourse{
		number: strings.TrimSpace(in.CourseNumber),
		name:   name,
		start:  start.Format(models.DateLayout),
		end:    end.Format(models.DateLayout),
		price:  *in.Price,
	}, nil
}

// nextCourseNumber returns CRS-%04d one past the largest numeric suffix
// among existing CRS- numbers. Only the leading digits of a suffix count,
// so CRS-0012a reads as 12.
func nextCourseNumber(courses []models.Course) string {
	highest := 0
	for _, c := range courses {
		suffix, ok := strings.CutPrefix(c.CourseNumber, courseNumberPrefix)
		if !ok {
			continue
		}
		if n, ok := leadingNumber(suffix); ok && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", courseNumberPrefix, highest+1)
}

func leadingNumber(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

func numberTaken(courses []models.Course, selfID, number string) bool {
	for _, c := range courses {
		if c.ID != selfID && c.CourseNumber == number {
			return true
		}
	}
	return false
}

func findCourse(courses []models.Course, id string) int {
	for i, c := range courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) ListCourses() ([]models.Course, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionCourses: store.Read})
	defer release()

	return s.loadCourses()
}

func (s *Service) GetCourse(id string) (models.Course, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionCourses: store.Read})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.Course{}, err
	}
	if i := findCourse(courses, id); i >= 0 {
		return courses[i], nil
	}
	return models.Course{}, fail(KindNotFound, "Course not found")
}

func (s *Service) CreateCourse(in CourseInput) (models.Course, error) {
	v, err := in.validate()
	if err != nil {
		return models.Course{}, err
	}

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionCourses: store.Write})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.Course{}, err
	}

	number := v.number
	if number == "" {
		number = nextCourseNumber(courses)
	} else if numberTaken(courses, "", number) {
		return models.Course{}, fail(KindDuplicateKey, "Course number already exists")
	}

	credits := in.Credits
	if credits == 0 {
		credits = models.DefaultCredits
	}
	maxStudents := in.MaxStudents
	if maxStudents == 0 {
		maxStudents = models.DefaultMaxStudents
	}

	now := s.now().UTC()
	course := models.Course{
		ID:           s.newID(),
		CourseNumber: number,
		Name:         v.name,
		StartDate:    v.start,
		EndDate:      v.end,
		Price:        v.price,
		Description:  in.Description,
		Credits:      credits,
		MaxStudents:  maxStudents,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	courses = append(courses, course)
	if err := save(s.store, models.CollectionCourses, courses); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// UpdateCourse replaces the course fields. An omitted course number keeps
// the current one; a new number is only generated when the course has none.
func (s *Service) UpdateCourse(id string, in CourseInput) (models.Course, error) {
	v, err := in.validate()
	if err != nil {
		return models.Course{}, err
	}

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionCourses: store.Write})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.Course{}, err
	}
	i := findCourse(courses, id)
	if i < 0 {
		return models.Course{}, fail(KindNotFound, "Course not found")
	}
	current := courses[i]

	number := v.number
	switch {
	case number != "":
		if numberTaken(courses, id, number) {
			return models.Course{}, fail(KindDuplicateKey, "Course number already exists")
		}
	case strings.TrimSpace(current.CourseNumber) != "":
		number = current.CourseNumber
	default:
		number = nextCourseNumber(courses)
	}

	current.CourseNumber = number
	current.Name = v.name
	current.StartDate = v.start
	current.EndDate = v.end
	current.Price = v.price
	if in.Description != "" {
		current.Description = in.Description
	}
	if in.Credits != 0 {
		current.Credits = in.Credits
	}
	if in.MaxStudents != 0 {
		current.MaxStudents = in.MaxStudents
	}
	current.UpdatedAt = s.now().UTC()
	courses[i] = current

	if err := save(s.store, models.CollectionCourses, courses); err != nil {
		return models.Course{}, err
	}
	return current, nil
}

// DeleteCourse removes a course that no enrollment references. It never
// cascades: dependents must be removed first.
func (s *Service) DeleteCourse(id string) (models.CourseRef, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionCourses:     store.Write,
		models.CollectionEnrollments: store.Read,
	})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.CourseRef{}, err
	}
	i := findCourse(courses, id)
	if i < 0 {
		return models.CourseRef{}, fail(KindNotFound, "Course not found")
	}

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.CourseRef{}, err
	}
	for _, e := range enrollments {
		if e.CourseID == id {
			return models.CourseRef{}, fail(KindHasDependents, "Cannot delete course with existing enrollments")
		}
	}

	deleted := courses[i]
	courses = append(courses[:i], courses[i+1:]...)
	if err := save(s.store, models.CollectionCourses, courses); err != nil {
		return models.CourseRef{}, err
	}
	return deleted.Ref(), nil
}

// CourseRoster returns the course and every enrollment joined with its student.
func (s *Service) CourseRoster(id string) (models.CourseRef, []models.RosterEntry, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
	})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.CourseRef{}, nil, err
	}
	i := findCourse(courses, id)
	if i < 0 {
		return models.CourseRef{}, nil, fail(KindNotFound, "Course not found")
	}
	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.CourseRef{}, nil, err
	}
	users, err := s.loadUsers()
	if err != nil {
		return models.CourseRef{}, nil, err
	}

	byUser := indexUsers(users)
	roster := make([]models.RosterEntry, 0)
	for _, e := range enrollments {
		if e.CourseID != id {
			continue
		}
		name, number, email := studentLabels(byUser, e.StudentID)
		roster = append(roster, models.RosterEntry{
			EnrollmentID:   e.ID,
			StudentID:      e.StudentID,
			StudentName:    name,
			StudentEmail:   email,
			StudentNumber:  number,
			EnrollmentDate: e.EnrollmentDate,
			Status:         e.Status,
			Grade:          e.Grade,
		})
	}
	return courses[i].Ref(), roster, nil
}
