package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultEnrollmentStatus = "enrolled"

type Enrollment struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"studentId"`
	CourseID       string    `json:"courseId"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
	Status         string    `json:"status"`
	Grade          *string   `json:"grade"`
}

// EnrollmentDetail joins an enrollment with the student and course it references.
type EnrollmentDetail struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	StudentNumber  string    `json:"studentNumber"`
	CourseID       string    `json:"courseId"`
	CourseName     string    `json:"courseName"`
	CourseNumber   string    `json:"courseNumber"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
	Status         string    `json:"status"`
	Grade          *string   `json:"grade"`
}

// StudentCourse is an enrollment seen from the student's side.
type StudentCourse struct {
	EnrollmentID   string          `json:"enrollmentId"`
	CourseID       string          `json:"courseId"`
	CourseName     string          `json:"courseName"`
	CourseNumber   string          `json:"courseNumber"`
	StartDate      *string         `json:"startDate"`
	EndDate        *string         `json:"endDate"`
	Price          decimal.Decimal `json:"price"`
	Credits        int             `json:"credits"`
	EnrollmentDate time.Time       `json:"enrollmentDate"`
	Status         string          `json:"status"`
	Grade          *string         `json:"grade"`
}

// RosterEntry is one enrolled student of a course.
type RosterEntry struct {
	EnrollmentID   string    `json:"enrollmentId"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	StudentEmail   string    `json:"studentEmail"`
	StudentNumber  string    `json:"studentNumber"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
	Status         string    `json:"status"`
	Grade          *string   `json:"grade"`
}

// Unenrollment summarises a removed enrollment.
type Unenrollment struct {
	CourseName      string `json:"courseName"`
	CourseNumber    string `json:"courseNumber"`
	StudentName     string `json:"studentName"`
	PaymentsRemoved int    `json:"paymentsRemoved"`
}
