package models

import "github.com/shopspring/decimal"

// CourseStats summarizes seat usage and collected fees for one course.
type CourseStats struct {
	CourseID     string          `json:"courseId"`
	CourseNumber string          `json:"courseNumber"`
	CourseName   string          `json:"courseName"`
	Enrolled     int             `json:"enrolled"`
	MaxStudents  int             `json:"maxStudents"`
	FillRate     float64         `json:"fillRate"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

type PlatformOverview struct {
	TotalStudents    int             `json:"totalStudents"`
	TotalCourses     int             `json:"totalCourses"`
	TotalEnrollments int             `json:"totalEnrollments"`
	TotalPayments    int             `json:"totalPayments"`
	Collected        decimal.Decimal `json:"collected"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	Courses          []CourseStats   `json:"courses"`
}

// RevenueDay is the completed-payment total for one calendar day (UTC).
type RevenueDay struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Payments int             `json:"payments"`
}

type RevenueReport struct {
	StartDate string                            `json:"startDate"`
	EndDate   string                            `json:"endDate"`
	Total     decimal.Decimal                   `json:"total"`
	ByMethod  map[PaymentMethod]decimal.Decimal `json:"byMethod"`
	Days      []RevenueDay                      `json:"days"`
}
