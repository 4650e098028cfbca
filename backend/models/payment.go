package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodCash, MethodCheck:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"studentId"`
	CourseID      string          `json:"courseId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transactionId"`
}

// PaymentDetail joins a payment with its student and course.
type PaymentDetail struct {
	Payment
	StudentName   string `json:"studentName"`
	StudentNumber string `json:"studentNumber"`
	CourseName    string `json:"courseName"`
	CourseNumber  string `json:"courseNumber"`
}

// Receipt is returned after a successful payment.
type Receipt struct {
	PaymentDetail
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

type OutstandingFee struct {
	CourseID       string          `json:"courseId"`
	CourseName     string          `json:"courseName"`
	CourseNumber   string          `json:"courseNumber"`
	TotalFee       decimal.Decimal `json:"totalFee"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	AmountOwed     decimal.Decimal `json:"amountOwed"`
	EnrollmentDate time.Time       `json:"enrollmentDate"`
}

type FeeSummary struct {
	TotalCourses               int             `json:"totalCourses"`
	CoursesWithOutstandingFees int             `json:"coursesWithOutstandingFees"`
	TotalAmountOwed            decimal.Decimal `json:"totalAmountOwed"`
}

type Outstanding struct {
	OutstandingFees []OutstandingFee `json:"outstandingFees"`
	TotalOwed       decimal.Decimal  `json:"totalOwed"`
	Summary         FeeSummary       `json:"summary"`
}
