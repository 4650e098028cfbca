package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"university/backend/models"
	"university/backend/store"
)

type PaymentInput struct {
	StudentID string
	CourseID  string
	Amount    decimal.Decimal
	Method    models.PaymentMethod
}

// paidFor sums completed payments for one student and course.
func paidFor(payments []models.Payment, studentID, courseID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.StudentID == studentID && p.CourseID == courseID && p.Status == models.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func paymentDetail(p models.Payment, users map[string]models.User, courses map[string]models.Course) models.PaymentDetail {
	studentName, studentNumber, _ := studentLabels(users, p.StudentID)
	courseName, courseNumber := courseLabels(courses, p.CourseID)
	return models.PaymentDetail{
		Payment:       p,
		StudentName:   studentName,
		StudentNumber: studentNumber,
		CourseName:    courseName,
		CourseNumber:  courseNumber,
	}
}

// Pay records a completed payment against an enrollment. The amount may not
// exceed the course price minus what has already been paid; the balance is
// computed against the live course price.
func (s *Service) Pay(in PaymentInput) (models.Receipt, error) {
	if !in.Method.Valid() {
		return models.Receipt{}, fail(KindValidation, "Invalid payment method")
	}

	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
		models.CollectionPayments:    store.Write,
	})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.Receipt{}, err
	}
	ci := findCourse(courses, in.CourseID)
	if ci < 0 {
		return models.Receipt{}, fail(KindNotFound, "Course not found")
	}
	course := courses[ci]

	users, err := s.loadUsers()
	if err != nil {
		return models.Receipt{}, err
	}
	si := findStudent(users, in.StudentID)
	if si < 0 {
		return models.Receipt{}, fail(KindNotFound, "Student not found")
	}

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.Receipt{}, err
	}
	if !isEnrolled(enrollments, in.StudentID, in.CourseID) {
		return models.Receipt{}, fail(KindNotEnrolled, "Student is not enrolled in this course")
	}

	payments, err := s.loadPayments()
	if err != nil {
		return models.Receipt{}, err
	}
	paid := paidFor(payments, in.StudentID, in.CourseID)
	remaining := course.Price.Sub(paid)

	if !in.Amount.IsPositive() {
		return models.Receipt{}, fail(KindInvalidAmount, "Payment amount must be greater than 0")
	}
	if in.Amount.GreaterThan(remaining) {
		return models.Receipt{}, fail(KindExceedsBalance,
			"Payment amount exceeds remaining balance. Remaining: $%s", remaining.StringFixed(2))
	}

	now := s.now().UTC()
	payment := models.Payment{
		ID:            s.newID(),
		StudentID:     in.StudentID,
		CourseID:      in.CourseID,
		Amount:        in.Amount,
		PaymentDate:   now,
		PaymentMethod: in.Method,
		Status:        models.PaymentCompleted,
		TransactionID: fmt.Sprintf("TXN%d", now.UnixMilli()),
	}
	payments = append(payments, payment)
	if err := save(s.store, models.CollectionPayments, payments); err != nil {
		return models.Receipt{}, err
	}

	return models.Receipt{
		PaymentDetail: paymentDetail(payment,
			map[string]models.User{in.StudentID: users[si]},
			map[string]models.Course{in.CourseID: course}),
		RemainingBalance: remaining.Sub(in.Amount),
	}, nil
}

// Outstanding lists every enrolled course of the student that still has a
// positive balance.
func (s *Service) Outstanding(studentID string) (models.Outstanding, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
		models.CollectionPayments:    store.Read,
	})
	defer release()

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.Outstanding{}, err
	}
	courses, err := s.loadCourses()
	if err != nil {
		return models.Outstanding{}, err
	}
	payments, err := s.loadPayments()
	if err != nil {
		return models.Outstanding{}, err
	}

	byCourse := indexCourses(courses)
	fees := make([]models.OutstandingFee, 0)
	total := decimal.Zero
	enrolled := 0
	for _, e := range enrollments {
		if e.StudentID != studentID {
			continue
		}
		enrolled++
		course, ok := byCourse[e.CourseID]
		if !ok {
			continue
		}
		paid := paidFor(payments, studentID, e.CourseID)
		owed := course.Price.Sub(paid)
		if !owed.IsPositive() {
			continue
		}
		fees = append(fees, models.OutstandingFee{
			CourseID:       course.ID,
			CourseName:     course.Name,
			CourseNumber:   course.CourseNumber,
			TotalFee:       course.Price,
			PaidAmount:     paid,
			AmountOwed:     owed,
			EnrollmentDate: e.EnrollmentDate,
		})
		total = total.Add(owed)
	}

	return models.Outstanding{
		OutstandingFees: fees,
		TotalOwed:       total,
		Summary: models.FeeSummary{
			TotalCourses:               enrolled,
			CoursesWithOutstandingFees: len(fees),
			TotalAmountOwed:            total,
		},
	}, nil
}

func (s *Service) UpdatePaymentStatus(id string, status models.PaymentStatus) (models.Payment, error) {
	if !status.Valid() {
		return models.Payment{}, fail(KindInvalidStatus, "Valid status is required (pending, completed, failed, refunded)")
	}

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionPayments: store.Write})
	defer release()

	payments, err := s.loadPayments()
	if err != nil {
		return models.Payment{}, err
	}
	for i := range payments {
		if payments[i].ID != id {
			continue
		}
		payments[i].Status = status
		if err := save(s.store, models.CollectionPayments, payments); err != nil {
			return models.Payment{}, err
		}
		return payments[i], nil
	}
	return models.Payment{}, fail(KindNotFound, "Payment not found")
}

// ListPayments returns payments joined with student and course labels.
// An empty studentID lists every payment.
func (s *Service) ListPayments(studentID string) ([]models.PaymentDetail, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:    store.Read,
		models.CollectionCourses:  store.Read,
		models.CollectionPayments: store.Read,
	})
	defer release()

	payments, err := s.loadPayments()
	if err != nil {
		return nil, err
	}
	courses, err := s.loadCourses()
	if err != nil {
		return nil, err
	}
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	byUser, byCourse := indexUsers(users), indexCourses(courses)
	out := make([]models.PaymentDetail, 0, len(payments))
	for _, p := range payments {
		if studentID != "" && p.StudentID != studentID {
			continue
		}
		out = append(out, paymentDetail(p, byUser, byCourse))
	}
	return out, nil
}

// GetPayment returns one payment. Students may only read their own.
func (s *Service) GetPayment(id string, requester models.Identity) (models.PaymentDetail, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:    store.Read,
		models.CollectionCourses:  store.Read,
		models.CollectionPayments: store.Read,
	})
	defer release()

	payments, err := s.loadPayments()
	if err != nil {
		return models.PaymentDetail{}, err
	}
	for _, p := range payments {
		if p.ID != id {
			continue
		}
		if !requester.CanAccess(p.StudentID) {
			return models.PaymentDetail{}, fail(KindForbidden, "Access denied")
		}
		courses, err := s.loadCourses()
		if err != nil {
			return models.PaymentDetail{}, err
		}
		users, err := s.loadUsers()
		if err != nil {
			return models.PaymentDetail{}, err
		}
		return paymentDetail(p, indexUsers(users), indexCourses(courses)), nil
	}
	return models.PaymentDetail{}, fail(KindNotFound, "Payment not found")
}
