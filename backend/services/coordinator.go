package services

import (
	"university/backend/models"
	"university/backend/store"
)

// Cross-collection rules:
//   - deleting a student removes all of that student's enrollments and payments;
//   - removing an enrollment removes the payments for the same student and course;
//   - a course with enrollments cannot be deleted (see DeleteCourse).
//
// Children are saved before parents, so a failed write can leave a parent
// without children but never children without a parent.

// DeleteStudent removes a student together with their enrollments and payments.
func (s *Service) DeleteStudent(id string) (models.UserView, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Write,
		models.CollectionEnrollments: store.Write,
		models.CollectionPayments:    store.Write,
	})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.UserView{}, err
	}
	i := findStudent(users, id)
	if i < 0 {
		return models.UserView{}, fail(KindNotFound, "Student not found")
	}

	payments, err := s.loadPayments()
	if err != nil {
		return models.UserView{}, err
	}
	payments = filter(payments, func(p models.Payment) bool { return p.StudentID != id })
	if err := save(s.store, models.CollectionPayments, payments); err != nil {
		return models.UserView{}, err
	}

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.UserView{}, err
	}
	enrollments = filter(enrollments, func(e models.Enrollment) bool { return e.StudentID != id })
	if err := save(s.store, models.CollectionEnrollments, enrollments); err != nil {
		return models.UserView{}, err
	}

	deleted := users[i]
	users = append(users[:i], users[i+1:]...)
	if err := save(s.store, models.CollectionUsers, users); err != nil {
		return models.UserView{}, err
	}
	return deleted.Public(), nil
}

// cascadeUnenroll drops enrollments[i] and its payments. The caller must
// hold write locks on enrollments and payments. It returns how many payments
// were removed.
func (s *Service) cascadeUnenroll(enrollments []models.Enrollment, i int) (int, error) {
	target := enrollments[i]

	payments, err := s.loadPayments()
	if err != nil {
		return 0, err
	}
	kept := filter(payments, func(p models.Payment) bool {
		return p.StudentID != target.StudentID || p.CourseID != target.CourseID
	})
	if err := save(s.store, models.CollectionPayments, kept); err != nil {
		return 0, err
	}

	enrollments = append(enrollments[:i], enrollments[i+1:]...)
	if err := save(s.store, models.CollectionEnrollments, enrollments); err != nil {
		return 0, err
	}
	return len(payments) - len(kept), nil
}

func filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
