package services

import (
	"strings"

	"university/backend/models"
	"university/backend/store"
)

// EnrollmentUpdate is a partial update. Grade is applied only when SetGrade
// is true, so a nil Grade clears it.
type EnrollmentUpdate struct {
	Status   string
	Grade    *string
	SetGrade bool
}

func detail(e models.Enrollment, users map[string]models.User, courses map[string]models.Course) models.EnrollmentDetail {
	studentName, studentNumber, _ := studentLabels(users, e.StudentID)
	courseName, courseNumber := courseLabels(courses, e.CourseID)
	return models.EnrollmentDetail{
		ID:             e.ID,
		StudentID:      e.StudentID,
		StudentName:    studentName,
		StudentNumber:  studentNumber,
		CourseID:       e.CourseID,
		CourseName:     courseName,
		CourseNumber:   courseNumber,
		EnrollmentDate: e.EnrollmentDate,
		Status:         e.Status,
		Grade:          e.Grade,
	}
}

func findEnrollment(enrollments []models.Enrollment, id string) int {
	for i, e := range enrollments {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func isEnrolled(enrollments []models.Enrollment, studentID, courseID string) bool {
	for _, e := range enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

// Enroll adds studentID to courseID. The capacity check and the insert run
// under the enrollments write lock, so concurrent calls cannot both take the
// last seat.
func (s *Service) Enroll(studentID, courseID string) (models.EnrollmentDetail, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Write,
	})
	defer release()

	courses, err := s.loadCourses()
	if err != nil {
		return models.EnrollmentDetail{}, err
	}
	ci := findCourse(courses, courseID)
	if ci < 0 {
		return models.EnrollmentDetail{}, fail(KindNotFound, "Course not found")
	}
	course := courses[ci]

	users, err := s.loadUsers()
	if err != nil {
		return models.EnrollmentDetail{}, err
	}
	si := findStudent(users, studentID)
	if si < 0 {
		return models.EnrollmentDetail{}, fail(KindNotFound, "Student not found")
	}

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.EnrollmentDetail{}, err
	}
	if isEnrolled(enrollments, studentID, courseID) {
		return models.EnrollmentDetail{}, fail(KindAlreadyEnrolled, "Student is already enrolled in this course")
	}
	seated := 0
	for _, e := range enrollments {
		if e.CourseID == courseID {
			seated++
		}
	}
	if seated >= course.MaxStudents {
		return models.EnrollmentDetail{}, fail(KindCourseFull, "Course is full")
	}

	enrollment := models.Enrollment{
		ID:             s.newID(),
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: s.now().UTC(),
		Status:         models.DefaultEnrollmentStatus,
	}
	enrollments = append(enrollments, enrollment)
	if err := save(s.store, models.CollectionEnrollments, enrollments); err != nil {
		return models.EnrollmentDetail{}, err
	}

	return detail(enrollment,
		map[string]models.User{studentID: users[si]},
		map[string]models.Course{courseID: course}), nil
}

// Unenroll removes an enrollment and every payment for the same student and
// course. Students may only remove their own enrollments.
func (s *Service) Unenroll(enrollmentID string, requester models.Identity) (models.Unenrollment, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Write,
		models.CollectionPayments:    store.Write,
	})
	defer release()

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.Unenrollment{}, err
	}
	i := findEnrollment(enrollments, enrollmentID)
	if i < 0 {
		return models.Unenrollment{}, fail(KindNotFound, "Enrollment not found")
	}
	enrollment := enrollments[i]
	if !requester.CanAccess(enrollment.StudentID) {
		return models.Unenrollment{}, fail(KindForbidden, "You can only unenroll from your own courses")
	}

	courses, err := s.loadCourses()
	if err != nil {
		return models.Unenrollment{}, err
	}
	users, err := s.loadUsers()
	if err != nil {
		return models.Unenrollment{}, err
	}

	removed, err := s.cascadeUnenroll(enrollments, i)
	if err != nil {
		return models.Unenrollment{}, err
	}

	courseName, courseNumber := courseLabels(indexCourses(courses), enrollment.CourseID)
	studentName := unknownStudent
	for _, u := range users {
		if u.ID == enrollment.StudentID {
			studentName = u.Name
			break
		}
	}
	return models.Unenrollment{
		CourseName:      courseName,
		CourseNumber:    courseNumber,
		StudentName:     studentName,
		PaymentsRemoved: removed,
	}, nil
}

func (s *Service) UpdateEnrollment(id string, in EnrollmentUpdate) (models.Enrollment, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionEnrollments: store.Write})
	defer release()

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.Enrollment{}, err
	}
	i := findEnrollment(enrollments, id)
	if i < 0 {
		return models.Enrollment{}, fail(KindNotFound, "Enrollment not found")
	}
	if status := strings.TrimSpace(in.Status); status != "" {
		enrollments[i].Status = status
	}
	if in.SetGrade {
		enrollments[i].Grade = in.Grade
	}
	if err := save(s.store, models.CollectionEnrollments, enrollments); err != nil {
		return models.Enrollment{}, err
	}
	return enrollments[i], nil
}

// ListEnrollments returns every enrollment joined with student and course labels.
func (s *Service) ListEnrollments() ([]models.EnrollmentDetail, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
	})
	defer release()

	enrollments, err := s.loadEnrollments()
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
	out := make([]models.EnrollmentDetail, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, detail(e, byUser, byCourse))
	}
	return out, nil
}

// StudentCourses lists the courses a student is enrolled in with schedule and price.
func (s *Service) StudentCourses(studentID string) ([]models.StudentCourse, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
	})
	defer release()

	enrollments, err := s.loadEnrollments()
	if err != nil {
		return nil, err
	}
	courses, err := s.loadCourses()
	if err != nil {
		return nil, err
	}

	byCourse := indexCourses(courses)
	out := make([]models.StudentCourse, 0)
	for _, e := range enrollments {
		if e.StudentID != studentID {
			continue
		}
		row := models.StudentCourse{
			EnrollmentID:   e.ID,
			CourseID:       e.CourseID,
			CourseName:     unknownCourse,
			CourseNumber:   unknown,
			EnrollmentDate: e.EnrollmentDate,
			Status:         e.Status,
			Grade:          e.Grade,
		}
		if c, ok := byCourse[e.CourseID]; ok {
			start, end := c.StartDate, c.EndDate
			row.CourseName = c.Name
			row.CourseNumber = c.CourseNumber
			row.StartDate = &start
			row.EndDate = &end
			row.Price = c.Price
			row.Credits = c.Credits
		}
		out = append(out, row)
	}
	return out, nil
}
