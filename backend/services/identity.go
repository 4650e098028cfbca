package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"university/backend/models"
	"university/backend/store"
)

type NewUser struct {
	Email         string
	Password      string
	Name          string
	Role          models.Role
	StudentNumber string
}

type StudentUpdate struct {
	Name          string
	Email         string
	StudentNumber string
}

// Authenticate finds the user matching both email and password. Email match
// is case-sensitive and ignores surrounding whitespace, as CreateUser trims
// it. The boolean is false when no user matches.
func (s *Service) Authenticate(email, password string) (models.User, bool, error) {
	email = strings.TrimSpace(email)

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Read})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if s.passwordMatches(u.Password, password) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *Service) passwordMatches(stored, given string) bool {
	if !s.hashPasswords {
		return stored == given
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}

// CreateUser registers a new account. Student numbers are required for
// students and unique among them; emails are unique across all users.
func (s *Service) CreateUser(in NewUser) (models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)

	switch in.Role {
	case models.RoleStudent:
		if in.StudentNumber == "" {
			return models.User{}, fail(KindValidation, "Student ID is required for students")
		}
	case models.RoleAdmin:
		in.StudentNumber = ""
	default:
		return models.User{}, fail(KindValidation, "Role must be admin or student")
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return models.User{}, fail(KindValidation, "All fields are required")
	}

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Write})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.User{}, err
	}
	if conflict(users, "", in.Email, in.StudentNumber) {
		return models.User{}, fail(KindDuplicateKey, "Email or Student ID already exists")
	}

	password := in.Password
	if s.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, &Error{Kind: KindUnexpected, Message: "Could not hash password", Err: err}
		}
		password = string(hashed)
	}

	user := models.User{
		ID:            s.newID(),
		Email:         in.Email,
		Password:      password,
		Role:          in.Role,
		Name:          in.Name,
		StudentNumber: in.StudentNumber,
		CreatedAt:     s.now().UTC(),
	}
	users = append(users, user)
	if err := save(s.store, models.CollectionUsers, users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// conflict reports whether another user (not selfID) already owns email or
// the non-empty student number.
func conflict(users []models.User, selfID, email, studentNumber string) bool {
	for _, u := range users {
		if u.ID == selfID {
			continue
		}
		if u.Email == email {
			return true
		}
		if studentNumber != "" && u.StudentNumber == studentNumber {
			return true
		}
	}
	return false
}

// HasAdmin reports whether at least one administrator exists.
func (s *Service) HasAdmin() (bool, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Read})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) GetUser(id string) (models.UserView, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Read})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.UserView{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return models.UserView{}, fail(KindNotFound, "User not found")
}

// ListStudents returns every student without credentials.
func (s *Service) ListStudents() ([]models.UserView, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Read})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	students := make([]models.UserView, 0, len(users))
	for _, u := range users {
		if u.IsStudent() {
			students = append(students, u.Public())
		}
	}
	return students, nil
}

func (s *Service) GetStudent(id string) (models.UserView, error) {
	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Read})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.UserView{}, err
	}
	if i := findStudent(users, id); i >= 0 {
		return users[i].Public(), nil
	}
	return models.UserView{}, fail(KindNotFound, "Student not found")
}

func (s *Service) UpdateStudent(id string, in StudentUpdate) (models.UserView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionUsers: store.Write})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.UserView{}, err
	}
	i := findStudent(users, id)
	if i < 0 {
		return models.UserView{}, fail(KindNotFound, "Student not found")
	}

	updated := users[i]
	if in.Name != "" {
		updated.Name = in.Name
	}
	if in.Email != "" {
		updated.Email = in.Email
	}
	if in.StudentNumber != "" {
		updated.StudentNumber = in.StudentNumber
	}
	if conflict(users, id, updated.Email, updated.StudentNumber) {
		return models.UserView{}, fail(KindDuplicateKey, "Email or Student ID already exists")
	}
	now := s.now().UTC()
	updated.UpdatedAt = &now
	users[i] = updated

	if err := save(s.store, models.CollectionUsers, users); err != nil {
		return models.UserView{}, err
	}
	return updated.Public(), nil
}

// StudentEnrollments lists a student's enrollments joined with course labels.
// Unknown student ids yield an empty list.
func (s *Service) StudentEnrollments(studentID string) ([]models.EnrollmentDetail, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
	})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	courses, err := s.loadCourses()
	if err != nil {
		return nil, err
	}
	enrollments, err := s.loadEnrollments()
	if err != nil {
		return nil, err
	}

	byUser, byCourse := indexUsers(users), indexCourses(courses)
	out := make([]models.EnrollmentDetail, 0)
	for _, e := range enrollments {
		if e.StudentID == studentID {
			out = append(out, detail(e, byUser, byCourse))
		}
	}
	return out, nil
}

func findStudent(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id && u.IsStudent() {
			return i
		}
	}
	return -1
}
