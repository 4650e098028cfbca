package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User is a persisted account. StudentNumber keeps the "studentId" key
// used by existing data files.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	Role          Role       `json:"role"`
	Name          string     `json:"name"`
	StudentNumber string     `json:"studentId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Public projects the user without credentials.
func (u User) Public() UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Name:          u.Name,
		StudentNumber: u.StudentNumber,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type UserView struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	Name          string     `json:"name"`
	StudentNumber string     `json:"studentId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// Identity is the already-authenticated caller attached to a request.
type Identity struct {
	ID            string `json:"id"`
	Role          Role   `json:"role"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	StudentNumber string `json:"studentId,omitempty"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// CanAccess reports whether the caller may see records owned by studentID.
func (i Identity) CanAccess(studentID string) bool {
	return i.IsAdmin() || i.ID == studentID
}

func IdentityOf(u User) Identity {
	return Identity{
		ID:            u.ID,
		Role:          u.Role,
		Email:         u.Email,
		Name:          u.Name,
		StudentNumber: u.StudentNumber,
	}
}
