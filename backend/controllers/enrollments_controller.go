package controllers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"university/backend/models"
	"university/backend/services"
	"university/backend/utils"
)

type EnrollmentsController struct {
	Deps
}

func NewEnrollmentsController(deps Deps) *EnrollmentsController {
	return &EnrollmentsController{Deps: deps}
}

type EnrollRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	StudentID string `json:"studentId"`
}

// UpdateEnrollmentRequest keeps grade raw so that an explicit null can be
// told apart from an absent field.
type UpdateEnrollmentRequest struct {
	Status string          `json:"status" example:"completed"`
	Grade  json.RawMessage `json:"grade" swaggertype:"string" example:"A"`
}

func (r UpdateEnrollmentRequest) update() (services.EnrollmentUpdate, bool) {
	u := services.EnrollmentUpdate{Status: r.Status}
	if len(bytes.TrimSpace(r.Grade)) == 0 {
		return u, true
	}
	grade, err := models.ParseGrade(r.Grade)
	if err != nil {
		return u, false
	}
	u.Grade = grade
	u.SetGrade = true
	return u, true
}

func (ec *EnrollmentsController) GetEnrollments(c *fiber.Ctx) error {
	enrollments, err := ec.Svc.ListEnrollments()
	if err != nil {
		return ec.fail(c, err, "Failed to fetch enrollments")
	}
	return utils.OK(c, "", fiber.Map{"enrollments": enrollments})
}

// Enroll godoc
// @Summary Enroll in course
// @Description Students always enroll themselves; admins must name the student
// @Tags enrollments
// @Accept json
// @Produce json
// @Param input body EnrollRequest true "Enrollment"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /enrollments [post]
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	var input EnrollRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	caller := identity(c)
	studentID := input.StudentID
	if caller.IsStudent() {
		studentID = caller.ID
	} else if studentID == "" {
		return utils.BadRequest(c, "Student ID is required for admin enrollment")
	}

	enrollment, err := ec.Svc.Enroll(studentID, input.CourseID)
	if err != nil {
		return ec.fail(c, err, "Enrollment failed")
	}
	return utils.Created(c, "Enrollment successful", fiber.Map{"enrollment": enrollment})
}

func (ec *EnrollmentsController) MyCourses(c *fiber.Ctx) error {
	courses, err := ec.Svc.StudentCourses(identity(c).ID)
	if err != nil {
		return ec.fail(c, err, "Failed to fetch enrollments")
	}
	return utils.OK(c, "", fiber.Map{"enrollments": courses})
}

// Unenroll removes an enrollment and its payments.
func (ec *EnrollmentsController) Unenroll(c *fiber.Ctx) error {
	result, err := ec.Svc.Unenroll(c.Params("id"), identity(c))
	if err != nil {
		return ec.fail(c, err, "Unenrollment failed")
	}
	return utils.OK(c, "Unenrollment successful", fiber.Map{"unenrolledFrom": result})
}

func (ec *EnrollmentsController) UpdateEnrollment(c *fiber.Ctx) error {
	var input UpdateEnrollmentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	update, ok := input.update()
	if !ok {
		return utils.BadRequest(c, "Grade must be a string, a number or null")
	}

	enrollment, err := ec.Svc.UpdateEnrollment(c.Params("id"), update)
	if err != nil {
		return ec.fail(c, err, "Failed to update enrollment")
	}
	return utils.OK(c, "Enrollment updated successfully", fiber.Map{"enrollment": enrollment})
}
