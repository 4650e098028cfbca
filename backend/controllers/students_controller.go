package controllers

import (
	"github.com/gofiber/fiber/v2"

	"university/backend/services"
	"university/backend/utils"
)

type StudentsController struct {
	Deps
}

func NewStudentsController(deps Deps) *StudentsController {
	return &StudentsController{Deps: deps}
}

type UpdateStudentRequest struct {
	Name      string `json:"name" validate:"required" example:"Jane Doe"`
	Email     string `json:"email" validate:"required,email" example:"jane@university.edu"`
	StudentID string `json:"studentId" validate:"required" example:"STU001"`
}

// GetStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /students [get]
func (sc *StudentsController) GetStudents(c *fiber.Ctx) error {
	students, err := sc.Svc.ListStudents()
	if err != nil {
		return sc.fail(c, err, "Failed to fetch students")
	}
	return utils.OK(c, "", fiber.Map{"students": students})
}

func (sc *StudentsController) GetStudent(c *fiber.Ctx) error {
	student, err := sc.Svc.GetStudent(c.Params("id"))
	if err != nil {
		return sc.fail(c, err, "Failed to fetch student")
	}
	return utils.OK(c, "", fiber.Map{"student": student})
}

// UpdateStudent godoc
// @Summary Update student
// @Description Name, email and student ID are all required; email and student ID must stay unique
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param input body UpdateStudentRequest true "Student data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /students/{id} [put]
func (sc *StudentsController) UpdateStudent(c *fiber.Ctx) error {
	var input UpdateStudentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	student, err := sc.Svc.UpdateStudent(c.Params("id"), services.StudentUpdate{
		Name:          input.Name,
		Email:         input.Email,
		StudentNumber: input.StudentID,
	})
	if err != nil {
		return sc.fail(c, err, "Failed to update student")
	}
	return utils.OK(c, "Student updated successfully", fiber.Map{"student": student})
}

// DeleteStudent removes the student with all enrollments and payments.
func (sc *StudentsController) DeleteStudent(c *fiber.Ctx) error {
	student, err := sc.Svc.DeleteStudent(c.Params("id"))
	if err != nil {
		return sc.fail(c, err, "Failed to delete student")
	}
	return utils.OK(c, "Student deleted successfully", fiber.Map{"deletedStudent": student})
}

// GetStudentEnrollments is open to admins and to the student themself.
func (sc *StudentsController) GetStudentEnrollments(c *fiber.Ctx) error {
	id := c.Params("id")
	if !identity(c).CanAccess(id) {
		return utils.Forbidden(c, "Access denied")
	}

	enrollments, err := sc.Svc.StudentEnrollments(id)
	if err != nil {
		return sc.fail(c, err, "Failed to fetch student enrollments")
	}
	return utils.OK(c, "", fiber.Map{"enrollments": enrollments})
}
