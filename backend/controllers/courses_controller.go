package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"university/backend/services"
	"university/backend/utils"
)

type CoursesController struct {
	Deps
}

func NewCoursesController(deps Deps) *CoursesController {
	return &CoursesController{Deps: deps}
}

// CourseRequest is shared by create and update. Price is a pointer because
// zero is a valid price but an absent one is not.
type CourseRequest struct {
	CourseNumber string           `json:"courseNumber" example:"CRS-0001"`
	Name         string           `json:"name" validate:"required" example:"Algorithms"`
	StartDate    string           `json:"startDate" validate:"required" example:"2025-09-01"`
	EndDate      string           `json:"endDate" validate:"required" example:"2025-12-20"`
	Price        *decimal.Decimal `json:"price" validate:"required" swaggertype:"number" example:"200"`
	Description  string           `json:"description"`
	Credits      int              `json:"credits" example:"3"`
	MaxStudents  int              `json:"maxStudents" example:"30"`
}

func (r CourseRequest) input() services.CourseInput {
	return services.CourseInput{
		CourseNumber: r.CourseNumber,
		Name:         r.Name,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Price:        r.Price,
		Description:  r.Description,
		Credits:      r.Credits,
		MaxStudents:  r.MaxStudents,
	}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses, err := cc.Svc.ListCourses()
	if err != nil {
		return cc.fail(c, err, "Failed to fetch courses")
	}
	return utils.OK(c, "", fiber.Map{"courses": courses})
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	course, err := cc.Svc.GetCourse(c.Params("id"))
	if err != nil {
		return cc.fail(c, err, "Failed to fetch course")
	}
	return utils.OK(c, "", fiber.Map{"course": course})
}

// CreateCourse godoc
// @Summary Create course
// @Description Creates a course. Without a course number the next CRS-NNNN number is assigned.
// @Tags courses
// @Accept json
// @Produce json
// @Param input body CourseRequest true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CourseRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	course, err := cc.Svc.CreateCourse(input.input())
	if err != nil {
		return cc.fail(c, err, "Failed to create course")
	}
	return utils.Created(c, "Course created successfully", fiber.Map{"course": course})
}

// UpdateCourse godoc
// @Summary Update course
// @Description Replaces course fields; an omitted course number keeps the current one
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param input body CourseRequest true "Course data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	var input CourseRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	course, err := cc.Svc.UpdateCourse(c.Params("id"), input.input())
	if err != nil {
		return cc.fail(c, err, "Failed to update course")
	}
	return utils.OK(c, "Course updated successfully", fiber.Map{"course": course})
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	deleted, err := cc.Svc.DeleteCourse(c.Params("id"))
	if err != nil {
		return cc.fail(c, err, "Failed to delete course")
	}
	return utils.OK(c, "Course deleted successfully", fiber.Map{"deletedCourse": deleted})
}

func (cc *CoursesController) GetCourseStudents(c *fiber.Ctx) error {
	course, roster, err := cc.Svc.CourseRoster(c.Params("id"))
	if err != nil {
		return cc.fail(c, err, "Failed to fetch enrolled students")
	}
	return utils.OK(c, "", fiber.Map{
		"course":           course,
		"enrolledStudents": roster,
	})
}
