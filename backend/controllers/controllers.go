package controllers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"university/backend/config"
	"university/backend/metrics"
	"university/backend/middleware"
	"university/backend/models"
	"university/backend/services"
	"university/backend/utils"
)

// Deps is shared by every controller.
type Deps struct {
	Svc     *services.Service
	Cfg     *config.Config
	Log     *log.Logger
	Metrics *metrics.Metrics
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes and validates the request body. On failure it has
// already written the 400 response and returns ok=false.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = validationMessage(fe)
			}
			return false, utils.ValidationError(c, details)
		}
		return false, utils.BadRequest(c, err.Error())
	}
	return true, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func identity(c *fiber.Ctx) models.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindValidation, services.KindInvalidAmount, services.KindInvalidStatus,
		services.KindCourseFull, services.KindExceedsBalance, services.KindHasDependents, services.KindNotEnrolled:
		return fiber.StatusBadRequest
	case services.KindDuplicateKey, services.KindAlreadyEnrolled:
		return fiber.StatusConflict
	case services.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a service error. Business outcomes carry their own message;
// storage and unexpected failures are logged and answered with fallback.
func (d Deps) fail(c *fiber.Ctx, err error, fallback string) error {
	kind := services.KindOf(err)
	status := statusFor(kind)
	if status >= fiber.StatusInternalServerError {
		d.Log.Error(fallback, "kind", kind, "path", c.Path(), "err", err)
		return utils.InternalServerError(c, fallback)
	}

	if d.Metrics != nil {
		d.Metrics.Rejected(string(kind))
	}
	var se *services.Error
	errors.As(err, &se)
	d.Log.Debug("request rejected", "kind", kind, "path", c.Path(), "msg", se.Message)
	return utils.Error(c, status, se.Message)
}

// ErrorHandler renders errors that escape handlers in the common envelope.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.Error(c, fe.Code, fe.Message)
		}
		logger.Error("unhandled error", "path", c.Path(), "err", err)
		return utils.InternalServerError(c, "Something went wrong!")
	}
}
