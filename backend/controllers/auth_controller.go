package controllers

import (
	"github.com/gofiber/fiber/v2"

	"university/backend/models"
	"university/backend/services"
	"university/backend/utils"
)

type AuthController struct {
	Deps
}

func NewAuthController(deps Deps) *AuthController {
	return &AuthController{Deps: deps}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@university.edu"`
	Password string `json:"password" validate:"required" example:"admin123"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email" example:"student@university.edu"`
	Password  string `json:"password" validate:"required,min=6" example:"secret1"`
	Name      string `json:"name" validate:"required,min=2" example:"Jane Doe"`
	StudentID string `json:"studentId" validate:"required,min=3" example:"STU001"`
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	user, found, err := ac.Svc.Authenticate(input.Email, input.Password)
	if err != nil {
		return ac.fail(c, err, "Login failed")
	}
	if !found {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	return ac.issue(c, fiber.StatusOK, "Login successful", user)
}

// issue signs a token for user and writes it with the public profile.
func (ac *AuthController) issue(c *fiber.Ctx, status int, message string, user models.User) error {
	token, err := utils.GenerateJWTToken(models.IdentityOf(user), ac.Cfg)
	if err != nil {
		ac.Log.Error("could not generate token", "err", err)
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Success(c, status, message, fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// Logout is stateless: tokens expire on their own and the client drops it.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return utils.OK(c, "Logout successful", nil)
}

// Me godoc
// @Summary Current user
// @Description Returns the account behind the bearer token
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Svc.GetUser(identity(c).ID)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return utils.Unauthorized(c, "Not authenticated")
		}
		return ac.fail(c, err, "Failed to fetch user")
	}
	return utils.OK(c, "", fiber.Map{"user": user})
}

// Register godoc
// @Summary Register a student
// @Description Admin-only creation of a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Student data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	user, ok, err := ac.createStudent(c)
	if !ok {
		return err
	}
	return utils.Created(c, "Student registered successfully", fiber.Map{"student": user.Public()})
}

// SelfRegister creates a student account and logs it in.
func (ac *AuthController) SelfRegister(c *fiber.Ctx) error {
	user, ok, err := ac.createStudent(c)
	if !ok {
		return err
	}
	return ac.issue(c, fiber.StatusCreated, "Registration successful", user)
}

func (ac *AuthController) createStudent(c *fiber.Ctx) (models.User, bool, error) {
	var input RegisterRequest
	if ok, err := parseBody(c, &input); !ok {
		return models.User{}, false, err
	}

	user, err := ac.Svc.CreateUser(services.NewUser{
		Email:         input.Email,
		Password:      input.Password,
		Name:          input.Name,
		Role:          models.RoleStudent,
		StudentNumber: input.StudentID,
	})
	if err != nil {
		return models.User{}, false, ac.fail(c, err, "Registration failed")
	}
	return user, true, nil
}
