package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"university/backend/models"
	"university/backend/services"
	"university/backend/utils"
)

type PaymentsController struct {
	Deps
}

func NewPaymentsController(deps Deps) *PaymentsController {
	return &PaymentsController{Deps: deps}
}

type PaymentRequest struct {
	CourseID      string           `json:"courseId" validate:"required"`
	StudentID     string           `json:"studentId"`
	Amount        *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number" example:"100"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=credit_card debit_card bank_transfer cash check" example:"credit_card"`
}

type PaymentStatusRequest struct {
	Status string `json:"status" example:"refunded"`
}

func (pc *PaymentsController) GetPayments(c *fiber.Ctx) error {
	payments, err := pc.Svc.ListPayments("")
	if err != nil {
		return pc.fail(c, err, "Failed to fetch payments")
	}
	return utils.OK(c, "", fiber.Map{"payments": payments})
}

func (pc *PaymentsController) MyPayments(c *fiber.Ctx) error {
	payments, err := pc.Svc.ListPayments(identity(c).ID)
	if err != nil {
		return pc.fail(c, err, "Failed to fetch payment history")
	}
	return utils.OK(c, "", fiber.Map{"payments": payments})
}

// MyFees godoc
// @Summary Outstanding fees
// @Description Per-course balances (price minus completed payments) for the calling student
// @Tags payments
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /payments/my-fees [get]
func (pc *PaymentsController) MyFees(c *fiber.Ctx) error {
	outstanding, err := pc.Svc.Outstanding(identity(c).ID)
	if err != nil {
		return pc.fail(c, err, "Failed to fetch outstanding fees")
	}
	return utils.OK(c, "", outstanding)
}

// MakePayment godoc
// @Summary Make a payment
// @Description Records a completed payment; the amount may not exceed the remaining balance
// @Tags payments
// @Accept json
// @Produce json
// @Param input body PaymentRequest true "Payment"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /payments [post]
func (pc *PaymentsController) MakePayment(c *fiber.Ctx) error {
	var input PaymentRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	caller := identity(c)
	studentID := input.StudentID
	if caller.IsStudent() {
		studentID = caller.ID
	} else if studentID == "" {
		return utils.BadRequest(c, "Student ID is required for admin payment entry")
	}

	receipt, err := pc.Svc.Pay(services.PaymentInput{
		StudentID: studentID,
		CourseID:  input.CourseID,
		Amount:    *input.Amount,
		Method:    models.PaymentMethod(input.PaymentMethod),
	})
	if err != nil {
		return pc.fail(c, err, "Payment processing failed")
	}
	return utils.Created(c, "Payment processed successfully", fiber.Map{"payment": receipt})
}

func (pc *PaymentsController) GetPayment(c *fiber.Ctx) error {
	payment, err := pc.Svc.GetPayment(c.Params("id"), identity(c))
	if err != nil {
		return pc.fail(c, err, "Failed to fetch payment")
	}
	return utils.OK(c, "", fiber.Map{"payment": payment})
}

func (pc *PaymentsController) UpdatePayment(c *fiber.Ctx) error {
	var input PaymentStatusRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	payment, err := pc.Svc.UpdatePaymentStatus(c.Params("id"), models.PaymentStatus(input.Status))
	if err != nil {
		return pc.fail(c, err, "Failed to update payment status")
	}
	return utils.OK(c, "Payment status updated successfully", fiber.Map{"payment": payment})
}
