package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"university/backend/config"
	"university/backend/metrics"
	"university/backend/models"
	"university/backend/services"
	"university/backend/store"
	"university/backend/utils"
)

var (
	app        *fiber.App
	cfg        *config.Config
	svc        *services.Service
	adminToken string
)

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func setup() {
	cfg = &config.Config{
		CORSOrigins:  "*",
		JWTSecret:    "testsecret",
		TokenTTL:     time.Hour,
		RateLimit:    10000,
		RateWindow:   time.Minute,
		RateCapacity: 100,
	}

	st, err := store.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		panic(err)
	}
	svc = services.New(st, services.Options{})
	if err := svc.Provision(); err != nil {
		panic(err)
	}
	if _, err := svc.CreateUser(services.NewUser{
		Email:    "admin@university.edu",
		Password: "admin123",
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}); err != nil {
		panic(err)
	}

	logger := utils.InitLogger(utils.LoggerConfig{Level: "error", Output: io.Discard})
	app = NewApp(logger)
	SetupRoutes(app, svc, cfg, logger, metrics.New())

	adminToken = login("admin@university.edu", "admin123")
}

type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Data    map[string]json.RawMessage `json:"data"`
	Details map[string]string          `json:"details"`
}

func call(method, path, token string, body interface{}) (*http.Response, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func decode(t *testing.T, env envelope, key string, out interface{}) {
	t.Helper()
	raw, ok := env.Data[key]
	require.True(t, ok, "response data has no %q", key)
	require.NoError(t, json.Unmarshal(raw, out))
}

func login(email, password string) string {
	resp, env := call("POST", "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	if resp.StatusCode != fiber.StatusOK {
		panic("login failed for " + email)
	}
	var token string
	if err := json.Unmarshal(env.Data["token"], &token); err != nil {
		panic(err)
	}
	return token
}

func selfRegister(t *testing.T, number string) (models.UserView, string) {
	t.Helper()
	resp, env := call("POST", "/api/auth/self-register", "", fiber.Map{
		"email":     number + "@university.edu",
		"password":  "secret1",
		"name":      "Student " + number,
		"studentId": number,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var user models.UserView
	var token string
	decode(t, env, "user", &user)
	decode(t, env, "token", &token)
	return user, token
}

func createCourse(t *testing.T, name string, price float64, maxStudents int) models.Course {
	t.Helper()
	resp, env := call("POST", "/api/courses", adminToken, fiber.Map{
		"name":        name,
		"startDate":   "2025-09-01",
		"endDate":     "2025-12-20",
		"price":       price,
		"maxStudents": maxStudents,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var course models.Course
	decode(t, env, "course", &course)
	return course
}

func TestHealth(t *testing.T) {
	resp, _ := call("GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	call("GET", "/api/health", "", nil)

	req := httptest.NewRequest("GET", "/api/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "university_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	resp, env := call("GET", "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", env.Message)
}

func TestLogin(t *testing.T) {
	resp, env := call("POST", "/api/auth/login", "", fiber.Map{"email": "admin@university.edu", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	resp, env = call("POST", "/api/auth/login", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Details, "password")

	resp, env = call("GET", "/api/auth/me", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me models.UserView
	decode(t, env, "user", &me)
	assert.Equal(t, models.RoleAdmin, me.Role)

	raw, _ := json.Marshal(env.Data["user"])
	assert.NotContains(t, string(raw), "admin123", "credentials never leave the server")
}

func TestAuthGuards(t *testing.T) {
	_, studentToken := selfRegister(t, "GRD001")

	resp, _ := call("GET", "/api/students", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = call("GET", "/api/students", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = call("GET", "/api/students", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = call("GET", "/api/payments/my-fees", adminToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = call("POST", "/api/auth/register", studentToken, fiber.Map{
		"email": "x@university.edu", "password": "secret1", "name": "Xx", "studentId": "XXX1",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	body := fiber.Map{"email": "dup@university.edu", "password": "secret1", "name": "Dup", "studentId": "DUP001"}
	resp, env := call("POST", "/api/auth/register", adminToken, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var student models.UserView
	decode(t, env, "student", &student)
	assert.Equal(t, "DUP001", student.StudentNumber)

	resp, _ = call("POST", "/api/auth/register", adminToken, body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEnrollAndPay(t *testing.T) {
	student, token := selfRegister(t, "PAY001")
	_, otherToken := selfRegister(t, "PAY002")
	course := createCourse(t, "Algorithms", 250, 0)

	resp, env := call("POST", "/api/enrollments", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var enrollment models.EnrollmentDetail
	decode(t, env, "enrollment", &enrollment)
	assert.Equal(t, student.ID, enrollment.StudentID)

	resp, _ = call("POST", "/api/enrollments", token, fiber.Map{"courseId": course.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = call("POST", "/api/payments", token, fiber.Map{
		"courseId": course.ID, "amount": 150, "paymentMethod": "credit_card",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var receipt struct {
		ID               string  `json:"id"`
		Amount           float64 `json:"amount"`
		RemainingBalance float64 `json:"remainingBalance"`
	}
	decode(t, env, "payment", &receipt)
	assert.Equal(t, 150.0, receipt.Amount)
	assert.Equal(t, 100.0, receipt.RemainingBalance)

	resp, env = call("POST", "/api/payments", token, fiber.Map{
		"courseId": course.ID, "amount": 200, "paymentMethod": "cash",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Payment amount exceeds remaining balance. Remaining: $100.00", env.Message)

	resp, _ = call("POST", "/api/payments", token, fiber.Map{
		"courseId": course.ID, "amount": 10, "paymentMethod": "barter",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = call("POST", "/api/payments", otherToken, fiber.Map{
		"courseId": course.ID, "amount": 10, "paymentMethod": "cash",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "payer must be enrolled")

	resp, env = call("GET", "/api/payments/my-fees", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var owed float64
	decode(t, env, "totalOwed", &owed)
	assert.Equal(t, 100.0, owed)

	resp, _ = call("GET", "/api/payments/"+receipt.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = call("GET", "/api/students/"+student.ID+"/enrollments", otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = call("GET", "/api/students/"+student.ID+"/enrollments", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []models.EnrollmentDetail
	decode(t, env, "enrollments", &mine)
	assert.Len(t, mine, 1)

	resp, env = call("PUT", "/api/payments/"+receipt.ID, adminToken, fiber.Map{"status": "lost"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, env.Message)

	resp, _ = call("PUT", "/api/payments/"+receipt.ID, adminToken, fiber.Map{"status": "refunded"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call("DELETE", "/api/courses/"+course.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "course with enrollments cannot be deleted")

	resp, _ = call("DELETE", "/api/enrollments/"+enrollment.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = call("DELETE", "/api/enrollments/"+enrollment.ID, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result models.Unenrollment
	decode(t, env, "unenrolledFrom", &result)
	assert.Equal(t, 1, result.PaymentsRemoved)

	resp, _ = call("DELETE", "/api/courses/"+course.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

}

func TestUpdateEnrollmentGrade(t *testing.T) {
	student, _ := selfRegister(t, "GRA001")
	course := createCourse(t, "Databases", 100, 0)

	resp, env := call("POST", "/api/enrollments", adminToken, fiber.Map{"courseId": course.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "admins must name the student")

	resp, env = call("POST", "/api/enrollments", adminToken, fiber.Map{"courseId": course.ID, "studentId": student.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var enrollment models.EnrollmentDetail
	decode(t, env, "enrollment", &enrollment)

	resp, env = call("PUT", "/api/enrollments/"+enrollment.ID, adminToken, fiber.Map{"status": "completed", "grade": "A"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var updated models.Enrollment
	decode(t, env, "enrollment", &updated)
	assert.Equal(t, "completed", updated.Status)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, "A", *updated.Grade)

	resp, env = call("PUT", "/api/enrollments/"+enrollment.ID, adminToken, fiber.Map{"grade": nil})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	decode(t, env, "enrollment", &updated)
	assert.Nil(t, updated.Grade)
	assert.Equal(t, "completed", updated.Status)
}

func TestCourseFullOverHTTP(t *testing.T) {
	course := createCourse(t, "Tiny Seminar", 10, 1)
	_, first := selfRegister(t, "FUL001")
	_, second := selfRegister(t, "FUL002")

	resp, _ := call("POST", "/api/enrollments", first, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := call("POST", "/api/enrollments", second, fiber.Map{"courseId": course.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Course is full", env.Message)

	resp, env = call("GET", "/api/courses/"+course.ID+"/students", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var roster []models.RosterEntry
	decode(t, env, "enrolledStudents", &roster)
	assert.Len(t, roster, 1)
}

func TestDeleteStudentCascade(t *testing.T) {
	student, token := selfRegister(t, "DEL001")
	course := createCourse(t, "Compilers", 100, 0)

	resp, _ := call("POST", "/api/enrollments", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = call("POST", "/api/payments", token, fiber.Map{
		"courseId": course.ID, "amount": 20, "paymentMethod": "cash",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := call("DELETE", "/api/students/"+student.ID, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, _ = call("GET", "/api/students/"+student.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	payments, err := svc.ListPayments(student.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	resp, _ = call("DELETE", "/api/courses/"+course.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "no enrollments left to block the course")
}

func TestAnalytics(t *testing.T) {
	_, studentToken := selfRegister(t, "ANA001")

	resp, _ := call("GET", "/api/analytics/overview", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := call("GET", "/api/analytics/overview", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var students int
	decode(t, env, "totalStudents", &students)
	assert.Positive(t, students)

	resp, _ = call("GET", "/api/analytics/revenue?start_date=yesterday", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = call("GET", "/api/analytics/revenue?start_date=2020-01-01&end_date=2020-01-31", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var total float64
	decode(t, env, "total", &total)
	assert.Equal(t, 0.0, total)
}
