package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"university/backend/models"
)

func TestOverview(t *testing.T) {
	svc, _ := newTestService(t)
	mustAdmin(t, svc)
	first := mustStudent(t, svc, "STU001")
	second := mustStudent(t, svc, "STU002")
	algebra := mustCourse(t, svc, "Algebra", "200", 4)
	mustCourse(t, svc, "Empty", "50", 0)
	mustEnroll(t, svc, first.ID, algebra.ID)
	mustEnroll(t, svc, second.ID, algebra.ID)
	mustPay(t, svc, first.ID, algebra.ID, "200")
	mustPay(t, svc, second.ID, algebra.ID, "50")

	out, err := svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalStudents)
	assert.Equal(t, 2, out.TotalCourses)
	assert.Equal(t, 2, out.TotalEnrollments)
	assert.Equal(t, 2, out.TotalPayments)
	assert.True(t, out.Collected.Equal(decimal.NewFromInt(250)))
	assert.True(t, out.Outstanding.Equal(decimal.NewFromInt(150)))

	require.Len(t, out.Courses, 2)
	stats := out.Courses[0]
	assert.Equal(t, algebra.ID, stats.CourseID)
	assert.Equal(t, 2, stats.Enrolled)
	assert.InDelta(t, 50.0, stats.FillRate, 0.001)
	assert.Equal(t, 0, out.Courses[1].Enrolled)
}

func TestRevenue(t *testing.T) {
	svc, _ := newTestService(t)
	student := mustStudent(t, svc, "STU001")
	course := mustCourse(t, svc, "Algebra", "500", 0)
	mustEnroll(t, svc, student.ID, course.ID)

	mustPay(t, svc, student.ID, course.ID, "100")
	refunded := mustPay(t, svc, student.ID, course.ID, "40")
	_, err := svc.UpdatePaymentStatus(refunded.ID, models.PaymentRefunded)
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.AddDate(0, 0, 2) }
	_, err = svc.Pay(PaymentInput{
		StudentID: student.ID, CourseID: course.ID, Amount: decimal.NewFromInt(60), Method: models.MethodCash,
	})
	require.NoError(t, err)

	report, err := svc.Revenue(fixedNow, fixedNow.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(160)))
	require.Len(t, report.Days, 2)
	assert.Equal(t, "2024-09-01", report.Days[0].Date)
	assert.Equal(t, 1, report.Days[0].Payments)
	assert.Equal(t, "2024-09-03", report.Days[1].Date)
	assert.True(t, report.ByMethod[models.MethodCash].Equal(decimal.NewFromInt(60)))

	report, err = svc.Revenue(fixedNow, fixedNow)
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(100)), "end day is inclusive")

	_, err = svc.Revenue(fixedNow, fixedNow.AddDate(0, 0, -1))
	assert.Equal(t, KindValidation, KindOf(err))
}
