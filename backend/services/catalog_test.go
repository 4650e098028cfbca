package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"university/backend/models"
	"university/backend/store"
)

func TestNextCourseNumber(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		want    string
	}{
		{"empty", nil, "CRS-0001"},
		{"gap", []string{"CRS-0001", "CRS-0007"}, "CRS-0008"},
		{"foreign numbers ignored", []string{"MATH-101", "CRS-abc", "CRS-0002"}, "CRS-0003"},
		{"wider than four digits", []string{"CRS-12345"}, "CRS-12346"},
		{"trailing letters", []string{"CRS-0003", "CRS-0012a"}, "CRS-0013"},
		{"no leading digits", []string{"CRS-a12", "CRS-"}, "CRS-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := make([]models.Course, 0, len(tt.numbers))
			for _, n := range tt.numbers {
				courses = append(courses, models.Course{CourseNumber: n})
			}
			assert.Equal(t, tt.want, nextCourseNumber(courses))
		})
	}
}

func TestCreateCourseDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	c := mustCourse(t, svc, "Algebra", "250.50", 0)
	assert.Equal(t, "CRS-0001", c.CourseNumber)
	assert.Equal(t, models.DefaultCredits, c.Credits)
	assert.Equal(t, models.DefaultMaxStudents, c.MaxStudents)
	assert.Equal(t, "", c.Description)
	assert.True(t, c.Price.Equal(*price("250.5")))
	assert.Equal(t, fixedNow, c.CreatedAt)

	second := mustCourse(t, svc, "Geometry", "10", 0)
	assert.Equal(t, "CRS-0002", second.CourseNumber)
}

func TestCreateCourseGeneratesAfterExistingNumbers(t *testing.T) {
	svc, _ := newTestService(t)

	for _, number := range []string{"CRS-0001", "CRS-0007"} {
		_, err := svc.CreateCourse(CourseInput{
			CourseNumber: number, Name: number, StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("1"),
		})
		require.NoError(t, err)
	}

	c := mustCourse(t, svc, "Next", "1", 0)
	assert.Equal(t, "CRS-0008", c.CourseNumber)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		in   CourseInput
	}{
		{"missing name", CourseInput{StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("1")}},
		{"missing price", CourseInput{Name: "A", StartDate: "2024-01-01", EndDate: "2024-02-01"}},
		{"bad date", CourseInput{Name: "A", StartDate: "first of may", EndDate: "2024-02-01", Price: price("1")}},
		{"end equals start", CourseInput{Name: "A", StartDate: "2024-01-01", EndDate: "2024-01-01", Price: price("1")}},
		{"end before start", CourseInput{Name: "A", StartDate: "2024-02-01", EndDate: "2024-01-01", Price: price("1")}},
		{"negative price", CourseInput{Name: "A", StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("-5")}},
		{"negative seats", CourseInput{Name: "A", StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("1"), MaxStudents: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(tt.in)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	courses, err := svc.ListCourses()
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCreateCourseAcceptsTimestamps(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.CreateCourse(CourseInput{
		Name: "A", StartDate: "2024-01-01T09:00:00Z", EndDate: "2024-01-31T09:00", Price: price("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", c.StartDate)
	assert.Equal(t, "2024-01-31", c.EndDate)
}

func TestCreateCourseDuplicateNumber(t *testing.T) {
	svc, _ := newTestService(t)
	mustCourse(t, svc, "Algebra", "100", 0)

	_, err := svc.CreateCourse(CourseInput{
		CourseNumber: "CRS-0001", Name: "Copy", StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("1"),
	})
	assert.Equal(t, KindDuplicateKey, KindOf(err))
}

func TestUpdateCourse(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.CreateCourse(CourseInput{
		Name: "Algebra", StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("100"),
		Description: "Intro", Credits: 4, MaxStudents: 12,
	})
	require.NoError(t, err)
	other := mustCourse(t, svc, "Geometry", "10", 0)

	updated, err := svc.UpdateCourse(c.ID, CourseInput{
		Name: "Algebra II", StartDate: "2024-03-01", EndDate: "2024-04-01", Price: price("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, c.CourseNumber, updated.CourseNumber, "omitted number is kept")
	assert.Equal(t, "Algebra II", updated.Name)
	assert.Equal(t, "Intro", updated.Description)
	assert.Equal(t, 4, updated.Credits)
	assert.Equal(t, 12, updated.MaxStudents)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateCourse(c.ID, CourseInput{
		CourseNumber: other.CourseNumber, Name: "X", StartDate: "2024-03-01", EndDate: "2024-04-01", Price: price("1"),
	})
	assert.Equal(t, KindDuplicateKey, KindOf(err))

	_, err = svc.UpdateCourse("missing", CourseInput{
		Name: "X", StartDate: "2024-03-01", EndDate: "2024-04-01", Price: price("1"),
	})
	assert.Equal(t, KindNotFound, KindOf(err))

	got, err := svc.GetCourse(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", got.Name)
}

func TestUpdateCourseFillsMissingNumber(t *testing.T) {
	svc, fsys := newTestService(t)
	st, err := store.NewFileStore(fsys, dataDir)
	require.NoError(t, err)
	require.NoError(t, store.SaveCollection(st, models.CollectionCourses, []models.Course{
		{ID: "legacy", Name: "Legacy", StartDate: "2024-01-01", EndDate: "2024-02-01", Credits: 3, MaxStudents: 30},
		{ID: "numbered", CourseNumber: "CRS-0004", Name: "Numbered", StartDate: "2024-01-01", EndDate: "2024-02-01"},
	}))

	updated, err := svc.UpdateCourse("legacy", CourseInput{
		Name: "Legacy", StartDate: "2024-01-01", EndDate: "2024-02-01", Price: price("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CRS-0005", updated.CourseNumber)
}

func TestDeleteCourse(t *testing.T) {
	svc, _ := newTestService(t)
	student := mustStudent(t, svc, "STU001")
	busy := mustCourse(t, svc, "Busy", "100", 0)
	idle := mustCourse(t, svc, "Idle", "100", 0)
	mustEnroll(t, svc, student.ID, busy.ID)

	_, err := svc.DeleteCourse(busy.ID)
	assert.Equal(t, KindHasDependents, KindOf(err))
	_, err = svc.GetCourse(busy.ID)
	assert.NoError(t, err, "course with enrollments survives")

	ref, err := svc.DeleteCourse(idle.ID)
	require.NoError(t, err)
	assert.Equal(t, idle.CourseNumber, ref.CourseNumber)

	_, err = svc.GetCourse(idle.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.DeleteCourse(idle.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCourseRoster(t *testing.T) {
	svc, _ := newTestService(t)
	student := mustStudent(t, svc, "STU001")
	course := mustCourse(t, svc, "Algebra", "100", 0)
	e := mustEnroll(t, svc, student.ID, course.ID)

	ref, roster, err := svc.CourseRoster(course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", ref.Name)
	require.Len(t, roster, 1)
	assert.Equal(t, e.ID, roster[0].EnrollmentID)
	assert.Equal(t, student.Email, roster[0].StudentEmail)
	assert.Equal(t, "STU001", roster[0].StudentNumber)

	_, _, err = svc.CourseRoster("missing")
	assert.Equal(t, KindNotFound, KindOf(err))
}
