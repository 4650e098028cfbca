package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"university/backend/models"
	"university/backend/store"
)

// Overview aggregates all four collections into per-course seat and fee
// figures. Only completed payments count as collected.
func (s *Service) Overview() (models.PlatformOverview, error) {
	release := s.locks.Acquire(map[string]store.Mode{
		models.CollectionUsers:       store.Read,
		models.CollectionCourses:     store.Read,
		models.CollectionEnrollments: store.Read,
		models.CollectionPayments:    store.Read,
	})
	defer release()

	users, err := s.loadUsers()
	if err != nil {
		return models.PlatformOverview{}, err
	}
	courses, err := s.loadCourses()
	if err != nil {
		return models.PlatformOverview{}, err
	}
	enrollments, err := s.loadEnrollments()
	if err != nil {
		return models.PlatformOverview{}, err
	}
	payments, err := s.loadPayments()
	if err != nil {
		return models.PlatformOverview{}, err
	}

	out := models.PlatformOverview{
		TotalCourses:     len(courses),
		TotalEnrollments: len(enrollments),
		TotalPayments:    len(payments),
		Collected:        decimal.Zero,
		Outstanding:      decimal.Zero,
		Courses:          make([]models.CourseStats, 0, len(courses)),
	}
	for _, u := range users {
		if u.IsStudent() {
			out.TotalStudents++
		}
	}

	for _, c := range courses {
		stats := models.CourseStats{
			CourseID:     c.ID,
			CourseNumber: c.CourseNumber,
			CourseName:   c.Name,
			MaxStudents:  c.MaxStudents,
			Collected:    decimal.Zero,
			Outstanding:  decimal.Zero,
		}
		for _, e := range enrollments {
			if e.CourseID != c.ID {
				continue
			}
			stats.Enrolled++
			paid := paidFor(payments, e.StudentID, c.ID)
			stats.Collected = stats.Collected.Add(paid)
			if owed := c.Price.Sub(paid); owed.IsPositive() {
				stats.Outstanding = stats.Outstanding.Add(owed)
			}
		}
		if c.MaxStudents > 0 {
			stats.FillRate = float64(stats.Enrolled) / float64(c.MaxStudents) * 100
		}
		out.Collected = out.Collected.Add(stats.Collected)
		out.Outstanding = out.Outstanding.Add(stats.Outstanding)
		out.Courses = append(out.Courses, stats)
	}
	return out, nil
}

// Revenue totals completed payments dated within [start, end], both
// inclusive at day granularity.
func (s *Service) Revenue(start, end time.Time) (models.RevenueReport, error) {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)
	if end.Before(start) {
		return models.RevenueReport{}, fail(KindValidation, "End date must not be before start date")
	}

	release := s.locks.Acquire(map[string]store.Mode{models.CollectionPayments: store.Read})
	defer release()

	payments, err := s.loadPayments()
	if err != nil {
		return models.RevenueReport{}, err
	}

	total := decimal.Zero
	byMethod := make(map[models.PaymentMethod]decimal.Decimal)
	byDay := make(map[string]*models.RevenueDay)
	limit := end.Add(24 * time.Hour)
	for _, p := range payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		at := p.PaymentDate.UTC()
		if at.Before(start) || !at.Before(limit) {
			continue
		}
		total = total.Add(p.Amount)
		byMethod[p.PaymentMethod] = byMethod[p.PaymentMethod].Add(p.Amount)

		key := at.Format(models.DateLayout)
		day, ok := byDay[key]
		if !ok {
			day = &models.RevenueDay{Date: key, Amount: decimal.Zero}
			byDay[key] = day
		}
		day.Amount = day.Amount.Add(p.Amount)
		day.Payments++
	}

	report := models.RevenueReport{
		StartDate: start.Format(models.DateLayout),
		EndDate:   end.Format(models.DateLayout),
		Total:     total,
		ByMethod:  byMethod,
		Days:      make([]models.RevenueDay, 0, len(byDay)),
	}
	for _, day := range byDay {
		report.Days = append(report.Days, *day)
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Date < report.Days[j].Date })
	return report, nil
}
