package backend_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"etqan-payroll/internal/backend"
	"etqan-payroll/internal/payroll"
	payrollerrors "etqan-payroll/internal/payroll/errors"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
)

const baseURL = "http://backend.test"

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	c := backend.NewClient(backend.Options{
		BaseURL:    baseURL,
		Tokens:     backend.NewJWTTokenSource("secret", time.Minute),
		HTTPClient: &http.Client{},
	})
	gock.InterceptClient(c.HTTPClient())
	t.Cleanup(gock.OffAll)
	return c
}

func TestClient_ActiveEmployees(t *testing.T) {
	t.Run("envelope with mixed id types", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).
			Get("/api/employees/active").
			MatchHeader("Authorization", "^Bearer .+").
			Reply(200).
			JSON(map[string]any{"data": []map[string]any{
				{"id": 7, "name": "Amina", "teacherId": "t-7", "active": true},
				{"id": "8", "name": "Omar", "teacherId": 8},
				{"id": "9", "name": "Left", "teacherId": "t-9", "active": false},
			}})

		emps, err := c.ActiveEmployees(context.Background())

		assert.NoError(t, err)
		assert.Len(t, emps, 2)
		assert.Equal(t, "7", emps[0].ID)
		assert.Equal(t, "t-7", emps[0].TeacherID)
		assert.Equal(t, "8", emps[1].TeacherID)
		assert.True(t, gock.IsDone())
	})

	t.Run("bare array", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).
			Get("/api/employees/active").
			Reply(200).
			JSON([]map[string]any{{"id": "1", "name": "A", "teacherId": "t1"}})

		emps, err := c.ActiveEmployees(context.Background())

		assert.NoError(t, err)
		assert.Len(t, emps, 1)
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).
			Get("/api/employees/active").
			Reply(500).
			BodyString("boom")

		_, err := c.ActiveEmployees(context.Background())

		var se *backend.StatusError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, 500, se.Status)
	})
}

func TestClient_PeriodsForEmployee(t *testing.T) {
	c := newTestClient(t)
	gock.New(baseURL).
		Get("/api/payroll-periods").
		MatchParam("teacherId", "t-1").
		Reply(200).
		JSON(map[string]any{"data": []map[string]any{{
			"id":             11,
			"teacherId":      "t-1",
			"userId":         "u-1",
			"monthYear":      "2026-01",
			"periodStart":    "2025-12-01T00:00:00Z",
			"attendanceDays": 22,
			"deductions":     "200",
			"baseSalary":     3000,
			"totalDue":       "2800.00",
			"status":         "PENDING",
		}}})

	periods, err := c.PeriodsForEmployee(context.Background(), "t-1")

	assert.NoError(t, err)
	assert.Len(t, periods, 1)
	p := periods[0]
	assert.Equal(t, "11", p.ID)
	assert.Equal(t, "2026-01", p.MonthYear)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), p.PeriodStart.UTC())
	assert.Equal(t, "3000", p.BaseSalary)
	assert.Equal(t, payroll.StatusPending, p.Status)
}

func TestClient_ListPeriods_ForwardsFilters(t *testing.T) {
	c := newTestClient(t)
	gock.New(baseURL).
		Get("/api/payroll-periods").
		MatchParam("search", "amina").
		MatchParam("status", "pending").
		Reply(200).
		JSON(map[string]any{"data": []any{}})

	periods, err := c.ListPeriods(context.Background(), "amina", "pending")

	assert.NoError(t, err)
	assert.Empty(t, periods)
	assert.True(t, gock.IsDone())
}

func TestClient_CreatePeriod(t *testing.T) {
	req := payroll.NewCreatePeriodRequest("t-1", "u-1", "2026-02")

	t.Run("created", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).
			Post("/api/payroll-periods").
			JSON(map[string]any{
				"teacherId":      "t-1",
				"userId":         "u-1",
				"attendanceDays": 22,
				"deductions":     "200",
				"status":         "pending",
				"monthYear":      "2026-02",
			}).
			Reply(201).
			JSON(map[string]any{"data": map[string]any{"id": "p-2", "teacherId": "t-1", "monthYear": "2026-02", "status": "pending"}})

		p, err := c.CreatePeriod(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "p-2", p.ID)
	})

	t.Run("409 is conflict", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).Post("/api/payroll-periods").Reply(409).BodyString(`{"message":"exists"}`)

		_, err := c.CreatePeriod(context.Background(), req)

		assert.ErrorIs(t, err, backend.ErrConflict)
	})

	t.Run("duplicate key body is conflict", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).
			Post("/api/payroll-periods").
			Reply(500).
			BodyString(`{"error":"duplicate key value violates unique constraint \"payroll_periods_teacher_month\""}`)

		_, err := c.CreatePeriod(context.Background(), req)

		assert.ErrorIs(t, err, backend.ErrConflict)
	})

	t.Run("validation failure is not conflict", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).Post("/api/payroll-periods").Reply(422).BodyString(`{"error":"userId required"}`)

		_, err := c.CreatePeriod(context.Background(), req)

		assert.Error(t, err)
		assert.False(t, errors.Is(err, backend.ErrConflict))
	})
}

func TestClient_MarkPeriodPaid(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).Patch("/api/payroll-periods/p-1/mark-paid").Reply(204)

		assert.NoError(t, c.MarkPeriodPaid(context.Background(), "p-1"))
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t)
		gock.New(baseURL).Patch("/api/payroll-periods/p-1/mark-paid").Reply(500)

		assert.Error(t, c.MarkPeriodPaid(context.Background(), "p-1"))
	})
}

func TestClient_Unreachable(t *testing.T) {
	c := backend.NewClient(backend.Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := c.ActiveEmployees(context.Background())

	assert.ErrorIs(t, err, payrollerrors.ErrBackendUnavailable)
}
