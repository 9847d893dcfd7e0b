package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/payroll"
	payrollerrors "etqan-payroll/internal/payroll/errors"
	"etqan-payroll/internal/shared/apperror"
	"etqan-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	activeEmployeesPath = "/api/employees/active"
	payrollPeriodsPath  = "/api/payroll-periods"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// ErrConflict is returned by CreatePeriod when the backend already holds a
// period for the same teacher and month.
var ErrConflict = payrollerrors.ErrPeriodAlreadyExists

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

type Options struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client talks to the dashboard backend that owns employees and payroll
// periods. It satisfies the directory, inventory, creator and query ports.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(opts Options) *Client {
	l := zap.L().Named("backend.client")
	if opts.Logger != nil {
		l = opts.Logger.Named("backend.client")
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		tokens:  opts.Tokens,
		http:    hc,
		logger:  l,
	}
}

// HTTPClient exposes the underlying client, e.g. for test interception.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) ActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	body, err := c.do(ctx, http.MethodGet, activeEmployeesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireEmployee](body)
	if err != nil {
		return nil, fmt.Errorf("decode active employees: %w", err)
	}

	emps := make([]employee.Employee, 0, len(wire))
	for _, w := range wire {
		e := w.toEmployee()
		if !e.Active {
			continue
		}
		emps = append(emps, e)
	}
	return emps, nil
}

func (c *Client) PeriodsForEmployee(ctx context.Context, teacherID string) ([]payroll.Period, error) {
	q := url.Values{}
	q.Set("teacherId", teacherID)
	return c.listPeriods(ctx, q)
}

// ListPeriods forwards search and status untouched; empty values are omitted.
func (c *Client) ListPeriods(ctx context.Context, search, status string) ([]payroll.Period, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if status != "" {
		q.Set("status", status)
	}
	return c.listPeriods(ctx, q)
}

func (c *Client) listPeriods(ctx context.Context, q url.Values) ([]payroll.Period, error) {
	body, err := c.do(ctx, http.MethodGet, payrollPeriodsPath, q, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wirePeriod](body)
	if err != nil {
		return nil, fmt.Errorf("decode payroll periods: %w", err)
	}

	periods := make([]payroll.Period, len(wire))
	for i, w := range wire {
		periods[i] = w.toPeriod()
	}
	return periods, nil
}

// CreatePeriod returns ErrConflict when the backend reports the period
// already exists, either with 409 or with a duplicate-key error body.
func (c *Client) CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.Period, error) {
	payload := wireCreatePeriod{
		TeacherID:      req.TeacherID,
		UserID:         req.UserID,
		AttendanceDays: req.AttendanceDays,
		Deductions:     req.Deductions,
		Status:         string(req.Status),
		MonthYear:      req.MonthYear,
	}

	body, err := c.do(ctx, http.MethodPost, payrollPeriodsPath, nil, payload)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && isConflict(se) {
			return payroll.Period{}, apperror.Wrap(ErrConflict, err)
		}
		return payroll.Period{}, err
	}

	created, err := decodeOne[wirePeriod](body)
	if err != nil {
		// Created but unreadable; the next inventory fetch will show it.
		c.logger.Warn("decode created payroll period failed", zap.Error(err))
		return payroll.Period{TeacherID: req.TeacherID, UserID: req.UserID, MonthYear: req.MonthYear, Status: req.Status}, nil
	}
	return created.toPeriod(), nil
}

func (c *Client) MarkPeriodPaid(ctx context.Context, id string) error {
	path := payrollPeriodsPath + "/" + url.PathEscape(id) + "/mark-paid"
	_, err := c.do(ctx, http.MethodPatch, path, nil, nil)
	return err
}

func isConflict(se *StatusError) bool {
	if se.Status == http.StatusConflict {
		return true
	}
	body := strings.ToLower(se.Body)
	return strings.Contains(body, "duplicate") || strings.Contains(body, "already exists")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	log := contextutil.GetLogger(ctx, c.logger)

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, apperror.Wrap(payrollerrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
