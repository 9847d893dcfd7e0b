package payrollerrors

import (
	"net/http"

	"etqan-payroll/internal/shared/apperror"
)

var (
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll status filter, expected one of all, pending, pending_old, paid",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period id",
		http.StatusBadRequest,
	)
	ErrPeriodAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payroll period already exists for this teacher and month",
		http.StatusConflict,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is already paid",
		http.StatusBadRequest,
	)
	ErrTransitionInFlight = apperror.New(
		apperror.CodeInFlight,
		"payroll period is already being marked as paid",
		http.StatusConflict,
	)
	ErrTransitionFailed = apperror.New(
		apperror.CodeUpstreamError,
		"marking payroll period as paid failed, data was reloaded",
		http.StatusBadGateway,
	)
	ErrQueryFailed = apperror.New(
		apperror.CodeUpstreamError,
		"loading payroll periods failed",
		http.StatusBadGateway,
	)
	ErrBackendUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"payroll backend is unavailable",
		http.StatusServiceUnavailable,
	)
)
