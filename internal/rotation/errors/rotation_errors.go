package rotationerrors

import (
	"net/http"

	"etqan-payroll/internal/shared/apperror"
)

var (
	ErrDirectoryUnavailable = apperror.New(
		apperror.CodeUpstreamError,
		"active employee directory is unavailable, rotation aborted",
		http.StatusBadGateway,
	)
	ErrRunInFlight = apperror.New(
		apperror.CodeInFlight,
		"a payroll rotation is already running",
		http.StatusConflict,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"rotation run not found",
		http.StatusNotFound,
	)
)
