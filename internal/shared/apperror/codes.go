package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeInFlight     = "IN_FLIGHT"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
