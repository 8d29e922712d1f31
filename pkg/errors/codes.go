package errors

import "net/http"

// ErrorCode identifies a specific failure category. Codes are stable strings
// so they can be asserted on by callers and emitted as metric labels.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeTimeout      ErrorCode = "COMMON_004"
	CodeRateLimit    ErrorCode = "COMMON_005"
)

// Spectrum ingestion error codes.
const (
	// CodeDataFormat marks an unsupported or malformed input file: unknown
	// extension, fewer than two columns, or fewer than ten usable rows.
	CodeDataFormat ErrorCode = "SPEC_001"

	// CodeDataType marks non-numeric content in the velocity or absorption
	// column after row selection.
	CodeDataType ErrorCode = "SPEC_002"
)

// Fitting error codes.
const (
	// CodeFitConvergence marks an optimizer that failed to converge or hit a
	// singular normal matrix. The error detail carries the attempted
	// configuration; the fitter never retries internally.
	CodeFitConvergence ErrorCode = "FIT_001"
)

// Infrastructure error codes.
const (
	CodeStorage        ErrorCode = "INFRA_001"
	CodeLLMUnavailable ErrorCode = "INFRA_002"
)

// HTTPStatus maps an ErrorCode to the HTTP status code the API layer should
// respond with. Unknown codes map to 500 so that new codes fail safe.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam, CodeDataFormat, CodeDataType:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeFitConvergence:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
