package errors

// ErrorCode is the typed identifier for a failure category.  Codes are grouped
// by layer: 1xxx generic, 2xxx evaluation domain, 3xxx infrastructure.
type ErrorCode int

const (
	// CodeOK is the zero value and means "no error".
	CodeOK ErrorCode = 0

	// ── Generic ──────────────────────────────────────────────────────────────
	CodeUnknown      ErrorCode = 1000
	CodeInvalidInput ErrorCode = 1001
	CodeNotFound     ErrorCode = 1002
	CodeInternal     ErrorCode = 1003

	// ── Evaluation domain ────────────────────────────────────────────────────
	CodeEmptyBatch           ErrorCode = 2001
	CodeReportNotFound       ErrorCode = 2002
	CodeEmbeddingUnavailable ErrorCode = 2003

	// ── Infrastructure ───────────────────────────────────────────────────────
	CodeDatabaseError  ErrorCode = 3001
	CodeCacheError     ErrorCode = 3002
	CodeMessagingError ErrorCode = 3003
	CodeStorageError   ErrorCode = 3004
	CodeConfigError    ErrorCode = 3005
)

// String returns the symbolic name of the code for logs and API payloads.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidInput:
		return "INVALID_INPUT"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeInternal:
		return "INTERNAL"
	case CodeEmptyBatch:
		return "EMPTY_BATCH"
	case CodeReportNotFound:
		return "REPORT_NOT_FOUND"
	case CodeEmbeddingUnavailable:
		return "EMBEDDING_UNAVAILABLE"
	case CodeDatabaseError:
		return "DATABASE_ERROR"
	case CodeCacheError:
		return "CACHE_ERROR"
	case CodeMessagingError:
		return "MESSAGING_ERROR"
	case CodeStorageError:
		return "STORAGE_ERROR"
	case CodeConfigError:
		return "CONFIG_ERROR"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus maps an ErrorCode to the HTTP status the API layer should emit.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return 200
	case CodeInvalidInput, CodeEmptyBatch:
		return 400
	case CodeNotFound, CodeReportNotFound:
		return 404
	case CodeEmbeddingUnavailable:
		return 503
	default:
		return 500
	}
}
