// Package errs implements the error taxonomy shared by all three stages
// (spec.md §7): a stable Code, a Severity, and a Recoverable flag, carried
// on every error this module raises so callers can branch on classification
// rather than string-matching messages. It follows the same
// wrap-with-context idiom the teacher uses for database errors
// (internal/storage/sqlite/errors.go's wrapDBError), generalized to also
// carry the taxonomy fields spec.md §7 requires.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Severity classifies how an error should propagate.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Code is a machine-stable error code string (spec.md §7).
type Code string

const (
	CodePlanNotFound           Code = "DOC_PLAN_NOT_FOUND"
	CodePlanInvalid            Code = "DOC_PLAN_INVALID"
	CodePlanStale              Code = "DOC_PLAN_STALE"
	CodeDBConnectionLost       Code = "DOC_DB_CONNECTION_LOST"
	CodeWorkUnitFailed         Code = "DOC_WORK_UNIT_FAILED"
	CodeTableExtractionFailed  Code = "DOC_TABLE_EXTRACTION_FAILED"
	CodeColumnExtractionFailed Code = "DOC_COLUMN_EXTRACTION_FAILED"
	CodeSamplingTimeout        Code = "DOC_SAMPLING_TIMEOUT"
	CodeSamplingFailed         Code = "DOC_SAMPLING_FAILED"
	CodeLLMTimeout             Code = "DOC_LLM_TIMEOUT"
	CodeLLMFailed              Code = "DOC_LLM_FAILED"
	CodeLLMParseFailed         Code = "DOC_LLM_PARSE_FAILED"
	CodeTemplateNotFound       Code = "DOC_TEMPLATE_NOT_FOUND"
	CodeFileWriteFailed        Code = "DOC_FILE_WRITE_FAILED"
	CodeManifestWriteFailed    Code = "DOC_MANIFEST_WRITE_FAILED"

	CodeIndexManifestNotFound Code = "IDX_MANIFEST_NOT_FOUND"
	CodeIndexManifestInvalid  Code = "IDX_MANIFEST_INVALID"
	CodeIndexFileFailed       Code = "IDX_FILE_FAILED"
	CodeIndexEmbeddingFailed  Code = "IDX_EMBEDDING_FAILED"
	CodeIndexFatal            Code = "IDX_FATAL_ERROR"

	CodeConfigNotFound Code = "configNotFound"
	CodeConfigInvalid  Code = "configInvalid"
	CodeDBUnreachable  Code = "dbUnreachable"
	CodeLLMFailedPlan  Code = "llmFailed"
)

// AgentError is the error type every stage raises; it implements the
// standard error interface and Unwrap so errors.As/errors.Is compose with
// wrapped driver/provider errors.
type AgentError struct {
	ErrCode   Code
	Message   string
	Sev       Severity
	Recov     bool
	Timestamp time.Time
	Context   map[string]any
	cause     error
}

// New creates an AgentError with the current time as Timestamp.
func New(code Code, sev Severity, recoverable bool, message string) *AgentError {
	return &AgentError{ErrCode: code, Message: message, Sev: sev, Recov: recoverable, Timestamp: time.Now()}
}

// Wrap creates an AgentError that wraps an underlying cause.
func Wrap(code Code, sev Severity, recoverable bool, message string, cause error) *AgentError {
	return &AgentError{ErrCode: code, Message: message, Sev: sev, Recov: recoverable, Timestamp: time.Now(), cause: cause}
}

// WithContext attaches a key/value pair and returns the same error for
// chaining, e.g. errs.New(...).WithContext("table", name).
func (e *AgentError) WithContext(key string, value any) *AgentError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *AgentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *AgentError) Unwrap() error { return e.cause }

// Is allows errors.Is(err, errs.New(code, ...)) style comparisons by code.
func (e *AgentError) Is(target error) bool {
	var other *AgentError
	if errors.As(target, &other) {
		return e.ErrCode == other.ErrCode
	}
	return false
}

// CodeOf extracts the Code of err if it is (or wraps) an *AgentError.
func CodeOf(err error) (Code, bool) {
	var ae *AgentError
	if errors.As(err, &ae) {
		return ae.ErrCode, true
	}
	return "", false
}

// IsFatal reports whether err is a fatal AgentError.
func IsFatal(err error) bool {
	var ae *AgentError
	if errors.As(err, &ae) {
		return ae.Sev == SeverityFatal
	}
	return false
}
