package llm

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/schemadoc/schemadoc/internal/errs"
)

// StatusError is the minimal shape a Provider's transport error should
// satisfy so Classify can map HTTP status codes per spec.md §4.3. Concrete
// providers (AnthropicProvider, OpenAIProvider) return errors satisfying
// this interface instead of bare *anthropic.Error / http errors, so
// classification logic lives in exactly one place.
type StatusError interface {
	error
	StatusCode() int
	RetryAfterSeconds() int // 0 if the provider did not supply one
}

// Classification is the result of mapping a raw provider error onto the
// spec.md §7 taxonomy.
type Classification struct {
	Err         *errs.AgentError
	Recoverable bool
	IsCredits   bool
	RetryAfter  time.Duration
}

// Classify maps a raw error from a Provider.Complete/Embed call to the
// spec.md §4.3 error classification table.
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out") {
		return Classification{
			Err:         errs.Wrap(errs.CodeLLMTimeout, errs.SeverityWarning, true, msg, err),
			Recoverable: true,
		}
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.StatusCode()
		retryAfter := time.Duration(statusErr.RetryAfterSeconds()) * time.Second

		if status == 402 || isCreditsMessage(msg) {
			return Classification{
				Err:       errs.Wrap(errs.CodeLLMFailed, errs.SeverityError, false, msg, err),
				IsCredits: true,
			}
		}
		if status == 408 || status == 504 {
			return Classification{Err: errs.Wrap(errs.CodeLLMTimeout, errs.SeverityWarning, true, msg, err), Recoverable: true}
		}
		if status == 429 || status == 503 {
			return Classification{
				Err:         errs.Wrap(errs.CodeLLMFailed, errs.SeverityWarning, true, msg, err),
				Recoverable: true,
				RetryAfter:  retryAfter,
			}
		}
		if status == 400 || status == 401 || status == 403 {
			return Classification{Err: errs.Wrap(errs.CodeLLMFailed, errs.SeverityError, false, msg, err)}
		}
		if status >= 500 {
			return Classification{Err: errs.Wrap(errs.CodeLLMFailed, errs.SeverityWarning, true, msg, err), Recoverable: true, RetryAfter: retryAfter}
		}
	}

	if isCreditsMessage(msg) {
		return Classification{Err: errs.Wrap(errs.CodeLLMFailed, errs.SeverityError, false, msg, err), IsCredits: true}
	}

	if msg == "" || strings.TrimSpace(msg) == "" {
		return Classification{Err: errs.Wrap(errs.CodeLLMParseFailed, errs.SeverityWarning, false, "empty response", err)}
	}

	// Unclassified provider/network errors: treat as recoverable so a
	// transient blip still gets the retry budget.
	return Classification{Err: errs.Wrap(errs.CodeLLMFailed, errs.SeverityWarning, true, msg, err), Recoverable: true}
}

// parseRetryAfterHeader parses an HTTP Retry-After header value (seconds
// form only — the LLM providers in this module never return the HTTP-date
// form).
func parseRetryAfterHeader(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
