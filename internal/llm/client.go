// Package llm implements the LLM Client contract of spec.md §4.3: a
// complete()/embed() interface with error classification, retry with
// backoff, provider fallback, and embedding chunk-and-average for oversize
// inputs. The retry/backoff shape and token-usage instrumentation are
// generalized from the teacher's internal/compact/haiku.go, which performs
// the same dance (manual retry loop, *anthropic.Error status
// classification, OTel counters) for a single hardcoded prompt.
package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/schemadoc/schemadoc/internal/audit"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/telemetry"
)

// TokenUsage mirrors the {prompt, completion, total} token breakdown
// spec.md §4.3 requires complete() to return.
type TokenUsage struct {
	Prompt     int64
	Completion int64
	Total      int64
}

// CompleteResult is the contract's complete() return shape.
type CompleteResult struct {
	Content      string
	Tokens       TokenUsage
	UsedFallback bool
	ActualModel  string
}

// CompleteOptions carries the rarely-varying knobs of a completion call.
type CompleteOptions struct {
	MaxTokens int
	Actor     string // for audit attribution
	Operation string // for audit/telemetry labeling, e.g. "column-description"
}

// Provider is the minimal shape a concrete LLM backend implements. Client
// composes two Providers (primary + fallback) with the retry/fallback
// policy spec.md §4.3 specifies.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt, model string, maxTokens int) (content string, usage TokenUsage, err error)
	Embed(ctx context.Context, texts []string, model string) ([][]float32, error)
}

// Policy is the retry/fallback policy object Design Notes §9 calls for
// ("Decorator-like retry wrappers ... expressed as a policy object").
type Policy struct {
	MaxRetries      int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	FallbackEnabled bool
}

// DefaultPolicy matches spec.md §4.3's stated defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      2,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      30 * time.Second,
		FallbackEnabled: true,
	}
}

// Client is the concrete LLM Client: a primary provider, an optional
// fallback provider, and the policy governing retries between them.
type Client struct {
	Primary       Provider
	Fallback      Provider
	Policy        Policy
	PrimaryModel  string
	FallbackModel string

	metricsOnce sync.Once
	metrics     *callMetrics
}

type callMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

func (c *Client) ensureMetrics() *callMetrics {
	c.metricsOnce.Do(func() {
		m := telemetry.Meter("github.com/schemadoc/schemadoc/llm")
		cm := &callMetrics{}
		cm.inputTokens, _ = m.Int64Counter("schemadoc.llm.input_tokens", metric.WithDescription("LLM input tokens consumed"), metric.WithUnit("{token}"))
		cm.outputTokens, _ = m.Int64Counter("schemadoc.llm.output_tokens", metric.WithDescription("LLM output tokens generated"), metric.WithUnit("{token}"))
		cm.duration, _ = m.Float64Histogram("schemadoc.llm.request.duration", metric.WithDescription("LLM request duration"), metric.WithUnit("ms"))
		c.metrics = cm
	})
	return c.metrics
}

// Complete implements spec.md §4.3's complete(), including credits
// short-circuit, retry-with-backoff, and single-attempt fallback.
func (c *Client) Complete(ctx context.Context, prompt, model string, opts CompleteOptions) (CompleteResult, error) {
	tracer := telemetry.Tracer("github.com/schemadoc/schemadoc/llm")
	ctx, span := tracer.Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(attribute.String("schemadoc.llm.model", model), attribute.String("schemadoc.llm.operation", opts.Operation))

	metrics := c.ensureMetrics()
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	content, usage, callErr := c.callWithRetry(ctx, c.Primary, prompt, model, maxTokens, metrics)
	result := CompleteResult{Content: content, Tokens: usage, ActualModel: model}

	if callErr != nil && c.Policy.FallbackEnabled && c.Fallback != nil {
		fbModel := c.FallbackModel
		if fbModel == "" {
			fbModel = model
		}
		fbPolicy := c.Policy
		fbPolicy.MaxRetries = 0 // the fallback gets exactly one attempt
		fb := &Client{Policy: fbPolicy}
		fbContent, fbUsage, fbErr := fb.callWithRetry(ctx, c.Fallback, prompt, fbModel, maxTokens, metrics)
		if fbErr == nil {
			result = CompleteResult{Content: fbContent, Tokens: fbUsage, UsedFallback: true, ActualModel: fbModel}
			callErr = nil
		} else {
			callErr = errors.Join(callErr, fbErr)
		}
	}

	if callErr != nil {
		span.RecordError(callErr)
		span.SetStatus(codes.Error, callErr.Error())
	}

	auditEntry := &audit.Entry{
		Kind:      "llm_call",
		Actor:     opts.Actor,
		Model:     result.ActualModel,
		Operation: opts.Operation,
		Prompt:    prompt,
		Response:  result.Content,
	}
	if callErr != nil {
		auditEntry.Error = callErr.Error()
	}
	_, _ = audit.Append(auditEntry) // best effort: audit logging must never fail the caller

	return result, callErr
}

// callWithRetry runs the non-credits retry loop against a single provider.
// Credits errors and parse failures bypass the loop entirely (handled by
// classify + the caller above: a credits error is non-retryable on this
// provider and falls straight through to Client.Complete's fallback path).
func (c *Client) callWithRetry(ctx context.Context, p Provider, prompt, model string, maxTokens int, metrics *callMetrics) (string, TokenUsage, error) {
	if p == nil {
		return "", TokenUsage{}, errs.New(errs.CodeLLMFailed, errs.SeverityError, false, "no provider configured")
	}

	// Built as a struct literal rather than NewExponentialBackOff() + field
	// overrides: Reset() runs at construction time and seeds currentInterval
	// from InitialInterval, so overriding InitialInterval afterward would not
	// take effect until the first NextBackOff() call recomputed it.
	bo := &backoff.ExponentialBackOff{
		InitialInterval:     c.Policy.InitialBackoff,
		MaxInterval:         c.Policy.MaxBackoff,
		Multiplier:          2.0, // spec.md's doubling formula, not the library's 1.5x default
		RandomizationFactor: 0,   // unjittered, per spec.md's exact delay formula
		MaxElapsedTime:      0,   // the attempt count below is the only cutoff
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	bo.Reset()

	var lastErr error
	for attempt := 0; attempt <= c.Policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(bo, c.Policy, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", TokenUsage{}, ctx.Err()
			}
		}

		t0 := time.Now()
		content, usage, err := p.Complete(ctx, prompt, model, maxTokens)
		ms := float64(time.Since(t0).Milliseconds())

		if err == nil {
			modelAttr := attribute.String("schemadoc.llm.model", model)
			if metrics.inputTokens != nil {
				metrics.inputTokens.Add(ctx, usage.Prompt, metric.WithAttributes(modelAttr))
				metrics.outputTokens.Add(ctx, usage.Completion, metric.WithAttributes(modelAttr))
				metrics.duration.Record(ctx, ms, metric.WithAttributes(modelAttr))
			}
			return content, usage, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", TokenUsage{}, ctx.Err()
		}

		class := Classify(err)
		if class.IsCredits || !class.Recoverable {
			// Credits errors trigger immediate fallback (no retry on this
			// provider); non-recoverable errors never retry either.
			return "", TokenUsage{}, class.Err
		}
		lastErr = class.Err
	}
	return "", TokenUsage{}, lastErr
}

// backoffDelay honors a provider-reported Retry-After first, then falls
// back to bo's exponential schedule, which carries the attempt state
// across calls for the duration of one callWithRetry loop.
func backoffDelay(bo *backoff.ExponentialBackOff, policy Policy, lastErr error) time.Duration {
	class := Classify(lastErr)
	if class.RetryAfter > 0 {
		d := class.RetryAfter
		if d > policy.MaxBackoff {
			d = policy.MaxBackoff
		}
		return d
	}
	d := bo.NextBackOff()
	if d == backoff.Stop {
		return policy.MaxBackoff
	}
	return d
}

// Embed implements spec.md §4.3's embed(), delegating chunking/batching to
// embedTexts and routing to the primary provider (embeddings have no
// fallback path in this specification). The result is index-aligned with
// texts; EmbedSlot.Present is false for empty/whitespace inputs.
func (c *Client) Embed(ctx context.Context, texts []string, model string) ([]EmbedSlot, error) {
	return embedTexts(ctx, c.Primary, texts, model)
}

// isCreditsMessage reports whether an error message matches the
// credits/insufficient-funds pattern spec.md §4.3 specifies.
func isCreditsMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "credits") || strings.Contains(lower, "insufficient") || strings.Contains(lower, "can only afford")
}
