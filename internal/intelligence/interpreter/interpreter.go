// Package interpreter turns a converged fit into human-readable text. It is
// a two-stage chain: an external completion service when configured and
// reachable, and a deterministic rule-based summary otherwise. The chain
// itself never fails; a degraded path is recorded inside the returned
// Interpretation.
package interpreter

import (
	"context"
	"time"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// Chain is the interpretation pipeline.
type Chain struct {
	backend Backend
	logger  logging.Logger
	metrics *appprom.AppMetrics
}

// NewChain builds the chain from config. An empty API key disables the AI
// path entirely, so the chain degrades to rule-based text without issuing
// network requests. backendOverride replaces the HTTP backend in tests; pass
// nil in production.
func NewChain(cfg config.InterpreterConfig, logger logging.Logger, metrics *appprom.AppMetrics, backendOverride Backend) *Chain {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	backend := backendOverride
	if backend == nil && cfg.APIKey != "" {
		backend = NewOpenAIBackend(cfg)
	}

	return &Chain{
		backend: backend,
		logger:  logger.Named("interpreter"),
		metrics: metrics,
	}
}

// Interpret produces interpretation text for a fit. The AI path is tried
// once; any failure falls back to the rule-based summary with the reason
// recorded. There is no retry: an unavailable service should degrade the
// response immediately rather than stall the analysis.
func (c *Chain) Interpret(ctx context.Context, fit analysis.FitResult) analysis.Interpretation {
	if c.backend == nil {
		return c.fallback(fit, "ai backend not configured")
	}

	start := time.Now()
	text, err := c.backend.Complete(ctx, systemPrompt, buildPrompt(fit))
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.LLMDuration.WithLabelValues().Observe(elapsed.Seconds())
	}

	if err != nil {
		c.observeLLM("error")
		c.logger.Warn("ai interpretation failed, using rule-based fallback",
			logging.Err(err),
			logging.Duration("elapsed", elapsed),
		)
		return c.fallback(fit, err.Error())
	}

	c.observeLLM("success")
	c.observeSource(analysis.SourceAI)
	return analysis.Interpretation{Text: text, Source: analysis.SourceAI}
}

func (c *Chain) fallback(fit analysis.FitResult, reason string) analysis.Interpretation {
	c.observeSource(analysis.SourceRules)
	return analysis.Interpretation{
		Text:           RuleBasedText(fit),
		Source:         analysis.SourceRules,
		FallbackReason: reason,
	}
}

func (c *Chain) observeLLM(outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.LLMRequestsTotal.WithLabelValues(outcome).Inc()
}

func (c *Chain) observeSource(source analysis.InterpretationSource) {
	if c.metrics == nil {
		return
	}
	c.metrics.InterpreterSource.WithLabelValues(string(source)).Inc()
}
