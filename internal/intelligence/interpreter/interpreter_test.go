package interpreter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/intelligence/interpreter"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

func sampleFit() analysis.FitResult {
	return analysis.FitResult{
		Sites: []analysis.Site{
			{IsomerShift: 0.35, QuadrupoleSplitting: 0.8, LineWidth: 0.3, RelativeArea: 60, SiteType: "Fe³⁺ (high-spin)"},
			{IsomerShift: 1.2, QuadrupoleSplitting: 2.8, LineWidth: 0.32, RelativeArea: 40, SiteType: "Fe²⁺ (high-spin)"},
		},
		Statistics: analysis.FitStatistics{ReducedChiSquared: 1.1, NDataPoints: 200, NVariables: 12},
		Model:      "lorentzian",
	}
}

type stubBackend struct {
	text string
	err  error
}

func (s *stubBackend) Complete(_ context.Context, _, _ string) (string, error) {
	return s.text, s.err
}

func TestChain_UsesAIText(t *testing.T) {
	t.Parallel()

	chain := interpreter.NewChain(config.InterpreterConfig{}, nil, nil,
		&stubBackend{text: "the sample contains magnetite"})

	out := chain.Interpret(context.Background(), sampleFit())
	assert.Equal(t, analysis.SourceAI, out.Source)
	assert.Equal(t, "the sample contains magnetite", out.Text)
	assert.Empty(t, out.FallbackReason)
}

func TestChain_FallsBackOnBackendError(t *testing.T) {
	t.Parallel()

	chain := interpreter.NewChain(config.InterpreterConfig{}, nil, nil,
		&stubBackend{err: errors.New("connection refused")})

	out := chain.Interpret(context.Background(), sampleFit())
	assert.Equal(t, analysis.SourceRules, out.Source)
	assert.Contains(t, out.FallbackReason, "connection refused")
	assert.Contains(t, out.Text, "Site 1")
	assert.Contains(t, out.Text, "Site 2")
}

func TestChain_NoAPIKeyDisablesAIPath(t *testing.T) {
	t.Parallel()

	chain := interpreter.NewChain(config.InterpreterConfig{APIKey: ""}, nil, nil, nil)

	out := chain.Interpret(context.Background(), sampleFit())
	assert.Equal(t, analysis.SourceRules, out.Source)
	assert.Equal(t, "ai backend not configured", out.FallbackReason)
	assert.NotEmpty(t, out.Text)
}

func TestRuleBasedText(t *testing.T) {
	t.Parallel()

	text := interpreter.RuleBasedText(sampleFit())

	assert.Contains(t, text, "2 site(s)")
	assert.Contains(t, text, "lorentzian")
	assert.Contains(t, text, "excellent")
	assert.Contains(t, text, "Fe³⁺ (high-spin)")
	assert.Contains(t, text, "Fe²⁺ (high-spin)")
	assert.Contains(t, text, "60.0%")

	// Out-of-table parameters get the manual-assignment wording.
	odd := sampleFit()
	odd.Sites = []analysis.Site{{IsomerShift: 3.0, RelativeArea: 100}}
	odd.Statistics.ReducedChiSquared = 5.0
	text = interpreter.RuleBasedText(odd)
	assert.Contains(t, text, "moderate")
	assert.Contains(t, text, "manual assignment is recommended")
}

func newBackendServer(t *testing.T, handler http.HandlerFunc) (interpreter.Backend, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := interpreter.NewOpenAIBackend(config.InterpreterConfig{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Model:       "gpt-4",
		MaxTokens:   300,
		Temperature: 0.4,
		Timeout:     5 * time.Second,
	})
	return backend, srv
}

func TestOpenAIBackend_Complete(t *testing.T) {
	t.Parallel()

	backend, _ := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req["model"])

		messages := req["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ferrous and ferric sites coexist"}}]}`))
	})

	text, err := backend.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "ferrous and ferric sites coexist", text)
}

func TestOpenAIBackend_ServiceError(t *testing.T) {
	t.Parallel()

	backend, _ := newBackendServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := backend.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLLMUnavailable))
}

func TestOpenAIBackend_EmptyChoices(t *testing.T) {
	t.Parallel()

	backend, _ := newBackendServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := backend.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLLMUnavailable))
}

func TestOpenAIBackend_Unreachable(t *testing.T) {
	t.Parallel()

	backend := interpreter.NewOpenAIBackend(config.InterpreterConfig{
		BaseURL: "http://127.0.0.1:1",
		APIKey:  "key",
		Timeout: time.Second,
	})

	_, err := backend.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLLMUnavailable))
}
