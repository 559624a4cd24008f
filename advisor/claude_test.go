package advisor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

func products() []*models.Product {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	return []*models.Product{
		models.NewProduct("2", "B 1000mL Y", 1000, decimal.NewFromInt(40), models.Deal{}, now),
		models.NewProduct("1", "A 700mL X", 700, decimal.NewFromInt(35),
			models.Deal{Type: models.DealMultiBuy, Details: "2 for $60"}, now),
	}
}

func messageResponse(text string) string {
	return `{
		"id": "msg_test",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": ` + mustJSON(text) + `}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestAdvisor(t *testing.T, baseURL string) *ClaudeAdvisor {
	t.Helper()
	a, err := NewClaudeAdvisor(Config{
		APIKey:    "sk-test",
		Model:     "claude-test",
		MaxTokens: 256,
		BaseURL:   baseURL,
	}, utils.NewNopLogger())
	require.NoError(t, err)
	return a
}

func TestClaudeAdvisor_Explain(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-Api-Key"))

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageResponse("  1. B 1000mL Y is the best value.  "))
	}))
	defer ts.Close()

	advice, err := newTestAdvisor(t, ts.URL).Explain(context.Background(), products())
	require.NoError(t, err)
	assert.Equal(t, "1. B 1000mL Y is the best value.", advice)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	encoded, _ := json.Marshal(msgs[0])
	assert.Contains(t, string(encoded), "multi-buy")
	assert.Contains(t, string(encoded), "price_per_100ml")
}

func TestClaudeAdvisor_EmptyCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageResponse("   "))
	}))
	defer ts.Close()

	_, err := newTestAdvisor(t, ts.URL).Explain(context.Background(), products())
	assert.ErrorIs(t, err, errEmptyCompletion)
}

func TestClaudeAdvisor_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	}))
	defer ts.Close()

	_, err := newTestAdvisor(t, ts.URL).Explain(context.Background(), products())
	assert.Error(t, err)
}

func TestNewClaudeAdvisorRequiresKey(t *testing.T) {
	_, err := NewClaudeAdvisor(Config{Model: "claude-test"}, utils.NewNopLogger())
	assert.Error(t, err)
}
