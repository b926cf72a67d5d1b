package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/pkg/config"
)

func TestClientEvaluate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/evaluations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "WRITING", req.Skill)
		assert.Equal(t, "Decrivez votre ville natale.", req.Prompt)

		json.NewEncoder(w).Encode(Result{
			Score:       412,
			Feedback:    map[string]string{"grammar": "Bonne maitrise des temps du passe."},
			Suggestions: []string{"Variez les connecteurs logiques."},
		})
	}))
	defer server.Close()

	client := NewClient(config.ScoringConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, nil)

	result, err := client.Evaluate(context.Background(), Request{
		Skill:        "WRITING",
		Prompt:       "Decrivez votre ville natale.",
		ResponseText: "Ma ville natale est situee au bord de la mer.",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(412), result.Score)
	assert.Equal(t, "Bonne maitrise des temps du passe.", result.Feedback["grammar"])
	assert.Len(t, result.Suggestions, 1)
}

func TestClientEvaluateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.ScoringConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)

	_, err := client.Evaluate(context.Background(), Request{Skill: "SPEAKING", Prompt: "p", ResponseAudio: "base64"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClientEvaluateNotConfigured(t *testing.T) {
	client := NewClient(config.ScoringConfig{}, nil)

	_, err := client.Evaluate(context.Background(), Request{Skill: "WRITING", Prompt: "p", ResponseText: "t"})
	require.Error(t, err)
}
