package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"server/config"
	"server/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnalysisResult(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr bool
	}{
		{
			name: "valid result decodes",
			raw: `{
				"disc_analysis": {"d": {"count": 2, "description": "Лидеры"}},
				"eq_analysis": {"average_score": 3.5, "strong_areas": ["empathy"], "weak_areas": []},
				"compatibility": {"score": 78, "conflict_warnings": [], "synergy_pairs": ["A+B"]},
				"recommendations": {"individual": [{"name": "A", "advice": "..."}], "team": ["..."]}
			}`,
			expectErr: false,
		},
		{
			name:      "sparse result decodes with zero values",
			raw:       `{}`,
			expectErr: false,
		},
		{
			name:      "semantic error key fails",
			raw:       `{"error": "not enough data"}`,
			expectErr: true,
		},
		{
			name:      "unparseable content fails",
			raw:       `DISC report: the team looks fine`,
			expectErr: true,
		},
		{
			name:      "schema mismatch fails",
			raw:       `{"compatibility": {"score": "high"}}`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeAnalysisResult([]byte(tt.raw))

			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, IsCode(err, ErrorModelFault))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
		})
	}
}

func TestDecodeAnalysisResult_ErrorMessageSurfaced(t *testing.T) {
	_, err := DecodeAnalysisResult([]byte(`{"error": "not enough data"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough data")
}

func newChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func testClientConfig(baseURL string) config.Config {
	return config.Config{
		ModelAPIKey:     "test-key",
		ModelBaseURL:    baseURL,
		ModelName:       "test-model",
		AnalysisTimeout: 5 * time.Second,
	}
}

func TestTeamAnalysisClient_AnalyzeTeam(t *testing.T) {
	content := `{"compatibility": {"score": 64, "conflict_warnings": [], "synergy_pairs": []}}`
	server := newChatServer(t, http.StatusOK, content)
	defer server.Close()

	client, err := NewTeamAnalysisClient(testClientConfig(server.URL))
	require.NoError(t, err)

	result, err := client.AnalyzeTeam(context.Background(), models.TeamPayload{
		TeamSize: 3,
		Industry: "IT",
	})

	require.NoError(t, err)
	assert.Equal(t, 64, result.Compatibility.Score)
}

func TestTeamAnalysisClient_HTTPFaultBecomesModelFault(t *testing.T) {
	server := newChatServer(t, http.StatusBadRequest, "")
	defer server.Close()

	client, err := NewTeamAnalysisClient(testClientConfig(server.URL))
	require.NoError(t, err)

	_, err = client.AnalyzeTeam(context.Background(), models.TeamPayload{})

	require.Error(t, err)
	assert.True(t, IsCode(err, ErrorModelFault))
}

func TestTeamAnalysisClient_ErrorKeyBecomesModelFault(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"error": "empty team"}`)
	defer server.Close()

	client, err := NewTeamAnalysisClient(testClientConfig(server.URL))
	require.NoError(t, err)

	_, err = client.AnalyzeTeam(context.Background(), models.TeamPayload{})

	require.Error(t, err)
	assert.True(t, IsCode(err, ErrorModelFault))
}

func TestNewTeamAnalysisClient_RequiresAPIKey(t *testing.T) {
	_, err := NewTeamAnalysisClient(config.Config{})
	require.Error(t, err)
}
