package classify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want Label
	}{
		{"food", LabelFood},
		{"weather", LabelWeather},
		{"Food", LabelFood},
		{"WEATHER", LabelWeather},
		{" weather \n", LabelWeather},
		{`"food"`, LabelFood},
		{"'weather'", LabelWeather},
		{"food.", LabelFood},
		{"Weather!", LabelWeather},
		{"", LabelUnknown},
		{"sports", LabelUnknown},
		{"food and weather", LabelUnknown},
		{"the query is about food", LabelUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLabel(tc.raw))
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	// The stub model answers by keyword so routing can be asserted
	// end to end through the prompt format.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Messages []ai.ChatMessage `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Len(t, req.Messages, 1)
		prompt := req.Messages[0].Content
		require.Contains(t, prompt, "Classify the following query as either 'food' or 'weather': ")

		label := "other"
		lowered := strings.ToLower(prompt)
		for _, kw := range []string{"rain", "sunny", "forecast"} {
			if strings.Contains(lowered, kw) {
				label = "Weather."
			}
		}
		for _, kw := range []string{"recipe", "tomatoes", "dinner"} {
			if strings.Contains(lowered, kw) {
				label = "'food'"
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": label}},
			},
		})
	}))
	defer srv.Close()

	classifier := NewClassifier(ai.NewOpenAICompatibleClient(), ai.ChatConfig{
		BaseURL: srv.URL,
		Model:   "test-model",
	})

	cases := []struct {
		query string
		want  Label
	}{
		{"Will it rain tomorrow in Paris?", LabelWeather},
		{"What's a good recipe with tomatoes?", LabelFood},
		{"Tell me a joke", LabelUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			label, err := classifier.Classify(context.Background(), tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, label)
		})
	}
}

func TestClassifier_ClassifyUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	classifier := NewClassifier(ai.NewOpenAICompatibleClient(), ai.ChatConfig{
		BaseURL: srv.URL,
		Model:   "test-model",
	})

	label, err := classifier.Classify(context.Background(), "Will it rain?")
	require.Error(t, err)
	assert.Equal(t, LabelUnknown, label)
}
