package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaymaBrk/conv-AI/internal/app"
	"github.com/ChaymaBrk/conv-AI/internal/classify"
	"github.com/ChaymaBrk/conv-AI/internal/model"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/weather"
)

type stubClassifier struct {
	label classify.Label
}

func (s stubClassifier) Classify(_ context.Context, _ string) (classify.Label, error) {
	return s.label, nil
}

type stubRetriever struct {
	excerpts []string
}

func (stubRetriever) EnsureIndexed(_ context.Context) error { return nil }

func (s stubRetriever) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return s.excerpts, nil
}

type stubGenerator struct {
	answer rag.Answer
}

func (s stubGenerator) Answer(_ context.Context, _ string, _ []string) rag.Answer {
	return s.answer
}

type stubWeather struct {
	report weather.Report
}

func (s stubWeather) Fetch(_ context.Context, _ weather.Query) weather.Report {
	return s.report
}

type recordingPublisher struct {
	published []model.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg model.Message) error {
	p.published = append(p.published, msg)
	return nil
}

type stubMessageStore struct {
	messages []model.Message
}

func (s stubMessageStore) ListRecent(_ int) ([]model.Message, error) {
	return s.messages, nil
}

func newChatRouter(label classify.Label, answer string, publisher *recordingPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewChatService(
		stubClassifier{label: label},
		stubRetriever{excerpts: []string{"excerpt"}},
		stubGenerator{answer: rag.Answer{Text: answer}},
		stubWeather{report: weather.Report{Current: &weather.CurrentReport{
			Latitude: "48.85", Longitude: "2.35", TemperatureC: 20, Condition: "Sunny",
		}}},
		publisher,
		stubMessageStore{},
		weather.Query{Latitude: "48.85", Longitude: "2.35"},
		3,
	)
	h := NewChatHandler(svc)

	r := gin.New()
	r.POST("/messages", h.HandleMessage)
	r.GET("/messages", h.GetHistory)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler_HandleMessageFood(t *testing.T) {
	publisher := &recordingPublisher{}
	r := newChatRouter(classify.LabelFood, "Simmer the tomatoes.", publisher)

	w := postJSON(t, r, "/messages", `{"content":"How do I make tomato sauce?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Simmer the tomatoes."}`, w.Body.String())

	require.Len(t, publisher.published, 2)
	assert.False(t, publisher.published[0].IsAI)
	assert.Equal(t, "How do I make tomato sauce?", publisher.published[0].Content)
	assert.True(t, publisher.published[1].IsAI)
	assert.Equal(t, "Simmer the tomatoes.", publisher.published[1].Content)
}

func TestChatHandler_HandleMessageWeather(t *testing.T) {
	publisher := &recordingPublisher{}
	r := newChatRouter(classify.LabelWeather, "", publisher)

	w := postJSON(t, r, "/messages", `{"content":"Is it sunny?"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Response, `"condition":"Sunny"`)
	require.Len(t, publisher.published, 2)
}

func TestChatHandler_HandleMessageUnsupported(t *testing.T) {
	publisher := &recordingPublisher{}
	r := newChatRouter(classify.LabelUnknown, "", publisher)

	w := postJSON(t, r, "/messages", `{"content":"Tell me a joke"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 40001, envelope.Code)
	assert.Equal(t, "Unsupported query type.", envelope.Message)
	assert.Empty(t, publisher.published)
}

func TestChatHandler_HandleMessageMissingContent(t *testing.T) {
	r := newChatRouter(classify.LabelFood, "unused", &recordingPublisher{})

	for _, body := range []string{`{}`, `{"content":""}`, `not json`} {
		w := postJSON(t, r, "/messages", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestChatHandler_HandleMessageWhitespaceContent(t *testing.T) {
	r := newChatRouter(classify.LabelFood, "unused", &recordingPublisher{})

	w := postJSON(t, r, "/messages", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_GetHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := app.NewChatService(
		stubClassifier{}, stubRetriever{}, stubGenerator{}, stubWeather{},
		&recordingPublisher{},
		stubMessageStore{messages: []model.Message{
			{ID: 1, IsAI: false, Content: "hi"},
			{ID: 2, IsAI: true, Content: "hello"},
		}},
		weather.Query{}, 0,
	)
	h := NewChatHandler(svc)

	r := gin.New()
	r.GET("/messages", h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/messages?limit=50", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Code int             `json:"code"`
		Data []model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Code)
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "hi", envelope.Data[0].Content)
	assert.True(t, envelope.Data[1].IsAI)
}
