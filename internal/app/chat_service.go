package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChaymaBrk/conv-AI/internal/classify"
	"github.com/ChaymaBrk/conv-AI/internal/model"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/weather"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMessageEmpty     = errors.New("message content is empty")
	ErrUnsupportedQuery = errors.New("unsupported query type")
	ErrMessageEnqueue   = errors.New("message enqueue failed")
)

const defaultTopK = 3

type QueryClassifier interface {
	Classify(ctx context.Context, query string) (classify.Label, error)
}

type DocumentRetriever interface {
	EnsureIndexed(ctx context.Context) error
	Search(ctx context.Context, query string, k int) ([]string, error)
}

type AnswerGenerator interface {
	Answer(ctx context.Context, question string, excerpts []string) rag.Answer
}

type WeatherProvider interface {
	Fetch(ctx context.Context, q weather.Query) weather.Report
}

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type MessageStore interface {
	ListRecent(limit int) ([]model.Message, error)
}

// ChatService routes an incoming chat message to the grounded "food"
// pipeline or the weather path and records both conversational turns.
type ChatService struct {
	classifier QueryClassifier
	retriever  DocumentRetriever
	generator  AnswerGenerator
	weather    WeatherProvider
	publisher  AsyncMessagePublisher
	messages   MessageStore

	location weather.Query
	topK     int
}

func NewChatService(
	classifier QueryClassifier,
	retriever DocumentRetriever,
	generator AnswerGenerator,
	weatherProvider WeatherProvider,
	publisher AsyncMessagePublisher,
	messages MessageStore,
	location weather.Query,
	topK int,
) *ChatService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &ChatService{
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		weather:    weatherProvider,
		publisher:  publisher,
		messages:   messages,
		location:   location,
		topK:       topK,
	}
}

type ChatResult struct {
	Response string         `json:"response"`
	Label    classify.Label `json:"label"`
	Degraded bool           `json:"degraded"`
}

// HandleMessage classifies the query, produces a response on the matching
// path, and publishes the user and assistant turns for persistence.
func (s *ChatService) HandleMessage(ctx context.Context, content string) (*ChatResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	label, err := s.classifier.Classify(ctx, content)
	if err != nil {
		return nil, err
	}

	var (
		responseText string
		degraded     bool
	)
	switch label {
	case classify.LabelFood:
		responseText, degraded, err = s.answerFood(ctx, content)
		if err != nil {
			return nil, err
		}
	case classify.LabelWeather:
		report := s.weather.Fetch(ctx, s.location)
		responseText = report.Format()
		degraded = report.Degraded()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuery, label)
	}

	if degraded {
		log.Warn().Str("label", string(label)).Msg("responding with degraded answer")
	}

	if err := s.persistTurn(ctx, content, responseText); err != nil {
		return nil, err
	}

	return &ChatResult{
		Response: responseText,
		Label:    label,
		Degraded: degraded,
	}, nil
}

func (s *ChatService) answerFood(ctx context.Context, question string) (string, bool, error) {
	if err := s.retriever.EnsureIndexed(ctx); err != nil {
		return "", false, err
	}
	excerpts, err := s.retriever.Search(ctx, question, s.topK)
	if err != nil {
		return "", false, err
	}
	answer := s.generator.Answer(ctx, question, excerpts)
	return answer.Text, answer.Degraded, nil
}

func (s *ChatService) persistTurn(ctx context.Context, userContent, aiContent string) error {
	if s.publisher == nil {
		return ErrMessageEnqueue
	}
	now := time.Now()
	userMessage := model.Message{IsAI: false, Content: userContent, CreatedAt: now}
	aiMessage := model.Message{IsAI: true, Content: aiContent, CreatedAt: now}

	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return ErrMessageEnqueue
	}
	if err := s.publisher.Publish(ctx, aiMessage); err != nil {
		return ErrMessageEnqueue
	}
	return nil
}

// GetHistory returns the most recent conversation turns.
func (s *ChatService) GetHistory(limit int) ([]model.Message, error) {
	if s.messages == nil {
		return nil, ErrInvalidInput
	}
	return s.messages.ListRecent(limit)
}
