package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
)

// Label is the closed set of categories a query can be routed to.
// Anything the model emits outside the known set maps to LabelUnknown;
// callers must treat that as an unsupported query, never as a category.
type Label string

const (
	LabelFood    Label = "food"
	LabelWeather Label = "weather"
	LabelUnknown Label = "unknown"
)

const classifyPromptFormat = "Classify the following query as either 'food' or 'weather': %s"

// ParseLabel normalizes free-text model output into a Label. The model
// tends to decorate its answer with casing, quotes or a trailing period,
// so those are stripped before matching.
func ParseLabel(raw string) Label {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, `"'.!`)
	switch s {
	case "food":
		return LabelFood
	case "weather":
		return LabelWeather
	default:
		return LabelUnknown
	}
}

// Classifier labels a free-text query with a single chat-completion call.
// It is probabilistic: there is no confidence threshold and no
// deterministic fallback beyond LabelUnknown.
type Classifier struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.ChatConfig
}

func NewClassifier(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig) *Classifier {
	return &Classifier{client: client, cfg: cfg}
}

func (c *Classifier) Classify(ctx context.Context, query string) (Label, error) {
	messages := []ai.ChatMessage{
		{Role: "user", Content: fmt.Sprintf(classifyPromptFormat, query)},
	}
	raw, err := c.client.Complete(ctx, c.cfg, messages)
	if err != nil {
		return LabelUnknown, fmt.Errorf("classify query failed: %w", err)
	}
	return ParseLabel(raw), nil
}
