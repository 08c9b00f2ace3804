package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
)

const (
	maxExcerpts      = 3
	excerptSeparator = "\n\n------------------------------------------------------\n\n"
	fallbackAnswer   = "Unable to generate a response at this time."

	responderSystemPrompt = "You are an expert assistant. Based on the user's question and relevant excerpts from the documents, provide an accurate response. Include references to the excerpts wherever applicable."
)

// Answer distinguishes genuine model output from the canned fallback the
// generator returns when the completion call fails, so callers and tests
// can tell the two apart.
type Answer struct {
	Text     string `json:"text"`
	Degraded bool   `json:"degraded"`
	Cause    string `json:"cause,omitempty"`
}

// Responder turns a question plus retrieved excerpts into a grounded
// answer via a chat-completion call.
type Responder struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.ChatConfig
}

func NewResponder(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig) *Responder {
	return &Responder{client: client, cfg: cfg}
}

// Answer joins up to 3 excerpts with a fixed separator and asks the model
// to respond using them. A failed completion never propagates: the result
// carries the fallback text with Degraded set.
func (r *Responder) Answer(ctx context.Context, question string, excerpts []string) Answer {
	if len(excerpts) > maxExcerpts {
		excerpts = excerpts[:maxExcerpts]
	}
	joined := strings.Join(excerpts, excerptSeparator)

	messages := []ai.ChatMessage{
		{Role: "system", Content: responderSystemPrompt},
		{Role: "user", Content: "User Question: " + question + "\n\nRelevant Excerpts:\n\n" + joined},
	}

	text, err := r.client.Complete(ctx, r.cfg, messages)
	if err != nil {
		log.Warn().Err(err).Msg("answer generation degraded to fallback")
		return Answer{Text: fallbackAnswer, Degraded: true, Cause: err.Error()}
	}
	return Answer{Text: strings.TrimSpace(text)}
}
