package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/codeset/codeset/internal/platform/respond"
)

// systemPrompt pins the assistant to code-set-building help. Client-supplied
// system messages are stripped so it cannot be overridden.
const systemPrompt = `You are the Medical Code Set Builder Assistant.
You ONLY help users identify good starting points for creating clinical code sets.
You support:
- interpreting medical terms or codes
- suggesting related concepts to search
- choosing likely vocabularies/domains
- recommending refined or alternative search terms

You MUST stay strictly on medical code-related topics.
If a user asks anything unrelated (weather, politics, jokes, personal advice, etc.), reply:
"I can only help with medical code set questions. Please provide a clinical term or code."

Do NOT provide medical advice, diagnoses, or treatment recommendations.

You work only with these OMOP vocabularies and domains:

- Condition: ICD10CM, ICD9CM, SNOMED
- Drug: NDC, RxNorm, ATC
- Procedure: CPT4, HCPCS
- Measurement: LOINC
- Observation: SNOMED

IMPORTANT: When identifying medical codes, ALWAYS specify which OMOP domain they belong to (Condition, Drug, Procedure, Measurement, or Observation).

Whenever possible, include medical code(s)/domain(s) in your response.

When input is unclear, ask focused clarifying questions ONLY about medical terminology.
Keep responses concise, neutral, and domain-specific.`

const (
	defaultModel = openai.GPT4oMini
	maxTokens    = 500
	temperature  = 0.7
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the assistant's answer with token accounting.
type Reply struct {
	Message string `json:"message"`
	Usage   Usage  `json:"usage"`
}

// Usage mirrors the completion token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// completionAPI is the slice of the OpenAI client the service needs.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service proxies chat turns to an OpenAI-compatible API with the fixed
// system prompt prepended.
type Service struct {
	client completionAPI
	model  string
	logger zerolog.Logger
}

// NewService creates the assistant. apiKey may be empty; Chat then refuses.
func NewService(apiKey, model string, logger zerolog.Logger) *Service {
	s := &Service{model: model, logger: logger}
	if s.model == "" {
		s.model = defaultModel
	}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Chat forwards the conversation and returns the assistant's reply.
func (s *Service) Chat(ctx context.Context, messages []Message) (*Reply, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: assistant is not configured", respond.ErrUpstream)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: messages array is required", respond.ErrInvalidInput)
	}
	for _, m := range messages {
		if m.Role != openai.ChatMessageRoleUser && m.Role != openai.ChatMessageRoleAssistant &&
			m.Role != openai.ChatMessageRoleSystem {
			return nil, fmt.Errorf("%w: unknown message role %q", respond.ErrInvalidInput, m.Role)
		}
	}

	chat := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chat = append(chat, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		if m.Role == openai.ChatMessageRoleSystem {
			continue
		}
		chat = append(chat, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    chat,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}

	reply := &Reply{
		Message: "I apologize, but I was unable to generate a response.",
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		reply.Message = resp.Choices[0].Message.Content
	}
	s.logger.Debug().Int("total_tokens", reply.Usage.TotalTokens).Msg("assistant reply generated")
	return reply, nil
}
