package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/rakhadjo/vidlearn/internal/domain/ai"
	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
	"github.com/rakhadjo/vidlearn/internal/infra/ai/prompt"
)

const (
	summaryMaxTokens   = 300
	keyPointsMaxTokens = 800
	quizMaxTokens      = 1000

	keyPointCount = 5
	questionCount = 4
	optionCount   = 4
)

type Client struct {
	*openai.Client
	Model  string
	apiKey string
}

// NewClient builds the provider client. An empty apiKey is allowed; every
// call then fails with ErrNoAPIKey so the pipeline degrades to mock content.
func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, apiKey: apiKey}
}

func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

func (c *Client) model() string {
	if c.Model == "" {
		return openai.GPT3Dot5Turbo
	}
	return c.Model
}

func (c *Client) chat(ctx context.Context, system, user string, maxTokens int, temperature float32, jsonMode bool) (string, error) {
	if !c.HasCredentials() {
		return "", domai.ErrNoAPIKey
	}
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", domai.ErrQuotaExceeded
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domai.ErrMalformedOutput
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) GenerateSummary(ctx context.Context, transcript, videoTitle string) (string, error) {
	out, err := c.chat(ctx,
		prompt.GetSummarySystemPrompt(),
		prompt.GetSummaryUserPrompt(transcript, videoTitle),
		summaryMaxTokens, 0.7, false,
	)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", domai.ErrMalformedOutput
	}
	return out, nil
}

func (c *Client) GenerateKeyPoints(ctx context.Context, transcript, videoTitle string) ([]domain.KeyPoint, error) {
	out, err := c.chat(ctx,
		prompt.GetKeyPointsSystemPrompt(),
		prompt.GetKeyPointsUserPrompt(transcript, videoTitle),
		keyPointsMaxTokens, 0.7, true,
	)
	if err != nil {
		return nil, err
	}
	return decodeKeyPoints(out)
}

func (c *Client) GenerateQuiz(ctx context.Context, transcript, videoTitle string) ([]domain.QuizQuestion, error) {
	out, err := c.chat(ctx,
		prompt.GetQuizSystemPrompt(),
		prompt.GetQuizUserPrompt(transcript, videoTitle),
		quizMaxTokens, 0.8, true,
	)
	if err != nil {
		return nil, err
	}
	return decodeQuiz(out)
}

// decodeKeyPoints parses the model reply strictly: one JSON object with a
// keyPoints array of at least 5 complete items. Anything else fails closed.
func decodeKeyPoints(raw string) ([]domain.KeyPoint, error) {
	var payload struct {
		KeyPoints []domain.KeyPoint `json:"keyPoints"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrMalformedOutput, err)
	}
	if len(payload.KeyPoints) < keyPointCount {
		return nil, fmt.Errorf("%w: got %d key points, want %d", domai.ErrMalformedOutput, len(payload.KeyPoints), keyPointCount)
	}
	points := payload.KeyPoints[:keyPointCount]
	for _, p := range points {
		if p.Title == "" || p.Description == "" {
			return nil, fmt.Errorf("%w: key point with empty title or description", domai.ErrMalformedOutput)
		}
	}
	return points, nil
}

// decodeQuiz parses the model reply strictly: one JSON object with a
// questions array of at least 4 items, each with exactly 4 options and a
// correctAnswer that equals one of them. Anything else fails closed.
func decodeQuiz(raw string) ([]domain.QuizQuestion, error) {
	var payload struct {
		Questions []domain.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrMalformedOutput, err)
	}
	if len(payload.Questions) < questionCount {
		return nil, fmt.Errorf("%w: got %d questions, want %d", domai.ErrMalformedOutput, len(payload.Questions), questionCount)
	}
	questions := payload.Questions[:questionCount]
	for _, q := range questions {
		if q.QuestionText == "" || len(q.Options) != optionCount {
			return nil, fmt.Errorf("%w: question missing text or options", domai.ErrMalformedOutput)
		}
		valid := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("%w: correctAnswer not among options", domai.ErrMalformedOutput)
		}
	}
	return questions, nil
}
