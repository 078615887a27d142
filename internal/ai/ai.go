package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tidwall/gjson"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// maxBlurbLen caps what we put into the description field.
const maxBlurbLen = 1200

var ErrEmptyResponse = errors.New("model returned no description")

// BlurbService drafts short catalog descriptions with Gemini.
type BlurbService struct {
	Client *genai.Client
	Model  string
}

// NewBlurbService initializes the Gemini client.
func NewBlurbService(ctx context.Context, apiKey, modelName string) (*BlurbService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModel
	}
	return &BlurbService{Client: client, Model: modelName}, nil
}

func (s *BlurbService) Close() error { return s.Client.Close() }

// DescribeBook asks the model for a two or three sentence blurb.
func (s *BlurbService) DescribeBook(ctx context.Context, title, author string) (string, error) {
	model := s.Client.GenerativeModel(s.Model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You write catalog copy for an online bookstore.
			Reply with JSON only: {"description": "..."}.
			Two or three sentences, no spoilers, no prices, no markdown.
		`)},
	}

	res, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf("Title: %s\nAuthor: %s", title, author)))
	if err != nil {
		return "", fmt.Errorf("error generating description: %w", err)
	}
	if res.UsageMetadata != nil {
		log.Printf("AI blurb for %q used %d tokens", title, res.UsageMetadata.TotalTokenCount)
	}

	var raw strings.Builder
	if len(res.Candidates) > 0 && res.Candidates[0].Content != nil {
		for _, part := range res.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				raw.WriteString(string(text))
			}
		}
	}
	return ParseBlurb(raw.String())
}

// ParseBlurb pulls the description out of a model reply. Replies that are not
// JSON, or are wrapped in a code fence, are tolerated.
func ParseBlurb(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	text := raw
	if gjson.Valid(raw) {
		text = gjson.Get(raw, "description").String()
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyResponse
	}
	if r := []rune(text); len(r) > maxBlurbLen {
		text = string(r[:maxBlurbLen])
	}
	return text, nil
}
