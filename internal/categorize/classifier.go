package categorize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Classifier labels a transaction description with a category drawn from a
// fixed list. Implementations may fail or return text outside the list;
// callers must treat either case as Other.
type Classifier interface {
	Categorize(ctx context.Context, description string, categories []string) (string, error)
}

const categorizePrompt = `You are a financial transaction categorizer. Analyze the transaction description and assign it to the most appropriate category, focusing on the primary purpose of the transaction.

Categorize this transaction description into EXACTLY ONE of these categories:
%s

Rules:
- Choose exactly one category
- Respond ONLY with the category name, nothing else
- If unsure, use 'Other'

Transaction Description: %s`

// GeminiClassifier categorizes descriptions with a Gemini text prompt, one
// call per description.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates the client using ambient credentials
// (GEMINI_API_KEY or application default credentials).
func NewGeminiClassifier(ctx context.Context, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

// Categorize asks the model for a single category name. The raw response is
// returned untrimmed and unvalidated; the workflow owns validation.
func (c *GeminiClassifier) Categorize(ctx context.Context, description string, categories []string) (string, error) {
	prompt := fmt.Sprintf(categorizePrompt, strings.Join(categories, ", "), description)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
