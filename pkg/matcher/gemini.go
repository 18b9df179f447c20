package matcher

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used for object-name resolution.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiResolver resolves a spoken object name against scanned labels with
// a single Gemini text call. The spoken name may be in any language; the
// candidate labels are the detector's class names.
type GeminiResolver struct {
	client *genai.Client
	model  string
}

// NewGeminiResolver creates a resolver backed by the Gemini API.
func NewGeminiResolver(ctx context.Context, apiKey, model string) (*GeminiResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("matcher: gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("matcher: create gemini client: %w", err)
	}

	return &GeminiResolver{client: client, model: model}, nil
}

// Resolve asks the model to pick the candidate that best matches the
// requested name. The answer is constrained to the candidate set; anything
// else is treated as no match.
func (r *GeminiResolver) Resolve(ctx context.Context, requested string, candidates []string) (string, error) {
	prompt := fmt.Sprintf(
		"A user asked for an object called %q. The detected objects are: %s.\n"+
			"Reply with exactly one detected object name that refers to the same "+
			"physical object the user asked for, accounting for synonyms and "+
			"other languages. If none of them matches, reply NONE. Reply with "+
			"the object name only, no punctuation or explanation.",
		requested, strings.Join(candidates, ", "))

	result, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("matcher: gemini request: %w", err)
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" || strings.EqualFold(answer, "NONE") {
		return "", nil
	}

	// Only accept answers from the candidate set.
	for _, c := range candidates {
		if strings.EqualFold(answer, c) {
			return c, nil
		}
	}
	return "", nil
}
