package earmark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/logging"
)

// Advice is a second opinion on an ambiguous amendment.
type Advice struct {
	IsEarmark  bool    `json:"is_earmark"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Advisor provides a second opinion when the rules-based score lands in
// the ambiguous band.
type Advisor interface {
	Advise(ctx context.Context, text string, amount float64) (Advice, error)
}

// DefaultAdvisorModel is the Gemini model used when none is configured.
const DefaultAdvisorModel = "gemini-2.0-flash"

const advisorPrompt = `You are reviewing a state budget amendment to decide whether it is an
earmark: a provision directing funds to a specific locality,
organization, or project rather than a general statewide program.

Amendment text:
%s

Extracted amount: $%.0f

Respond with JSON only, in exactly this shape:
{"is_earmark": true|false, "confidence": 0.0-1.0, "reasoning": "one sentence"}`

// maxAdvisorText caps how much amendment text goes into the prompt.
const maxAdvisorText = 2000

// GeminiAdvisor asks a Gemini model whether an amendment is an earmark.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// AdvisorOption configures a GeminiAdvisor.
type AdvisorOption func(*GeminiAdvisor)

// WithAdvisorLogger sets the advisor logger.
func WithAdvisorLogger(logger zerolog.Logger) AdvisorOption {
	return func(a *GeminiAdvisor) { a.logger = logger }
}

// NewGeminiAdvisor builds an advisor backed by the Gemini API. The key
// comes from the GOOGLE_API_KEY environment variable in practice; an
// empty key is a configuration error rather than a deferred failure.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string, opts ...AdvisorOption) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("earmark-advisor", "API key not set", nil)
	}
	if model == "" {
		model = DefaultAdvisorModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, errors.WrapAPI("gemini", 0, err)
	}

	a := &GeminiAdvisor{client: client, model: model, logger: *logging.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Advise sends the amendment to the model and parses its JSON verdict.
func (a *GeminiAdvisor) Advise(ctx context.Context, text string, amount float64) (Advice, error) {
	if len(text) > maxAdvisorText {
		text = text[:maxAdvisorText]
	}
	prompt := fmt.Sprintf(advisorPrompt, text, amount)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Advice{}, errors.WrapAPI("gemini", 0, err)
	}

	advice, err := parseAdvice(resp.Text())
	if err != nil {
		return Advice{}, err
	}

	a.logger.Debug().
		Bool("earmark", advice.IsEarmark).
		Float64("confidence", advice.Confidence).
		Msg("advisor verdict")
	return advice, nil
}

// parseAdvice extracts the JSON object from a model response, tolerating
// prose or code fences around it.
func parseAdvice(s string) (Advice, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return Advice{}, errors.WrapParse("json", "", fmt.Errorf("no JSON object in advisor response"))
	}

	var advice Advice
	if err := json.Unmarshal([]byte(s[start:end+1]), &advice); err != nil {
		return Advice{}, errors.WrapParse("json", "", err)
	}
	if advice.Confidence < 0 || advice.Confidence > 1 {
		return Advice{}, errors.WrapValidation("confidence",
			fmt.Errorf("advisor confidence %v outside [0,1]", advice.Confidence))
	}
	return advice, nil
}
