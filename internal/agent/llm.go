package agent

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// LLMClient wraps the Gemini API as the content-generation collaborator for
// plans and assessments.
type LLMClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewLLMClient(ctx context.Context, apiKey string) (*LLMClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.7)

	return &LLMClient{
		client: client,
		model:  model,
	}, nil
}

// GeneratePlan produces plan content in the requested representation. A
// structured plan is requested as a JSON document, a legacy plan as HTML
// markup; the caller validates the result before storing it.
func (c *LLMClient) GeneratePlan(ctx context.Context, kind, representation, currentContent, instructions string) (string, error) {
	var format, mimeType string
	if representation == "structured" {
		format = `Output MUST be a single JSON document with the shape
{"days": [{"day": "...", "exercises_or_meals": [{"name": "...", "details": "..."}]}]}.
Do not wrap it in markdown fences.`
		mimeType = "application/json"
	} else {
		format = `Use HTML for the content. Use <p>, <strong>, <em>, <ul>, <ol>, <li> tags only. Do not use Markdown.`
		mimeType = "text/plain"
	}

	var prompt string
	if currentContent == "" {
		prompt = fmt.Sprintf(`You are an experienced fitness professional.
Write a complete %s plan for a student.

Goals and constraints from the professional:
%s

%s`, kind, instructions, format)
	} else {
		prompt = fmt.Sprintf(`You are an experienced fitness professional.
Revise the following %s plan according to the feedback. Keep what works, change what the feedback asks for.

Current plan:
%s

Feedback:
%s

%s`, kind, currentContent, instructions, format)
	}

	return c.generate(ctx, mimeType, prompt)
}

// GenerateAssessment produces a free-form analysis of the given input.
func (c *LLMClient) GenerateAssessment(ctx context.Context, analysisType, input string) (string, error) {
	prompt := fmt.Sprintf(`You are an experienced fitness professional.
Perform a %s assessment of the following student data and summarize your findings
in short paragraphs a student can understand.

%s`, analysisType, input)

	return c.generate(ctx, "text/plain", prompt)
}

// generate runs the prompt against a per-call copy of the model, so
// concurrent requests can set different response MIME types without racing
// on the shared configuration.
func (c *LLMClient) generate(ctx context.Context, mimeType, prompt string) (string, error) {
	model := *c.model
	model.ResponseMIMEType = mimeType

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

func (c *LLMClient) Close() {
	c.client.Close()
}
