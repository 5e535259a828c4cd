package assist

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

type gemini struct {
	client     *genai.Client
	imageModel string
	textModel  string
}

// Gemini returns a factory for models backed by the Gemini API.
func Gemini(imageModel, textModel string, httpClient *http.Client) ModelFactory {
	return func(ctx context.Context, apiKey string) (Model, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return &gemini{client: client, imageModel: imageModel, textModel: textModel}, nil
	}
}

func (g *gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, part.InlineData.MIMEType, nil
		}
	}
	return nil, "", nil
}

func (g *gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
