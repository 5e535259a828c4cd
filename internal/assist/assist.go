// Package assist wraps the generative AI calls used by the editor: background
// image generation and tagline suggestions.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	imagepkg "github.com/youruser/pixelcraft/internal/image"
)

var (
	// ErrMissingAPIKey is returned before any request is made when no
	// credential is configured.
	ErrMissingAPIKey = errors.New("API_KEY environment variable is missing")
	ErrNoImageData   = errors.New("no image data found in response")
)

const (
	imageStyleSuffix = " high quality, abstract, artistic background texture, no text, 4k"
	taglineTemplate  = `Generate 3 catchy, short, modern taglines for a blog banner about: %s. Return ONLY a JSON array of strings. Example: ["Master the Art", "Future is Now", "Design Your Life"]`
)

// FallbackTaglines is returned by SuggestTaglines when the model fails.
var FallbackTaglines = []string{"Create Something Amazing", "Design Your Future", "Innovative Ideas"}

// Model is a generative backend.
type Model interface {
	// GenerateImage returns the first inline image of the response; data is
	// nil when the response carried none.
	GenerateImage(ctx context.Context, prompt string) (data []byte, mimeType string, err error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ModelFactory builds a Model for an API key.
type ModelFactory func(ctx context.Context, apiKey string) (Model, error)

// Image is a generated, still encoded image.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL returns the image as a data: URL usable as a background source.
func (i Image) DataURL() string {
	return imagepkg.DataURL(i.MIMEType, i.Data)
}

type Client struct {
	apiKey   string
	newModel ModelFactory
}

func New(apiKey string, newModel ModelFactory) *Client {
	return &Client{apiKey: apiKey, newModel: newModel}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) model(ctx context.Context) (Model, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return c.newModel(ctx, c.apiKey)
}

// GenerateBackgroundImage asks the model for an abstract background matching
// prompt.
func (c *Client) GenerateBackgroundImage(ctx context.Context, prompt string) (Image, error) {
	m, err := c.model(ctx)
	if err != nil {
		return Image{}, err
	}
	data, mimeType, err := m.GenerateImage(ctx, prompt+imageStyleSuffix)
	if err != nil {
		log.Printf("assist: image generation: %v", err)
		return Image{}, fmt.Errorf("generating image: %w", err)
	}
	if len(data) == 0 {
		log.Printf("assist: image generation: %v", ErrNoImageData)
		return Image{}, ErrNoImageData
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return Image{MIMEType: mimeType, Data: data}, nil
}

// SuggestTaglines returns short taglines for topic. Only a missing API key
// is reported as an error; any other failure yields FallbackTaglines.
func (c *Client) SuggestTaglines(ctx context.Context, topic string) ([]string, error) {
	m, err := c.model(ctx)
	if errors.Is(err, ErrMissingAPIKey) {
		return nil, err
	} else if err != nil {
		log.Printf("assist: tagline generation: %v", err)
		return fallback(), nil
	}
	text, err := m.GenerateText(ctx, fmt.Sprintf(taglineTemplate, topic))
	if err != nil {
		log.Printf("assist: tagline generation: %v", err)
		return fallback(), nil
	}
	taglines, err := ParseTaglines(text)
	if err != nil {
		log.Printf("assist: tagline response: %v", err)
		return fallback(), nil
	}
	return taglines, nil
}

// ParseTaglines decodes a JSON array of strings, ignoring markdown code
// fences around it. An empty response counts as an empty array.
func ParseTaglines(text string) ([]string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func fallback() []string {
	return append([]string(nil), FallbackTaglines...)
}
