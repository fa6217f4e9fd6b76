package ai

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// Client wraps the Gemini SDK with a circuit breaker and a rate limiter.
// It covers the three remote calls the pipeline makes: text embedding,
// answer generation, and multimodal document transcription.
type Client struct {
	cfg         *config.Config
	client      *genai.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

type RateLimits struct {
	RPM int // Requests per minute
	RPD int // Requests per day
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(cfg.GeminiTier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10+1)

	return &Client{
		cfg:         cfg,
		client:      client,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, RPD: 250}
	}
}

// EmbedText returns an embedding vector for the given text using the
// configured embedding model.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	model := c.client.EmbeddingModel(c.cfg.EmbeddingModel)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Embedding.Values, nil
}

// Generate runs a single-shot completion for the given prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.Int("gemini.prompt_chars", len(prompt)),
		attribute.String("gemini.model", c.cfg.GenerationModel),
	)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		model := c.client.GenerativeModel(c.cfg.GenerationModel)
		model.SetTemperature(0.2)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return extractResponseText(resp)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return result.(string), nil
}

// transcribeInstruction keeps legal numbering and regional scripts intact.
// "Section 2(j)" and "Section 2j" name different provisions and must
// never be normalised into each other.
const transcribeInstruction = `You are a precise legal document transcriber. Transcribe ALL text content from this document exactly as it appears, maintaining original formatting, line breaks, and structure. Do not summarize, interpret, or modify the content. Preserve legal numbering exactly: "Section 2(j)" and "Section 2j" are distinct identifiers and must be reproduced character for character, brackets included. If the document is written in Hindi, Tamil, Telugu, Kannada, Malayalam, Sanskrit, or Urdu, produce the transcription in that same script.`

// Transcribe extracts text from a PDF or image via the multimodal model.
// The uploaded remote file is deleted after the call regardless of outcome.
func (c *Client) Transcribe(ctx context.Context, mimeType string, content []byte) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	file, err := c.client.UploadFile(ctx, "", bytes.NewReader(content), &genai.UploadFileOptions{
		MIMEType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to gemini: %w", err)
	}
	defer c.client.DeleteFile(ctx, file.Name)

	model := c.client.GenerativeModel(c.cfg.GenerationModel)
	model.SetTemperature(0.1)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(transcribeInstruction)},
	}

	resp, err := model.GenerateContent(ctx,
		genai.FileData{URI: file.URI},
		genai.Text("Transcribe all text content from this document. Maintain original formatting and structure."),
	)
	if err != nil {
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}

	return extractResponseText(resp)
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text += string(textPart)
		}
	}
	return text, nil
}

// Close the underlying SDK client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
