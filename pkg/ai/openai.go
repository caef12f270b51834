package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campushub",
		Subsystem: "ai",
		Name:      "description_duration_seconds",
		Help:      "Duration of AI description requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campushub",
		Subsystem: "ai",
		Name:      "description_failures_total",
		Help:      "Number of AI description failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI describer.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIDescriber implements Describer against the OpenAI chat completion API.
type OpenAIDescriber struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIDescriber builds a describer using the provided configuration.
func NewOpenAIDescriber(cfg OpenAIConfig) (*OpenAIDescriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIDescriber{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/campushub-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// Describe asks the model for a plain-text description.
func (d *OpenAIDescriber) Describe(parent context.Context, req DescriptionRequest) (string, error) {
	ctx, span := d.tracer.Start(parent, "openai.describe", trace.WithAttributes(
		attribute.String("model", d.cfg.Model),
		attribute.String("subject", string(req.Subject)),
	))
	defer span.End()

	start := time.Now()
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.cfg.Model,
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
	})
	aiDuration.WithLabelValues(d.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(d.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai describe: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(d.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(req DescriptionRequest) string {
	builder := strings.Builder{}
	switch req.Subject {
	case SubjectEvent:
		builder.WriteString("You are an event coordinator. Write a catchy and informative description (approx 50-70 words) for a campus event.\n\n")
		builder.WriteString("Event Title: ")
		builder.WriteString(req.Title)
		builder.WriteString("\nCategory: ")
		builder.WriteString(req.Category)
		builder.WriteString("\n\nTone: Exciting, Inviting. Do not use markdown formatting.")
	default:
		builder.WriteString("You are an academic curriculum developer. Write a concise but professional course syllabus description (approx 60-80 words) for a university catalog.\n\n")
		builder.WriteString("Course Title: ")
		builder.WriteString(req.Title)
		builder.WriteString("\nDepartment: ")
		builder.WriteString(req.Category)
		builder.WriteString("\n\nInclude key learning outcomes or topics covered.\nTone: Formal, Educational. Do not use markdown formatting.")
	}
	return builder.String()
}
