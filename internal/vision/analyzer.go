// Package vision extracts body measurements from user photos through
// the OpenAI vision API. One request carries every photo; the response
// is parsed with the resilient extraction chain and normalized by the
// validation package.
package vision

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/reddyfit/bodyscan/internal/errors"
	"github.com/reddyfit/bodyscan/internal/extraction"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/validation"
)

const (
	defaultModel      = openai.GPT4o
	defaultMaxRetries = 3
	defaultTimeout    = 60 * time.Second
)

const measurementPrompt = `You are a body composition analyst. Study the attached photos (front, side, back where available) and estimate the subject's measurements.

Respond with ONLY a JSON object, no prose, using these keys:
  chest_circumference_cm, waist_circumference_cm, hip_circumference_cm,
  bicep_circumference_cm, thigh_circumference_cm, calf_circumference_cm,
  shoulder_width_cm, body_fat_percent, estimated_weight_kg,
  posture_rating (0-10), muscle_definition ("low"|"moderate"|"high")

All circumferences in centimeters. Omit keys you cannot estimate.`

// completionAPI is the slice of the OpenAI client the analyzer uses
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Analyzer drives photo analysis through a vision model
type Analyzer struct {
	client     completionAPI
	model      string
	maxRetries int
	limiter    *rate.Limiter
	log        *logrus.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithModel overrides the vision model
func WithModel(model string) Option {
	return func(a *Analyzer) { a.model = model }
}

// WithMaxRetries overrides the retry budget
func WithMaxRetries(n int) Option {
	return func(a *Analyzer) { a.maxRetries = n }
}

// WithRateLimit caps outbound requests per second
func WithRateLimit(rps float64, burst int) Option {
	return func(a *Analyzer) { a.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithClient injects the completion client, used in tests
func WithClient(client completionAPI) Option {
	return func(a *Analyzer) { a.client = client }
}

// NewAnalyzer creates an analyzer backed by the OpenAI API
func NewAnalyzer(apiKey string, log *logrus.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = logrus.New()
	}
	a := &Analyzer{
		client:     openai.NewClient(apiKey),
		model:      defaultModel,
		maxRetries: defaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		log:        log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of one photo analysis
type Result struct {
	Validation    validation.Result
	FinishReason  string
	ParseStrategy string
	PhotoCount    int
}

// AnalyzePhotos sends the photos to the vision model and normalizes
// the response into measurements. Photo URLs are keyed by angle; at
// least one photo is required.
func (a *Analyzer) AnalyzePhotos(ctx context.Context, photoURLs map[models.AngleType]string) (*Result, error) {
	if len(photoURLs) == 0 {
		return nil, errors.InvalidInputError("at least one photo is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: measurementPrompt},
	}
	for angle, url := range photoURLs {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: fmt.Sprintf("Photo angle: %s", angle),
		}, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url, Detail: openai.ImageURLDetailHigh},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		MaxTokens:   1000,
		Temperature: 0.1,
	}

	resp, err := a.completeWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.ExternalError(nil, "vision model returned no choices")
	}

	choice := resp.Choices[0]
	raw, strategy, err := extraction.Extract(choice.Message.Content)
	if err != nil {
		return nil, errors.ExternalError(err, "vision response was not parseable JSON")
	}

	res := &Result{
		Validation:    validation.Normalize(raw),
		FinishReason:  string(choice.FinishReason),
		ParseStrategy: strategy,
		PhotoCount:    len(photoURLs),
	}

	a.log.WithFields(logrus.Fields{
		"photos":   res.PhotoCount,
		"strategy": strategy,
		"finish":   res.FinishReason,
		"errors":   len(res.Validation.Errors),
	}).Info("Photo analysis complete")

	return res, nil
}

// completeWithRetry runs the completion with rate limiting and
// exponential backoff on transient failures.
func (a *Analyzer) completeWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var lastErr error

	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return resp, errors.ExternalError(err, "rate limiter interrupted")
		}

		resp, lastErr = a.client.CreateChatCompletion(ctx, req)
		if lastErr == nil {
			return resp, nil
		}

		if !isRetryable(lastErr) {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		a.log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"backoff": backoff,
		}).WithError(lastErr).Warn("Vision request failed, retrying")

		select {
		case <-ctx.Done():
			return resp, errors.ExternalError(ctx.Err(), "vision request cancelled")
		case <-time.After(backoff):
		}
	}

	return resp, errors.ExternalError(lastErr, "vision request failed after retries")
}

func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// network-level failures are worth one more try
	return strings.Contains(err.Error(), "connection") || strings.Contains(err.Error(), "timeout")
}

// DetectAngles classifies which angle each photo shows, fanning the
// per-photo requests out concurrently.
func (a *Analyzer) DetectAngles(ctx context.Context, photoURLs []string) (map[string]models.PhotoAngle, error) {
	results := make([]models.PhotoAngle, len(photoURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, url := range photoURLs {
		g.Go(func() error {
			angle, err := a.detectAngle(ctx, url)
			if err != nil {
				return err
			}
			results[i] = angle
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]models.PhotoAngle, len(photoURLs))
	for i, url := range photoURLs {
		out[url] = results[i]
	}
	return out, nil
}

func (a *Analyzer) detectAngle(ctx context.Context, url string) (models.PhotoAngle, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: `Classify the camera angle of this full-body photo. Respond with ONLY a JSON object: {"angle": "front"|"side"|"back", "confidence": 0.0-1.0, "is_standing": true|false}`,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: url, Detail: openai.ImageURLDetailLow},
					},
				},
			},
		},
		MaxTokens:   100,
		Temperature: 0,
	}

	resp, err := a.completeWithRetry(ctx, req)
	if err != nil {
		return models.PhotoAngle{}, err
	}
	if len(resp.Choices) == 0 {
		return models.PhotoAngle{}, errors.ExternalError(nil, "angle detection returned no choices")
	}

	raw, _, err := extraction.Extract(resp.Choices[0].Message.Content)
	if err != nil {
		return models.PhotoAngle{}, errors.ExternalError(err, "angle detection response unparseable")
	}

	angle := models.PhotoAngle{AngleType: models.AngleFront, Confidence: 0.5, IsStanding: true}
	if s, ok := raw["angle"].(string); ok {
		switch s {
		case "side":
			angle.AngleType = models.AngleSide
		case "back":
			angle.AngleType = models.AngleBack
		}
	}
	if c, ok := raw["confidence"].(float64); ok {
		angle.Confidence = c
	}
	if st, ok := raw["is_standing"].(bool); ok {
		angle.IsStanding = st
	}
	return angle, nil
}
