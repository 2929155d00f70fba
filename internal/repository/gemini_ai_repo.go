package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradein-estimator/config"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
	"tradein-estimator/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	operationEstimate = "estimate"
	operationChat     = "chat"
)

type AIRepository interface {
	EstimateTradeIn(ctx context.Context, profile model.BoatProfile, similar []model.ScoredRecord, photos []model.Photo) (*model.Estimate, error)
	Chat(ctx context.Context, systemInstruction string, history []model.ChatMessage) (string, error)
}

// generativeModels is the part of genai.Models the repository calls.
type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatStarter func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)

// geminiAIRepository talks to the Gemini API through the official SDK.
type geminiAIRepository struct {
	cfg            config.Gemini
	logger         *logger.Logger
	metrics        *metrics.Manager
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	models         generativeModels
	startChat      chatStarter
}

// NewGeminiAIRepository creates the SDK client and the request and token limiters.
func NewGeminiAIRepository(ctx context.Context, cfg config.Gemini, log *logger.Logger, m *metrics.Manager) (AIRepository, error) {
	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	startChat := func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
		return genAiClient.Chats.Create(ctx, model, config, history)
	}
	return newGeminiAIRepository(cfg, log, m, genAiClient.Models, startChat), nil
}

func newGeminiAIRepository(cfg config.Gemini, log *logger.Logger, m *metrics.Manager, models generativeModels, startChat chatStarter) *geminiAIRepository {
	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MaxRequestPerMinute > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.MaxRequestPerMinute)), 1)
	}

	var tokenLimiter *ratelimit.TokenLimiter
	if cfg.MaxTokenPerMinute > 0 {
		tokenLimiter = ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute)
	}

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		tokenLimiter:   tokenLimiter,
		requestLimiter: requestLimiter,
		models:         models,
		startChat:      startChat,
	}
}

func (r *geminiAIRepository) EstimateTradeIn(ctx context.Context, profile model.BoatProfile, similar []model.ScoredRecord, photos []model.Photo) (*model.Estimate, error) {
	prompt := BuildEstimatePrompt(profile, similar)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, p := range photos {
		parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(estimateSystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(r.cfg.Temperature),
	}
	if r.cfg.EnableSearch {
		genCfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	if err := r.wait(ctx, r.cfg.EstimateModel, contents); err != nil {
		return nil, err
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := r.models.GenerateContent(callCtx, r.cfg.EstimateModel, contents, genCfg)
	r.metrics.ObserveUpstream(operationEstimate, time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send estimate request to gemini", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", model.ErrUpstreamCall, err)
	}

	estimate, err := ExtractEstimate(responseText(resp))
	if err != nil {
		r.logger.WarnContext(ctx, "failed to parse estimate from gemini", logger.ErrorField(err))
		return nil, err
	}

	r.logger.InfoContext(ctx, "Trade-in estimate generated",
		logger.StringField("boat_type", string(profile.BoatType)),
		logger.IntField("similar", len(similar)),
		logger.IntField("photos", len(photos)),
		logger.IntField("low", estimate.Low),
		logger.IntField("high", estimate.High),
		logger.DurationField("elapsed", time.Since(start)),
	)
	return &estimate, nil
}

func (r *geminiAIRepository) Chat(ctx context.Context, systemInstruction string, history []model.ChatMessage) (string, error) {
	seed, turn, ok := SplitChatTurn(history)
	if !ok {
		return "", fmt.Errorf("%w: history is empty", model.ErrValidation)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	seedContents := toGenaiContents(seed)

	if err := r.wait(ctx, r.cfg.ChatModel, append(seedContents, genai.NewContentFromText(turn.Text, genai.RoleUser))); err != nil {
		return "", err
	}

	chat, err := r.startChat(ctx, r.cfg.ChatModel, genCfg, seedContents)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create gemini chat session", logger.ErrorField(err))
		return "", fmt.Errorf("%w: %w", model.ErrUpstreamCall, err)
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := chat.SendMessage(callCtx, genai.Part{Text: turn.Text})
	r.metrics.ObserveUpstream(operationChat, time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send chat message to gemini", logger.ErrorField(err))
		return "", fmt.Errorf("%w: %w", model.ErrUpstreamCall, err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", fmt.Errorf("%w: The AI model returned an empty response.", model.ErrMalformedResponse)
	}

	r.logger.DebugContext(ctx, "Chat turn answered",
		logger.IntField("seed_messages", len(seed)),
		logger.DurationField("elapsed", time.Since(start)),
	)
	return text, nil
}

// wait applies the token budget, then the request rate. Token counting is
// best effort; a failed count only skips the token budget.
func (r *geminiAIRepository) wait(ctx context.Context, modelName string, contents []*genai.Content) error {
	if r.tokenLimiter != nil {
		tokenResp, err := r.models.CountTokens(ctx, modelName, contents, nil)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to count gemini tokens", logger.ErrorField(err))
		} else {
			total := int(tokenResp.TotalTokens)
			r.logger.DebugContext(ctx, "Gemini token count",
				logger.IntField("total_tokens", total),
				logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
			)
			if err := r.tokenLimiter.Wait(ctx, total); err != nil {
				return fmt.Errorf("failed to wait for gemini token limit: %w", err)
			}
			if total > r.cfg.MaxTokenPerMinute/2 {
				r.logger.WarnContext(ctx, "Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
			}
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}
	return nil
}

func (r *geminiAIRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.cfg.Timeout)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
