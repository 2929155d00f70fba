// Package client talks to a running estimator server the way the web UI
// does, including its degraded-mode fallbacks.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/httpclient"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/middleware"
)

// ChatApology replaces a model reply that could not be obtained.
const ChatApology = "Sorry, I encountered a technical issue and can't respond right now."

type Client struct {
	http httpclient.HTTPClient
	log  *logger.Logger

	mu        sync.Mutex
	sessionID string
}

func New(log *logger.Logger, httpClient httpclient.HTTPClient) *Client {
	return &Client{http: httpClient, log: log}
}

// SessionID is the server assigned session, empty before the first call.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// GetTradeInEstimate never fails: any error yields a degraded estimate whose
// reasoning explains the problem.
func (c *Client) GetTradeInEstimate(ctx context.Context, form dto.TradeInFormRequest, images []dto.ImagePart, audience model.Audience) model.Estimate {
	var est model.Estimate
	req := dto.EstimateRequest{FormData: &form, ImageParts: images}
	if err := c.post(ctx, "/api/estimate?audience="+string(audience), req, &est); err != nil {
		c.log.WarnContext(ctx, "Error getting trade-in estimate", logger.ErrorField(err))
		return model.DegradedEstimate(err)
	}
	if est.Comparables == nil {
		est.Comparables = []model.Comparable{}
	}
	if est.ValueAddingFeatures == nil {
		est.ValueAddingFeatures = []string{}
	}
	if est.PotentialDeductions == nil {
		est.PotentialDeductions = []string{}
	}
	return est
}

// PostChatMessage returns the model reply, or ChatApology when there is none.
func (c *Client) PostChatMessage(ctx context.Context, systemInstruction string, history []model.ChatMessage) string {
	var resp dto.ChatResponse
	req := dto.ChatRequest{SystemInstruction: systemInstruction, History: history}
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		c.log.WarnContext(ctx, "Error posting chat message", logger.ErrorField(err))
		return ChatApology
	}
	return resp.Text
}

func (c *Client) ValidateStep(ctx context.Context, step int, form dto.TradeInFormRequest) (*dto.ValidateFormResponse, error) {
	var resp dto.ValidateFormResponse
	if err := c.post(ctx, "/api/form/validate", dto.ValidateFormRequest{Step: step, FormData: form}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RequestAppraisal(ctx context.Context, form dto.TradeInFormRequest, est model.Estimate) error {
	return c.post(ctx, "/api/appraisal", dto.AppraisalRequest{FormData: &form, Estimate: est}, nil)
}

// DownloadEstimateLog fetches this session's CSV log.
func (c *Client) DownloadEstimateLog(ctx context.Context, audience model.Audience) (string, error) {
	resp, err := c.http.Get(ctx, "/api/estimate-log", map[string]string{"audience": string(audience)}, c.headers(), nil)
	if err != nil {
		return "", err
	}
	c.rememberSession(resp)
	if !resp.IsSuccess() {
		return "", responseError(resp)
	}
	return string(resp.Body), nil
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	resp, err := c.http.Post(ctx, endpoint, body, c.headers(), result)
	if err != nil {
		return err
	}
	c.rememberSession(resp)
	if !resp.IsSuccess() {
		return responseError(resp)
	}
	return nil
}

func (c *Client) headers() map[string]string {
	if id := c.SessionID(); id != "" {
		return map[string]string{middleware.HeaderSessionID: id}
	}
	return nil
}

func (c *Client) rememberSession(resp *httpclient.BaseResponse) {
	if resp.Headers == nil {
		return
	}
	if id := resp.Headers.Get(middleware.HeaderSessionID); id != "" {
		c.mu.Lock()
		c.sessionID = id
		c.mu.Unlock()
	}
}

func responseError(resp *httpclient.BaseResponse) error {
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Error != "" {
		return errors.New(body.Error)
	}
	return fmt.Errorf("server responded with %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
