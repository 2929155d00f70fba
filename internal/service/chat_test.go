package service

import (
	"context"
	"testing"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_Reply(t *testing.T) {
	ai := &fakeAIRepo{reply: "A trailer adds roughly $1,500."}
	svc := NewChatService(logger.NewNop(), ai, nil)

	history := []model.ChatMessage{
		WelcomeMessage(lundForm(), model.AudienceCustomer),
		{Role: model.ChatRoleUser, Text: "What about the trailer?"},
	}
	resp, err := svc.Reply(context.Background(), dto.ChatRequest{SystemInstruction: "context", History: history})
	require.NoError(t, err)

	assert.Equal(t, "A trailer adds roughly $1,500.", resp.Text)
	assert.Equal(t, history, ai.gotHistory)
}

func TestChatService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.ChatRequest
	}{
		{name: "missing instruction", req: dto.ChatRequest{History: []model.ChatMessage{{Role: model.ChatRoleUser, Text: "hi"}}}},
		{name: "blank instruction", req: dto.ChatRequest{SystemInstruction: "  ", History: []model.ChatMessage{{Role: model.ChatRoleUser, Text: "hi"}}}},
		{name: "empty history", req: dto.ChatRequest{SystemInstruction: "x"}},
		{name: "unknown role", req: dto.ChatRequest{SystemInstruction: "x", History: []model.ChatMessage{{Role: "system", Text: "hi"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeAIRepo{}
			_, err := NewChatService(logger.NewNop(), ai, nil).Reply(context.Background(), tt.req)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Nil(t, ai.gotHistory)
		})
	}
}

func TestChatService_UpstreamError(t *testing.T) {
	ai := &fakeAIRepo{err: model.ErrUpstreamCall}
	_, err := NewChatService(logger.NewNop(), ai, nil).Reply(context.Background(), dto.ChatRequest{
		SystemInstruction: "x",
		History:           []model.ChatMessage{{Role: model.ChatRoleUser, Text: "hi"}},
	})
	assert.ErrorIs(t, err, model.ErrUpstreamCall)
}
