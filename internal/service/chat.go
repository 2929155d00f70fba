package service

import (
	"context"
	"fmt"
	"strings"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/internal/repository"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
)

type ChatService interface {
	Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	log     *logger.Logger
	aiRepo  repository.AIRepository
	metrics *metrics.Manager
}

func NewChatService(log *logger.Logger, aiRepo repository.AIRepository, m *metrics.Manager) ChatService {
	return &chatService{
		log:     log,
		aiRepo:  aiRepo,
		metrics: m,
	}
}

// Reply answers the newest message of the history.
func (s *chatService) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := validateChatRequest(req); err != nil {
		s.metrics.RecordChatTurn(metrics.OutcomeValidation)
		return nil, err
	}

	text, err := s.aiRepo.Chat(ctx, req.SystemInstruction, req.History)
	s.metrics.RecordChatTurn(outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{Text: text}, nil
}

func validateChatRequest(req dto.ChatRequest) error {
	if strings.TrimSpace(req.SystemInstruction) == "" || len(req.History) == 0 {
		return fmt.Errorf("%w: Missing systemInstruction or history in request", model.ErrValidation)
	}
	for i, msg := range req.History {
		if msg.Role != model.ChatRoleUser && msg.Role != model.ChatRoleModel {
			return fmt.Errorf("%w: history[%d]: role must be user or model", model.ErrValidation, i)
		}
	}
	return nil
}
