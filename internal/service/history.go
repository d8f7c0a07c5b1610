package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/repository"
)

const defaultHistoryLimit = 10

type HistoryService interface {
	Record(ctx context.Context, ownerID string, res *domain.LeadGenerationResult) error
	Recent(ctx context.Context, ownerID string, limit int) ([]domain.Run, error)
	// Get отдаёт прогон только владельцу
	Get(ctx context.Context, ownerID, runID string) (*domain.Run, error)
}

type historyService struct {
	repo   repository.RunRepository
	logger *zap.Logger
}

func NewHistoryService(repo repository.RunRepository, logger *zap.Logger) HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &historyService{repo: repo, logger: logger}
}

func (s *historyService) Record(ctx context.Context, ownerID string, res *domain.LeadGenerationResult) error {
	if res == nil {
		return domain.ErrNoLeads
	}
	if ownerID == "" {
		return domain.ErrUnauthorized
	}

	if err := s.repo.Save(ctx, domain.NewRunFromResult(ownerID, res)); err != nil {
		return fmt.Errorf("save run %s: %w", res.ID, err)
	}
	return nil
}

func (s *historyService) Recent(ctx context.Context, ownerID string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runs, err := s.repo.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *historyService) Get(ctx context.Context, ownerID, runID string) (*domain.Run, error) {
	run, err := s.repo.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	// чужой прогон выглядит как отсутствующий
	if ownerID != "" && run.OwnerID != ownerID {
		s.logger.Debug("run owner mismatch",
			zap.String("run_id", runID),
			zap.String("owner", ownerID),
		)
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}
