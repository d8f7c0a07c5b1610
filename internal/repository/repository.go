package repository

import (
	"context"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// RunRepository - история прогонов. ListByOwner отдает сводки без лидов,
// новые первыми.
type RunRepository interface {
	Save(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Run, error)
}
