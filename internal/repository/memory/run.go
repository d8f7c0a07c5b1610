package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/repository"
)

// RunRepository хранит прогоны в памяти процесса. Используется, когда
// DATABASE_URL не задан, и в тестах.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[string]*domain.Run
}

func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs: make(map[string]*domain.Run),
	}
}

func (m *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return domain.ErrDuplicateRun
	}
	m.runs[run.ID] = cloneRun(run, true)
	return nil
}

func (m *RunRepository) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return cloneRun(run, true), nil
}

func (m *RunRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Run
	for _, run := range m.runs {
		if run.OwnerID == ownerID {
			out = append(out, *cloneRun(run, false))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *RunRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

func cloneRun(r *domain.Run, withLeads bool) *domain.Run {
	c := *r
	c.DorkQueries = append([]string(nil), r.DorkQueries...)
	c.PlatformResults = append([]domain.PlatformResult(nil), r.PlatformResults...)
	if withLeads {
		c.Leads = append([]domain.Lead(nil), r.Leads...)
	} else {
		c.Leads = nil
	}
	return &c
}

var _ repository.RunRepository = (*RunRepository)(nil)
