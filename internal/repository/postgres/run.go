package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/repository"
)

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

var leadColumns = []string{
	"run_id", "position", "id", "name", "company", "job_title", "email", "phone",
	"location", "industry", "linkedin_url", "company_size", "score", "source_url",
	"platform", "extracted_data",
}

// Save пишет прогон и его лиды одной транзакцией
func (r *RunRepo) Save(ctx context.Context, run *domain.Run) error {
	criteria, err := json.Marshal(run.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	queries, err := json.Marshal(nonNil(run.DorkQueries))
	if err != nil {
		return fmt.Errorf("marshal dork queries: %w", err)
	}
	platforms, err := json.Marshal(run.PlatformResults)
	if err != nil {
		return fmt.Errorf("marshal platform results: %w", err)
	}
	if run.PlatformResults == nil {
		platforms = []byte("[]")
	}

	rows := make([][]any, 0, len(run.Leads))
	for i, l := range run.Leads {
		extracted, err := json.Marshal(l.ExtractedData)
		if err != nil {
			return fmt.Errorf("marshal extracted data: %w", err)
		}
		rows = append(rows, []any{
			run.ID, i, l.ID, l.Name, l.Company, l.JobTitle, l.Email, l.Phone,
			l.Location, l.Industry, l.LinkedInURL, l.CompanySize, l.Score, l.SourceURL,
			string(l.Platform), extracted,
		})
	}

	err = pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO lead_runs (id, owner_id, mode, outcome, criteria, dork_queries,
                                   platform_results, total_count, duration_ms, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `,
			run.ID, run.OwnerID, string(run.Mode), string(run.Outcome), criteria, queries,
			platforms, run.TotalCount, run.Duration.Milliseconds(), run.CreatedAt,
		)
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"leads"}, leadColumns, pgx.CopyFromRows(rows))
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateRun
		}
		return fmt.Errorf("save run: %w", err)
	}

	return nil
}

func (r *RunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	query := `
        SELECT id, owner_id, mode, outcome, criteria, dork_queries, platform_results,
               total_count, duration_ms, created_at
        FROM lead_runs
        WHERE id = $1
    `

	run, err := scanRun(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	leads, err := r.leadsByRun(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Leads = leads

	return run, nil
}

func (r *RunRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
        SELECT id, owner_id, mode, outcome, criteria, dork_queries, platform_results,
               total_count, duration_ms, created_at
        FROM lead_runs
        WHERE owner_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return runs, nil
}

func (r *RunRepo) leadsByRun(ctx context.Context, runID string) ([]domain.Lead, error) {
	query := `
        SELECT id, name, company, job_title, email, phone, location, industry,
               linkedin_url, company_size, score, source_url, platform, extracted_data
        FROM leads
        WHERE run_id = $1
        ORDER BY position
    `

	rows, err := r.db.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		var platform string
		var extracted []byte
		err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Company,
			&l.JobTitle,
			&l.Email,
			&l.Phone,
			&l.Location,
			&l.Industry,
			&l.LinkedInURL,
			&l.CompanySize,
			&l.Score,
			&l.SourceURL,
			&platform,
			&extracted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		l.Platform = domain.Platform(platform)
		if err := json.Unmarshal(extracted, &l.ExtractedData); err != nil {
			return nil, fmt.Errorf("unmarshal extracted data: %w", err)
		}
		leads = append(leads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return leads, nil
}

func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	var mode, outcome string
	var criteria, queries, platforms []byte
	var durationMs int64

	err := row.Scan(
		&run.ID,
		&run.OwnerID,
		&mode,
		&outcome,
		&criteria,
		&queries,
		&platforms,
		&run.TotalCount,
		&durationMs,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Mode = domain.ModeType(mode)
	run.Outcome = domain.Outcome(outcome)
	run.Duration = time.Duration(durationMs) * time.Millisecond

	if err := json.Unmarshal(criteria, &run.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshal criteria: %w", err)
	}
	if err := json.Unmarshal(queries, &run.DorkQueries); err != nil {
		return nil, fmt.Errorf("unmarshal dork queries: %w", err)
	}
	if err := json.Unmarshal(platforms, &run.PlatformResults); err != nil {
		return nil, fmt.Errorf("unmarshal platform results: %w", err)
	}

	return &run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ repository.RunRepository = (*RunRepo)(nil)
