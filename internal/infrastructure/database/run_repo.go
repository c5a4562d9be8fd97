package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

var _ output.RunRepository = (*RunRepository)(nil)

type RunRepository struct {
	pool              *pgxpool.Pool
	participationRepo *ParticipationRepository
}

func NewRunRepository(pool *pgxpool.Pool, participationRepo *ParticipationRepository) *RunRepository {
	return &RunRepository{pool: pool, participationRepo: participationRepo}
}

const runColumns = `id, start_date, end_date, runner_id, created_at, updated_at`

func (r *RunRepository) Create(ctx context.Context, run *entities.Run) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO runs (start_date, end_date, runner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		pgtype.Timestamptz{Time: run.StartDate, Valid: true},
		timestamptzFromTime(run.EndDate),
		int8FromID(run.RunnerID),
	)
	var id int64
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&id, &createdAt, &updatedAt); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.ID = uint(id)
	run.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	run.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *RunRepository) FindByID(ctx context.Context, id uint) (*entities.Run, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, int64(id))
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	if err := r.attachParticipations(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *RunRepository) FindAll(ctx context.Context) ([]entities.Run, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+runColumns+` FROM runs ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []entities.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachParticipations(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *RunRepository) Update(ctx context.Context, run *entities.Run) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE runs
		SET start_date = $2, end_date = $3, runner_id = $4, updated_at = now()
		WHERE id = $1`,
		int64(run.ID),
		pgtype.Timestamptz{Time: run.StartDate, Valid: true},
		timestamptzFromTime(run.EndDate),
		int8FromID(run.RunnerID),
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Delete removes the run; its participations go with it (ON DELETE CASCADE).
func (r *RunRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (r *RunRepository) attachParticipations(ctx context.Context, run *entities.Run) error {
	participations, err := r.participationRepo.FindByRunID(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("get participations: %w", err)
	}
	run.Participations = participations
	return nil
}

func scanRun(row pgx.Row) (*entities.Run, error) {
	var run entities.Run
	var id int64
	var startDate, endDate, createdAt, updatedAt pgtype.Timestamptz
	var runnerID pgtype.Int8
	if err := row.Scan(&id, &startDate, &endDate, &runnerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	run.ID = uint(id)
	run.StartDate = pgtypeTimestamptzToTime(startDate)
	run.EndDate = pgtypeTimestamptzToTime(endDate)
	run.RunnerID = idFromInt8(runnerID)
	run.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	run.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &run, nil
}
