package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

var _ output.ParticipationRepository = (*ParticipationRepository)(nil)

type ParticipationRepository struct {
	pool *pgxpool.Pool
}

func NewParticipationRepository(pool *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{pool: pool}
}

const participationColumns = `id, run_id, user_id, arrival_time, created_at, updated_at`

func (r *ParticipationRepository) Create(ctx context.Context, participation *entities.Participation) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO participations (run_id, user_id, arrival_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		int64(participation.RunID),
		int64(participation.UserID),
		timestamptzFromTime(participation.ArrivalTime),
	)
	var id int64
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err, "uq_user_run") {
			return domain.ErrParticipationExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create participation: %w: %w", domain.ErrRunNotFound, err)
		}
		return fmt.Errorf("create participation: %w", err)
	}
	participation.ID = uint(id)
	participation.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	participation.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *ParticipationRepository) FindByID(ctx context.Context, id uint) (*entities.Participation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+participationColumns+` FROM participations WHERE id = $1`, int64(id))
	p, err := scanParticipation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("get participation by id: %w", err)
	}
	return p, nil
}

func (r *ParticipationRepository) FindByRunID(ctx context.Context, runID uint) ([]entities.Participation, error) {
	return r.findMany(ctx, `SELECT `+participationColumns+` FROM participations WHERE run_id = $1 ORDER BY id`, int64(runID))
}

func (r *ParticipationRepository) FindByUserID(ctx context.Context, userID uint) ([]entities.Participation, error) {
	return r.findMany(ctx, `SELECT `+participationColumns+` FROM participations WHERE user_id = $1 ORDER BY run_id DESC`, int64(userID))
}

func (r *ParticipationRepository) FindUnfinishedByUserID(ctx context.Context, userID uint) ([]entities.Participation, error) {
	return r.findMany(ctx, `
		SELECT `+participationColumns+`
		FROM participations
		WHERE user_id = $1 AND arrival_time IS NULL
		ORDER BY run_id DESC`, int64(userID))
}

// RecordArrival is the single scan-path write of arrival_time. The
// "arrival_time IS NULL" guard makes it an atomic set-if-null: under
// concurrent duplicate scans the database decides, the loser sees zero rows
// updated and gets ErrAlreadyFinished.
func (r *ParticipationRepository) RecordArrival(ctx context.Context, id uint, arrivalTime time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participations
		SET arrival_time = $2, updated_at = now()
		WHERE id = $1 AND arrival_time IS NULL`,
		int64(id), pgtype.Timestamptz{Time: arrivalTime, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("record arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrAlreadyFinished
	}
	return nil
}

func (r *ParticipationRepository) OverrideArrival(ctx context.Context, id uint, arrivalTime time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participations
		SET arrival_time = $2, updated_at = now()
		WHERE id = $1`,
		int64(id), timestamptzFromTime(arrivalTime),
	)
	if err != nil {
		return fmt.Errorf("override arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipationNotFound
	}
	return nil
}

func (r *ParticipationRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM participations WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}

func (r *ParticipationRepository) findMany(ctx context.Context, query string, args ...any) ([]entities.Participation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	defer rows.Close()

	var out []entities.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanParticipation(row pgx.Row) (*entities.Participation, error) {
	var p entities.Participation
	var id, runID, userID int64
	var arrivalTime, createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&id, &runID, &userID, &arrivalTime, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.ID = uint(id)
	p.RunID = uint(runID)
	p.UserID = uint(userID)
	p.ArrivalTime = pgtypeTimestamptzToTime(arrivalTime)
	p.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	p.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &p, nil
}
