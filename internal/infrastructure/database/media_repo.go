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

var _ output.MediaRepository = (*MediaRepository)(nil)

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

const mediaColumns = `id, user_id, filename, original_name, content_type, size, created_at, updated_at`

// Create inserts the media, replacing any previous profile image of the same
// user (one image per user).
func (r *MediaRepository) Create(ctx context.Context, media *entities.Media) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO medias (user_id, filename, original_name, content_type, size)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET filename = EXCLUDED.filename, original_name = EXCLUDED.original_name,
		    content_type = EXCLUDED.content_type, size = EXCLUDED.size, updated_at = now()
		RETURNING id, created_at, updated_at`,
		int64(media.UserID), media.Filename, media.OriginalName, media.ContentType, media.Size,
	)
	var id int64
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&id, &createdAt, &updatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create media: %w", err)
	}
	media.ID = uint(id)
	media.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	media.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id uint) (*entities.Media, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM medias WHERE id = $1`, int64(id))
	return scanMediaOrNotFound(row, "get media by id")
}

func (r *MediaRepository) FindByUserID(ctx context.Context, userID uint) (*entities.Media, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM medias WHERE user_id = $1`, int64(userID))
	return scanMediaOrNotFound(row, "get media by user id")
}

func (r *MediaRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM medias WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func scanMediaOrNotFound(row pgx.Row, op string) (*entities.Media, error) {
	var m entities.Media
	var id, userID int64
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&id, &userID, &m.Filename, &m.OriginalName, &m.ContentType, &m.Size, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMediaNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.ID = uint(id)
	m.UserID = uint(userID)
	m.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	m.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &m, nil
}
