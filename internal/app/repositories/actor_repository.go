package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// ActorRepository reads actor display profiles. Actor identity and scope
// attributes travel in the token; this repository only serves the profile
// data embedded in post and comment responses.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates a new ActorRepository
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// GetProfiles retrieves profiles for a set of actor IDs in one query.
// Missing actors are simply absent from the result map.
func (r *ActorRepository) GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.ActorProfile, error) {
	profiles := make(map[int64]*models.ActorProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	query := squirrel.Select("id", "full_name", "username", "avatar_url").
		From("actors").
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profile models.ActorProfile
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.Username, &profile.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		profiles[profile.ID] = &profile
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, nil
}

// Exists reports whether an actor row is present
func (r *ActorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM actors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}
