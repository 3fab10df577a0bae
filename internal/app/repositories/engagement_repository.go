package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/db"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
)

// counterColumn maps an engagement kind to the denormalized counter it backs.
type counterColumn struct {
	table  string
	column string
}

func counterFor(kind models.EngagementKind) (counterColumn, error) {
	switch kind {
	case models.EngagementPostLike:
		return counterColumn{"posts", "likes_count"}, nil
	case models.EngagementPostView:
		return counterColumn{"posts", "views_count"}, nil
	case models.EngagementPostRepost:
		return counterColumn{"posts", "reposts_count"}, nil
	case models.EngagementCommentLike:
		return counterColumn{"comments", "likes_count"}, nil
	default:
		return counterColumn{}, apperrors.ErrUnknownEngagementKind
	}
}

func missingTargetErr(kind models.EngagementKind) error {
	if kind.TargetsPost() {
		return apperrors.ErrPostNotFound
	}
	return apperrors.ErrCommentNotFound
}

// EngagementRepository owns the engagements table and the counters derived
// from it. Every mutation pairs the edge change with its counter update in a
// single transaction, so the edge set and the counter can only drift through
// outside interference, which the reconciler repairs.
type EngagementRepository struct {
	db *pgxpool.Pool
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// Engage records an engagement edge if absent and bumps the counter.
// Repeats are no-ops: the unique constraint absorbs the insert and the
// counter is left untouched.
func (r *EngagementRepository) Engage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error) {
	counter, err := counterFor(kind)
	if err != nil {
		return nil, err
	}

	var result models.EngagementResult
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO engagements (actor_id, target_kind, target_id)
			VALUES ($1, $2, $3)
			ON CONFLICT ON CONSTRAINT engagements_actor_target_key DO NOTHING
		`, actorID, kind, targetID)
		if err != nil {
			return fmt.Errorf("error inserting engagement edge: %w", err)
		}

		inserted := tag.RowsAffected() > 0
		result.AlreadyExisted = !inserted

		if inserted {
			query := fmt.Sprintf(
				`UPDATE %s SET %s = %s + 1 WHERE id = $1 RETURNING %s`,
				counter.table, counter.column, counter.column, counter.column)
			err = tx.QueryRow(ctx, query, targetID).Scan(&result.NewCount)
			if errors.Is(err, pgx.ErrNoRows) {
				return missingTargetErr(kind)
			}
			if err != nil {
				return fmt.Errorf("error updating counter: %w", err)
			}
			return nil
		}

		query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, counter.column, counter.table)
		err = tx.QueryRow(ctx, query, targetID).Scan(&result.NewCount)
		if errors.Is(err, pgx.ErrNoRows) {
			return missingTargetErr(kind)
		}
		if err != nil {
			return fmt.Errorf("error reading counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Disengage removes an engagement edge if present and drops the counter.
// Removing an edge that was never recorded is a no-op.
func (r *EngagementRepository) Disengage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error) {
	counter, err := counterFor(kind)
	if err != nil {
		return nil, err
	}

	var result models.EngagementResult
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM engagements
			WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
		`, actorID, kind, targetID)
		if err != nil {
			return fmt.Errorf("error deleting engagement edge: %w", err)
		}

		deleted := tag.RowsAffected() > 0
		result.AlreadyExisted = !deleted

		if deleted {
			query := fmt.Sprintf(
				`UPDATE %s SET %s = GREATEST(%s - 1, 0) WHERE id = $1 RETURNING %s`,
				counter.table, counter.column, counter.column, counter.column)
			err = tx.QueryRow(ctx, query, targetID).Scan(&result.NewCount)
			if errors.Is(err, pgx.ErrNoRows) {
				return missingTargetErr(kind)
			}
			if err != nil {
				return fmt.Errorf("error updating counter: %w", err)
			}
			return nil
		}

		query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, counter.column, counter.table)
		err = tx.QueryRow(ctx, query, targetID).Scan(&result.NewCount)
		if errors.Is(err, pgx.ErrNoRows) {
			return missingTargetErr(kind)
		}
		if err != nil {
			return fmt.Errorf("error reading counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// BatchEngaged reports, for a page of targets, which ones the actor has an
// edge to. One query per page instead of one per item.
func (r *EngagementRepository) BatchEngaged(ctx context.Context, actorID int64, kind models.EngagementKind, targetIDs []int64) (map[int64]bool, error) {
	engaged := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return engaged, nil
	}

	query := squirrel.Select("target_id").
		From("engagements").
		Where(squirrel.Eq{"actor_id": actorID, "target_kind": kind, "target_id": targetIDs}).
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
		var targetID int64
		if err := rows.Scan(&targetID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		engaged[targetID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return engaged, nil
}

// ReconcileCounters recomputes every denormalized counter from the edge set
// and rewrites the ones that drifted. Returns the number of corrected rows.
func (r *EngagementRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	statements := []struct {
		table  string
		column string
		kind   models.EngagementKind
	}{
		{"posts", "likes_count", models.EngagementPostLike},
		{"posts", "views_count", models.EngagementPostView},
		{"posts", "reposts_count", models.EngagementPostRepost},
		{"comments", "likes_count", models.EngagementCommentLike},
	}

	var corrected int64
	for _, s := range statements {
		query := fmt.Sprintf(`
			UPDATE %[1]s SET %[2]s = (
				SELECT COUNT(*) FROM engagements e
				WHERE e.target_kind = $1 AND e.target_id = %[1]s.id
			)
			WHERE %[2]s <> (
				SELECT COUNT(*) FROM engagements e
				WHERE e.target_kind = $1 AND e.target_id = %[1]s.id
			)
		`, s.table, s.column)

		tag, err := r.db.Exec(ctx, query, s.kind)
		if err != nil {
			return corrected, fmt.Errorf("error reconciling %s.%s: %w", s.table, s.column, err)
		}
		corrected += tag.RowsAffected()
	}

	// comments_count derives from comment rows rather than edges
	tag, err := r.db.Exec(ctx, `
		UPDATE posts SET comments_count = (
			SELECT COUNT(*) FROM comments c WHERE c.post_id = posts.id
		)
		WHERE comments_count <> (
			SELECT COUNT(*) FROM comments c WHERE c.post_id = posts.id
		)
	`)
	if err != nil {
		return corrected, fmt.Errorf("error reconciling posts.comments_count: %w", err)
	}
	corrected += tag.RowsAffected()

	return corrected, nil
}
