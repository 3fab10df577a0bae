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

var commentColumns = []string{
	"id", "post_id", "author_id", "content", "reply_to_comment_id",
	"likes_count", "created_at", "updated_at",
}

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.ReplyToCommentID,
		&comment.LikesCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment and increments the post's comment counter in the
// same transaction.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO comments (post_id, author_id, content, reply_to_comment_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`, comment.PostID, comment.AuthorID, comment.Content, comment.ReplyToCommentID,
		).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error inserting comment: %w", err)
		}

		result, err := tx.Exec(ctx,
			`UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`,
			comment.PostID)
		if err != nil {
			return fmt.Errorf("error updating comment counter: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrPostNotFound
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return comment.ID, nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := squirrel.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	comment, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return comment, nil
}

// ListByPost retrieves every comment on a post, most liked first and oldest
// first within equal like counts. The trailing id ordering keeps pages
// stable when ties share a timestamp.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := squirrel.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("likes_count DESC", "created_at ASC", "id ASC").
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

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}

// ExistingIDs reports which of the given comment IDs are still present.
// Used to detect dangling reply pointers.
func (r *CommentRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	query := squirrel.Select("id").
		From("comments").
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
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return existing, nil
}

// UpdateContent replaces a comment's content
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2`,
		content, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// Delete removes a comment, its like edges and its slice of the post's
// comment counter in one transaction. Replies are left in place with a
// dangling parent pointer.
func (r *CommentRepository) Delete(ctx context.Context, id int64, postID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrCommentNotFound
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM engagements WHERE target_kind = 'comment_like' AND target_id = $1`, id)
		if err != nil {
			return fmt.Errorf("error removing like edges: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE posts SET comments_count = GREATEST(comments_count - 1, 0) WHERE id = $1`,
			postID)
		if err != nil {
			return fmt.Errorf("error updating comment counter: %w", err)
		}

		return nil
	})
}
