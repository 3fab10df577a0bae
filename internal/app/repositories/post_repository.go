package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/helpers"
)

var postColumns = []string{
	"id", "author_id", "university_id", "scope_kind", "scope_target_id",
	"content", "likes_count", "comments_count", "reposts_count", "views_count",
	"created_at", "updated_at",
}

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.UniversityID,
		&post.ScopeKind,
		&post.ScopeTargetID,
		&post.Content,
		&post.LikesCount,
		&post.CommentsCount,
		&post.RepostsCount,
		&post.ViewsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post and returns its ID
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (author_id, university_id, scope_kind, scope_target_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		post.AuthorID, post.UniversityID, post.ScopeKind, post.ScopeTargetID, post.Content,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return post.ID, nil
}

// GetByID retrieves a post by ID. Visibility is the caller's concern.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := squirrel.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return post, nil
}

// UpdateContent replaces a post's content
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE posts SET content = $1, updated_at = NOW() WHERE id = $2`,
		content, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// Delete removes a post. Comments cascade at the database level; engagement
// edges pointing at the post and its comments are cleaned up alongside so
// they cannot resurrect counters during reconciliation.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM engagements
		WHERE target_kind = 'comment_like'
		  AND target_id IN (SELECT id FROM comments WHERE post_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("error removing comment engagement edges: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM engagements
		WHERE target_kind IN ('post_like', 'post_view', 'post_repost') AND target_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("error removing post engagement edges: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return tx.Commit(ctx)
}

// ListFeed retrieves one page of posts matching the visibility predicate,
// newest first with a keyset cursor.
func (r *PostRepository) ListFeed(ctx context.Context, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error) {
	if pred.MatchesNothing() {
		return []models.Post{}, nil
	}

	query := squirrel.Select(postColumns...).
		From("posts").
		Where(pred.Sqlizer()).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if cursor != nil {
		query = query.Where(squirrel.Expr("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID))
	}

	return r.queryPosts(ctx, query)
}

// ListRepostedBy retrieves the posts an actor has reposted, restricted to
// what the viewer's predicate allows, newest first.
func (r *PostRepository) ListRepostedBy(ctx context.Context, actorID int64, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error) {
	if pred.MatchesNothing() {
		return []models.Post{}, nil
	}

	query := squirrel.Select(prefixColumns("p", postColumns)...).
		From("posts p").
		Join("engagements e ON e.target_id = p.id AND e.target_kind = 'post_repost'").
		Where(squirrel.Eq{"e.actor_id": actorID}).
		Where(pred.Sqlizer()).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if cursor != nil {
		query = query.Where(squirrel.Expr("(p.created_at, p.id) < (?, ?)", cursor.CreatedAt, cursor.ID))
	}

	return r.queryPosts(ctx, query)
}

func (r *PostRepository) queryPosts(ctx context.Context, query squirrel.SelectBuilder) ([]models.Post, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, col := range columns {
		prefixed[i] = alias + "." + col
	}
	return prefixed
}
