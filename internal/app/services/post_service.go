package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/cache"
	"github.com/talabahamkor/choyxona/internal/pkg/helpers"
)

// PostService defines the interface for post and feed operations
type PostService interface {
	ListFeed(ctx context.Context, actor *models.Actor, scopeKind string, cursorToken string, limit int) (*dto.FeedResponse, error)
	CreatePost(ctx context.Context, actor *models.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, actor *models.Actor, id int64) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, actor *models.Actor, id int64, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, actor *models.Actor, id int64) error
	ListReposted(ctx context.Context, actor *models.Actor, reposterID int64, cursorToken string, limit int) (*dto.FeedResponse, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postStore       PostStore
	engagementStore EngagementStore
	profileStore    ProfileStore
	resolver        *auth.VisibilityResolver
	authority       *auth.ModerationAuthority
	profiles        *cache.ProfileCache
	settings        FeedSettings
	logger          zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postStore PostStore,
	engagementStore EngagementStore,
	profileStore ProfileStore,
	resolver *auth.VisibilityResolver,
	authority *auth.ModerationAuthority,
	profiles *cache.ProfileCache,
	settings FeedSettings,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postStore:       postStore,
		engagementStore: engagementStore,
		profileStore:    profileStore,
		resolver:        resolver,
		authority:       authority,
		profiles:        profiles,
		settings:        settings,
		logger:          logger,
	}
}

func (s *postServiceImpl) clampLimit(limit int) int {
	if limit <= 0 {
		return s.settings.DefaultPageSize
	}
	if limit > s.settings.MaxPageSize {
		return s.settings.MaxPageSize
	}
	return limit
}

// ListFeed retrieves one page of the actor's feed for a scope kind
func (s *postServiceImpl) ListFeed(ctx context.Context, actor *models.Actor, scopeKind string, cursorToken string, limit int) (*dto.FeedResponse, error) {
	if !models.ValidScopeKind(scopeKind) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown scope kind: %s", scopeKind))
	}
	kind := models.ScopeKind(scopeKind)

	pred := s.resolver.Resolve(actor, kind)
	if pred.MatchesNothing() {
		// Missing scope attribute degrades to an empty feed, never an error
		return &dto.FeedResponse{Posts: []dto.PostResponse{}}, nil
	}

	cursor, err := helpers.DecodeFeedCursor(cursorToken)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid cursor")
	}

	limit = s.clampLimit(limit)
	posts, err := s.postStore.ListFeed(ctx, pred, cursor, limit)
	if err != nil {
		return nil, err
	}

	return s.buildFeedResponse(ctx, actor, posts, limit)
}

// ListReposted retrieves the posts an actor has reposted, filtered to what
// the requesting viewer may see.
func (s *postServiceImpl) ListReposted(ctx context.Context, actor *models.Actor, reposterID int64, cursorToken string, limit int) (*dto.FeedResponse, error) {
	exists, err := s.profileStore.Exists(ctx, reposterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrActorNotFound
	}

	pred := s.resolver.ResolveAny(actor)
	if pred.MatchesNothing() {
		return &dto.FeedResponse{Posts: []dto.PostResponse{}}, nil
	}

	cursor, err := helpers.DecodeFeedCursor(cursorToken)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid cursor")
	}

	limit = s.clampLimit(limit)
	posts, err := s.postStore.ListRepostedBy(ctx, reposterID, pred, cursor, limit)
	if err != nil {
		return nil, err
	}

	return s.buildFeedResponse(ctx, actor, posts, limit)
}

// CreatePost publishes a new post into a scope the actor belongs to.
// Scope is fixed at creation: university-wide posts carry no target, every
// other kind is bound to an explicit target or defaults to the author's own
// attribute for that kind.
func (s *postServiceImpl) CreatePost(ctx context.Context, actor *models.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if !models.ValidScopeKind(req.ScopeKind) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown scope kind: %s", req.ScopeKind))
	}
	kind := models.ScopeKind(req.ScopeKind)

	if len(req.Content) == 0 || len(req.Content) > s.settings.MaxContentLen {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("content length must be between 1 and %d", s.settings.MaxContentLen))
	}

	var scopeTargetID *int64
	if kind != models.ScopeUniversity {
		attr := actor.ScopeAttribute(kind)
		switch {
		case req.ScopeTargetID != nil:
			if !s.authority.IsModerator(actor, kind) && (attr == nil || *attr != *req.ScopeTargetID) {
				return nil, apperrors.NewForbiddenError("cannot publish outside own scope")
			}
			scopeTargetID = req.ScopeTargetID
		case attr != nil:
			scopeTargetID = attr
		default:
			return nil, apperrors.ErrScopeUnavailable
		}
	}

	post := &models.Post{
		AuthorID:      actor.ID,
		UniversityID:  actor.UniversityID,
		ScopeKind:     kind,
		ScopeTargetID: scopeTargetID,
		Content:       req.Content,
	}

	if _, err := s.postStore.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("postId", post.ID).
		Int64("actorId", actor.ID).
		Str("scopeKind", string(kind)).
		Msg("Post created")

	return s.buildPostResponse(ctx, actor, post)
}

// GetPost retrieves a single post if the actor may see it. Posts outside
// the actor's scope are reported as missing, not forbidden.
func (s *postServiceImpl) GetPost(ctx context.Context, actor *models.Actor, id int64) (*dto.PostResponse, error) {
	post, err := s.visiblePost(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.buildPostResponse(ctx, actor, post)
}

// UpdatePost replaces a post's content. Only the author may edit.
func (s *postServiceImpl) UpdatePost(ctx context.Context, actor *models.Actor, id int64, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.visiblePost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actor.ID {
		return nil, apperrors.NewForbiddenError("only the author may edit a post")
	}

	if len(req.Content) == 0 || len(req.Content) > s.settings.MaxContentLen {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("content length must be between 1 and %d", s.settings.MaxContentLen))
	}

	if err := s.postStore.UpdateContent(ctx, id, req.Content); err != nil {
		return nil, err
	}
	post.Content = req.Content

	return s.buildPostResponse(ctx, actor, post)
}

// DeletePost removes a post together with its comments and engagement
// edges. The author or a moderator for the post's scope kind may delete.
func (s *postServiceImpl) DeletePost(ctx context.Context, actor *models.Actor, id int64) error {
	post, err := s.visiblePost(ctx, actor, id)
	if err != nil {
		return err
	}

	if post.AuthorID != actor.ID && !s.authority.IsModerator(actor, post.ScopeKind) {
		return apperrors.NewForbiddenError("only the author or a moderator may delete a post")
	}

	if err := s.postStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Int64("postId", id).
		Int64("actorId", actor.ID).
		Bool("byAuthor", post.AuthorID == actor.ID).
		Msg("Post deleted")

	return nil
}

// visiblePost loads a post and hides its existence from out-of-scope actors
func (s *postServiceImpl) visiblePost(ctx context.Context, actor *models.Actor, id int64) (*models.Post, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Visible(actor, post) {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

func (s *postServiceImpl) buildPostResponse(ctx context.Context, actor *models.Actor, post *models.Post) (*dto.PostResponse, error) {
	page, err := s.buildFeedResponse(ctx, actor, []models.Post{*post}, 0)
	if err != nil {
		return nil, err
	}
	return &page.Posts[0], nil
}

// buildFeedResponse enriches a page of posts with author profiles and the
// viewer's own engagement state, then attaches the next-page cursor when the
// page came back full.
func (s *postServiceImpl) buildFeedResponse(ctx context.Context, actor *models.Actor, posts []models.Post, limit int) (*dto.FeedResponse, error) {
	postIDs := make([]int64, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorIDs = append(authorIDs, p.AuthorID)
	}

	liked, err := s.engagementStore.BatchEngaged(ctx, actor.ID, models.EngagementPostLike, postIDs)
	if err != nil {
		return nil, err
	}
	reposted, err := s.engagementStore.BatchEngaged(ctx, actor.ID, models.EngagementPostRepost, postIDs)
	if err != nil {
		return nil, err
	}

	profiles := loadProfiles(ctx, s.profiles, s.profileStore, authorIDs, s.logger)

	responses := make([]dto.PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = dto.PostResponse{
			ID:                p.ID,
			Author:            toAuthorResponse(profiles[p.AuthorID]),
			ScopeKind:         string(p.ScopeKind),
			ScopeTargetID:     p.ScopeTargetID,
			Content:           p.Content,
			LikesCount:        p.LikesCount,
			CommentsCount:     p.CommentsCount,
			RepostsCount:      p.RepostsCount,
			ViewsCount:        p.ViewsCount,
			ViewerHasLiked:    liked[p.ID],
			ViewerHasReposted: reposted[p.ID],
			CreatedAt:         p.CreatedAt,
			UpdatedAt:         p.UpdatedAt,
		}
	}

	response := &dto.FeedResponse{Posts: responses}
	if limit > 0 && len(posts) == limit {
		last := posts[len(posts)-1]
		response.NextCursor = helpers.EncodeFeedCursor(helpers.FeedCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return response, nil
}
