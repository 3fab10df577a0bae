package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/cache"
	"github.com/talabahamkor/choyxona/internal/pkg/notifications"
)

// CommentService defines the interface for threaded comments
type CommentService interface {
	ListComments(ctx context.Context, actor *models.Actor, postID int64) (*dto.CommentListResponse, error)
	CreateComment(ctx context.Context, actor *models.Actor, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, actor *models.Actor, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, actor *models.Actor, commentID int64) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	postStore       PostStore
	commentStore    CommentStore
	engagementStore EngagementStore
	profileStore    ProfileStore
	resolver        *auth.VisibilityResolver
	authority       *auth.ModerationAuthority
	profiles        *cache.ProfileCache
	notifier        notifications.Notifier
	logger          zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	postStore PostStore,
	commentStore CommentStore,
	engagementStore EngagementStore,
	profileStore ProfileStore,
	resolver *auth.VisibilityResolver,
	authority *auth.ModerationAuthority,
	profiles *cache.ProfileCache,
	notifier notifications.Notifier,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		postStore:       postStore,
		commentStore:    commentStore,
		engagementStore: engagementStore,
		profileStore:    profileStore,
		resolver:        resolver,
		authority:       authority,
		profiles:        profiles,
		notifier:        notifier,
		logger:          logger,
	}
}

// ListComments retrieves every comment on a visible post, most liked first.
// Replies whose parent has been deleted come back without a reply pointer,
// indistinguishable from comments written at the root.
func (s *commentServiceImpl) ListComments(ctx context.Context, actor *models.Actor, postID int64) (*dto.CommentListResponse, error) {
	post, err := s.visiblePost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentStore.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	commentIDs := make([]int64, len(comments))
	authorIDs := make([]int64, 0, len(comments))
	var parentIDs []int64
	for i, c := range comments {
		commentIDs[i] = c.ID
		authorIDs = append(authorIDs, c.AuthorID)
		if c.ReplyToCommentID != nil {
			parentIDs = append(parentIDs, *c.ReplyToCommentID)
		}
	}

	existingParents, err := s.commentStore.ExistingIDs(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	viewerLiked, err := s.engagementStore.BatchEngaged(ctx, actor.ID, models.EngagementCommentLike, commentIDs)
	if err != nil {
		return nil, err
	}
	authorLiked, err := s.engagementStore.BatchEngaged(ctx, post.AuthorID, models.EngagementCommentLike, commentIDs)
	if err != nil {
		return nil, err
	}

	profiles := loadProfiles(ctx, s.profiles, s.profileStore, authorIDs, s.logger)

	responses := make([]dto.CommentResponse, len(comments))
	for i, c := range comments {
		replyTo := c.ReplyToCommentID
		if replyTo != nil && !existingParents[*replyTo] {
			replyTo = nil
		}

		responses[i] = dto.CommentResponse{
			ID:                c.ID,
			PostID:            c.PostID,
			Author:            toAuthorResponse(profiles[c.AuthorID]),
			Content:           c.Content,
			ReplyToCommentID:  replyTo,
			LikesCount:        c.LikesCount,
			ViewerHasLiked:    viewerLiked[c.ID],
			LikedByPostAuthor: authorLiked[c.ID],
			CreatedAt:         c.CreatedAt,
			UpdatedAt:         c.UpdatedAt,
		}
	}

	return &dto.CommentListResponse{Comments: responses}, nil
}

// CreateComment adds a comment to a visible post. A reply must reference a
// comment that still exists on the same post at creation time; what happens
// to the parent afterwards does not affect the reply.
func (s *commentServiceImpl) CreateComment(ctx context.Context, actor *models.Actor, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	post, err := s.visiblePost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	if req.ReplyToCommentID != nil {
		parent, err := s.commentStore.GetByID(ctx, *req.ReplyToCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.ErrReplyTargetMismatch
		}
	}

	comment := &models.Comment{
		PostID:           postID,
		AuthorID:         actor.ID,
		Content:          req.Content,
		ReplyToCommentID: req.ReplyToCommentID,
	}

	if _, err := s.commentStore.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notifications.Event{
		Type:        notifications.EventPostCommented,
		ActorID:     actor.ID,
		RecipientID: post.AuthorID,
		PostID:      postID,
		CommentID:   &comment.ID,
	})

	s.logger.Info().
		Int64("commentId", comment.ID).
		Int64("postId", postID).
		Int64("actorId", actor.ID).
		Msg("Comment created")

	profiles := loadProfiles(ctx, s.profiles, s.profileStore, []int64{actor.ID}, s.logger)

	return &dto.CommentResponse{
		ID:               comment.ID,
		PostID:           comment.PostID,
		Author:           toAuthorResponse(profiles[actor.ID]),
		Content:          comment.Content,
		ReplyToCommentID: comment.ReplyToCommentID,
		CreatedAt:        comment.CreatedAt,
		UpdatedAt:        comment.UpdatedAt,
	}, nil
}

// UpdateComment replaces a comment's content. Only the author may edit.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, actor *models.Actor, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, _, err := s.visibleComment(ctx, actor, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != actor.ID {
		return nil, apperrors.NewForbiddenError("only the author may edit a comment")
	}

	if err := s.commentStore.UpdateContent(ctx, commentID, req.Content); err != nil {
		return nil, err
	}
	comment.Content = req.Content

	viewerLiked, err := s.engagementStore.BatchEngaged(ctx, actor.ID, models.EngagementCommentLike, []int64{commentID})
	if err != nil {
		return nil, err
	}

	profiles := loadProfiles(ctx, s.profiles, s.profileStore, []int64{comment.AuthorID}, s.logger)

	return &dto.CommentResponse{
		ID:               comment.ID,
		PostID:           comment.PostID,
		Author:           toAuthorResponse(profiles[comment.AuthorID]),
		Content:          comment.Content,
		ReplyToCommentID: comment.ReplyToCommentID,
		LikesCount:       comment.LikesCount,
		ViewerHasLiked:   viewerLiked[commentID],
		CreatedAt:        comment.CreatedAt,
		UpdatedAt:        comment.UpdatedAt,
	}, nil
}

// DeleteComment removes a comment. The comment author or a moderator for
// the post's scope kind may delete. Replies to the deleted comment stay and
// surface as root-level comments.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, actor *models.Actor, commentID int64) error {
	comment, post, err := s.visibleComment(ctx, actor, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID && !s.authority.IsModerator(actor, post.ScopeKind) {
		return apperrors.NewForbiddenError("only the author or a moderator may delete a comment")
	}

	if err := s.commentStore.Delete(ctx, commentID, comment.PostID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("commentId", commentID).
		Int64("postId", comment.PostID).
		Int64("actorId", actor.ID).
		Msg("Comment deleted")

	return nil
}

func (s *commentServiceImpl) visiblePost(ctx context.Context, actor *models.Actor, postID int64) (*models.Post, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Visible(actor, post) {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

func (s *commentServiceImpl) visibleComment(ctx context.Context, actor *models.Actor, commentID int64) (*models.Comment, *models.Post, error) {
	comment, err := s.commentStore.GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	post, err := s.postStore.GetByID(ctx, comment.PostID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, nil, apperrors.ErrCommentNotFound
		}
		return nil, nil, err
	}
	if !s.resolver.Visible(actor, post) {
		return nil, nil, apperrors.ErrCommentNotFound
	}

	return comment, post, nil
}
