package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/notifications"
)

// EngagementService defines the interface for likes, views and reposts.
// Every operation is idempotent: repeating it reports Changed=false and
// leaves the counter untouched.
type EngagementService interface {
	LikePost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error)
	UnlikePost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error)
	RepostPost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error)
	UnrepostPost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error)
	RecordView(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error)
	LikeComment(ctx context.Context, actor *models.Actor, commentID int64) (*dto.EngagementResponse, error)
	UnlikeComment(ctx context.Context, actor *models.Actor, commentID int64) (*dto.EngagementResponse, error)
}

// engagementServiceImpl implements EngagementService
type engagementServiceImpl struct {
	postStore       PostStore
	commentStore    CommentStore
	engagementStore EngagementStore
	resolver        *auth.VisibilityResolver
	notifier        notifications.Notifier
	logger          zerolog.Logger
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	postStore PostStore,
	commentStore CommentStore,
	engagementStore EngagementStore,
	resolver *auth.VisibilityResolver,
	notifier notifications.Notifier,
	logger zerolog.Logger,
) EngagementService {
	return &engagementServiceImpl{
		postStore:       postStore,
		commentStore:    commentStore,
		engagementStore: engagementStore,
		resolver:        resolver,
		notifier:        notifier,
		logger:          logger,
	}
}

// LikePost records a like edge on a visible post
func (s *engagementServiceImpl) LikePost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error) {
	return s.engagePost(ctx, actor, postID, models.EngagementPostLike, notifications.EventPostLiked)
}

// UnlikePost removes the actor's like edge, if any
func (s *engagementServiceImpl) UnlikePost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error) {
	return s.disengagePost(ctx, actor, postID, models.EngagementPostLike)
}

// RepostPost records a repost edge on a visible post
func (s *engagementServiceImpl) RepostPost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error) {
	return s.engagePost(ctx, actor, postID, models.EngagementPostRepost, notifications.EventPostReposted)
}

// UnrepostPost removes the actor's repost edge, if any
func (s *engagementServiceImpl) UnrepostPost(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error) {
	return s.disengagePost(ctx, actor, postID, models.EngagementPostRepost)
}

// RecordView records a view edge. Unlike likes and reposts, views have no
// removal operation and produce no notification.
func (s *engagementServiceImpl) RecordView(ctx context.Context, actor *models.Actor, postID int64) (*dto.EngagementResponse, error) {
	return s.engagePost(ctx, actor, postID, models.EngagementPostView, "")
}

// LikeComment records a like edge on a comment whose post the actor may see
func (s *engagementServiceImpl) LikeComment(ctx context.Context, actor *models.Actor, commentID int64) (*dto.EngagementResponse, error) {
	comment, err := s.visibleComment(ctx, actor, commentID)
	if err != nil {
		return nil, err
	}

	result, err := s.engagementStore.Engage(ctx, actor.ID, models.EngagementCommentLike, commentID)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyExisted {
		s.notifier.Notify(ctx, notifications.Event{
			Type:        notifications.EventCommentLiked,
			ActorID:     actor.ID,
			RecipientID: comment.AuthorID,
			PostID:      comment.PostID,
			CommentID:   &comment.ID,
		})
	}

	return &dto.EngagementResponse{Changed: !result.AlreadyExisted, Count: result.NewCount}, nil
}

// UnlikeComment removes the actor's like edge from a comment, if any
func (s *engagementServiceImpl) UnlikeComment(ctx context.Context, actor *models.Actor, commentID int64) (*dto.EngagementResponse, error) {
	if _, err := s.visibleComment(ctx, actor, commentID); err != nil {
		return nil, err
	}

	result, err := s.engagementStore.Disengage(ctx, actor.ID, models.EngagementCommentLike, commentID)
	if err != nil {
		return nil, err
	}

	return &dto.EngagementResponse{Changed: !result.AlreadyExisted, Count: result.NewCount}, nil
}

func (s *engagementServiceImpl) engagePost(ctx context.Context, actor *models.Actor, postID int64, kind models.EngagementKind, eventType string) (*dto.EngagementResponse, error) {
	post, err := s.visiblePost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	result, err := s.engagementStore.Engage(ctx, actor.ID, kind, postID)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyExisted && eventType != "" {
		s.notifier.Notify(ctx, notifications.Event{
			Type:        eventType,
			ActorID:     actor.ID,
			RecipientID: post.AuthorID,
			PostID:      postID,
		})
	}

	return &dto.EngagementResponse{Changed: !result.AlreadyExisted, Count: result.NewCount}, nil
}

func (s *engagementServiceImpl) disengagePost(ctx context.Context, actor *models.Actor, postID int64, kind models.EngagementKind) (*dto.EngagementResponse, error) {
	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	result, err := s.engagementStore.Disengage(ctx, actor.ID, kind, postID)
	if err != nil {
		return nil, err
	}

	return &dto.EngagementResponse{Changed: !result.AlreadyExisted, Count: result.NewCount}, nil
}

// visiblePost hides out-of-scope posts behind a not-found error
func (s *engagementServiceImpl) visiblePost(ctx context.Context, actor *models.Actor, postID int64) (*models.Post, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Visible(actor, post) {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

// visibleComment hides comments of out-of-scope posts behind a not-found
// error, same as the posts themselves.
func (s *engagementServiceImpl) visibleComment(ctx context.Context, actor *models.Actor, commentID int64) (*models.Comment, error) {
	comment, err := s.commentStore.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	post, err := s.postStore.GetByID(ctx, comment.PostID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}
	if !s.resolver.Visible(actor, post) {
		return nil, apperrors.ErrCommentNotFound
	}

	return comment, nil
}
