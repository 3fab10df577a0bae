package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/repositories"
	"github.com/talabahamkor/choyxona/internal/config"
	"github.com/talabahamkor/choyxona/internal/pkg/cache"
	"github.com/talabahamkor/choyxona/internal/pkg/helpers"
	"github.com/talabahamkor/choyxona/internal/pkg/notifications"
)

// The store interfaces below are the slices of the repository layer each
// service consumes. Tests substitute in-memory implementations.

// PostStore persists posts
type PostStore interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	ListFeed(ctx context.Context, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error)
	ListRepostedBy(ctx context.Context, actorID int64, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error)
}

// CommentStore persists comments
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64, postID int64) error
}

// EngagementStore persists engagement edges and their paired counters
type EngagementStore interface {
	Engage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error)
	Disengage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error)
	BatchEngaged(ctx context.Context, actorID int64, kind models.EngagementKind, targetIDs []int64) (map[int64]bool, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

// ProfileStore reads actor display profiles
type ProfileStore interface {
	GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.ActorProfile, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// FeedSettings carries the feed tunables out of the configuration layer
type FeedSettings struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxContentLen   int
}

// ReconcilerSettings carries the reconciler tunables
type ReconcilerSettings struct {
	Enabled  bool
	Interval time.Duration
}

// Services holds all the service instances
type Services struct {
	PostService       PostService
	CommentService    CommentService
	EngagementService EngagementService
	Reconciler        *Reconciler
}

// NewServices wires the service layer on top of the repositories
func NewServices(
	repos *repositories.Repositories,
	cfg *config.Config,
	notifier notifications.Notifier,
	logger zerolog.Logger,
) *Services {
	authority := auth.NewModerationAuthority()
	resolver := auth.NewVisibilityResolver(authority)
	profiles := cache.NewProfileCache(
		cfg.Cache.ProfileSize,
		config.ParseDurationOr(cfg.Cache.ProfileTTL, 5*time.Minute),
	)

	feedSettings := FeedSettings{
		DefaultPageSize: cfg.Feed.DefaultPageSize,
		MaxPageSize:     cfg.Feed.MaxPageSize,
		MaxContentLen:   cfg.Feed.MaxContentLen,
	}

	engagementService := NewEngagementService(
		repos.PostRepository,
		repos.CommentRepository,
		repos.EngagementRepository,
		resolver,
		notifier,
		logger,
	)

	postService := NewPostService(
		repos.PostRepository,
		repos.EngagementRepository,
		repos.ActorRepository,
		resolver,
		authority,
		profiles,
		feedSettings,
		logger,
	)

	commentService := NewCommentService(
		repos.PostRepository,
		repos.CommentRepository,
		repos.EngagementRepository,
		repos.ActorRepository,
		resolver,
		authority,
		profiles,
		notifier,
		logger,
	)

	reconcilerSettings := ReconcilerSettings{
		Enabled:  cfg.Reconciler.Enabled,
		Interval: config.ParseDurationOr(cfg.Reconciler.Interval, 10*time.Minute),
	}
	reconciler := NewReconciler(repos.EngagementRepository, reconcilerSettings, logger)

	return &Services{
		PostService:       postService,
		CommentService:    commentService,
		EngagementService: engagementService,
		Reconciler:        reconciler,
	}
}
