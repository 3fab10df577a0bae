package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ActorRepository      *ActorRepository
	PostRepository       *PostRepository
	CommentRepository    *CommentRepository
	EngagementRepository *EngagementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ActorRepository:      NewActorRepository(db),
		PostRepository:       NewPostRepository(db),
		CommentRepository:    NewCommentRepository(db),
		EngagementRepository: NewEngagementRepository(db),
	}
}
