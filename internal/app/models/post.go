package models

import "time"

// ScopeKind is the granularity at which a post is published.
type ScopeKind string

const (
	ScopeUniversity ScopeKind = "university"
	ScopeFaculty    ScopeKind = "faculty"
	ScopeSpecialty  ScopeKind = "specialty"
	ScopeGroup      ScopeKind = "group"
)

// AllScopeKinds lists every scope kind in publication-granularity order.
func AllScopeKinds() []ScopeKind {
	return []ScopeKind{ScopeUniversity, ScopeFaculty, ScopeSpecialty, ScopeGroup}
}

// ValidScopeKind reports whether s names a known scope kind.
func ValidScopeKind(s string) bool {
	switch ScopeKind(s) {
	case ScopeUniversity, ScopeFaculty, ScopeSpecialty, ScopeGroup:
		return true
	}
	return false
}

// Post defines the post model based on the 'posts' table.
//
// UniversityID is always set (tenancy); ScopeTargetID is NULL exactly for
// university-wide posts. The denormalized counters are owned by the
// engagement service and the comment service; their truth is defined by the
// engagement edge table (and the comments table for CommentsCount).
type Post struct {
	ID            int64     `json:"id" db:"id"`
	AuthorID      int64     `json:"authorId" db:"author_id"`
	UniversityID  int64     `json:"universityId" db:"university_id"`
	ScopeKind     ScopeKind `json:"scopeKind" db:"scope_kind"`
	ScopeTargetID *int64    `json:"scopeTargetId,omitempty" db:"scope_target_id"`
	Content       string    `json:"content" db:"content"`
	LikesCount    int64     `json:"likesCount" db:"likes_count"`
	CommentsCount int64     `json:"commentsCount" db:"comments_count"`
	RepostsCount  int64     `json:"repostsCount" db:"reposts_count"`
	ViewsCount    int64     `json:"viewsCount" db:"views_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author *ActorProfile `json:"author,omitempty"`
}
