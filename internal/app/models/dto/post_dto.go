package dto

import "time"

// --- Request DTOs ---

// CreatePostRequest represents post creation data. ScopeTargetID is ignored
// for university-wide posts; every other scope kind requires it.
type CreatePostRequest struct {
	Content       string `json:"content" binding:"required,max=4000"`
	ScopeKind     string `json:"scopeKind" binding:"required,scopekind"`
	ScopeTargetID *int64 `json:"scopeTargetId,omitempty" binding:"omitempty,gt=0"`
}

// UpdatePostRequest represents post content update data. Scope is fixed at
// creation and cannot be changed.
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// FeedFilterRequest represents feed query parameters
type FeedFilterRequest struct {
	ScopeKind string `form:"scopeKind" binding:"required,scopekind"`
	Cursor    string `form:"cursor,omitempty"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// AuthorResponse represents minimal author information embedded in posts
// and comments
type AuthorResponse struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"fullName"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// PostResponse represents a post together with its counters and the
// requesting viewer's own engagement state
type PostResponse struct {
	ID                int64           `json:"id"`
	Author            *AuthorResponse `json:"author,omitempty"`
	ScopeKind         string          `json:"scopeKind"`
	ScopeTargetID     *int64          `json:"scopeTargetId,omitempty"`
	Content           string          `json:"content"`
	LikesCount        int64           `json:"likesCount"`
	CommentsCount     int64           `json:"commentsCount"`
	RepostsCount      int64           `json:"repostsCount"`
	ViewsCount        int64           `json:"viewsCount"`
	ViewerHasLiked    bool            `json:"viewerHasLiked"`
	ViewerHasReposted bool            `json:"viewerHasReposted"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// FeedResponse represents one page of the feed
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor string         `json:"nextCursor,omitempty"`
}
