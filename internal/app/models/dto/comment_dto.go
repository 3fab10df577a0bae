package dto

import "time"

// --- Request DTOs ---

// CreateCommentRequest represents comment creation data
type CreateCommentRequest struct {
	Content          string `json:"content" binding:"required,max=4000"`
	ReplyToCommentID *int64 `json:"replyToCommentId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateCommentRequest represents comment update data
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// --- Response DTOs ---

// CommentResponse represents a comment with counters and viewer state.
// ReplyToCommentID is omitted when the referenced parent no longer exists,
// so a reply to a deleted comment renders as a top-level comment.
type CommentResponse struct {
	ID                 int64           `json:"id"`
	PostID             int64           `json:"postId"`
	Author             *AuthorResponse `json:"author,omitempty"`
	Content            string          `json:"content"`
	ReplyToCommentID   *int64          `json:"replyToCommentId,omitempty"`
	LikesCount         int64           `json:"likesCount"`
	ViewerHasLiked     bool            `json:"viewerHasLiked"`
	LikedByPostAuthor  bool            `json:"likedByPostAuthor"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CommentListResponse represents all comments of a post
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}
