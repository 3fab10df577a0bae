package models

import "time"

// Comment defines the comment model based on the 'comments' table.
//
// ReplyToCommentID carries no foreign key on purpose: when the referenced
// comment is deleted the pointer dangles and the comment is displayed as
// top-level (a "root-equivalent" comment). PostID is immutable after
// creation.
type Comment struct {
	ID               int64     `json:"id" db:"id"`
	PostID           int64     `json:"postId" db:"post_id"`
	AuthorID         int64     `json:"authorId" db:"author_id"`
	Content          string    `json:"content" db:"content"`
	ReplyToCommentID *int64    `json:"replyToCommentId,omitempty" db:"reply_to_comment_id"`
	LikesCount       int64     `json:"likesCount" db:"likes_count"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author *ActorProfile `json:"author,omitempty"`
}
