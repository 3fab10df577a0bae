package models

// EngagementKind identifies one kind of engagement edge.
type EngagementKind string

const (
	EngagementPostLike    EngagementKind = "post_like"
	EngagementPostView    EngagementKind = "post_view"
	EngagementPostRepost  EngagementKind = "post_repost"
	EngagementCommentLike EngagementKind = "comment_like"
)

// TargetsPost reports whether the kind engages a post (as opposed to a comment).
func (k EngagementKind) TargetsPost() bool {
	return k != EngagementCommentLike
}

// EngagementResult reports the outcome of an engage or disengage call.
// AlreadyExisted is true when an engage found the edge already present, or
// a disengage found no edge to remove; NewCount is the counter value after
// the operation.
type EngagementResult struct {
	AlreadyExisted bool  `json:"alreadyExisted"`
	NewCount       int64 `json:"newCount"`
}
