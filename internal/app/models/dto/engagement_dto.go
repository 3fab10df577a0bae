package dto

// EngagementResponse reports the outcome of a like, view or repost toggle.
// Changed is false when the operation was a no-op repeat; Count is the
// counter value after the operation either way.
type EngagementResponse struct {
	Changed bool  `json:"changed"`
	Count   int64 `json:"count"`
}
