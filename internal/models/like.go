package models

// PostLikeState is the viewer-local like state for one community post,
// mutated optimistically on click and reconciled against the remote toggle.
type PostLikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
