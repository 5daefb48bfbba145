package models

// LikeStatus is the outcome of a like toggle.
type LikeStatus struct {
	LikesCount int  `json:"likesCount"`
	IsLiked    bool `json:"isLiked"`
}
