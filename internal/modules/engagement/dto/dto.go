package dto

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ToggleLikeResponse struct {
	LikesCount int  `json:"likesCount"`
	IsLiked    bool `json:"isLiked"`
}

type ToggleSaveResponse struct {
	IsSaved bool `json:"isSaved"`
}
