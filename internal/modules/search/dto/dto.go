package dto

import "offbytes.com/offersapi/internal/entity"

type SearchQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Location string `form:"location"`
}

// Empty reports whether no criteria were supplied at all.
func (q *SearchQuery) Empty() bool {
	return q.Q == "" && q.Category == "" && q.Location == ""
}

type BusinessResult struct {
	UserID          string `json:"userId"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	Pincode         string `json:"pincode"`
	Timing          string `json:"timing"`
	Category        string `json:"category"`
	ProfilePicture  string `json:"profilePicture"`
	IsVerified      bool   `json:"isVerified"`
}

const (
	ResultTypeBusiness = "business"
	ResultTypePost     = "post"
)

// Result is one merged search hit: either a business card or an offer.
type Result struct {
	Type     string          `json:"type"`
	Business *BusinessResult `json:"business,omitempty"`
	Post     *entity.Post    `json:"post,omitempty"`
}

type SearchResponse struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}
