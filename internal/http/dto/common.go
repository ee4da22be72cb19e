package dto

import "github.com/kumarshubhh/Yuvamanthan/internal/model"

type AuthorResponse struct {
	ID       int64  `json:"id,string"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Location string `json:"location,omitempty"`
}

// VoterResponse is the reduced profile listed in vote sets.
type VoterResponse struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

type VoteResponse struct {
	Upvotes       []VoterResponse `json:"upvotes"`
	Downvotes     []VoterResponse `json:"downvotes"`
	UpvoteCount   int             `json:"upvoteCount"`
	DownvoteCount int             `json:"downvoteCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Errors []FieldErrorResponse `json:"errors"`
}

func ToAuthorResponse(a model.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name, Avatar: a.Avatar}
}

func toVoters(authors []model.Author) []VoterResponse {
	out := make([]VoterResponse, len(authors))
	for i, a := range authors {
		out[i] = VoterResponse{ID: a.ID, Name: a.Name}
	}
	return out
}

func ToVoteResponse(t *model.Tally) *VoteResponse {
	return &VoteResponse{
		Upvotes:       toVoters(t.Upvotes),
		Downvotes:     toVoters(t.Downvotes),
		UpvoteCount:   t.UpvoteCount,
		DownvoteCount: t.DownvoteCount,
	}
}
