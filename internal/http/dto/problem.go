package dto

import (
	"time"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ProblemResponse struct {
	ID               int64               `json:"id,string"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Location         string              `json:"location"`
	Coordinates      CoordinatesResponse `json:"coordinates"`
	Images           []string            `json:"images"`
	Category         string              `json:"category"`
	Priority         string              `json:"priority"`
	Status           string              `json:"status"`
	Author           AuthorResponse      `json:"author"`
	Upvotes          []VoterResponse     `json:"upvotes"`
	Downvotes        []VoterResponse     `json:"downvotes"`
	UpvoteCount      int                 `json:"upvoteCount"`
	DownvoteCount    int                 `json:"downvoteCount"`
	Tags             []string            `json:"tags"`
	AcceptedSolution *string             `json:"acceptedSolution"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type ProblemListResponse struct {
	Problems    []ProblemResponse `json:"problems"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Total       int               `json:"total"`
}

func ToProblemResponse(p *model.Problem) *ProblemResponse {
	tally := p.Votes.Tally()
	resp := &ProblemResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Location:      p.Location,
		Coordinates:   CoordinatesResponse{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng},
		Images:        nonNil(p.Images),
		Category:      string(p.Category),
		Priority:      string(p.Priority),
		Status:        string(p.Status),
		Author:        ToAuthorResponse(p.Author),
		Upvotes:       toVoters(tally.Upvotes),
		Downvotes:     toVoters(tally.Downvotes),
		UpvoteCount:   tally.UpvoteCount,
		DownvoteCount: tally.DownvoteCount,
		Tags:          nonNil(p.Tags),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.AcceptedSolution != nil {
		s := id.Format(*p.AcceptedSolution)
		resp.AcceptedSolution = &s
	}
	return resp
}

// ToProblemDetailResponse is the single-problem view; the author also
// carries a location.
func ToProblemDetailResponse(p *model.Problem) *ProblemResponse {
	resp := ToProblemResponse(p)
	resp.Author.Location = p.Author.Location
	return resp
}

func ToProblemListResponse(res *service.ListResult[model.Problem]) *ProblemListResponse {
	out := &ProblemListResponse{
		Problems:    make([]ProblemResponse, len(res.Items)),
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
		Total:       res.Total,
	}
	for i := range res.Items {
		out.Problems[i] = *ToProblemResponse(&res.Items[i])
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
