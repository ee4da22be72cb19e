package dto

import (
	"time"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

type ResourceResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type CommentResponse struct {
	ID        int64          `json:"id,string"`
	Text      string         `json:"text"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
}

type ProblemRefResponse struct {
	ID          int64  `json:"id,string"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type SolutionResponse struct {
	ID            int64              `json:"id,string"`
	Description   string             `json:"description"`
	Images        []string           `json:"images"`
	Resources     []ResourceResponse `json:"resources"`
	EstimatedCost float64            `json:"estimatedCost"`
	EstimatedTime string             `json:"estimatedTime"`
	Difficulty    string             `json:"difficulty"`
	Author        AuthorResponse     `json:"author"`
	Problem       ProblemRefResponse `json:"problem"`
	Upvotes       []VoterResponse    `json:"upvotes"`
	Downvotes     []VoterResponse    `json:"downvotes"`
	UpvoteCount   int                `json:"upvoteCount"`
	DownvoteCount int                `json:"downvoteCount"`
	Comments      []CommentResponse  `json:"comments"`
	CommentCount  int                `json:"commentCount"`
	IsAccepted    bool               `json:"isAccepted"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type SolutionListResponse struct {
	Solutions   []SolutionResponse `json:"solutions"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	Total       int                `json:"total"`
}

type AcceptResponse struct {
	Message  string            `json:"message"`
	Solution *SolutionResponse `json:"solution"`
}

func ToCommentResponse(c *model.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Author:    ToAuthorResponse(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

// ToSolutionResponse renders a solution with a {id, title} problem summary.
func ToSolutionResponse(s *model.Solution) *SolutionResponse {
	tally := s.Votes.Tally()
	resp := &SolutionResponse{
		ID:            s.ID,
		Description:   s.Description,
		Images:        nonNil(s.Images),
		Resources:     make([]ResourceResponse, len(s.Resources)),
		EstimatedCost: s.EstimatedCost,
		EstimatedTime: string(s.EstimatedTime),
		Difficulty:    string(s.Difficulty),
		Author:        ToAuthorResponse(s.Author),
		Problem:       ProblemRefResponse{ID: s.Problem.ID, Title: s.Problem.Title},
		Upvotes:       toVoters(tally.Upvotes),
		Downvotes:     toVoters(tally.Downvotes),
		UpvoteCount:   tally.UpvoteCount,
		DownvoteCount: tally.DownvoteCount,
		Comments:      make([]CommentResponse, len(s.Comments)),
		CommentCount:  s.CommentCount(),
		IsAccepted:    s.IsAccepted,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for i, r := range s.Resources {
		resp.Resources[i] = ResourceResponse{Name: r.Name, URL: r.URL, Type: string(r.Type)}
	}
	for i := range s.Comments {
		resp.Comments[i] = *ToCommentResponse(&s.Comments[i])
	}
	return resp
}

// ToSolutionDetailResponse adds the problem description for the
// single-solution view.
func ToSolutionDetailResponse(s *model.Solution) *SolutionResponse {
	resp := ToSolutionResponse(s)
	resp.Problem.Description = s.Problem.Description
	return resp
}

func ToSolutionListResponse(res *service.ListResult[model.Solution]) *SolutionListResponse {
	out := &SolutionListResponse{
		Solutions:   make([]SolutionResponse, len(res.Items)),
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
		Total:       res.Total,
	}
	for i := range res.Items {
		out.Solutions[i] = *ToSolutionResponse(&res.Items[i])
	}
	return out
}
