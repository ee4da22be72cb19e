package model

import "time"

type Resource struct {
	Name string
	URL  string
	Type ResourceType
}

type Comment struct {
	ID        int64
	Text      string
	Author    Author
	CreatedAt time.Time
}

// ProblemRef is the parent problem as seen from a solution.
type ProblemRef struct {
	ID          int64
	Title       string
	Description string
}

type Solution struct {
	ID            int64
	Description   string
	Images        []string
	Resources     []Resource
	EstimatedCost float64
	EstimatedTime EstimatedTime
	Difficulty    Difficulty
	Author        Author
	Problem       ProblemRef
	Votes         VoteLedger
	Comments      []Comment
	IsAccepted    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Solution) UpvoteCount() int {
	return s.Votes.Count(VoteUp)
}

func (s *Solution) DownvoteCount() int {
	return s.Votes.Count(VoteDown)
}

func (s *Solution) CommentCount() int {
	return len(s.Comments)
}

// SolutionPatch carries the author-mutable fields; nil means unchanged.
// The parent problem is fixed at creation and has no patch field.
type SolutionPatch struct {
	Description   *string
	Images        *[]string
	Resources     *[]Resource
	EstimatedCost *float64
	EstimatedTime *EstimatedTime
	Difficulty    *Difficulty
}

func (p SolutionPatch) IsEmpty() bool {
	return p.Description == nil && p.Images == nil && p.Resources == nil &&
		p.EstimatedCost == nil && p.EstimatedTime == nil && p.Difficulty == nil
}

func (p SolutionPatch) Apply(s *Solution) {
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Images != nil {
		s.Images = *p.Images
	}
	if p.Resources != nil {
		s.Resources = *p.Resources
	}
	if p.EstimatedCost != nil {
		s.EstimatedCost = *p.EstimatedCost
	}
	if p.EstimatedTime != nil {
		s.EstimatedTime = *p.EstimatedTime
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
}

type SolutionFilter struct {
	ProblemID *int64
}
