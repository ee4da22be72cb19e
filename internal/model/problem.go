package model

import "time"

type Coordinates struct {
	Lat float64
	Lng float64
}

type Problem struct {
	ID               int64
	Title            string
	Description      string
	Location         string
	Coordinates      Coordinates
	Images           []string
	Category         Category
	Priority         Priority
	Status           ProblemStatus
	Author           Author
	Votes            VoteLedger
	Tags             []string
	AcceptedSolution *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Problem) UpvoteCount() int {
	return p.Votes.Count(VoteUp)
}

func (p *Problem) DownvoteCount() int {
	return p.Votes.Count(VoteDown)
}

// ProblemPatch carries the author-mutable fields; nil means unchanged.
type ProblemPatch struct {
	Title       *string
	Description *string
	Status      *ProblemStatus
	Priority    *Priority
	Tags        *[]string
}

func (p ProblemPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && p.Tags == nil
}

// Apply copies the set fields onto problem.
func (p ProblemPatch) Apply(problem *Problem) {
	if p.Title != nil {
		problem.Title = *p.Title
	}
	if p.Description != nil {
		problem.Description = *p.Description
	}
	if p.Status != nil {
		problem.Status = *p.Status
	}
	if p.Priority != nil {
		problem.Priority = *p.Priority
	}
	if p.Tags != nil {
		problem.Tags = *p.Tags
	}
}

type ProblemFilter struct {
	Category *Category
	Status   *ProblemStatus
}
