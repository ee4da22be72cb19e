package store

import (
	"strconv"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/common/arangodb"
	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

const (
	problemsCollection  = "problems"
	solutionsCollection = "solutions"
)

// Collections lists the document collections and indexes the stores rely on.
var Collections = []arangodb.CollectionSpec{
	{
		Name: problemsCollection,
		Indexes: []arangodb.IndexSpec{
			{Fields: []string{"category", "status"}},
			{Fields: []string{"createdAt"}},
		},
	},
	{
		Name: solutionsCollection,
		Indexes: []arangodb.IndexSpec{
			{Fields: []string{"problem"}},
			{Fields: []string{"createdAt"}},
		},
	},
}

// Ids are kept as decimal strings and timestamps as unix milliseconds so AQL
// never sees a lossy double and sorts stay chronological.

type voteDoc struct {
	Direction string `json:"direction"`
	CastAt    int64  `json:"castAt"`
}

type coordinatesDoc struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type problemDoc struct {
	Key              string             `json:"_key"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Location         string             `json:"location"`
	Coordinates      coordinatesDoc     `json:"coordinates"`
	Images           []string           `json:"images"`
	Category         string             `json:"category"`
	Priority         string             `json:"priority"`
	Status           string             `json:"status"`
	Author           string             `json:"author"`
	Votes            map[string]voteDoc `json:"votes"`
	Tags             []string           `json:"tags"`
	AcceptedSolution *string            `json:"acceptedSolution,omitempty"`
	CreatedAt        int64              `json:"createdAt"`
	UpdatedAt        int64              `json:"updatedAt"`
}

type resourceDoc struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type commentDoc struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"createdAt"`
}

type solutionDoc struct {
	Key           string             `json:"_key"`
	Description   string             `json:"description"`
	Images        []string           `json:"images"`
	Resources     []resourceDoc      `json:"resources"`
	EstimatedCost float64            `json:"estimatedCost"`
	EstimatedTime string             `json:"estimatedTime"`
	Difficulty    string             `json:"difficulty"`
	Author        string             `json:"author"`
	Problem       string             `json:"problem"`
	Votes         map[string]voteDoc `json:"votes"`
	Comments      []commentDoc       `json:"comments"`
	IsAccepted    bool               `json:"isAccepted"`
	CreatedAt     int64              `json:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt"`
}

// solutionRow is a solution joined with its parent problem's summary.
type solutionRow struct {
	solutionDoc
	ProblemTitle       string `json:"problemTitle"`
	ProblemDescription string `json:"problemDescription"`
}

type countRow struct {
	Total int `json:"total"`
}

func toProblemDoc(p *model.Problem) problemDoc {
	doc := problemDoc{
		Key:         id.Format(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Coordinates: coordinatesDoc{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng},
		Images:      nonNil(p.Images),
		Category:    string(p.Category),
		Priority:    string(p.Priority),
		Status:      string(p.Status),
		Author:      id.Format(p.Author.ID),
		Votes:       toVoteDocs(p.Votes),
		Tags:        nonNil(p.Tags),
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
	if p.AcceptedSolution != nil {
		doc.AcceptedSolution = ptr(id.Format(*p.AcceptedSolution))
	}
	return doc
}

func toProblemModel(doc problemDoc) *model.Problem {
	p := &model.Problem{
		ID:          parseID(doc.Key),
		Title:       doc.Title,
		Description: doc.Description,
		Location:    doc.Location,
		Coordinates: model.Coordinates{Lat: doc.Coordinates.Lat, Lng: doc.Coordinates.Lng},
		Images:      nonNil(doc.Images),
		Category:    model.Category(doc.Category),
		Priority:    model.Priority(doc.Priority),
		Status:      model.ProblemStatus(doc.Status),
		Author:      model.Author{ID: parseID(doc.Author)},
		Votes:       toVoteLedger(doc.Votes),
		Tags:        nonNil(doc.Tags),
		CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(doc.UpdatedAt).UTC(),
	}
	if doc.AcceptedSolution != nil && *doc.AcceptedSolution != "" {
		p.AcceptedSolution = ptr(parseID(*doc.AcceptedSolution))
	}
	return p
}

func toSolutionDoc(s *model.Solution) solutionDoc {
	comments := make([]commentDoc, len(s.Comments))
	for i, c := range s.Comments {
		comments[i] = toCommentDoc(c)
	}
	return solutionDoc{
		Key:           id.Format(s.ID),
		Description:   s.Description,
		Images:        nonNil(s.Images),
		Resources:     toResourceDocs(s.Resources),
		EstimatedCost: s.EstimatedCost,
		EstimatedTime: string(s.EstimatedTime),
		Difficulty:    string(s.Difficulty),
		Author:        id.Format(s.Author.ID),
		Problem:       id.Format(s.Problem.ID),
		Votes:         toVoteDocs(s.Votes),
		Comments:      comments,
		IsAccepted:    s.IsAccepted,
		CreatedAt:     s.CreatedAt.UnixMilli(),
		UpdatedAt:     s.UpdatedAt.UnixMilli(),
	}
}

func toSolutionModel(row solutionRow) *model.Solution {
	doc := row.solutionDoc
	resources := make([]model.Resource, len(doc.Resources))
	for i, r := range doc.Resources {
		resources[i] = model.Resource{Name: r.Name, URL: r.URL, Type: model.ResourceType(r.Type)}
	}
	comments := make([]model.Comment, len(doc.Comments))
	for i, c := range doc.Comments {
		comments[i] = model.Comment{
			ID:        parseID(c.ID),
			Text:      c.Text,
			Author:    model.Author{ID: parseID(c.Author)},
			CreatedAt: time.UnixMilli(c.CreatedAt).UTC(),
		}
	}
	return &model.Solution{
		ID:            parseID(doc.Key),
		Description:   doc.Description,
		Images:        nonNil(doc.Images),
		Resources:     resources,
		EstimatedCost: doc.EstimatedCost,
		EstimatedTime: model.EstimatedTime(doc.EstimatedTime),
		Difficulty:    model.Difficulty(doc.Difficulty),
		Author:        model.Author{ID: parseID(doc.Author)},
		Problem: model.ProblemRef{
			ID:          parseID(doc.Problem),
			Title:       row.ProblemTitle,
			Description: row.ProblemDescription,
		},
		Votes:      toVoteLedger(doc.Votes),
		Comments:   comments,
		IsAccepted: doc.IsAccepted,
		CreatedAt:  time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMilli(doc.UpdatedAt).UTC(),
	}
}

func toCommentDoc(c model.Comment) commentDoc {
	return commentDoc{
		ID:        id.Format(c.ID),
		Text:      c.Text,
		Author:    id.Format(c.Author.ID),
		CreatedAt: c.CreatedAt.UnixMilli(),
	}
}

func toResourceDocs(resources []model.Resource) []resourceDoc {
	out := make([]resourceDoc, len(resources))
	for i, r := range resources {
		out[i] = resourceDoc{Name: r.Name, URL: r.URL, Type: string(r.Type)}
	}
	return out
}

func toVoteDocs(ledger model.VoteLedger) map[string]voteDoc {
	out := make(map[string]voteDoc, len(ledger))
	for userID, v := range ledger {
		out[id.Format(userID)] = voteDoc{Direction: string(v.Direction), CastAt: v.CastAt.UnixMilli()}
	}
	return out
}

func toVoteLedger(votes map[string]voteDoc) model.VoteLedger {
	ledger := make(model.VoteLedger, len(votes))
	for key, v := range votes {
		userID := parseID(key)
		if userID == 0 {
			continue
		}
		ledger[userID] = model.Vote{
			Direction: model.VoteDirection(v.Direction),
			CastAt:    time.UnixMilli(v.CastAt).UTC(),
			Voter:     model.Author{ID: userID},
		}
	}
	return ledger
}

// voteBindVars renders a vote request for the vote AQL. Remove binds nulls,
// which keepNull:false turns into an attribute removal.
func voteBindVars(key string, userID int64, voteType model.VoteType, at time.Time) map[string]any {
	vars := map[string]any{
		"key":       key,
		"user":      id.Format(userID),
		"direction": nil,
		"vote":      nil,
		"now":       at.UnixMilli(),
	}
	if dir := voteType.Direction(); dir != "" {
		vars["direction"] = string(dir)
		vars["vote"] = voteDoc{Direction: string(dir), CastAt: at.UnixMilli()}
	}
	return vars
}

func parseID(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
