package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
)

// Store keeps problems and solutions in process. One mutex guards both maps
// so cross-entity operations (accept, cascade delete) are atomic.
type Store struct {
	mu        sync.RWMutex
	problems  map[int64]*model.Problem
	solutions map[int64]*model.Solution
}

func New() *Store {
	return &Store{
		problems:  make(map[int64]*model.Problem),
		solutions: make(map[int64]*model.Solution),
	}
}

// Stores wires the in-memory problem and solution views with the given
// user directory.
func (s *Store) Stores(users store.UserDirectory) *store.Stores {
	return store.NewStores(s.Problems(), s.Solutions(), users)
}

func (s *Store) Problems() store.ProblemStore {
	return &problemStore{s}
}

func (s *Store) Solutions() store.SolutionStore {
	return &solutionStore{s}
}

type problemStore struct{ *Store }

type solutionStore struct{ *Store }

func (s *problemStore) Create(_ context.Context, p *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.problems[p.ID] = cloneProblem(p)
	return nil
}

func (s *problemStore) GetByID(_ context.Context, problemID int64) (*model.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.problems[problemID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProblem(p), nil
}

func (s *problemStore) List(_ context.Context, filter model.ProblemFilter, q model.ListQuery) ([]model.Problem, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.Problem, 0, len(s.problems))
	for _, p := range s.problems {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}

	less, err := problemLess(q.Sort)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j])
	})

	start, end := window(len(matched), q.Page)
	out := make([]model.Problem, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, *cloneProblem(p))
	}
	return out, len(matched), nil
}

func (s *problemStore) Update(_ context.Context, p *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.problems[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Title = p.Title
	existing.Description = p.Description
	existing.Status = p.Status
	existing.Priority = p.Priority
	existing.Tags = append([]string{}, p.Tags...)
	existing.UpdatedAt = p.UpdatedAt

	*p = *cloneProblem(existing)
	return nil
}

func (s *problemStore) Vote(_ context.Context, problemID, userID int64, voteType model.VoteType, at time.Time) (*model.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.problems[problemID]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Votes.Cast(userID, voteType, at)
	p.UpdatedAt = at
	return cloneProblem(p), nil
}

func (s *problemStore) DeleteCascade(_ context.Context, problemID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.problems[problemID]; !ok {
		return 0, store.ErrNotFound
	}

	removed := 0
	for solutionID, sol := range s.solutions {
		if sol.Problem.ID == problemID {
			delete(s.solutions, solutionID)
			removed++
		}
	}
	delete(s.problems, problemID)
	return removed, nil
}

func (s *solutionStore) Create(_ context.Context, sol *model.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.problems[sol.Problem.ID]; !ok {
		return store.ErrNotFound
	}
	s.solutions[sol.ID] = cloneSolution(sol)
	return nil
}

func (s *solutionStore) GetByID(_ context.Context, solutionID int64) (*model.Solution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sol, ok := s.solutions[solutionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.withParent(sol), nil
}

func (s *solutionStore) List(_ context.Context, filter model.SolutionFilter, q model.ListQuery) ([]model.Solution, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.Solution, 0, len(s.solutions))
	for _, sol := range s.solutions {
		if filter.ProblemID != nil && sol.Problem.ID != *filter.ProblemID {
			continue
		}
		matched = append(matched, sol)
	}

	less, err := solutionLess(q.Sort)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j])
	})

	start, end := window(len(matched), q.Page)
	out := make([]model.Solution, 0, end-start)
	for _, sol := range matched[start:end] {
		out = append(out, *s.withParent(sol))
	}
	return out, len(matched), nil
}

func (s *solutionStore) Update(_ context.Context, sol *model.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.solutions[sol.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Description = sol.Description
	existing.Images = append([]string{}, sol.Images...)
	existing.Resources = append([]model.Resource{}, sol.Resources...)
	existing.EstimatedCost = sol.EstimatedCost
	existing.EstimatedTime = sol.EstimatedTime
	existing.Difficulty = sol.Difficulty
	existing.UpdatedAt = sol.UpdatedAt

	*sol = *s.withParent(existing)
	return nil
}

func (s *solutionStore) Delete(_ context.Context, solutionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sol, ok := s.solutions[solutionID]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.solutions, solutionID)

	if p, ok := s.problems[sol.Problem.ID]; ok && p.AcceptedSolution != nil && *p.AcceptedSolution == solutionID {
		p.AcceptedSolution = nil
	}
	return nil
}

func (s *solutionStore) Vote(_ context.Context, solutionID, userID int64, voteType model.VoteType, at time.Time) (*model.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sol, ok := s.solutions[solutionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	sol.Votes.Cast(userID, voteType, at)
	sol.UpdatedAt = at
	return s.withParent(sol), nil
}

func (s *solutionStore) AddComment(_ context.Context, solutionID int64, comment model.Comment) (*model.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sol, ok := s.solutions[solutionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	sol.Comments = append(sol.Comments, comment)
	sol.UpdatedAt = comment.CreatedAt
	return s.withParent(sol), nil
}

func (s *solutionStore) Accept(_ context.Context, problemID, solutionID int64, at time.Time) (*model.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.problems[problemID]
	if !ok {
		return nil, store.ErrNotFound
	}
	target, ok := s.solutions[solutionID]
	if !ok || target.Problem.ID != problemID {
		return nil, store.ErrNotFound
	}

	for _, sol := range s.solutions {
		if sol.Problem.ID == problemID && sol.ID != solutionID {
			sol.IsAccepted = false
		}
	}
	target.IsAccepted = true
	target.UpdatedAt = at
	p.AcceptedSolution = &solutionID

	return s.withParent(target), nil
}

// withParent copies a solution and fills its problem summary. Callers hold the lock.
func (s *solutionStore) withParent(sol *model.Solution) *model.Solution {
	out := cloneSolution(sol)
	if p, ok := s.problems[sol.Problem.ID]; ok {
		out.Problem.Title = p.Title
		out.Problem.Description = p.Description
	}
	return out
}

// window clamps a 1-based page to [start, end) slice bounds.
func window(n int, page model.Page) (int, int) {
	start := page.Offset()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > n {
		end = n
	}
	return start, end
}

func cloneProblem(p *model.Problem) *model.Problem {
	out := *p
	out.Images = append([]string{}, p.Images...)
	out.Tags = append([]string{}, p.Tags...)
	out.Votes = p.Votes.Clone()
	if p.AcceptedSolution != nil {
		v := *p.AcceptedSolution
		out.AcceptedSolution = &v
	}
	return &out
}

func cloneSolution(sol *model.Solution) *model.Solution {
	out := *sol
	out.Images = append([]string{}, sol.Images...)
	out.Resources = append([]model.Resource{}, sol.Resources...)
	out.Comments = append([]model.Comment{}, sol.Comments...)
	out.Votes = sol.Votes.Clone()
	return &out
}
