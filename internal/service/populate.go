package service

import (
	"context"
	"log/slog"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
)

// populator fills author and voter profiles from the user directory. A
// directory failure degrades to id-only authors instead of failing the read.
type populator struct {
	users store.UserDirectory
}

func (p populator) problems(ctx context.Context, problems ...*model.Problem) {
	ids := newIDSet()
	for _, pr := range problems {
		ids.add(pr.Author.ID)
		ids.addLedger(pr.Votes)
	}
	authors := p.lookup(ctx, ids)
	for _, pr := range problems {
		pr.Author = resolve(authors, pr.Author.ID)
		fillVoters(pr.Votes, authors)
	}
}

func (p populator) solutions(ctx context.Context, solutions ...*model.Solution) {
	ids := newIDSet()
	for _, sol := range solutions {
		ids.add(sol.Author.ID)
		ids.addLedger(sol.Votes)
		for _, c := range sol.Comments {
			ids.add(c.Author.ID)
		}
	}
	authors := p.lookup(ctx, ids)
	for _, sol := range solutions {
		sol.Author = resolve(authors, sol.Author.ID)
		fillVoters(sol.Votes, authors)
		for i := range sol.Comments {
			sol.Comments[i].Author = resolve(authors, sol.Comments[i].Author.ID)
		}
	}
}

func (p populator) author(ctx context.Context, userID int64) model.Author {
	ids := newIDSet()
	ids.add(userID)
	return resolve(p.lookup(ctx, ids), userID)
}

func (p populator) lookup(ctx context.Context, ids *idSet) map[int64]model.Author {
	if p.users == nil || len(ids.order) == 0 {
		return nil
	}
	authors, err := p.users.Lookup(ctx, ids.order)
	if err != nil {
		slog.WarnContext(ctx, "user lookup failed, returning id-only authors", "error", err, "count", len(ids.order))
		return nil
	}
	return authors
}

func resolve(authors map[int64]model.Author, userID int64) model.Author {
	if a, ok := authors[userID]; ok {
		a.ID = userID
		return a
	}
	return model.Author{ID: userID}
}

func fillVoters(ledger model.VoteLedger, authors map[int64]model.Author) {
	for userID, v := range ledger {
		v.Voter = resolve(authors, userID)
		ledger[userID] = v
	}
}

type idSet struct {
	seen  map[int64]bool
	order []int64
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[int64]bool)}
}

func (s *idSet) add(userID int64) {
	if userID == 0 || s.seen[userID] {
		return
	}
	s.seen[userID] = true
	s.order = append(s.order, userID)
}

func (s *idSet) addLedger(ledger model.VoteLedger) {
	for userID := range ledger {
		s.add(userID)
	}
}
