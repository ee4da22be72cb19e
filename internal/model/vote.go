package model

import (
	"sort"
	"time"
)

// VoteType is the client-facing vote request.
type VoteType string

const (
	VoteTypeUpvote   VoteType = "upvote"
	VoteTypeDownvote VoteType = "downvote"
	VoteTypeRemove   VoteType = "remove"
)

func (v VoteType) Valid() bool {
	switch v {
	case VoteTypeUpvote, VoteTypeDownvote, VoteTypeRemove:
		return true
	}
	return false
}

// Direction maps an upvote/downvote request to the stored direction.
// Remove has no direction and returns "".
func (v VoteType) Direction() VoteDirection {
	switch v {
	case VoteTypeUpvote:
		return VoteUp
	case VoteTypeDownvote:
		return VoteDown
	}
	return ""
}

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

type Vote struct {
	Direction VoteDirection
	CastAt    time.Time
	Voter     Author
}

// VoteLedger holds at most one vote per user. Keying by user id makes the
// upvote/downvote sets mutually exclusive and free of duplicates.
type VoteLedger map[int64]Vote

// Cast applies a vote request for userID. A repeated identical request keeps
// the original vote, including its CastAt.
func (l VoteLedger) Cast(userID int64, voteType VoteType, at time.Time) {
	dir := voteType.Direction()
	if existing, ok := l[userID]; ok && existing.Direction == dir {
		return
	}
	delete(l, userID)
	if dir != "" {
		l[userID] = Vote{Direction: dir, CastAt: at, Voter: Author{ID: userID}}
	}
}

// Voters returns the ids that voted in the given direction, oldest vote first.
func (l VoteLedger) Voters(dir VoteDirection) []int64 {
	ids := make([]int64, 0, len(l))
	for userID, v := range l {
		if v.Direction == dir {
			ids = append(ids, userID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l[ids[i]], l[ids[j]]
		if !a.CastAt.Equal(b.CastAt) {
			return a.CastAt.Before(b.CastAt)
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (l VoteLedger) Count(dir VoteDirection) int {
	n := 0
	for _, v := range l {
		if v.Direction == dir {
			n++
		}
	}
	return n
}

func (l VoteLedger) Clone() VoteLedger {
	out := make(VoteLedger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Tally is the vote projection returned after a vote.
type Tally struct {
	Upvotes       []Author
	Downvotes     []Author
	UpvoteCount   int
	DownvoteCount int
}

func (l VoteLedger) Tally() Tally {
	up := l.Voters(VoteUp)
	down := l.Voters(VoteDown)
	t := Tally{
		Upvotes:       make([]Author, len(up)),
		Downvotes:     make([]Author, len(down)),
		UpvoteCount:   len(up),
		DownvoteCount: len(down),
	}
	for i, userID := range up {
		t.Upvotes[i] = l[userID].Voter
	}
	for i, userID := range down {
		t.Downvotes[i] = l[userID].Voter
	}
	return t
}
