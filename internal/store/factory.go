package store

import (
	"github.com/kumarshubhh/Yuvamanthan/common/arangodb"
)

type Stores struct {
	problems  ProblemStore
	solutions SolutionStore
	users     UserDirectory
}

// NewStores assembles stores from explicit implementations.
func NewStores(problems ProblemStore, solutions SolutionStore, users UserDirectory) *Stores {
	return &Stores{problems: problems, solutions: solutions, users: users}
}

// NewArangoStores backs problems and solutions with ArangoDB.
func NewArangoStores(client arangodb.Client, users UserDirectory) *Stores {
	return NewStores(newProblemStore(client), newSolutionStore(client), users)
}

func (s *Stores) Problems() ProblemStore {
	return s.problems
}

func (s *Stores) Solutions() SolutionStore {
	return s.solutions
}

func (s *Stores) Users() UserDirectory {
	return s.users
}
