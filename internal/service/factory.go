package service

import (
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
)

type Services struct {
	stores   *store.Stores
	activity queue.Producer
}

func NewServices(stores *store.Stores, activity queue.Producer) *Services {
	if activity == nil {
		activity = queue.NewNoopProducer()
	}
	return &Services{
		stores:   stores,
		activity: activity,
	}
}

func (s *Services) Problems() ProblemService {
	return NewProblemService(s.stores.Problems(), s.stores.Users(), s.activity)
}

func (s *Services) Solutions() SolutionService {
	return NewSolutionService(s.stores.Solutions(), s.stores.Problems(), s.stores.Users(), s.activity)
}
