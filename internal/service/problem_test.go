package service_test

import (
	"context"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
	"github.com/kumarshubhh/Yuvamanthan/internal/store/memory"
)

var (
	alice = model.Actor{ID: 101, Name: "Alice"}
	bob   = model.Actor{ID: 202, Name: "Bob"}
)

func ptr[T any](v T) *T {
	return &v
}

func validProblemInput() service.CreateProblemInput {
	return service.CreateProblemInput{
		Title:       "Pothole on 5th Ave",
		Description: "A deep pothole near the school",
		Location:    "5th Ave, Bengaluru",
		Coordinates: service.CoordinatesInput{Lat: ptr(12.9), Lng: ptr(77.6)},
		Images:      []string{"http://x/1.jpg"},
		Category:    "Infrastructure",
	}
}

func fieldsOf(err error) []string {
	var verr *service.ValidationError
	Expect(errors.As(err, &verr)).To(BeTrue(), "expected a ValidationError, got %v", err)
	fields := make([]string, len(verr.Errors))
	for i, fe := range verr.Errors {
		fields[i] = fe.Field
	}
	return fields
}

var _ = Describe("ProblemService", func() {
	var (
		svc      service.ProblemService
		mem      *memory.Store
		users    *memory.Directory
		producer *mockProducer
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		mem = memory.New()
		users = memory.NewDirectory(
			model.Author{ID: alice.ID, Name: "Alice", Avatar: "http://x/alice.png", Location: "Bengaluru"},
			model.Author{ID: bob.ID, Name: "Bob"},
		)
		producer = &mockProducer{}
		svc = service.NewProblemService(mem.Problems(), users, producer)
	})

	Describe("Create", func() {
		It("should apply defaults and populate the author", func() {
			p, err := svc.Create(ctx, alice, validProblemInput())

			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).NotTo(BeZero())
			Expect(p.Status).To(Equal(model.ProblemStatusOpen))
			Expect(p.Priority).To(Equal(model.PriorityMedium))
			Expect(p.UpvoteCount()).To(Equal(0))
			Expect(p.Tags).To(BeEmpty())
			Expect(p.Author.Name).To(Equal("Alice"))
			Expect(p.AcceptedSolution).To(BeNil())
			Expect(producer.types()).To(Equal([]string{queue.EventProblemCreated}))
		})

		It("should trim tags without rewriting them", func() {
			in := validProblemInput()
			in.Tags = []string{" Road Safety ", "Road Safety", "", "सड़क", "C++", "C#"}

			p, err := svc.Create(ctx, alice, in)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Tags).To(Equal([]string{"Road Safety", "सड़क", "C++", "C#"}))
		})

		It("should trim before checking lengths", func() {
			in := validProblemInput()
			in.Title = "   Hi   "

			_, err := svc.Create(ctx, alice, in)

			Expect(fieldsOf(err)).To(ConsistOf("title"))
		})

		It("should report every invalid field", func() {
			in := service.CreateProblemInput{
				Title:       "Hole",
				Description: "too short",
				Category:    "Roads",
				Priority:    ptr("Urgent"),
				Coordinates: service.CoordinatesInput{Lat: ptr(120.0)},
			}

			_, err := svc.Create(ctx, alice, in)

			Expect(fieldsOf(err)).To(ConsistOf(
				"title", "description", "location", "coordinates.lat", "coordinates.lng",
				"images", "category", "priority",
			))
			var verr *service.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Errors).To(ContainElement(service.FieldError{Field: "images", Message: "At least one image is required"}))
		})

		It("should require an actor", func() {
			_, err := svc.Create(ctx, model.Actor{}, validProblemInput())
			Expect(err).To(MatchError(service.ErrUnauthorized))
		})
	})

	Describe("Get", func() {
		It("should return not found for an unknown id", func() {
			_, err := svc.Get(ctx, 12345)
			Expect(err).To(MatchError(service.ErrProblemNotFound))
		})

		It("should fall back to id-only authors when the directory fails", func() {
			created, err := svc.Create(ctx, alice, validProblemInput())
			Expect(err).NotTo(HaveOccurred())

			failing := &mockUserDirectory{lookupFn: func(context.Context, []int64) (map[int64]model.Author, error) {
				return nil, errors.New("connection refused")
			}}
			svc = service.NewProblemService(mem.Problems(), failing, producer)

			p, err := svc.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Author).To(Equal(model.Author{ID: alice.ID}))
		})
	})

	Describe("Update", func() {
		var problem *model.Problem

		BeforeEach(func() {
			var err error
			problem, err = svc.Create(ctx, alice, validProblemInput())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should let the author change mutable fields", func() {
			p, err := svc.Update(ctx, alice, problem.ID, service.UpdateProblemInput{
				Status: ptr("In Progress"),
				Tags:   &[]string{"Traffic"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(model.ProblemStatusInProgress))
			Expect(p.Tags).To(Equal([]string{"Traffic"}))
			Expect(p.Title).To(Equal(problem.Title))
		})

		It("should forbid other users and leave the problem unchanged", func() {
			_, err := svc.Update(ctx, bob, problem.ID, service.UpdateProblemInput{Title: ptr("Hijacked title")})

			Expect(errors.Is(err, service.ErrForbidden)).To(BeTrue())
			Expect(err.Error()).To(Equal("Not authorized to update this problem"))

			p, err := svc.Get(ctx, problem.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Title).To(Equal("Pothole on 5th Ave"))
		})

		It("should validate before checking existence", func() {
			_, err := svc.Update(ctx, alice, 999, service.UpdateProblemInput{Status: ptr("Done")})
			Expect(fieldsOf(err)).To(ConsistOf("status"))
		})

		It("should report not found before authorization", func() {
			_, err := svc.Update(ctx, bob, 999, service.UpdateProblemInput{Title: ptr("Another title")})
			Expect(err).To(MatchError(service.ErrProblemNotFound))
		})
	})

	Describe("Delete", func() {
		It("should cascade to solutions", func() {
			problem, err := svc.Create(ctx, alice, validProblemInput())
			Expect(err).NotTo(HaveOccurred())

			solutions := service.NewSolutionService(mem.Solutions(), mem.Problems(), users, producer)
			sol, err := solutions.Create(ctx, bob, service.CreateSolutionInput{
				Description: "Fill it with cold mix asphalt",
				Problem:     strconv.FormatInt(problem.ID, 10),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Delete(ctx, alice, problem.ID)).To(Succeed())

			_, err = svc.Get(ctx, problem.ID)
			Expect(err).To(MatchError(service.ErrProblemNotFound))
			_, err = solutions.Get(ctx, sol.ID)
			Expect(err).To(MatchError(service.ErrSolutionNotFound))
		})

		It("should forbid other users", func() {
			problem, err := svc.Create(ctx, alice, validProblemInput())
			Expect(err).NotTo(HaveOccurred())

			err = svc.Delete(ctx, bob, problem.ID)
			Expect(err).To(MatchError(service.ErrForbidden))

			_, err = svc.Get(ctx, problem.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Vote", func() {
		var problem *model.Problem

		BeforeEach(func() {
			var err error
			problem, err = svc.Create(ctx, alice, validProblemInput())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should move a voter from upvotes to downvotes", func() {
			_, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "upvote"})
			Expect(err).NotTo(HaveOccurred())

			tally, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "downvote"})

			Expect(err).NotTo(HaveOccurred())
			Expect(tally.Upvotes).To(BeEmpty())
			Expect(tally.Downvotes).To(Equal([]model.Author{{ID: bob.ID, Name: "Bob"}}))
			Expect(tally.UpvoteCount).To(Equal(0))
			Expect(tally.DownvoteCount).To(Equal(1))
		})

		It("should be idempotent", func() {
			for range 3 {
				_, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "upvote"})
				Expect(err).NotTo(HaveOccurred())
			}
			tally, err := svc.Vote(ctx, alice, problem.ID, service.VoteInput{VoteType: "upvote"})

			Expect(err).NotTo(HaveOccurred())
			Expect(tally.UpvoteCount).To(Equal(2))
		})

		It("should clear the vote on remove", func() {
			_, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "upvote"})
			Expect(err).NotTo(HaveOccurred())

			tally, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "remove"})

			Expect(err).NotTo(HaveOccurred())
			Expect(tally.UpvoteCount).To(BeZero())
			Expect(tally.DownvoteCount).To(BeZero())
		})

		It("should reject an unknown vote type", func() {
			_, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "sideways"})
			Expect(fieldsOf(err)).To(ConsistOf("voteType"))
		})

		It("should return not found for a missing problem", func() {
			_, err := svc.Vote(ctx, bob, 999, service.VoteInput{VoteType: "upvote"})
			Expect(err).To(MatchError(service.ErrProblemNotFound))
		})

		It("should still succeed when publishing fails", func() {
			producer.publishFn = func(context.Context, queue.ActivityEvent) error {
				return errors.New("redis down")
			}

			_, err := svc.Vote(ctx, bob, problem.ID, service.VoteInput{VoteType: "upvote"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := range 12 {
				in := validProblemInput()
				in.Title = "Problem number " + strconv.Itoa(i)
				if i%3 == 0 {
					in.Category = "Health"
				}
				_, err := svc.Create(ctx, alice, in)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should default to the first page of ten", func() {
			res, err := svc.List(ctx, service.ListProblemsParams{})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items).To(HaveLen(10))
			Expect(res.Total).To(Equal(12))
			Expect(res.CurrentPage).To(Equal(1))
			Expect(res.TotalPages).To(Equal(2))
		})

		It("should filter by category", func() {
			res, err := svc.List(ctx, service.ListProblemsParams{Category: "Health"})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(4))
			for _, p := range res.Items {
				Expect(p.Category).To(Equal(model.CategoryHealth))
			}
		})

		It("should sort ascending with a leading dash", func() {
			res, err := svc.List(ctx, service.ListProblemsParams{ListParams: service.ListParams{SortBy: "title", Limit: "100"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items[0].Title).To(Equal("Problem number 9"))

			res, err = svc.List(ctx, service.ListProblemsParams{ListParams: service.ListParams{SortBy: "-title", Limit: "100"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items[0].Title).To(Equal("Problem number 0"))
		})

		It("should cap the limit", func() {
			res, err := svc.List(ctx, service.ListProblemsParams{ListParams: service.ListParams{Limit: "1000"}})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items).To(HaveLen(12))
			Expect(res.TotalPages).To(Equal(1))
		})

		DescribeTable("rejecting bad query values",
			func(params service.ListProblemsParams, field string) {
				_, err := svc.List(ctx, params)
				Expect(fieldsOf(err)).To(ConsistOf(field))
			},
			Entry("unknown sort field", service.ListProblemsParams{ListParams: service.ListParams{SortBy: "author"}}, "sortBy"),
			Entry("solution-only sort field", service.ListProblemsParams{ListParams: service.ListParams{SortBy: "estimatedCost"}}, "sortBy"),
			Entry("zero page", service.ListProblemsParams{ListParams: service.ListParams{Page: "0"}}, "page"),
			Entry("negative limit", service.ListProblemsParams{ListParams: service.ListParams{Limit: "-5"}}, "limit"),
			Entry("non-numeric page", service.ListProblemsParams{ListParams: service.ListParams{Page: "two"}}, "page"),
			Entry("unknown category", service.ListProblemsParams{Category: "Roads"}, "category"),
			Entry("unknown status", service.ListProblemsParams{Status: "Done"}, "status"),
		)
	})

	Describe("store failures", func() {
		It("should wrap unexpected errors", func() {
			failing := &mockProblemStore{getByIDFn: func(context.Context, int64) (*model.Problem, error) {
				return nil, errors.New("connection reset")
			}}
			svc = service.NewProblemService(failing, users, producer)

			_, err := svc.Get(ctx, 1)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("getting problem"))
			Expect(errors.Is(err, store.ErrNotFound)).To(BeFalse())
		})
	})
})
