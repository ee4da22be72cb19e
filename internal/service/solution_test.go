package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
	"github.com/kumarshubhh/Yuvamanthan/internal/store/memory"
)

var _ = Describe("SolutionService", func() {
	var (
		problems  service.ProblemService
		svc       service.SolutionService
		producer  *mockProducer
		problem   *model.Problem
		problemID string
		ctx       context.Context
	)

	carol := model.Actor{ID: 303, Name: "Carol"}

	propose := func(actor model.Actor) *model.Solution {
		sol, err := svc.Create(ctx, actor, service.CreateSolutionInput{
			Description: "Fill it with cold mix asphalt",
			Problem:     problemID,
		})
		Expect(err).NotTo(HaveOccurred())
		return sol
	}

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		mem := memory.New()
		users := memory.NewDirectory(
			model.Author{ID: alice.ID, Name: "Alice"},
			model.Author{ID: bob.ID, Name: "Bob", Avatar: "http://x/bob.png"},
		)
		producer = &mockProducer{}
		problems = service.NewProblemService(mem.Problems(), users, producer)
		svc = service.NewSolutionService(mem.Solutions(), mem.Problems(), users, producer)

		var err error
		problem, err = problems.Create(ctx, alice, validProblemInput())
		Expect(err).NotTo(HaveOccurred())
		problemID = strconv.FormatInt(problem.ID, 10)
	})

	Describe("Create", func() {
		It("should apply defaults and reference the problem", func() {
			sol := propose(bob)

			Expect(sol.EstimatedCost).To(BeZero())
			Expect(sol.EstimatedTime).To(Equal(model.EstimatedTimeDays))
			Expect(sol.Difficulty).To(Equal(model.DifficultyMedium))
			Expect(sol.IsAccepted).To(BeFalse())
			Expect(sol.Images).To(BeEmpty())
			Expect(sol.Resources).To(BeEmpty())
			Expect(sol.Problem.ID).To(Equal(problem.ID))
			Expect(sol.Problem.Title).To(Equal(problem.Title))
			Expect(sol.Author.Avatar).To(Equal("http://x/bob.png"))
			Expect(producer.types()).To(ContainElement(queue.EventSolutionProposed))
		})

		It("should return not found when the problem does not exist", func() {
			_, err := svc.Create(ctx, bob, service.CreateSolutionInput{
				Description: "Fill it with cold mix asphalt",
				Problem:     "987654321",
			})
			Expect(err).To(MatchError(service.ErrProblemNotFound))
		})

		It("should validate optional fields when present", func() {
			_, err := svc.Create(ctx, bob, service.CreateSolutionInput{
				Description:   "Fill it with cold mix asphalt",
				Problem:       "not-an-id",
				EstimatedCost: ptr(-10.0),
				EstimatedTime: ptr("Years"),
				Difficulty:    ptr("Trivial"),
				Resources:     []service.ResourceInput{{Name: "Guide", URL: "http://x/guide", Type: "Book"}},
			})

			Expect(fieldsOf(err)).To(ConsistOf("problem", "estimatedCost", "estimatedTime", "difficulty", "resources[0].type"))
			var verr *service.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Errors).To(ContainElement(service.FieldError{Field: "estimatedCost", Message: "Estimated cost must be a non-negative number"}))
		})

		It("should accept a zero estimated cost", func() {
			sol, err := svc.Create(ctx, bob, service.CreateSolutionInput{
				Description:   "Fill it with cold mix asphalt",
				Problem:       problemID,
				EstimatedCost: ptr(0.0),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.EstimatedCost).To(BeZero())
		})
	})

	Describe("Update", func() {
		It("should let the author change fields but not the problem", func() {
			sol := propose(bob)

			updated, err := svc.Update(ctx, bob, sol.ID, service.UpdateSolutionInput{
				Difficulty:    ptr("Hard"),
				EstimatedCost: ptr(2500.0),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Difficulty).To(Equal(model.DifficultyHard))
			Expect(updated.EstimatedCost).To(Equal(2500.0))
			Expect(updated.Problem.ID).To(Equal(problem.ID))
		})

		It("should forbid other users", func() {
			sol := propose(bob)

			_, err := svc.Update(ctx, alice, sol.ID, service.UpdateSolutionInput{
				Description: ptr("Replace the whole road surface instead"),
				Difficulty:  ptr("Easy"),
			})

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(err.Error()).To(Equal("Not authorized to update this solution"))

			got, err := svc.Get(ctx, sol.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Description).To(Equal(sol.Description))
			Expect(got.Difficulty).To(Equal(model.DifficultyMedium))
			Expect(got.UpdatedAt).To(Equal(sol.UpdatedAt))
			Expect(producer.types()).NotTo(ContainElement(queue.EventSolutionUpdated))
		})
	})

	Describe("Delete", func() {
		It("should forbid other users", func() {
			sol := propose(bob)

			err := svc.Delete(ctx, alice, sol.ID)

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(err.Error()).To(Equal("Not authorized to delete this solution"))

			got, err := svc.Get(ctx, sol.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(sol.ID))
			Expect(got.Description).To(Equal(sol.Description))
		})

		It("should clear the accepted pointer on the problem", func() {
			sol := propose(bob)
			_, err := svc.Accept(ctx, alice, sol.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Delete(ctx, bob, sol.ID)).To(Succeed())

			p, err := problems.Get(ctx, problem.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.AcceptedSolution).To(BeNil())
		})
	})

	Describe("Accept", func() {
		It("should switch acceptance from A to B", func() {
			a := propose(bob)
			b := propose(carol)

			_, err := svc.Accept(ctx, alice, a.ID)
			Expect(err).NotTo(HaveOccurred())
			accepted, err := svc.Accept(ctx, alice, b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted.IsAccepted).To(BeTrue())

			gotA, err := svc.Get(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotA.IsAccepted).To(BeFalse())

			p, err := problems.Get(ctx, problem.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*p.AcceptedSolution).To(Equal(b.ID))
		})

		It("should only let the problem author accept", func() {
			sol := propose(bob)

			_, err := svc.Accept(ctx, bob, sol.ID)

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(err.Error()).To(Equal("Only the problem author can accept solutions"))
		})

		It("should keep one accepted solution under concurrent accepts", func() {
			ids := make([]int64, 8)
			for i := range ids {
				ids[i] = propose(bob).ID
			}

			var wg sync.WaitGroup
			for _, solutionID := range ids {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := svc.Accept(ctx, alice, solutionID)
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			res, err := svc.ListByProblem(ctx, problem.ID, service.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			accepted := 0
			for _, sol := range res.Items {
				if sol.IsAccepted {
					accepted++
				}
			}
			Expect(accepted).To(Equal(1))
		})

		It("should return not found for an unknown solution", func() {
			_, err := svc.Accept(ctx, alice, 424242)
			Expect(err).To(MatchError(service.ErrSolutionNotFound))
		})
	})

	Describe("AddComment", func() {
		It("should append a trimmed comment with its author", func() {
			sol := propose(bob)

			comment, err := svc.AddComment(ctx, alice, sol.ID, service.CommentInput{Text: "  Great idea  "})

			Expect(err).NotTo(HaveOccurred())
			Expect(comment.Text).To(Equal("Great idea"))
			Expect(comment.Author.Name).To(Equal("Alice"))

			got, err := svc.Get(ctx, sol.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CommentCount()).To(Equal(1))
		})

		It("should reject blank text", func() {
			sol := propose(bob)

			_, err := svc.AddComment(ctx, alice, sol.ID, service.CommentInput{Text: "   "})

			Expect(fieldsOf(err)).To(ConsistOf("text"))
		})
	})

	Describe("Vote", func() {
		It("should let authors vote on their own solution", func() {
			sol := propose(bob)

			tally, err := svc.Vote(ctx, bob, sol.ID, service.VoteInput{VoteType: "upvote"})

			Expect(err).NotTo(HaveOccurred())
			Expect(tally.UpvoteCount).To(Equal(1))
			Expect(tally.Upvotes[0].Name).To(Equal("Bob"))
		})
	})

	Describe("List", func() {
		It("should sort by comment count", func() {
			quiet := propose(bob)
			busy := propose(carol)
			_, err := svc.AddComment(ctx, alice, busy.ID, service.CommentInput{Text: "Nice"})
			Expect(err).NotTo(HaveOccurred())

			res, err := svc.List(ctx, service.ListSolutionsParams{ProblemID: problemID, ListParams: service.ListParams{SortBy: "commentCount"}})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items).To(HaveLen(2))
			Expect(res.Items[0].ID).To(Equal(busy.ID))
			Expect(res.Items[1].ID).To(Equal(quiet.ID))
		})

		It("should reject a malformed problem id filter", func() {
			_, err := svc.List(ctx, service.ListSolutionsParams{ProblemID: "abc"})
			Expect(fieldsOf(err)).To(ConsistOf("problemId"))
		})

		It("should return not found for solutions of a missing problem", func() {
			_, err := svc.ListByProblem(ctx, 31337, service.ListParams{})
			Expect(err).To(MatchError(service.ErrProblemNotFound))
		})
	})
})
