package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kumarshubhh/Yuvamanthan/internal/http/handler"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/middleware"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

const testSecret = "handler-secret"

var verifier = middleware.NewTokenVerifier(testSecret, "")

func bearer(userID int64) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	Expect(err).NotTo(HaveOccurred())
	return "Bearer " + token
}

func doRequest(router *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

var _ = Describe("ProblemHandler", func() {
	var (
		router      *gin.Engine
		problemSvc  *mockProblemService
		solutionSvc *mockSolutionService
		now         time.Time
	)

	BeforeEach(func() {
		router = gin.New()
		problemSvc = &mockProblemService{}
		solutionSvc = &mockSolutionService{}
		now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

		h := handler.NewProblemHandler(problemSvc, solutionSvc)
		auth := middleware.RequireAuth(verifier)
		router.GET("/problems", h.List)
		router.GET("/problems/:id", h.Get)
		router.GET("/problems/:id/solutions", h.Solutions)
		router.POST("/problems", auth, h.Create)
		router.PUT("/problems/:id", auth, h.Update)
		router.DELETE("/problems/:id", auth, h.Delete)
		router.POST("/problems/:id/vote", auth, h.Vote)
	})

	Describe("Create", func() {
		It("returns 201 with the created problem", func() {
			var gotActor model.Actor
			problemSvc.createFn = func(_ context.Context, actor model.Actor, in service.CreateProblemInput) (*model.Problem, error) {
				gotActor = actor
				Expect(*in.Coordinates.Lat).To(Equal(12.9))
				return &model.Problem{
					ID:        55,
					Title:     in.Title,
					Category:  model.Category(in.Category),
					Priority:  model.PriorityMedium,
					Status:    model.ProblemStatusOpen,
					Author:    model.Author{ID: actor.ID, Name: "Alice", Location: "Pune"},
					Votes:     model.VoteLedger{},
					CreatedAt: now,
					UpdatedAt: now,
				}, nil
			}

			w := doRequest(router, http.MethodPost, "/problems", bearer(7), map[string]any{
				"title":       "Pothole on 5th Ave",
				"description": "A deep pothole near the school gate",
				"location":    "5th Ave",
				"coordinates": map[string]float64{"lat": 12.9, "lng": 77.6},
				"images":      []string{"http://x/1.jpg"},
				"category":    "Infrastructure",
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(gotActor.ID).To(Equal(int64(7)))
			resp := decode(w)
			Expect(resp["id"]).To(Equal("55"))
			Expect(resp["status"]).To(Equal("Open"))
			Expect(resp["priority"]).To(Equal("Medium"))
			Expect(resp["upvoteCount"]).To(BeNumerically("==", 0))
			Expect(resp["upvotes"]).To(BeEmpty())
			Expect(resp["tags"]).To(BeEmpty())
			Expect(resp["acceptedSolution"]).To(BeNil())
			Expect(resp["author"]).To(HaveKeyWithValue("location", "Pune"))
		})

		It("returns 401 without a token", func() {
			w := doRequest(router, http.MethodPost, "/problems", "", map[string]any{})

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(w)["message"]).To(Equal("No token, authorization denied"))
		})

		It("returns 400 with field errors", func() {
			problemSvc.createFn = func(context.Context, model.Actor, service.CreateProblemInput) (*model.Problem, error) {
				return nil, &service.ValidationError{Errors: []service.FieldError{
					{Field: "title", Message: "Title must be at least 5 characters"},
				}}
			}

			w := doRequest(router, http.MethodPost, "/problems", bearer(7), map[string]any{"title": "Hi"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			errs := decode(w)["errors"].([]any)
			Expect(errs).To(HaveLen(1))
			Expect(errs[0]).To(HaveKeyWithValue("field", "title"))
			Expect(errs[0]).To(HaveKeyWithValue("message", "Title must be at least 5 characters"))
		})

		It("returns 400 on malformed JSON", func() {
			w := doRequest(router, http.MethodPost, "/problems", bearer(7), `{"title":`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)).To(HaveKey("errors"))
		})
	})

	Describe("Get", func() {
		It("returns 404 for a malformed id", func() {
			w := doRequest(router, http.MethodGet, "/problems/not-an-id", "", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decode(w)).To(Equal(map[string]any{"message": "Problem not found"}))
		})

		It("returns 500 without leaking details", func() {
			problemSvc.getFn = func(context.Context, int64) (*model.Problem, error) {
				return nil, errors.New("arangodb: connection refused")
			}

			w := doRequest(router, http.MethodGet, "/problems/42", "", nil)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(w)["message"]).To(Equal("Server error"))
			Expect(w.Body.String()).NotTo(ContainSubstring("arangodb"))
		})

		It("renders voters and the accepted solution", func() {
			accepted := int64(9)
			problemSvc.getFn = func(_ context.Context, problemID int64) (*model.Problem, error) {
				return &model.Problem{
					ID:     problemID,
					Author: model.Author{ID: 1, Name: "Alice"},
					Votes: model.VoteLedger{
						3: {Direction: model.VoteDown, CastAt: now, Voter: model.Author{ID: 3, Name: "Carol", Avatar: "http://x/c.png"}},
					},
					AcceptedSolution: &accepted,
				}, nil
			}

			w := doRequest(router, http.MethodGet, "/problems/42", "", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["acceptedSolution"]).To(Equal("9"))
			Expect(resp["downvoteCount"]).To(BeNumerically("==", 1))
			Expect(resp["downvotes"]).To(ConsistOf(map[string]any{"id": "3", "name": "Carol"}))
		})
	})

	Describe("Update and Delete", func() {
		It("returns 403 with the service message", func() {
			problemSvc.updateFn = func(context.Context, model.Actor, int64, service.UpdateProblemInput) (*model.Problem, error) {
				return nil, &service.ForbiddenError{Message: "Not authorized to update this problem"}
			}

			w := doRequest(router, http.MethodPut, "/problems/42", bearer(8), map[string]any{"title": "Changed title"})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decode(w)["message"]).To(Equal("Not authorized to update this problem"))
		})

		It("returns the delete message", func() {
			var deleted int64
			problemSvc.deleteFn = func(_ context.Context, _ model.Actor, problemID int64) error {
				deleted = problemID
				return nil
			}

			w := doRequest(router, http.MethodDelete, "/problems/42", bearer(1), nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(deleted).To(Equal(int64(42)))
			Expect(decode(w)["message"]).To(Equal("Problem deleted successfully"))
		})
	})

	Describe("Vote", func() {
		It("returns the vote projection", func() {
			problemSvc.voteFn = func(_ context.Context, actor model.Actor, _ int64, in service.VoteInput) (*model.Tally, error) {
				Expect(in.VoteType).To(Equal("downvote"))
				return &model.Tally{
					Upvotes:       []model.Author{},
					Downvotes:     []model.Author{{ID: actor.ID, Name: "Bob"}},
					DownvoteCount: 1,
				}, nil
			}

			w := doRequest(router, http.MethodPost, "/problems/42/vote", bearer(5), map[string]string{"voteType": "downvote"})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["upvotes"]).To(BeEmpty())
			Expect(resp["downvotes"]).To(ConsistOf(map[string]any{"id": "5", "name": "Bob"}))
			Expect(resp["upvoteCount"]).To(BeNumerically("==", 0))
			Expect(resp["downvoteCount"]).To(BeNumerically("==", 1))
		})
	})

	Describe("List", func() {
		It("passes query values through and renders paging", func() {
			problemSvc.listFn = func(_ context.Context, params service.ListProblemsParams) (*service.ListResult[model.Problem], error) {
				Expect(params.Category).To(Equal("Health"))
				Expect(params.SortBy).To(Equal("-createdAt"))
				Expect(params.Page).To(Equal("2"))
				return &service.ListResult[model.Problem]{
					Items:       []model.Problem{{ID: 1, Votes: model.VoteLedger{}}},
					Total:       11,
					CurrentPage: 2,
					TotalPages:  2,
				}, nil
			}

			w := doRequest(router, http.MethodGet, "/problems?category=Health&sortBy=-createdAt&page=2", "", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["problems"]).To(HaveLen(1))
			Expect(resp["total"]).To(BeNumerically("==", 11))
			Expect(resp["currentPage"]).To(BeNumerically("==", 2))
			Expect(resp["totalPages"]).To(BeNumerically("==", 2))
		})

		It("lists the solutions of a problem", func() {
			solutionSvc.listByProblemFn = func(_ context.Context, problemID int64, _ service.ListParams) (*service.ListResult[model.Solution], error) {
				Expect(problemID).To(Equal(int64(42)))
				return &service.ListResult[model.Solution]{Items: []model.Solution{}, CurrentPage: 1}, nil
			}

			w := doRequest(router, http.MethodGet, "/problems/42/solutions", "", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["solutions"]).To(BeEmpty())
		})
	})
})
