package model_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

var _ = Describe("VoteLedger", func() {
	var (
		ledger model.VoteLedger
		t0     time.Time
	)

	BeforeEach(func() {
		ledger = model.VoteLedger{}
		t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	})

	Describe("Cast", func() {
		It("records an upvote", func() {
			ledger.Cast(1, model.VoteTypeUpvote, t0)

			Expect(ledger.Voters(model.VoteUp)).To(Equal([]int64{1}))
			Expect(ledger.Voters(model.VoteDown)).To(BeEmpty())
		})

		It("keeps a single membership when the same vote repeats", func() {
			ledger.Cast(1, model.VoteTypeUpvote, t0)
			ledger.Cast(1, model.VoteTypeUpvote, t0.Add(time.Minute))

			Expect(ledger.Voters(model.VoteUp)).To(Equal([]int64{1}))
			Expect(ledger.Count(model.VoteUp)).To(Equal(1))
			Expect(ledger[1].CastAt).To(Equal(t0))
		})

		It("moves the user between sets on a direction change", func() {
			ledger.Cast(1, model.VoteTypeUpvote, t0)
			ledger.Cast(1, model.VoteTypeDownvote, t0.Add(time.Minute))

			tally := ledger.Tally()
			Expect(tally.Upvotes).To(BeEmpty())
			Expect(tally.Downvotes).To(HaveLen(1))
			Expect(tally.Downvotes[0].ID).To(Equal(int64(1)))
			Expect(tally.UpvoteCount).To(Equal(0))
			Expect(tally.DownvoteCount).To(Equal(1))
		})

		It("removes the user from both sets on remove", func() {
			ledger.Cast(1, model.VoteTypeDownvote, t0)
			ledger.Cast(1, model.VoteTypeRemove, t0.Add(time.Minute))

			Expect(ledger).To(BeEmpty())
		})

		It("treats remove without a prior vote as a no-op", func() {
			ledger.Cast(7, model.VoteTypeRemove, t0)

			Expect(ledger).To(BeEmpty())
		})
	})

	Describe("Voters", func() {
		It("orders by cast time, then user id", func() {
			ledger.Cast(30, model.VoteTypeUpvote, t0.Add(2*time.Second))
			ledger.Cast(20, model.VoteTypeUpvote, t0)
			ledger.Cast(10, model.VoteTypeUpvote, t0)
			ledger.Cast(40, model.VoteTypeDownvote, t0)

			Expect(ledger.Voters(model.VoteUp)).To(Equal([]int64{10, 20, 30}))
			Expect(ledger.Voters(model.VoteDown)).To(Equal([]int64{40}))
		})
	})

	Describe("VoteType", func() {
		DescribeTable("Valid",
			func(v model.VoteType, want bool) {
				Expect(v.Valid()).To(Equal(want))
			},
			Entry("upvote", model.VoteTypeUpvote, true),
			Entry("downvote", model.VoteTypeDownvote, true),
			Entry("remove", model.VoteTypeRemove, true),
			Entry("empty", model.VoteType(""), false),
			Entry("unknown", model.VoteType("like"), false),
		)
	})
})

var _ = Describe("Page", func() {
	DescribeTable("TotalPages",
		func(limit, total, want int) {
			Expect(model.Page{Number: 1, Limit: limit}.TotalPages(total)).To(Equal(want))
		},
		Entry("empty", 10, 0, 0),
		Entry("exact", 10, 20, 2),
		Entry("remainder", 10, 21, 3),
		Entry("single partial", 10, 3, 1),
	)

	It("computes a zero-based offset", func() {
		Expect(model.Page{Number: 3, Limit: 10}.Offset()).To(Equal(20))
	})
})
