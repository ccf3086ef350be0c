package model_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/obsd/support-relay/internal/model"
)

var _ = Describe("InboundEvent", func() {
	Describe("PostedAt", func() {
		It("parses seconds and microseconds", func() {
			at, ok := model.InboundEvent{Timestamp: "1700000000.000200"}.PostedAt()
			Expect(ok).To(BeTrue())
			Expect(at.Unix()).To(Equal(int64(1700000000)))
			Expect(at.Nanosecond()).To(Equal(200 * int(time.Microsecond)))
		})

		It("accepts a timestamp without a fraction", func() {
			at, ok := model.InboundEvent{Timestamp: "1700000000"}.PostedAt()
			Expect(ok).To(BeTrue())
			Expect(at.Unix()).To(Equal(int64(1700000000)))
		})

		It("rejects garbage", func() {
			_, ok := model.InboundEvent{Timestamp: "yesterday"}.PostedAt()
			Expect(ok).To(BeFalse())

			_, ok = model.InboundEvent{}.PostedAt()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("HumanAuthored", func() {
		It("is true for plain user messages", func() {
			Expect(model.InboundEvent{SenderID: "U1"}.HumanAuthored()).To(BeTrue())
		})

		It("is false for bot posts and subtyped messages", func() {
			Expect(model.InboundEvent{BotID: "B1"}.HumanAuthored()).To(BeFalse())
			Expect(model.InboundEvent{Subtype: "message_changed"}.HumanAuthored()).To(BeFalse())
			Expect(model.InboundEvent{Subtype: "channel_join"}.HumanAuthored()).To(BeFalse())
		})

		It("is true for user posts with a content subtype", func() {
			Expect(model.InboundEvent{SenderID: "U1", Subtype: "file_share"}.HumanAuthored()).To(BeTrue())
			Expect(model.InboundEvent{SenderID: "U1", Subtype: "thread_broadcast"}.HumanAuthored()).To(BeTrue())
		})
	})
})

var _ = Describe("Resolution", func() {
	It("treats resolved and defaulted values as usable", func() {
		Expect(model.Resolved("a@b.c").Usable()).To(BeTrue())
		Expect(model.Defaulted("d@b.c", errors.New("empty roster")).Usable()).To(BeTrue())
		Expect(model.Failed[string](errors.New("boom")).Usable()).To(BeFalse())
	})

	It("keeps the cause of a default", func() {
		cause := errors.New("empty roster")
		r := model.Defaulted("d@b.c", cause)
		Expect(r.Kind).To(Equal(model.ResolutionDefaulted))
		Expect(r.Err).To(MatchError(cause))
		Expect(r.String()).To(ContainSubstring("empty roster"))
	})
})
