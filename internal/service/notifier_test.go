package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/slack-go/slack"

	"github.com/obsd/support-relay/core/config"
	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service"
	"github.com/obsd/support-relay/internal/service/chat"
)

var _ = Describe("Notifier", func() {
	var (
		ctx         context.Context
		mainChat    *mockChatService
		supportChat *mockChatService
		notifier    service.Notifier
		summary     service.SupportSummary
		cfg         service.NotifierConfig
	)

	BeforeEach(func() {
		ctx = context.Background()
		mainChat = &mockChatService{}
		supportChat = &mockChatService{}
		cfg = service.NotifierConfig{
			SupportChannelID: "CSUPPORT",
			EscalationToken:  config.DefaultEscalationToken,
			LateHours:        config.LateHoursConfig{Start: 2, End: 7, Location: time.UTC},
		}
		notifier = service.NewNotifier(mainChat, supportChat, cfg, service.CallPolicy{})
		summary = service.SupportSummary{
			SenderName:  "Jane",
			SenderEmail: "jane@customer.io",
			ChannelName: "customer-acme",
			Permalink:   "https://acme.slack.com/archives/C1/p1",
		}
	})

	Describe("NotifySupport", func() {
		It("links the ticket when one was created", func() {
			err := notifier.NotifySupport(ctx, summary, model.Resolved("https://linear.app/acme/issue/SUP-1"))
			Expect(err).NotTo(HaveOccurred())

			posted := supportChat.Posted()
			Expect(posted).To(HaveLen(1))
			Expect(posted[0].ChannelID).To(Equal("CSUPPORT"))
			Expect(posted[0].Message.Text).To(Equal(
				"New support message sent by Jane(jane@customer.io) on customer-acme https://acme.slack.com/archives/C1/p1" +
					" - <https://linear.app/acme/issue/SUP-1|Link to Linear>"))
			Expect(mainChat.Posted()).To(BeEmpty())
		})

		It("omits the link when ticket creation failed", func() {
			err := notifier.NotifySupport(ctx, summary, model.Failed[string](errors.New("no cycle")))
			Expect(err).NotTo(HaveOccurred())
			Expect(supportChat.Posted()[0].Message.Text).NotTo(ContainSubstring("Link to Linear"))
		})

		It("uses the main client when no support client is configured", func() {
			notifier = service.NewNotifier(mainChat, nil, cfg, service.CallPolicy{})
			Expect(notifier.NotifySupport(ctx, summary, model.Resolution[string]{})).To(Succeed())
			Expect(mainChat.Posted()).To(HaveLen(1))
		})

		It("refuses to post without a support channel", func() {
			cfg.SupportChannelID = ""
			notifier = service.NewNotifier(mainChat, supportChat, cfg, service.CallPolicy{})
			Expect(notifier.NotifySupport(ctx, summary, model.Resolution[string]{})).To(MatchError(service.ErrNoSupportChannel))
		})

		It("returns post failures", func() {
			supportChat.postMessageFn = func(ctx context.Context, channelID string, msg chat.Message) (string, error) {
				return "", errors.New("not_in_channel")
			}
			Expect(notifier.NotifySupport(ctx, summary, model.Resolution[string]{})).To(MatchError(ContainSubstring("not_in_channel")))
		})
	})

	DescribeTable("IsLateHour",
		func(hour int, late bool) {
			at := time.Date(2026, 10, 14, hour, 30, 0, 0, time.UTC)
			Expect(notifier.IsLateHour(at)).To(Equal(late))
		},
		Entry("01:30", 1, false),
		Entry("02:30", 2, true),
		Entry("03:30", 3, true),
		Entry("06:30", 6, true),
		Entry("07:30", 7, false),
		Entry("14:30", 14, false),
	)

	It("evaluates the window in the configured zone", func() {
		tokyo := time.FixedZone("JST", 9*60*60)
		cfg.LateHours.Location = tokyo
		notifier = service.NewNotifier(mainChat, supportChat, cfg, service.CallPolicy{})

		// 18:00 UTC is 03:00 in Tokyo
		Expect(notifier.IsLateHour(time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC))).To(BeTrue())
		Expect(notifier.IsLateHour(time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC))).To(BeFalse())
	})

	Describe("OfferEscalation", func() {
		It("posts the delay notice with a danger escalation button", func() {
			Expect(notifier.OfferEscalation(ctx, "C1")).To(Succeed())

			posted := mainChat.Posted()
			Expect(posted).To(HaveLen(1))
			Expect(posted[0].ChannelID).To(Equal("C1"))
			Expect(posted[0].Message.Text).To(ContainSubstring("expect a delay in response"))

			blocks := posted[0].Message.Blocks
			Expect(blocks).To(HaveLen(2))
			actions, ok := blocks[1].(*slack.ActionBlock)
			Expect(ok).To(BeTrue())
			Expect(actions.Elements.ElementSet).To(HaveLen(1))

			button, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
			Expect(ok).To(BeTrue())
			Expect(button.Value).To(Equal("escalate_to_pagerduty"))
			Expect(button.Style).To(Equal(slack.StyleDanger))
			Expect(button.Text.Text).To(Equal(":bell: Escalate! This is urgent!"))
		})
	})
})
