package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/obsd/support-relay/internal/http/dto"
	"github.com/obsd/support-relay/internal/http/handler/webhook"
	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service"
)

type mockEscalationService struct {
	handleCallbackFn func(ctx context.Context, body []byte) (service.EscalationResult, error)
	bodies           []string
}

func (m *mockEscalationService) HandleCallback(ctx context.Context, body []byte) (service.EscalationResult, error) {
	m.bodies = append(m.bodies, string(body))
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, body)
	}
	return service.EscalationResult{Triggered: true, Incident: model.Incident{ID: "PINC1"}}, nil
}

var _ = Describe("SlackInteractiveHandler", func() {
	var (
		router     *gin.Engine
		escalation *mockEscalationService
	)

	BeforeEach(func() {
		escalation = &mockEscalationService{}
		router = gin.New()
		router.POST("/support/slack-interactive", webhook.NewSlackInteractiveHandler(escalation).HandleInteraction)
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.EscalationResponse) {
		req := httptest.NewRequest(http.MethodPost, "/support/slack-interactive", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.EscalationResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return w, resp
	}

	It("passes the raw body through", func() {
		w, resp := post("payload=%7B%22value%22%3A%22escalate_to_pagerduty%22%7D")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp).To(Equal(dto.EscalationResponse{Status: "ok", Triggered: true, Incident: "PINC1"}))
		Expect(escalation.bodies).To(ConsistOf("payload=%7B%22value%22%3A%22escalate_to_pagerduty%22%7D"))
	})

	It("acknowledges failures", func() {
		escalation.handleCallbackFn = func(ctx context.Context, body []byte) (service.EscalationResult, error) {
			return service.EscalationResult{Triggered: true}, errors.New("pagerduty down")
		}

		w, resp := post("payload=x")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal("error"))
		Expect(resp.Triggered).To(BeTrue())
	})
})
