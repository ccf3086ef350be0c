package issue_tracker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/obsd/support-relay/internal/service/issue_tracker"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Auth      string         `json:"-"`
}

// fakeLinear routes on the first top-level field found in the query text.
type fakeLinear struct {
	mu       sync.Mutex
	requests []graphqlRequest
	cycle    any
	members  any
	created  any
	errors   map[string]string
}

func (f *fakeLinear) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	req.Auth = r.Header.Get("Authorization")

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	op := "team"
	switch {
	case strings.Contains(req.Query, "issueCreate"):
		op = "issueCreate"
	case strings.Contains(req.Query, "members"):
		op = "members"
	case strings.Contains(req.Query, "activeCycle"):
		op = "activeCycle"
	}

	w.Header().Set("Content-Type", "application/json")
	if msg, ok := f.errors[op]; ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []map[string]any{{"message": msg}}})
		return
	}

	var data any
	switch op {
	case "activeCycle":
		data = map[string]any{"team": map[string]any{"activeCycle": f.cycle}}
	case "members":
		data = map[string]any{"team": map[string]any{"members": map[string]any{"nodes": f.members}}}
	case "issueCreate":
		data = map[string]any{"issueCreate": f.created}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (f *fakeLinear) ops() []graphqlRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]graphqlRequest(nil), f.requests...)
}

var _ = Describe("LinearIssueTrackerService", func() {
	var (
		ctx  context.Context
		fake *fakeLinear
		svc  issue_tracker.IssueTrackerService
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = &fakeLinear{errors: map[string]string{}}
		srv := httptest.NewServer(fake)
		DeferCleanup(srv.Close)
		svc = issue_tracker.NewLinearIssueTrackerService(srv.URL, "lin_api_key", srv.Client())
	})

	Describe("FetchActiveCycle", func() {
		It("returns the active cycle and sends the auth header", func() {
			fake.cycle = map[string]any{"id": "cyc-1", "name": "Cycle 12"}

			cycle, err := svc.FetchActiveCycle(ctx, "team-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(cycle.ID).To(Equal("cyc-1"))

			reqs := fake.ops()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Auth).To(Equal("lin_api_key"))
			Expect(reqs[0].Variables).To(HaveKeyWithValue("teamId", "team-1"))
		})

		It("reports a team without an active cycle", func() {
			fake.cycle = nil

			_, err := svc.FetchActiveCycle(ctx, "team-1")
			Expect(err).To(MatchError(issue_tracker.ErrNoActiveCycle))
		})

		It("surfaces graphql errors", func() {
			fake.errors["activeCycle"] = "Entity not found"

			_, err := svc.FetchActiveCycle(ctx, "team-1")
			Expect(err).To(MatchError(ContainSubstring("Entity not found")))
		})
	})

	Describe("FindMemberByEmail", func() {
		It("returns the first matching member", func() {
			fake.members = []map[string]any{{"id": "usr-1", "email": "oncall@acme.io"}}

			member, err := svc.FindMemberByEmail(ctx, issue_tracker.FindMemberParams{TeamID: "team-1", Email: "oncall@acme.io"})
			Expect(err).NotTo(HaveOccurred())
			Expect(member.ID).To(Equal("usr-1"))
			Expect(fake.ops()[0].Variables).To(HaveKeyWithValue("email", "oncall@acme.io"))
		})

		It("reports an empty member list as ErrAssigneeNotFound", func() {
			fake.members = []map[string]any{}

			_, err := svc.FindMemberByEmail(ctx, issue_tracker.FindMemberParams{TeamID: "team-1", Email: "ghost@acme.io"})
			Expect(err).To(MatchError(issue_tracker.ErrAssigneeNotFound))
		})
	})

	Describe("CreateIssue", func() {
		It("creates the issue scoped to cycle and assignee", func() {
			fake.created = map[string]any{
				"success": true,
				"issue":   map[string]any{"id": "iss-1", "url": "https://linear.app/acme/issue/SUP-1"},
			}

			issue, err := svc.CreateIssue(ctx, issue_tracker.CreateIssueParams{
				TeamID:      "team-1",
				CycleID:     "cyc-1",
				AssigneeID:  "usr-1",
				Title:       "Support message from Alice on general",
				Description: "details",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(issue.URL).To(Equal("https://linear.app/acme/issue/SUP-1"))

			vars := fake.ops()[0].Variables
			Expect(vars).To(HaveKeyWithValue("cycleId", "cyc-1"))
			Expect(vars).To(HaveKeyWithValue("assigneeId", "usr-1"))
			Expect(vars).To(HaveKeyWithValue("title", "Support message from Alice on general"))
		})

		It("refuses to send an empty assignee id", func() {
			_, err := svc.CreateIssue(ctx, issue_tracker.CreateIssueParams{TeamID: "team-1", CycleID: "cyc-1"})
			Expect(err).To(MatchError(issue_tracker.ErrAssigneeNotFound))
			Expect(fake.ops()).To(BeEmpty())
		})

		It("reports a response without a url", func() {
			fake.created = map[string]any{"success": false, "issue": nil}

			_, err := svc.CreateIssue(ctx, issue_tracker.CreateIssueParams{TeamID: "t", CycleID: "c", AssigneeID: "a"})
			Expect(err).To(MatchError(issue_tracker.ErrFieldAbsent))
		})
	})
})
