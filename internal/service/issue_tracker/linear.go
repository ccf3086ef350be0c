package issue_tracker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/machinebox/graphql"

	"github.com/obsd/support-relay/internal/model"
)

const activeCycleQuery = `
query ($teamId: String!) {
	team(id: $teamId) {
		activeCycle {
			id
			name
		}
	}
}`

const memberByEmailQuery = `
query ($teamId: String!, $email: String!) {
	team(id: $teamId) {
		members(filter: {email: {eq: $email}}) {
			nodes {
				id
				email
			}
		}
	}
}`

const issueCreateMutation = `
mutation ($teamId: String!, $title: String!, $description: String!, $cycleId: String!, $assigneeId: String!) {
	issueCreate(input: {
		teamId: $teamId
		title: $title
		description: $description
		cycleId: $cycleId
		assigneeId: $assigneeId
	}) {
		success
		issue {
			id
			url
		}
	}
}`

type linearIssueTrackerService struct {
	client     *graphql.Client
	authHeader string
}

// NewLinearIssueTrackerService talks to Linear's GraphQL API. authHeader is sent verbatim as Authorization.
func NewLinearIssueTrackerService(apiURL, authHeader string, httpClient *http.Client) IssueTrackerService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &linearIssueTrackerService{
		client:     graphql.NewClient(apiURL, graphql.WithHTTPClient(httpClient)),
		authHeader: authHeader,
	}
}

func (s *linearIssueTrackerService) FetchActiveCycle(ctx context.Context, teamID string) (model.Cycle, error) {
	req := s.newRequest(activeCycleQuery)
	req.Var("teamId", teamID)

	var resp struct {
		Team *struct {
			ActiveCycle *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"activeCycle"`
		} `json:"team"`
	}
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return model.Cycle{}, fmt.Errorf("fetching active cycle: %w", err)
	}
	if resp.Team == nil {
		return model.Cycle{}, fmt.Errorf("team %s: %w", teamID, ErrFieldAbsent)
	}
	if resp.Team.ActiveCycle == nil || resp.Team.ActiveCycle.ID == "" {
		return model.Cycle{}, fmt.Errorf("team %s: %w", teamID, ErrNoActiveCycle)
	}

	return model.Cycle{ID: resp.Team.ActiveCycle.ID, Name: resp.Team.ActiveCycle.Name}, nil
}

func (s *linearIssueTrackerService) FindMemberByEmail(ctx context.Context, params FindMemberParams) (model.TeamMember, error) {
	req := s.newRequest(memberByEmailQuery)
	req.Var("teamId", params.TeamID)
	req.Var("email", params.Email)

	var resp struct {
		Team *struct {
			Members struct {
				Nodes []struct {
					ID    string `json:"id"`
					Email string `json:"email"`
				} `json:"nodes"`
			} `json:"members"`
		} `json:"team"`
	}
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return model.TeamMember{}, fmt.Errorf("fetching team member: %w", err)
	}
	if resp.Team == nil {
		return model.TeamMember{}, fmt.Errorf("team %s: %w", params.TeamID, ErrFieldAbsent)
	}

	for _, node := range resp.Team.Members.Nodes {
		if node.ID != "" {
			return model.TeamMember{ID: node.ID, Email: node.Email}, nil
		}
	}
	return model.TeamMember{}, fmt.Errorf("%s: %w", params.Email, ErrAssigneeNotFound)
}

func (s *linearIssueTrackerService) CreateIssue(ctx context.Context, params CreateIssueParams) (CreatedIssue, error) {
	if params.AssigneeID == "" {
		return CreatedIssue{}, fmt.Errorf("creating issue: %w", ErrAssigneeNotFound)
	}

	req := s.newRequest(issueCreateMutation)
	req.Var("teamId", params.TeamID)
	req.Var("title", params.Title)
	req.Var("description", params.Description)
	req.Var("cycleId", params.CycleID)
	req.Var("assigneeId", params.AssigneeID)

	var resp struct {
		IssueCreate *struct {
			Success bool `json:"success"`
			Issue   *struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return CreatedIssue{}, fmt.Errorf("creating issue: %w", err)
	}
	if resp.IssueCreate == nil || resp.IssueCreate.Issue == nil || resp.IssueCreate.Issue.URL == "" {
		return CreatedIssue{}, fmt.Errorf("issueCreate.issue.url: %w", ErrFieldAbsent)
	}

	return CreatedIssue{ID: resp.IssueCreate.Issue.ID, URL: resp.IssueCreate.Issue.URL}, nil
}

func (s *linearIssueTrackerService) newRequest(query string) *graphql.Request {
	req := graphql.NewRequest(query)
	req.Header.Set("Authorization", s.authHeader)
	return req
}
