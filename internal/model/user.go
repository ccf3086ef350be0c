package model

// PagingUser is the subset of a paging-service user the on-call resolver reads.
type PagingUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OnCall is one roster entry from the paging service.
type OnCall struct {
	UserID          string `json:"user_id"`
	EscalationLevel uint   `json:"escalation_level"`
}

// TeamMember is an issue-tracker user.
type TeamMember struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Cycle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
