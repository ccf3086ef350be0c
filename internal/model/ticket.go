package model

type TicketRequest struct {
	TeamID        string
	Title         string
	Description   string
	AssigneeEmail string
}

type Incident struct {
	ID     string `json:"id"`
	Number uint   `json:"number,omitempty"`
	URL    string `json:"url,omitempty"`
}
