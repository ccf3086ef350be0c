package model

const PlaceholderIdentity = "no user found"

type SenderProfile struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Placeholder bool   `json:"placeholder"`
}

// PlaceholderSender stands in for a sender whose lookup failed, so the run can still open a ticket.
func PlaceholderSender(userID string) SenderProfile {
	return SenderProfile{
		UserID:      userID,
		Email:       PlaceholderIdentity,
		DisplayName: PlaceholderIdentity,
		Placeholder: true,
	}
}

type ChannelInfo struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	IsGeneral   bool   `json:"is_general"`
}
