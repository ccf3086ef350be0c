package model

import (
	"strconv"
	"strings"
	"time"
)

// InboundEvent is one "message posted" delivery from the chat platform.
type InboundEvent struct {
	EventID                 string `json:"event_id"` // client_msg_id
	ChannelID               string `json:"channel_id"`
	SenderID                string `json:"sender_id"`
	Text                    string `json:"text"`
	Timestamp               string `json:"ts"`
	IsExternalSharedChannel bool   `json:"is_ext_shared_channel"`
	BotID                   string `json:"bot_id,omitempty"`
	Subtype                 string `json:"subtype,omitempty"`
}

// PostedAt parses the platform timestamp ("1712345678.000200").
func (e InboundEvent) PostedAt() (time.Time, bool) {
	secs, frac, _ := strings.Cut(e.Timestamp, ".")
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil || s <= 0 {
		return time.Time{}, false
	}
	var micros int64
	if frac != "" {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		frac += strings.Repeat("0", 6-len(frac))
		if micros, err = strconv.ParseInt(frac, 10, 64); err != nil {
			micros = 0
		}
	}
	return time.Unix(s, micros*int64(time.Microsecond)), true
}

// systemSubtypes are message subtypes the platform emits for edits, deletions and channel
// housekeeping. Subtypes such as file_share and thread_broadcast are user posts and stay out.
var systemSubtypes = map[string]struct{}{
	"bot_message":       {},
	"message_changed":   {},
	"message_deleted":   {},
	"message_replied":   {},
	"channel_join":      {},
	"channel_leave":     {},
	"channel_topic":     {},
	"channel_purpose":   {},
	"channel_name":      {},
	"channel_archive":   {},
	"channel_unarchive": {},
	"group_join":        {},
	"group_leave":       {},
	"group_topic":       {},
	"group_purpose":     {},
	"pinned_item":       {},
	"unpinned_item":     {},
	"reminder_add":      {},
}

// HumanAuthored is false for bot posts and platform-generated subtypes.
func (e InboundEvent) HumanAuthored() bool {
	if e.BotID != "" {
		return false
	}
	_, system := systemSubtypes[e.Subtype]
	return !system
}
