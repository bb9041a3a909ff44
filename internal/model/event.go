package model

// EventKind is the inbound channel a message arrived through.
type EventKind string

const (
	EventText        EventKind = "text"
	EventInteractive EventKind = "interactive" // Button tap or list selection
	EventAudio       EventKind = "audio"       // Voice note, referenced by media id
)

// InboundEvent is the normalized message produced by the webhook adapter
// and consumed at-least-once by the worker pool. EventID is assigned at
// intake and keys duplicate detection in logs.
type InboundEvent struct {
	EventID      string    `json:"eventId"`
	RespondentID string    `json:"respondentId"`
	Kind         EventKind `json:"kind"`
	Content      string    `json:"content,omitempty"`
	MediaID      string    `json:"mediaId,omitempty"`
}

// MessageType selects the outbound rendering.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageButtons MessageType = "buttons"
	MessageList    MessageType = "list"
)

// OutboundMessage is what the step engine asks the delivery adapter to
// send. Option label truncation (20/24 chars) is the adapter's concern.
type OutboundMessage struct {
	Type    MessageType `json:"type"`
	Header  string      `json:"header,omitempty"` // List only
	Body    string      `json:"body"`
	Options []string    `json:"options,omitempty"` // Buttons: max 3, List: max 10
}

// TextMessage builds a plain text outbound message.
func TextMessage(body string) OutboundMessage {
	return OutboundMessage{Type: MessageText, Body: body}
}

// ButtonsMessage builds a quick-reply buttons message.
func ButtonsMessage(body string, options []string) OutboundMessage {
	return OutboundMessage{Type: MessageButtons, Body: body, Options: options}
}

// ListMessage builds a list-picker message.
func ListMessage(header, body string, options []string) OutboundMessage {
	return OutboundMessage{Type: MessageList, Header: header, Body: body, Options: options}
}
