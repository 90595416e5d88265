package models

import "time"

// Message represents a chat message. Messages are never mutated in
// place; the sender may delete their own.
type Message struct {
	ID        int64     `json:"id"`
	Sender    UserRef   `json:"sender"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ReplyTo   *Message  `json:"reply_to,omitempty"`
}

// ChatRoom is a conversation between one buyer/seller pair, optionally
// anchored to the property that started it. Messages are chronological.
type ChatRoom struct {
	ID        int64     `json:"id"`
	Property  *Property `json:"property,omitempty"`
	Seller    UserRef   `json:"seller"`
	Buyer     UserRef   `json:"buyer"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}
