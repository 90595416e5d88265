package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

// ListRooms returns the current user's chatrooms. role optionally
// narrows to conversations where the user is the "buyer" or "seller".
func (c *Client) ListRooms(ctx context.Context, role string) ([]models.ChatRoom, error) {
	path := "/chats/rooms/"
	if role != "" {
		q := url.Values{}
		q.Set("role", role)
		path += "?" + q.Encode()
	}

	var rooms []models.ChatRoom
	if err := c.do(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom retrieves one chatroom with its full message history.
func (c *Client) GetRoom(ctx context.Context, id int64) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chats/rooms/%d/", id), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates (or finds the existing) chatroom with the seller of
// the given property. The backend rejects contacting yourself.
func (c *Client) CreateRoom(ctx context.Context, propertyID int64) (*models.ChatRoom, error) {
	req := struct {
		Property int64 `json:"property"`
	}{Property: propertyID}

	var room models.ChatRoom
	if err := c.do(ctx, http.MethodPost, "/chats/rooms/create/", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SendMessageRequest is the request body for sending a chat message.
type SendMessageRequest struct {
	Chatroom int64  `json:"chatroom"`
	Message  string `json:"message"`
	ReplyTo  *int64 `json:"reply_to"`
}

// SendMessage posts a message to a chatroom and returns the canonical
// stored message.
func (c *Client) SendMessage(ctx context.Context, roomID int64, text string, replyTo *int64) (*models.Message, error) {
	req := SendMessageRequest{Chatroom: roomID, Message: text, ReplyTo: replyTo}

	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/chats/messages/send/", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage deletes one of the current user's own messages.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/chats/messages/delete/%d/", messageID), nil, nil)
}
