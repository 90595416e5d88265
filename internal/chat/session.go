// Package chat maintains a near-real-time view of one chatroom by
// polling the backend, with optimistic local reconciliation for send and
// delete.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 5 * time.Second

// Session is an open view of one chatroom. It polls the room on a fixed
// interval and reconciles local state with server responses. The server
// stays authoritative: every successful poll replaces the cached room
// wholesale, so an optimistic update racing a poll resolves to whichever
// result arrived last.
type Session struct {
	client   *api.Client
	roomID   int64
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	room    *models.ChatRoom
	replyTo *models.Message
	closed  bool

	cancel  context.CancelFunc
	done    chan struct{}
	updates chan struct{}
}

// NewSession creates a session for roomID. interval <= 0 selects
// DefaultPollInterval.
func NewSession(client *api.Client, roomID int64, interval time.Duration, logger zerolog.Logger) *Session {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Session{
		client:   client,
		roomID:   roomID,
		interval: interval,
		logger:   logger,
		updates:  make(chan struct{}, 1),
	}
}

// Open fetches the room once, then starts polling in the background
// until Close is called or ctx is canceled.
func (s *Session) Open(ctx context.Context) error {
	room, err := s.client.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}
	s.apply(room)

	pollCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.poll(pollCtx)
	return nil
}

// poll runs the refresh cycle. Fetches are strictly sequential: a tick
// that fired while a fetch was in flight is drained and skipped, so at
// most one refresh is in flight at a time.
func (s *Session) poll(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			room, err := s.client.GetRoom(ctx, s.roomID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn().Err(err).Int64("room_id", s.roomID).Msg("chatroom refresh failed")
				continue
			}
			s.apply(room)

			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// Updates signals after every change to the cached room. The channel
// coalesces: consumers read the latest state with Room.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Room returns a snapshot of the cached room. The zero ChatRoom is
// returned before the first successful fetch.
func (s *Session) Room() models.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return models.ChatRoom{ID: s.roomID}
	}
	snapshot := *s.room
	snapshot.Messages = make([]models.Message, len(s.room.Messages))
	copy(snapshot.Messages, s.room.Messages)
	return snapshot
}

// Send posts text to the room, attaching and then clearing the pending
// reply target. The canonical server message is appended to the local
// cache immediately rather than waiting for the next poll. On failure
// local state is left unchanged so the user may retry.
func (s *Session) Send(ctx context.Context, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &api.ValidationError{Message: "message text must not be empty"}
	}

	s.mu.Lock()
	var replyTo *int64
	if s.replyTo != nil {
		id := s.replyTo.ID
		replyTo = &id
	}
	s.mu.Unlock()

	msg, err := s.client.SendMessage(ctx, s.roomID, text, replyTo)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.replyTo = nil
	if !s.closed && s.room != nil {
		s.room.Messages = append(s.room.Messages, *msg)
	}
	s.mu.Unlock()
	s.signal()
	return msg, nil
}

// Delete removes one of the current user's messages. Only the sender may
// delete; a server-side rejection leaves the local cache unchanged.
func (s *Session) Delete(ctx context.Context, messageID int64) error {
	if err := s.client.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.closed && s.room != nil {
		kept := s.room.Messages[:0]
		for _, m := range s.room.Messages {
			if m.ID != messageID {
				kept = append(kept, m)
			}
		}
		s.room.Messages = kept
	}
	s.mu.Unlock()
	s.signal()
	return nil
}

// Reply sets the pending reply target to the message with the given ID.
// At most one target is pending; the last selection wins. Returns false
// if the message is not in the cached room.
func (s *Session) Reply(messageID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return false
	}
	for i := range s.room.Messages {
		if s.room.Messages[i].ID == messageID {
			target := s.room.Messages[i]
			s.replyTo = &target
			return true
		}
	}
	return false
}

// ClearReply resets the pending reply target.
func (s *Session) ClearReply() {
	s.mu.Lock()
	s.replyTo = nil
	s.mu.Unlock()
}

// PendingReply returns the current reply target, or nil.
func (s *Session) PendingReply() *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replyTo == nil {
		return nil
	}
	target := *s.replyTo
	return &target
}

// Partner returns the other party in the conversation: whichever of
// buyer/seller is not the current user. ok is false when the current
// user cannot be determined or matches neither side; callers must
// present that as unknown rather than defaulting to one side.
func (s *Session) Partner() (partner models.UserRef, ok bool) {
	userID, err := s.client.CurrentUserID()
	if err != nil {
		return models.UserRef{}, false
	}

	s.mu.Lock()
	room := s.room
	s.mu.Unlock()
	if room == nil {
		return models.UserRef{}, false
	}
	return PartnerOf(*room, userID)
}

// PartnerOf resolves the conversation partner for userID in room. ok is
// false when userID matches neither the buyer nor the seller.
func PartnerOf(room models.ChatRoom, userID int64) (partner models.UserRef, ok bool) {
	switch userID {
	case room.Buyer.ID:
		return room.Seller, true
	case room.Seller.ID:
		return room.Buyer, true
	default:
		return models.UserRef{}, false
	}
}

// Close tears down the view: the poll timer stops and any fetch still in
// flight completes without mutating state. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// apply replaces the cached room, unless the view was torn down while
// the fetch was in flight.
func (s *Session) apply(room *models.ChatRoom) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.room = room
	s.mu.Unlock()
	s.signal()
}

func (s *Session) signal() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
