package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/session"
)

// fakeRoom is an in-memory chatroom backend for one room.
type fakeRoom struct {
	mu         sync.Mutex
	room       models.ChatRoom
	nextMsgID  int64
	fetchCount int
	sendCount  int
}

func newFakeRoom() *fakeRoom {
	return &fakeRoom{
		room: models.ChatRoom{
			ID:     1,
			Buyer:  models.UserRef{ID: 7, Username: "maya"},
			Seller: models.UserRef{ID: 12, Username: "ravi"},
		},
		nextMsgID: 100,
	}
}

func (f *fakeRoom) addMessage(senderID int64, senderName, text string) models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMsgID++
	msg := models.Message{
		ID:        f.nextMsgID,
		Sender:    models.UserRef{ID: senderID, Username: senderName},
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	f.room.Messages = append(f.room.Messages, msg)
	return msg
}

func (f *fakeRoom) handler(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()

	r.Get("/chats/rooms/1/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.fetchCount++
		snapshot := f.room
		snapshot.Messages = append([]models.Message(nil), f.room.Messages...)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(snapshot)
	})

	r.Post("/chats/messages/send/", func(w http.ResponseWriter, req *http.Request) {
		var body api.SendMessageRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}

		f.mu.Lock()
		f.sendCount++
		f.nextMsgID++
		msg := models.Message{
			ID:        f.nextMsgID,
			Sender:    models.UserRef{ID: 7, Username: "maya"},
			Text:      body.Message,
			Timestamp: time.Now().UTC(),
		}
		if body.ReplyTo != nil {
			for i := range f.room.Messages {
				if f.room.Messages[i].ID == *body.ReplyTo {
					target := f.room.Messages[i]
					msg.ReplyTo = &target
				}
			}
		}
		f.room.Messages = append(f.room.Messages, msg)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(msg)
	})

	r.Delete("/chats/messages/delete/{id}/", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)

		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.room.Messages {
			if f.room.Messages[i].ID == id {
				f.room.Messages = append(f.room.Messages[:i], f.room.Messages[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}

func forgeToken(t *testing.T, userID int64) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(`{"user_id":` + strconv.FormatInt(userID, 10) + `}`))
	return header + "." + payload + "." + enc.EncodeToString([]byte("sig"))
}

func newTestSession(t *testing.T, f *fakeRoom, interval time.Duration) *Session {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	sessions := session.NewStore("", zerolog.Nop())
	sessions.Set(forgeToken(t, 7), "ref", "maya")
	client := api.NewClient(srv.URL, sessions, zerolog.Nop())

	return NewSession(client, 1, interval, zerolog.Nop())
}

func TestOpenFetchesInitialState(t *testing.T) {
	f := newFakeRoom()
	f.addMessage(12, "ravi", "Is the flat still available?")

	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	room := s.Room()
	if room.ID != 1 || len(room.Messages) != 1 {
		t.Fatalf("unexpected room: %+v", room)
	}
	if room.Messages[0].Text != "Is the flat still available?" {
		t.Fatalf("unexpected message: %+v", room.Messages[0])
	}
}

func TestRoomBeforeOpen(t *testing.T) {
	s := newTestSession(t, newFakeRoom(), time.Hour)

	room := s.Room()
	if room.ID != 1 || len(room.Messages) != 0 {
		t.Fatalf("expected empty room snapshot, got %+v", room)
	}
}

func TestPollPicksUpNewMessages(t *testing.T) {
	f := newFakeRoom()

	s := newTestSession(t, f, 10*time.Millisecond)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	f.addMessage(12, "ravi", "Hello")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("poll never picked up the new message")
		case <-s.Updates():
			if len(s.Room().Messages) == 1 {
				return
			}
		}
	}
}

func TestSendEmptyMessageRejectedLocally(t *testing.T) {
	f := newFakeRoom()
	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_, err := s.Send(context.Background(), "   \n\t")
	var valErr *api.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.sendCount != 0 {
		t.Fatal("expected no network call for whitespace-only message")
	}
}

func TestSendAppendsWithoutWaitingForPoll(t *testing.T) {
	f := newFakeRoom()
	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	msg, err := s.Send(context.Background(), "Is the price negotiable?")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ReplyTo != nil {
		t.Fatalf("expected no reply reference, got %+v", msg.ReplyTo)
	}

	room := s.Room()
	if len(room.Messages) != 1 || room.Messages[0].ID != msg.ID {
		t.Fatalf("expected sent message in cache, got %+v", room.Messages)
	}
}

func TestReplyAttachedAndClearedAfterSend(t *testing.T) {
	f := newFakeRoom()
	first := f.addMessage(12, "ravi", "Asking 45L")

	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !s.Reply(first.ID) {
		t.Fatal("expected Reply to find the cached message")
	}
	if pending := s.PendingReply(); pending == nil || pending.ID != first.ID {
		t.Fatalf("unexpected pending reply: %+v", pending)
	}

	msg, err := s.Send(context.Background(), "Would you take 42?")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ReplyTo == nil || msg.ReplyTo.ID != first.ID {
		t.Fatalf("expected reply reference to #%d, got %+v", first.ID, msg.ReplyTo)
	}
	if s.PendingReply() != nil {
		t.Fatal("expected pending reply cleared after send")
	}
}

func TestReplyUnknownMessage(t *testing.T) {
	s := newTestSession(t, newFakeRoom(), time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Reply(999) {
		t.Fatal("expected Reply to reject unknown message ID")
	}
}

func TestReplyLastSelectionWins(t *testing.T) {
	f := newFakeRoom()
	first := f.addMessage(12, "ravi", "one")
	second := f.addMessage(12, "ravi", "two")

	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Reply(first.ID)
	s.Reply(second.ID)
	if pending := s.PendingReply(); pending == nil || pending.ID != second.ID {
		t.Fatalf("expected last selection to win, got %+v", pending)
	}

	s.ClearReply()
	if s.PendingReply() != nil {
		t.Fatal("expected ClearReply to reset the target")
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	f := newFakeRoom()
	keep := f.addMessage(7, "maya", "keep me")
	doomed := f.addMessage(7, "maya", "delete me")

	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Delete(context.Background(), doomed.ID); err != nil {
		t.Fatal(err)
	}

	room := s.Room()
	if len(room.Messages) != 1 || room.Messages[0].ID != keep.ID {
		t.Fatalf("expected only the kept message, got %+v", room.Messages)
	}
}

func TestDeleteNonexistentLeavesCacheUnchanged(t *testing.T) {
	f := newFakeRoom()
	f.addMessage(7, "maya", "still here")

	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err := s.Delete(context.Background(), 999)
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
	if len(s.Room().Messages) != 1 {
		t.Fatal("expected cache unchanged after failed delete")
	}
}

func TestPartnerOf(t *testing.T) {
	room := models.ChatRoom{
		Buyer:  models.UserRef{ID: 7, Username: "maya"},
		Seller: models.UserRef{ID: 12, Username: "ravi"},
	}

	if p, ok := PartnerOf(room, 7); !ok || p.ID != 12 {
		t.Fatalf("buyer's partner should be the seller, got %+v ok=%v", p, ok)
	}
	if p, ok := PartnerOf(room, 12); !ok || p.ID != 7 {
		t.Fatalf("seller's partner should be the buyer, got %+v ok=%v", p, ok)
	}
	if _, ok := PartnerOf(room, 99); ok {
		t.Fatal("expected no partner for a user outside the room")
	}
}

func TestPartnerFromSession(t *testing.T) {
	// Token carries user_id 7, the buyer.
	s := newTestSession(t, newFakeRoom(), time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	partner, ok := s.Partner()
	if !ok || partner.Username != "ravi" {
		t.Fatalf("expected partner ravi, got %+v ok=%v", partner, ok)
	}
}

func TestCloseStopsPolling(t *testing.T) {
	f := newFakeRoom()
	s := newTestSession(t, f, 10*time.Millisecond)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.Close()
	s.Close() // idempotent

	f.mu.Lock()
	after := f.fetchCount
	f.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	f.mu.Lock()
	final := f.fetchCount
	f.mu.Unlock()
	if final != after {
		t.Fatalf("expected no fetches after Close, got %d more", final-after)
	}
}

func TestCloseDiscardsLateResult(t *testing.T) {
	f := newFakeRoom()
	s := newTestSession(t, f, time.Hour)
	if err := s.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// A fetch that completed after teardown must not resurface.
	s.apply(&models.ChatRoom{ID: 1, Messages: []models.Message{{ID: 1, Text: "late"}}})
	if len(s.Room().Messages) != 0 {
		t.Fatal("expected late fetch result to be discarded after Close")
	}
}
