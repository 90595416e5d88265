package main

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/session"
)

// wireGlobals points the package-level client at a fake backend with a
// logged-in session, the way PersistentPreRun does for a real run.
func wireGlobals(t *testing.T, handler http.Handler) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger = zerolog.Nop()
	sessions = session.NewStore("", logger)
	sessions.Set("tok", "ref", "maya")
	client = api.NewClient(srv.URL, sessions, logger)
}

func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestWishlistAddCommand(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/properties/wishlist/add/", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Property int64 `json:"property"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(models.WishlistItem{
			ID:       1,
			Property: models.Property{ID: body.Property, Name: "Sea View Flat"},
		})
	})
	wireGlobals(t, r)

	if err := runWishlistAdd(testCommand(t), []string{"5"}); err != nil {
		t.Fatal(err)
	}
}

func TestWishlistRemoveCommand(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/properties/wishlist/remove/5/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wireGlobals(t, r)

	if err := runWishlistRemove(testCommand(t), []string{"5"}); err != nil {
		t.Fatal(err)
	}
}

func TestCalculateEMI(t *testing.T) {
	// 100000 at 12% over 1 year: the standard amortization table gives
	// a monthly installment of 8884.88.
	emi, total, interest, err := calculateEMI(100000, 12, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(emi-8884.88) > 0.01 {
		t.Fatalf("expected EMI 8884.88, got %.2f", emi)
	}
	if math.Abs(total-emi*12) > 0.01 {
		t.Fatalf("total %.2f does not match emi*months %.2f", total, emi*12)
	}
	if math.Abs(interest-(total-100000)) > 0.01 {
		t.Fatalf("interest %.2f does not match total-principal", interest)
	}
}

func TestCalculateEMIZeroRate(t *testing.T) {
	emi, total, interest, err := calculateEMI(120000, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if emi != 10000 {
		t.Fatalf("expected EMI 10000 at zero rate, got %.2f", emi)
	}
	if total != 120000 || interest != 0 {
		t.Fatalf("expected no interest at zero rate, got total=%.2f interest=%.2f", total, interest)
	}
}

func TestCalculateEMIRejectsBadInput(t *testing.T) {
	if _, _, _, err := calculateEMI(0, 8, 10); err == nil {
		t.Fatal("expected error for zero principal")
	}
	if _, _, _, err := calculateEMI(100000, -1, 10); err == nil {
		t.Fatal("expected error for negative rate")
	}
	if _, _, _, err := calculateEMI(100000, 8, 0); err == nil {
		t.Fatal("expected error for zero tenure")
	}
}

func TestTruncateMultibyte(t *testing.T) {
	got := truncate("दिल्ली अपार्टमेंट", 7)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n != 7 {
		t.Fatalf("expected 7 runes, got %d (%q)", n, got)
	}

	if got := truncate("short", 30); got != "short" {
		t.Fatalf("expected short string unchanged, got %q", got)
	}
}
