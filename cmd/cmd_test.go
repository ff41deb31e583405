package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func setTestHome(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
}

var gowes = map[string]any{
	"id":            1,
	"judul":         "Gowes",
	"slug":          "gowes",
	"genre":         "Drama",
	"harga_tiket":   "45000.00",
	"tanggal_rilis": "2020-01-10",
	"durasi":        95,
	"is_active":     true,
	"created_at":    "2020-01-01T00:00:00.000000Z",
}

type fakeAPI struct {
	bookings atomic.Int32
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	authed := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer tok"
	}

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{
			"token": "tok",
			"user":  map[string]any{"id": 7, "name": "Rina", "email": "rina@mail.co", "role": "admin"},
		})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"message": "Logged out"})
	})
	mux.HandleFunc("GET /films", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"data": []any{gowes}, "current_page": 1, "last_page": 1, "total": 1})
	})
	mux.HandleFunc("GET /films/gowes", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"data": gowes})
	})
	mux.HandleFunc("GET /admin/films", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"data": []any{gowes}, "meta": map[string]any{"current_page": 1, "last_page": 1, "total": 12}})
	})
	mux.HandleFunc("POST /pemesanan", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			write(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		f.bookings.Add(1)
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["film_id"] != float64(1) || req["jumlah_tiket"] != float64(2) {
			t.Errorf("unexpected booking request: %+v", req)
		}
		write(w, http.StatusCreated, map[string]any{"data": map[string]any{"id": 9, "total_harga": "90000.00", "status": "pending"}})
	})
	mux.HandleFunc("GET /pemesanan", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			write(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		write(w, http.StatusOK, map[string]any{"data": []any{
			map[string]any{"id": 9, "film": gowes, "user": map[string]any{"id": 7, "name": "Rina"}, "jumlah_tiket": 2, "total_harga": "90000.00", "status": "confirmed"},
		}})
	})
	return mux
}

func runCLI(t *testing.T, api string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&app{version: "test", commit: "none"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	base := []string{"--api-url", api, "--env-file", filepath.Join(t.TempDir(), "missing.env")}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	setTestHome(t)
	out, err := runCLI(t, "http://127.0.0.1:0", "version")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.TrimSpace(out) != "bioskop-cli test" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFilmsCommand(t *testing.T) {
	setTestHome(t)
	server := httptest.NewServer((&fakeAPI{}).handler(t))
	defer server.Close()

	out, err := runCLI(t, server.URL, "films")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, want := range []string{"Gowes", "Rp 45.000", "95 min", "Page 1 of 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = runCLI(t, server.URL, "film", "gowes", "--qty", "3")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "Rp 135.000") {
		t.Fatalf("expected total in output:\n%s", out)
	}
}

func TestGuardedCommandsRequireLogin(t *testing.T) {
	setTestHome(t)
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	for _, args := range [][]string{
		{"book", "gowes"},
		{"bookings"},
		{"profile"},
		{"admin", "dashboard"},
		{"films", "--admin"},
	} {
		_, err := runCLI(t, server.URL, args...)
		if !errors.Is(err, errLoginRequired) {
			t.Fatalf("%v: expected login required, got %v", args, err)
		}
	}
	if api.bookings.Load() != 0 {
		t.Fatal("expected no booking request")
	}
}

func TestLoginBookLogout(t *testing.T) {
	setTestHome(t)
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	out, err := runCLI(t, server.URL, "login", "--email", "rina@mail.co", "--password", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in as Rina (admin).") {
		t.Fatalf("unexpected login output: %q", out)
	}

	if _, err := runCLI(t, server.URL, "book", "gowes", "--qty", "11"); err == nil {
		t.Fatal("expected quantity to be rejected")
	}
	if api.bookings.Load() != 0 {
		t.Fatal("expected invalid booking not to reach the server")
	}

	out, err = runCLI(t, server.URL, "book", "gowes", "--qty", "2")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if !strings.Contains(out, "Booked 2 ticket(s) for Gowes. Total Rp 90.000.") {
		t.Fatalf("unexpected book output: %q", out)
	}

	out, err = runCLI(t, server.URL, "bookings")
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if !strings.Contains(out, "Confirmed") || !strings.Contains(out, "Gowes") {
		t.Fatalf("unexpected bookings output:\n%s", out)
	}

	out, err = runCLI(t, server.URL, "admin", "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	for _, want := range []string{"12", "Rp 90.000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in dashboard:\n%s", want, out)
		}
	}

	out, err = runCLI(t, server.URL, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Signed out.") {
		t.Fatalf("unexpected logout output: %q", out)
	}
	if _, err := runCLI(t, server.URL, "bookings"); !errors.Is(err, errLoginRequired) {
		t.Fatalf("expected login required after logout, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	setTestHome(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	_, err := runCLI(t, server.URL, "register",
		"--name", "Rina", "--email", "rina@mail.co",
		"--password", "abc", "--password-confirmation", "abc")
	if err == nil || !strings.Contains(err.Error(), "password strength too low") {
		t.Fatalf("expected strength error, got %v", err)
	}
}

func TestSearchHistoryCommands(t *testing.T) {
	setTestHome(t)
	server := httptest.NewServer((&fakeAPI{}).handler(t))
	defer server.Close()

	out, err := runCLI(t, server.URL, "search", "gow")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Gowes") {
		t.Fatalf("unexpected search output:\n%s", out)
	}

	out, err = runCLI(t, server.URL, "search", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, " 1. gow") {
		t.Fatalf("unexpected history output: %q", out)
	}

	if _, err := runCLI(t, server.URL, "search", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, _ = runCLI(t, server.URL, "search", "history")
	if !strings.Contains(out, "No recent searches.") {
		t.Fatalf("unexpected history output: %q", out)
	}
}

func TestExitCodes(t *testing.T) {
	setTestHome(t)
	server := httptest.NewServer((&fakeAPI{}).handler(t))
	defer server.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachable := closed.URL
	closed.Close()

	tests := []struct {
		name     string
		api      string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "ok", api: server.URL, args: []string{"films"}, wantCode: 0},
		{name: "unknown flag", api: server.URL, args: []string{"films", "--bogus"}, wantCode: 2, wantErr: "unknown flag"},
		{name: "missing argument", api: server.URL, args: []string{"film"}, wantCode: 2, wantErr: "accepts 1 arg"},
		{name: "unknown command", api: server.URL, args: []string{"movies"}, wantCode: 2, wantErr: "unknown command"},
		{name: "bad id", api: server.URL, args: []string{"bookings", "show", "abc"}, wantCode: 2, wantErr: "invalid id"},
		{name: "login required", api: server.URL, args: []string{"bookings"}, wantCode: 3, wantErr: "login required"},
		{name: "unreachable api", api: unreachable, args: []string{"film", "gowes"}, wantCode: 1, wantErr: "Failed to fetch data. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.api, tt.args...)
			var stderr bytes.Buffer
			if code := exitCode(err, &stderr); code != tt.wantCode {
				t.Fatalf("expected exit code %d, got %d (%v)", tt.wantCode, code, err)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Fatalf("expected %q on stderr, got %q", tt.wantErr, stderr.String())
			}
			if strings.Contains(stderr.String(), "dial tcp") {
				t.Fatalf("expected no transport details on stderr, got %q", stderr.String())
			}
		})
	}
}
