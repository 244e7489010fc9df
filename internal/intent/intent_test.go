package intent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHeuristicTranslate(t *testing.T) {
	h := NewHeuristicTranslator()

	tests := []struct {
		request     string
		wantCommand string
	}{
		{"list all running processes", "ps aux"},
		{"how much disk space is left", "df -h"},
		{"show my ip address", "ip addr show"},
		{"what open ports are there", "netstat -tlnp"},
	}
	for _, tc := range tests {
		t.Run(tc.request, func(t *testing.T) {
			tr, err := h.Translate(context.Background(), tc.request)
			if err != nil {
				t.Fatalf("Translate: %v", err)
			}
			if tr.Command != tc.wantCommand {
				t.Fatalf("Command = %q, want %q", tr.Command, tc.wantCommand)
			}
			if tr.Explanation == "" {
				t.Fatal("missing explanation")
			}
		})
	}
}

func TestHeuristicAdminEstimate(t *testing.T) {
	h := NewHeuristicTranslator()
	tr, err := h.Translate(context.Background(), "restart the print service")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !tr.RequiresAdmin {
		t.Fatal("service restart should estimate admin requirement")
	}
}

func TestHeuristicNoMatch(t *testing.T) {
	h := NewHeuristicTranslator()
	if _, err := h.Translate(context.Background(), "paint my house"); !errors.Is(err, ErrNoTranslation) {
		t.Fatalf("err = %v, want ErrNoTranslation", err)
	}
}

func TestClientTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":
			"{\"command\":\"Get-Process\",\"explanation\":\"lists processes\",\"risks\":[],\"requires_admin\":false}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	tr, err := c.Translate(context.Background(), "list processes")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if tr.Command != "Get-Process" {
		t.Fatalf("Command = %q", tr.Command)
	}
}

func TestClientStripsFencedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := "```json\n{\"command\":\"df -h\",\"explanation\":\"disk space\"}\n```"
		resp := `{"choices":[{"message":{"role":"assistant","content":` + jsonString(reply) + `}}]}`
		w.Write([]byte(resp))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	tr, err := c.Translate(context.Background(), "disk space")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if tr.Command != "df -h" {
		t.Fatalf("Command = %q", tr.Command)
	}
}

func TestClientEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	if _, err := c.Translate(context.Background(), "anything"); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"command":"x"}`, `{"command":"x"}`},
		{"```json\n{\"command\":\"x\"}\n```", `{"command":"x"}`},
		{"```\n{\"command\":\"x\"}\n```", `{"command":"x"}`},
	}
	for _, tc := range tests {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
