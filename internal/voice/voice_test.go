package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscribeAndTranslate(t *testing.T) {
	var gotAuth, gotMedia string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		gotAuth = user
		var in struct {
			MediaURL string `json:"media_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotMedia = in.MediaURL
		json.NewEncoder(w).Encode(map[string]string{"text": "add new -m"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC123", "secret")
	text, err := c.TranscribeAndTranslate(context.Background(), "https://media.example/v1")
	if err != nil {
		t.Fatal(err)
	}
	if text != "add new -m" {
		t.Fatalf("want transcript, got %q", text)
	}
	if gotAuth != "AC123" {
		t.Fatalf("credentials not forwarded, got %q", gotAuth)
	}
	if gotMedia != "https://media.example/v1" {
		t.Fatalf("media url not forwarded, got %q", gotMedia)
	}
}

func TestTranscribeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	if _, err := c.TranscribeAndTranslate(context.Background(), "x"); err == nil {
		t.Fatal("upstream 502 must surface as an error")
	}

	// empty transcript is an error, not a silent no-op
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv2.Close()
	c2 := NewClient(srv2.URL, "", "")
	if _, err := c2.TranscribeAndTranslate(context.Background(), "x"); err == nil {
		t.Fatal("empty transcript must error")
	}
}

func TestUnconfiguredFailsFast(t *testing.T) {
	c := NewClient("", "", "")
	if c.Configured() {
		t.Fatal("empty endpoint reported as configured")
	}
	if _, err := c.TranscribeAndTranslate(context.Background(), "x"); err == nil {
		t.Fatal("unconfigured client must error")
	}
}
