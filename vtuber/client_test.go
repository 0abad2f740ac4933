package vtuber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/sessions" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["uid-1", "uid-2"]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	sessions, err := client.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "uid-1" {
		t.Errorf("Unexpected sessions: %v", sessions)
	}
}

func TestSpeakSendsPayload(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/control/speak" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	uid := "uid-1"
	client := NewClient(server.URL + "/") // trailing slash is tolerated
	resp, err := client.Speak(context.Background(), SpeakRequest{Text: "hello", ClientUID: &uid})
	if err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	if gotBody["text"] != "hello" || gotBody["client_uid"] != "uid-1" {
		t.Errorf("Unexpected payload: %v", gotBody)
	}
	if gotBody["apply_to_all"] != false {
		t.Errorf("apply_to_all should default to false: %v", gotBody)
	}
	if resp["status"] != "ok" {
		t.Errorf("Unexpected response: %v", resp)
	}
}

func TestSystemInstructionDefaultsToAppend(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.SystemInstruction(context.Background(), SystemRequest{Text: "be nice"}); err != nil {
		t.Fatalf("SystemInstruction failed: %v", err)
	}
	if gotBody["mode"] != "append" {
		t.Errorf("Expected default mode append, got %v", gotBody["mode"])
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.ListSessions(context.Background()); err == nil {
		t.Error("Expected an error for a non-2xx response")
	}
}
