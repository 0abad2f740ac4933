// Package vtuber is a thin client for the avatar-control service: listing
// connected overlay sessions and pushing speech or instructions to them. The
// service speaks plain JSON over HTTP, nothing here holds database state.
package vtuber

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gitlab.com/MikeTTh/env"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func NewClientFromEnv() *Client {
	return NewClient(env.String("VTUBER_API_ROOT", "http://127.0.0.1:8000"))
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type SpeakRequest struct {
	Text       string  `json:"text"`
	ClientUID  *string `json:"client_uid,omitempty"`
	ApplyToAll bool    `json:"apply_to_all"`
}

type SystemRequest struct {
	Text       string  `json:"text"`
	Mode       string  `json:"mode"` // "append" or "replace"
	ClientUID  *string `json:"client_uid,omitempty"`
	ApplyToAll bool    `json:"apply_to_all"`
}

type RespondRequest struct {
	Text       string  `json:"text"`
	ClientUID  *string `json:"client_uid,omitempty"`
	ApplyToAll bool    `json:"apply_to_all"`
}

// ListSessions returns the uids of the currently connected avatar sessions.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/sessions", nil)
	if err != nil {
		return nil, err
	}

	var sessions []string
	if err = c.do(req, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Speak triggers TTS only; it does not touch the avatar's conversation memory.
func (c *Client) Speak(ctx context.Context, request SpeakRequest) (map[string]interface{}, error) {
	return c.post(ctx, "/v1/control/speak", request)
}

// SystemInstruction appends to or replaces the avatar's system prompt.
func (c *Client) SystemInstruction(ctx context.Context, request SystemRequest) (map[string]interface{}, error) {
	if request.Mode == "" {
		request.Mode = "append"
	}
	return c.post(ctx, "/v1/control/system", request)
}

// Respond feeds the text as a user turn and lets the avatar answer.
func (c *Client) Respond(ctx context.Context, request RespondRequest) (map[string]interface{}, error) {
	return c.post(ctx, "/v1/control/respond", request)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var response map[string]interface{}
	if err = c.do(req, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vtuber api: %s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
