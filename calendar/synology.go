// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default API paths, used when endpoint discovery omits an entry.
const (
	defaultAuthPath  = "/webapi/auth.cgi"
	defaultEventPath = "/webapi/entry.cgi"
)

// Client pushes events to a Synology Calendar over its web API. A push is
// three exchanges -- discover the versioned endpoint paths, log in for a
// session id, create the event -- and all three must succeed. Every
// exchange is bounded by the client timeout.
type Client struct {
	BaseURL    string
	Account    string
	Password   string
	CalendarID string
	HTTPClient *http.Client
}

func NewClient(baseURL, account, password, calendarID string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Account:    account,
		Password:   password,
		CalendarID: calendarID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the provider's uniform response wrapper. Non-success data is
// carried verbatim into the error for diagnosis.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type apiInfo struct {
	Path string `json:"path"`
}

// PushEvent implements Gateway.
func (c *Client) PushEvent(ev Event) error {
	authPath, eventPath, err := c.discover()
	if err != nil {
		return &ExternalServiceError{Step: "discover", Err: err}
	}
	sid, err := c.login(authPath)
	if err != nil {
		return &ExternalServiceError{Step: "login", Err: err}
	}
	if err := c.createEvent(eventPath, sid, ev); err != nil {
		return &ExternalServiceError{Step: "create", Err: err}
	}
	return nil
}

// discover asks the provider where its Auth and Event APIs live.
func (c *Client) discover() (authPath, eventPath string, err error) {
	params := url.Values{
		"api":     {"SYNO.API.Info"},
		"version": {"1"},
		"method":  {"query"},
		"query":   {"SYNO.API.Auth,SYNO.Cal.Event"},
	}
	data, err := c.get(c.BaseURL+"/webapi/query.cgi", params)
	if err != nil {
		return "", "", err
	}

	var endpoints map[string]apiInfo
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return "", "", fmt.Errorf("invalid discovery payload: %w", err)
	}
	authPath, eventPath = defaultAuthPath, defaultEventPath
	if info, ok := endpoints["SYNO.API.Auth"]; ok && info.Path != "" {
		authPath = "/" + strings.TrimLeft(info.Path, "/")
	}
	if info, ok := endpoints["SYNO.Cal.Event"]; ok && info.Path != "" {
		eventPath = "/" + strings.TrimLeft(info.Path, "/")
	}
	return authPath, eventPath, nil
}

// login authenticates and returns the session id.
func (c *Client) login(authPath string) (string, error) {
	form := url.Values{
		"api":     {"SYNO.API.Auth"},
		"method":  {"login"},
		"version": {"3"},
		"account": {c.Account},
		"passwd":  {c.Password},
		"session": {"Calendar"},
		"format":  {"sid"},
	}
	data, err := c.post(c.BaseURL+authPath, form)
	if err != nil {
		return "", err
	}

	var session struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(data, &session); err != nil || session.SID == "" {
		return "", fmt.Errorf("login response carried no session id")
	}
	return session.SID, nil
}

// createEvent posts the event using the established session.
func (c *Client) createEvent(eventPath, sid string, ev Event) error {
	payload, err := json.Marshal(map[string]any{
		"summary":     ev.Title,
		"description": ev.Description,
		"start":       map[string]string{"time": ev.Start.UTC().Format(time.RFC3339), "tz": "UTC"},
		"end":         map[string]string{"time": ev.End.UTC().Format(time.RFC3339), "tz": "UTC"},
		"all_day":     false,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	form := url.Values{
		"api":         {"SYNO.Cal.Event"},
		"method":      {"create"},
		"version":     {"3"},
		"calendar_id": {c.CalendarID},
		"event":       {string(payload)},
		"_sid":        {sid},
	}
	_, err = c.post(c.BaseURL+eventPath, form)
	return err
}

func (c *Client) get(rawURL string, params url.Values) (json.RawMessage, error) {
	resp, err := c.HTTPClient.Get(rawURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp)
}

func (c *Client) post(rawURL string, form url.Values) (json.RawMessage, error) {
	resp, err := c.HTTPClient.PostForm(rawURL, form)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (json.RawMessage, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("provider reported failure: %s", string(env.Error))
	}
	return env.Data, nil
}
