// Package remote translates pending mutations and snapshot reads into
// calls against the sync server. It holds no entity state of its own.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Config holds the persisted session state for the sync server.
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
}

// Client manages the authenticated session against the sync server.
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient creates a client with session state at ~/.quicklist/sync.json.
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewClientWithPath(filepath.Join(home, ".quicklist", "sync.json")), nil
}

// NewClientWithPath creates a client with session state at the given path.
func NewClientWithPath(configPath string) *Client {
	c := &Client{
		configPath: configPath,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.loadConfig()
	return c
}

func (c *Client) loadConfig() {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.config = &Config{ServerURL: "http://localhost:8080"}
		return
	}
	c.config = &Config{}
	if err := json.Unmarshal(data, c.config); err != nil {
		c.config = &Config{ServerURL: "http://localhost:8080"}
	}
	if c.config.ServerURL == "" {
		c.config.ServerURL = "http://localhost:8080"
	}
}

func (c *Client) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// SetServer sets the sync server URL.
func (c *Client) SetServer(url string) error {
	c.config.ServerURL = url
	return c.saveConfig()
}

// IsLoggedIn returns true if a session token is present.
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

// Status returns the server URL and user id of the current session.
func (c *Client) Status() (serverURL, userID string, loggedIn bool) {
	return c.config.ServerURL, c.config.UserID, c.IsLoggedIn()
}

type authResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (c *Client) authenticate(path string, body map[string]string) error {
	payload, _ := json.Marshal(body)
	resp, err := c.httpClient.Post(
		c.config.ServerURL+path,
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s", string(respBody))
	}

	var result authResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// Register creates a new account and stores the session.
func (c *Client) Register(username, email, password string) error {
	return c.authenticate("/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates with username and password.
func (c *Client) Login(username, password string) error {
	return c.authenticate("/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Logout clears the session.
func (c *Client) Logout() error {
	c.config.Token = ""
	c.config.UserID = ""
	return c.saveConfig()
}

// Reachable probes the server health endpoint once. It seeds the
// connectivity monitor at startup; it is not a polling mechanism.
func (c *Client) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.ServerURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// doJSON issues an authenticated request with an optional JSON body and
// fails closed on any transport error or non-2xx status.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
