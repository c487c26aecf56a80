// SPDX-License-Identifier: MPL-2.0

package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// EnvToken supplies the API token when the source file carries
	// neither an inline token nor a token file.
	EnvToken = "PROXMOX_TOKEN"

	tokenPrefix    = "PVEAPIToken="
	requestTimeout = 30 * time.Second
)

// Client is an HTTP client for the Proxmox VE REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "https://pve1.lab:8006". The insecure flag skips TLS certificate
// verification for clusters running on self-signed certificates.
func NewClient(baseURL, token string, insecure bool) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}, //nolint:gosec // opt-in for self-signed clusters
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/api2/json",
		token:      ensureTokenPrefix(token),
		httpClient: &http.Client{Transport: transport, Timeout: requestTimeout},
	}
}

// ResolveToken picks the API token from the inline value, the token
// file, or the PROXMOX_TOKEN environment variable, in that order.
func ResolveToken(token, tokenFile string) (string, error) {
	if token != "" {
		return token, nil
	}
	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("reading token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if env := os.Getenv(EnvToken); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no API token: set token, token_file, or %s", EnvToken)
}

func ensureTokenPrefix(token string) string {
	if strings.HasPrefix(token, tokenPrefix) {
		return token
	}
	return tokenPrefix + token
}

// get performs a GET request and decodes the "data" envelope field
// into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decodeData(resp.Body, result)
}

// decodeData unwraps the {"data": ...} envelope every Proxmox response
// carries.
func decodeData(r io.Reader, result any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("parsing envelope: %w", err)
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(raw.Data, result)
}
