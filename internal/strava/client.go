// Package strava is an HTTP client for the Strava v3 API: OAuth
// refresh-token authentication, activity listing, sensor streams, and GPX
// export with stream-synthesis fallback.
package strava

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/gpx"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

// Sentinel errors for common failure classes.
var (
	ErrAuthentication = errors.New("strava authentication failed")
	ErrNotFound       = errors.New("not found")
)

const (
	defaultBaseURL = "https://www.strava.com/api/v3"
	defaultAuthURL = "https://www.strava.com/oauth/token"
	maxPerPage     = 200
)

// DefaultStreamTypes is the canonical stream key set requested when the
// caller does not name specific streams.
var DefaultStreamTypes = []string{
	"time", "latlng", "distance", "altitude", "velocity_smooth",
	"heartrate", "cadence", "watts", "temp", "moving", "grade_smooth",
}

// authState tracks whether the client currently holds a usable access token.
type authState int

const (
	stateUnauthenticated authState = iota
	stateAuthenticated
)

// Client is an HTTP client for the Strava API.
type Client struct {
	BaseURL string
	AuthURL string
	HTTP    *http.Client

	// PerPage is the listing page size; the API caps it at 200.
	PerPage int

	clientID     string
	clientSecret string
	refreshToken string

	state       authState
	accessToken string
	expiresAt   time.Time

	now func() time.Time
}

// New creates a Strava client with the application's OAuth credentials.
func New(clientID, clientSecret, refreshToken string) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		AuthURL:      defaultAuthURL,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		PerPage:      maxPerPage,
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		now:          time.Now,
	}
}

// tokenResponse is the OAuth token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Authenticate exchanges the refresh token for a fresh access token.
func (c *Client) Authenticate() error {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("refresh_token", c.refreshToken)
	form.Set("grant_type", "refresh_token")

	resp, err := c.HTTP.PostForm(c.AuthURL, form)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("token request: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("unmarshal token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.expiresAt = time.Unix(token.ExpiresAt, 0)
	c.state = stateAuthenticated

	slog.Debug("strava: token refreshed", "expires_at", c.expiresAt)
	return nil
}

// ensureReady is the single auth entry point for every data operation. It
// re-authenticates when no token is held or the stored expiry is at or
// before now.
func (c *Client) ensureReady() error {
	if c.state == stateAuthenticated && c.now().Before(c.expiresAt) {
		return nil
	}
	c.state = stateUnauthenticated
	if err := c.Authenticate(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return nil
}

// Activities pages through the athlete's activities in the given window and
// returns them in origin-service order. A page fetch failure aborts
// pagination but keeps what was accumulated; only an authentication failure
// is returned as an error.
func (c *Client) Activities(after, before *time.Time) ([]models.Activity, error) {
	perPage := c.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	if after != nil {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	if before != nil {
		params.Set("before", strconv.FormatInt(before.Unix(), 10))
	}

	var all []models.Activity
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))

		var raws []json.RawMessage
		err := c.do("GET", "/athlete/activities?"+params.Encode(), &raws)
		if errors.Is(err, ErrAuthentication) {
			return all, err
		}
		if err != nil {
			slog.Debug("strava: activities page failed, keeping partial result", "page", page, "err", err)
			break
		}
		if len(raws) == 0 {
			break
		}

		for _, raw := range raws {
			var a models.Activity
			if err := json.Unmarshal(raw, &a); err != nil {
				slog.Debug("strava: skipping undecodable activity record", "err", err)
				continue
			}
			a.Raw = raw
			all = append(all, a)
		}
	}
	return all, nil
}

// ActivityDetail fetches one activity's full record.
func (c *Client) ActivityDetail(id int64) (*models.Activity, error) {
	var raw json.RawMessage
	if err := c.do("GET", fmt.Sprintf("/activities/%d", id), &raw); err != nil {
		return nil, err
	}
	var a models.Activity
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("unmarshal activity %d: %w", id, err)
	}
	a.Raw = raw
	return &a, nil
}

// Streams fetches the named sensor streams for an activity, defaulting to
// DefaultStreamTypes when none are given.
func (c *Client) Streams(id int64, streamTypes []string) (*models.StreamSet, error) {
	if len(streamTypes) == 0 {
		streamTypes = DefaultStreamTypes
	}

	params := url.Values{}
	params.Set("keys", strings.Join(streamTypes, ","))
	params.Set("key_by_type", "true")

	var set models.StreamSet
	if err := c.do("GET", fmt.Sprintf("/activities/%d/streams?%s", id, params.Encode()), &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Athlete fetches the authenticated athlete's record.
func (c *Client) Athlete() (*models.Athlete, error) {
	var a models.Athlete
	if err := c.do("GET", "/athlete", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ExportGPX returns GPX bytes for an activity. The native export endpoint is
// tried first; on any failure the track is synthesized from the activity's
// time/latlng/altitude streams. The endpoint does not distinguish "export
// unsupported" from outages, so every failure falls through to synthesis.
func (c *Client) ExportGPX(id int64) ([]byte, error) {
	data, err := c.exportNative(id)
	if err == nil {
		return data, nil
	}
	slog.Debug("strava: native export failed, generating from streams", "activity", id, "err", err)
	return c.synthesize(id)
}

func (c *Client) exportNative(id int64) ([]byte, error) {
	return c.doRaw("GET", fmt.Sprintf("/activities/%d/export_gpx", id))
}

func (c *Client) synthesize(id int64) ([]byte, error) {
	activity, err := c.ActivityDetail(id)
	if err != nil {
		return nil, err
	}

	streams, err := c.Streams(id, []string{"time", "latlng", "altitude"})
	if err != nil {
		return nil, err
	}

	doc, err := gpx.FromStreams(activity, streams)
	if err != nil {
		return nil, fmt.Errorf("activity %d: %w", id, err)
	}
	return doc.Bytes()
}

// SaveGPX exports an activity and writes it to path, creating parent
// directories as needed.
func (c *Client) SaveGPX(id int64, path string) error {
	data, err := c.ExportGPX(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// --- HTTP helpers ---

// do executes an authenticated JSON request.
func (c *Client) do(method, path string, result any) error {
	body, err := c.doRaw(method, path)
	if err != nil {
		return err
	}
	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// doRaw executes an authenticated request and returns the response body.
func (c *Client) doRaw(method, path string) ([]byte, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
