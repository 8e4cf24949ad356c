// Package komoot is an HTTP client for the (unofficial) Komoot API: session
// authentication, tour listing and management, and GPX tour uploads.
package komoot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/gpx"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

// Sentinel errors for common failure classes.
var (
	ErrAuthentication = errors.New("komoot authentication failed")
	ErrNotFound       = errors.New("not found")
)

const (
	defaultBaseURL  = "https://api.komoot.de"
	defaultTourType = "tour_recorded"
	toursPerPage    = 50
)

// authState tracks whether the client holds a usable session.
type authState int

const (
	stateUnauthenticated authState = iota
	stateAuthenticated
)

// Client is an HTTP client for the Komoot API.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	email    string
	password string

	state  authState
	userID string
	token  string
}

// New creates a Komoot client with account credentials. The session is
// established lazily on first use.
func New(email, password string) *Client {
	return &Client{
		BaseURL:  defaultBaseURL,
		HTTP:     &http.Client{Timeout: 60 * time.Second},
		email:    email,
		password: password,
	}
}

// accountResponse is the account endpoint's credential payload: the user ID
// and a session token used as basic auth for all further calls.
type accountResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate establishes a session and verifies it with one tour listing
// call. Failure of either step leaves the client unauthenticated.
func (c *Client) Authenticate() error {
	req, err := http.NewRequest("GET", c.BaseURL+"/v006/account/email/"+url.PathEscape(c.email)+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.password)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("account request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read account response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("account request: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return fmt.Errorf("unmarshal account response: %w", err)
	}
	if account.Username == "" || account.Password == "" {
		return fmt.Errorf("account response missing session credentials")
	}

	c.userID = account.Username
	c.token = account.Password
	c.state = stateAuthenticated

	// One verification call to confirm the session is usable.
	if _, err := c.Tours(""); err != nil {
		c.state = stateUnauthenticated
		return fmt.Errorf("session verification: %w", err)
	}

	slog.Debug("komoot: authenticated", "user", c.userID)
	return nil
}

// ensureReady authenticates lazily on first use.
func (c *Client) ensureReady() error {
	if c.state == stateAuthenticated {
		return nil
	}
	if err := c.Authenticate(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return nil
}

// toursPage is one page of the user's tour listing.
type toursPage struct {
	Embedded struct {
		Tours []models.Tour `json:"tours"`
	} `json:"_embedded"`
	Page struct {
		Number     int `json:"number"`
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

// Tours lists the account's tours, defaulting to recorded tours. An account
// with no tours yields an empty slice; a failed request yields an error.
func (c *Client) Tours(tourType string) ([]models.Tour, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}
	if tourType == "" {
		tourType = defaultTourType
	}

	tours := []models.Tour{}
	for page := 0; ; page++ {
		params := url.Values{}
		params.Set("type", tourType)
		params.Set("limit", strconv.Itoa(toursPerPage))
		params.Set("page", strconv.Itoa(page))

		var batch toursPage
		path := fmt.Sprintf("/v007/users/%s/tours/?%s", c.userID, params.Encode())
		if err := c.do("GET", path, nil, "", &batch); err != nil {
			return nil, err
		}

		tours = append(tours, batch.Embedded.Tours...)
		if len(batch.Embedded.Tours) == 0 || page >= batch.Page.TotalPages-1 {
			break
		}
	}
	return tours, nil
}

// Tour fetches one tour by ID.
func (c *Client) Tour(id int64) (*models.Tour, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}
	var tour models.Tour
	if err := c.do("GET", fmt.Sprintf("/v007/tours/%d", id), nil, "", &tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// DeleteTour removes one tour by ID.
func (c *Client) DeleteTour(id int64) error {
	if err := c.ensureReady(); err != nil {
		return err
	}
	return c.do("DELETE", fmt.Sprintf("/v007/tours/%d", id), nil, "", nil)
}

// UploadGPX validates the supplied GPX document and submits it as a new tour
// with the given display name and sport code.
func (c *Client) UploadGPX(data []byte, name, sport string) (*models.UploadResult, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}

	doc, err := gpx.Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("komoot: uploading tour", "name", name, "sport", sport, "points", doc.PointCount())

	params := url.Values{}
	params.Set("name", name)
	params.Set("sport", sport)
	params.Set("data_type", "gpx")

	var created models.Tour
	path := "/v007/tours/?" + params.Encode()
	if err := c.do("POST", path, data, "application/gpx+xml", &created); err != nil {
		return nil, err
	}

	result := &models.UploadResult{Name: name, Sport: sport, Status: "success"}
	if created.ID != 0 {
		result.TourID = &created.ID
	}
	return result, nil
}

// Profile returns basic information about the authenticated session.
func (c *Client) Profile() (email, userID string, err error) {
	if err := c.ensureReady(); err != nil {
		return "", "", err
	}
	return c.email, c.userID, nil
}

// MapSport maps a Strava activity type to the closest Komoot sport code.
// Unrecognized types fall back to touringbicycle.
func MapSport(stravaType string) string {
	mapping := map[string]string{
		"Ride":             "touringbicycle",
		"VirtualRide":      "touringbicycle",
		"EBikeRide":        "e_touringbicycle",
		"MountainBikeRide": "mtb",
		"GravelRide":       "mtb",
		"Run":              "jogging",
		"TrailRun":         "jogging",
		"Walk":             "hiking",
		"Hike":             "hiking",
		"RoadBike":         "racebike",
	}

	if sport, ok := mapping[stravaType]; ok {
		return sport
	}
	return "touringbicycle"
}

// do executes a session-authenticated request. body may be nil; contentType
// is only set when a body is present.
func (c *Client) do(method, path string, body []byte, contentType string, result any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth(c.userID, c.token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
