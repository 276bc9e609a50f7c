package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
)

// PortalClient is a browser stand-in: it keeps the device cookie and follows
// the redirect every form action answers with
type PortalClient struct {
	BaseURL string
	Client  *http.Client
}

// NewPortalClient creates a client with its own cookie jar, i.e. its own device
func NewPortalClient(t *testing.T, baseURL string) *PortalClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &PortalClient{
		BaseURL: baseURL,
		Client:  &http.Client{Jar: jar},
	}
}

// GET makes a GET request
func (c *PortalClient) GET(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := c.Client.Get(c.BaseURL + path)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

// POST submits a form
func (c *PortalClient) POST(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

// Page GETs path and returns the body, failing unless the status is 200
func (c *PortalClient) Page(t *testing.T, path string) string {
	t.Helper()
	return okBody(t, c.GET(t, path))
}

// Submit POSTs a form and returns the page it redirects to
func (c *PortalClient) Submit(t *testing.T, path string, form url.Values) string {
	t.Helper()
	return okBody(t, c.POST(t, path, form))
}

func okBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := ReadBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 from %s, got %d. Body: %s", resp.Request.URL.Path, resp.StatusCode, body)
	}
	return body
}

// ReadBody reads and returns the response body as string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return string(body)
}

// AssertStatusCode asserts the response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()

	if resp.StatusCode != expected {
		body := ReadBody(t, resp)
		t.Errorf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, body)
	}
}
