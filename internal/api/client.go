package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/pagination"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MetricsRecorder interface for recording backend call metrics
type MetricsRecorder interface {
	RecordBackendCall(ctx context.Context, operation string, statusCode int, durationMs float64)
}

// Client calls the MedGPT backend JSON API
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    MetricsRecorder
}

// NewClient creates a backend client. A zero timeout leaves the transport
// default in place (no deadline).
func NewClient(baseURL string, timeout time.Duration, metrics MetricsRecorder) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
	}
}

// NewClientWithHTTP creates a client around a caller-supplied http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListDoctors returns the verified doctors available for booking
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var out doctorListResponse
	if err := c.do(ctx, "list_doctors", http.MethodGet, "/api/doctors", nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// BookAppointment creates an appointment
func (c *Client) BookAppointment(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	var out BookingConfirmation
	if err := c.do(ctx, "book_appointment", http.MethodPost, "/api/book", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChat posts one user message of a conversation and returns the reply
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	var out ChatReply
	if err := c.do(ctx, "chat", http.MethodPost, "/api/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDoctorProfile fetches one doctor's profile
func (c *Client) GetDoctorProfile(ctx context.Context, doctorID int) (*Doctor, error) {
	var out doctorResponse
	path := "/api/doctor/profile/" + strconv.Itoa(doctorID)
	if err := c.do(ctx, "get_profile", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Doctor, nil
}

// UpdateDoctorProfile submits every editable profile field
func (c *Client) UpdateDoctorProfile(ctx context.Context, doctorID int, req ProfileUpdate) error {
	path := "/api/doctor/profile/" + strconv.Itoa(doctorID)
	return c.do(ctx, "update_profile", http.MethodPut, path, req, nil)
}

// ListAppointments returns one page of a doctor's appointments
func (c *Client) ListAppointments(ctx context.Context, doctorID int, params pagination.Params) ([]Appointment, pagination.Meta, error) {
	params.Validate()
	q := url.Values{}
	q.Set("doctor_id", strconv.Itoa(doctorID))
	params.Apply(q, "page", "per_page")

	var out appointmentListResponse
	if err := c.do(ctx, "list_appointments", http.MethodGet, "/api/appointments?"+q.Encode(), nil, &out); err != nil {
		return nil, pagination.Meta{}, err
	}
	return out.Appointments, out.Meta, nil
}

// ListAllAppointments walks every page of a doctor's appointments
func (c *Client) ListAllAppointments(ctx context.Context, doctorID int) ([]Appointment, error) {
	params := pagination.FirstPage(pagination.MaxLimit)
	var all []Appointment
	for {
		page, meta, err := c.ListAppointments(ctx, doctorID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		// Older backends omit the envelope; one page is all there is then.
		if meta.PerPage == 0 || len(page) == 0 || !meta.HasNext() {
			break
		}
		params = params.Next()
	}
	if all == nil {
		all = []Appointment{}
	}
	return all, nil
}

// UpdateAppointment changes an appointment's status and notes
func (c *Client) UpdateAppointment(ctx context.Context, appointmentID int, req AppointmentUpdate) error {
	path := "/api/appointments/" + strconv.Itoa(appointmentID)
	return c.do(ctx, "update_appointment", http.MethodPut, path, req, nil)
}

// Login authenticates a doctor and returns the session identity
func (c *Client) Login(ctx context.Context, req Credentials) (*DoctorSession, error) {
	var out loginResponse
	if err := c.do(ctx, "doctor_login", http.MethodPost, "/api/doctor/login", req, &out); err != nil {
		return nil, err
	}
	if out.Doctor == nil {
		return nil, fmt.Errorf("%w: login answer has no doctor", ErrInvalidResponse)
	}
	return out.Doctor, nil
}

// Register creates an unverified doctor account
func (c *Client) Register(ctx context.Context, req Registration) error {
	return c.do(ctx, "doctor_register", http.MethodPost, "/api/doctor/register", req, nil)
}

// ListNews fetches a page of medical news articles
func (c *Client) ListNews(ctx context.Context, query NewsQuery) (*NewsResponse, error) {
	q := url.Values{}
	if query.PageSize > 0 {
		pagination.Params{Limit: query.PageSize}.Apply(q, "", "page_size")
	}
	if query.Category != "" {
		q.Set("category", query.Category)
	}

	var out NewsResponse
	if err := c.do(ctx, "list_news", http.MethodGet, "/api/news?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	start := time.Now()
	statusCode := 0
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordBackendCall(ctx, operation, statusCode, float64(time.Since(start).Milliseconds()))
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, operation, err)
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody errorResponse
		if len(raw) > 0 {
			if jsonErr := json.Unmarshal(raw, &errBody); jsonErr != nil {
				log.Printf("[WARN] %s: non-JSON error body (status %d)", operation, resp.StatusCode)
			}
		}
		return &Error{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, operation, err)
	}
	return nil
}
