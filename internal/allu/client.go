package allu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/haitaton/hanke-service/config"
)

// Allu login tokens live for an hour; refresh a bit before that.
const loginTokenTTL = 50 * time.Minute

// Client is a rate limited Allu API client. Requests carry a bearer token
// obtained from the login endpoint and reused until it expires.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg *config.AlluConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	login := &loginSource{
		baseURL:  baseURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: cfg.Timeout},
		now:      time.Now,
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, login),
				Base:   http.DefaultTransport,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec*2),
	}
}

type loginSource struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	now      func() time.Time
}

func (s *loginSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{"username": s.username, "password": s.password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/v2/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("allu login: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ResponseError{Method: http.MethodPost, Path: "/v2/login", Status: resp.StatusCode, Body: string(raw)}
	}

	token := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(loginTokenTTL),
	}, nil
}

// Create sends a new cable report and returns its Allu id.
func (c *Client) Create(ctx context.Context, data CableReportApplicationData) (int, error) {
	var id int
	if err := c.doJSON(ctx, http.MethodPost, "/v2/cablereports", data, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) Update(ctx context.Context, alluID int, data CableReportApplicationData) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/v2/cablereports/%d", alluID), data, nil)
}

func (c *Client) Cancel(ctx context.Context, alluID int) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/v2/applications/%d/cancelled", alluID), nil, nil)
}

func (c *Client) ApplicationInformation(ctx context.Context, alluID int) (*ApplicationResponse, error) {
	var out ApplicationResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/v2/applications/%d", alluID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplicationStatusHistories returns the status events of the given applications after the given time.
func (c *Client) ApplicationStatusHistories(ctx context.Context, alluIDs []int, after time.Time) ([]ApplicationHistory, error) {
	search := struct {
		ApplicationIDs []int     `json:"applicationIds"`
		EventsAfter    time.Time `json:"eventsAfter"`
	}{ApplicationIDs: alluIDs, EventsAfter: after}

	var out []ApplicationHistory
	if err := c.doJSON(ctx, http.MethodPost, "/v2/applicationhistory", search, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DecisionPDF(ctx context.Context, alluID int) ([]byte, error) {
	path := fmt.Sprintf("/v2/cablereports/%d/decision", alluID)
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// AddAttachment uploads a file with its metadata as a multipart request.
func (c *Client) AddAttachment(ctx context.Context, alluID int, a Attachment) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return err
	}
	mh := textproto.MIMEHeader{}
	mh.Set("Content-Disposition", `form-data; name="metadata"`)
	mh.Set("Content-Type", "application/json")
	part, err := w.CreatePart(mh)
	if err != nil {
		return err
	}
	if _, err := part.Write(meta); err != nil {
		return err
	}

	fh := textproto.MIMEHeader{}
	fh.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, a.Metadata.Name))
	fh.Set("Content-Type", "application/octet-stream")
	part, err = w.CreatePart(fh)
	if err != nil {
		return err
	}
	if _, err := part.Write(a.Content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, fmt.Sprintf("/v2/applications/%d/attachments", alluID), &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode allu request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode allu %s %s: %w", method, path, err)
	}
	return nil
}

// send waits for the limiter and returns the response on 2xx. Callers close the body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("allu rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("allu %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &ResponseError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
	}
	return resp, nil
}
