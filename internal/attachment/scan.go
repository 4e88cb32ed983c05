package attachment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/haitaton/hanke-service/config"
)

type ScanInput struct {
	Name  string
	Bytes []byte
}

type ScanResult struct {
	Name       string   `json:"name"`
	IsInfected bool     `json:"is_infected"`
	Viruses    []string `json:"viruses"`
}

// ScanClient sends files to a ClamAV REST service.
type ScanClient struct {
	url  string
	http *http.Client
}

func NewScanClient(cfg *config.ScanConfig) *ScanClient {
	return &ScanClient{
		url:  strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *ScanClient) Scan(ctx context.Context, files []ScanInput) ([]ScanResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("FILES", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Bytes); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/v1/scan", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file scan: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("file scan: http %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Result []ScanResult `json:"result"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode file scan response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("file scan did not succeed")
	}
	return out.Data.Result, nil
}

func hasInfected(results []ScanResult) bool {
	for _, r := range results {
		if r.IsInfected {
			return true
		}
	}
	return false
}
