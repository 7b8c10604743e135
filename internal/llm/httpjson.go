package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatMessage is the role/content pair every vendor chat API accepts.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StatusError is returned when a vendor endpoint answers with a non-200 status.
type StatusError struct {
	Vendor string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Vendor, e.Code, e.Body)
}

// postJSON sends in as a JSON body to endpoint and decodes a 200 reply into
// out. A nil in sends no body.
func postJSON(ctx context.Context, hc *http.Client, vendor, endpoint string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", vendor, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", vendor, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", vendor, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", vendor, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Vendor: vendor, Code: resp.StatusCode, Body: string(respBody)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", vendor, err)
	}
	return nil
}
