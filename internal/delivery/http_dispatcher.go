package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteError is a failure reported by a remote send-recommendations endpoint.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// HTTPDispatcher posts the payload to a remote /send-recommendations endpoint.
type HTTPDispatcher struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPDispatcher(endpoint string) *HTTPDispatcher {
	return &HTTPDispatcher{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Recipients []RecipientResult `json:"recipients"`
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, p Payload) (Receipt, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Receipt{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, fmt.Errorf("read response: %w", err)
	}
	var data remoteResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return Receipt{}, &RemoteError{Status: resp.StatusCode, Message: "Failed to parse response"}
	}

	receipt := Receipt{Recipients: data.Recipients}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !data.Success {
		msg := data.Error
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return receipt, &RemoteError{Status: resp.StatusCode, Message: msg}
	}
	if len(receipt.Recipients) == 0 {
		receipt.Recipients = []RecipientResult{
			{Role: RoleSubmitter, Success: true},
			{Role: RoleInternal, Success: true},
		}
	}
	return receipt, nil
}
