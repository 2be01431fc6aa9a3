package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPSignaler posts revalidation requests to the rendering layer's webhook.
type HTTPSignaler struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSignaler(endpoint string) *HTTPSignaler {
	return &HTTPSignaler{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type revalidateRequest struct {
	Path string `json:"path"`
}

func (s *HTTPSignaler) Revalidate(ctx context.Context, path string) error {
	body, err := json.Marshal(revalidateRequest{Path: path})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("revalidate %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
