package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/aurum-labs/jewel-studio/service"
)

// NewRequest builds an authorised upstream request.
func NewRequest(ctx context.Context, method string, url string, body io.Reader, meta *util.RelayMeta) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("new request failed: %w", err)
	}
	if meta.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+meta.APIKey)
	}
	if meta.RequestId != "" {
		req.Header.Set("X-Request-ID", meta.RequestId)
	}
	return req, nil
}

func DoRequest(meta *util.RelayMeta, req *http.Request) (*http.Response, error) {
	client := meta.HTTPClient
	if client == nil {
		client = service.GetHttpClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("resp is nil")
	}
	return resp, nil
}
