package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	relaymodel "github.com/aurum-labs/jewel-studio/relay/model"
)

const (
	EndpointImage = "/generate-2d"
	EndpointModel = "/generate-3d"

	DefaultRequestTimeout = 15 * time.Minute
)

type GenerationClient interface {
	GenerateImage(ctx context.Context, prompt string) (*relaymodel.ImageResponse, error)
	GenerateModel(ctx context.Context, prompt string, jewelryType string) (*relaymodel.ModelResponse, error)
}

// HTTPGenerationClient calls the studio server.
type HTTPGenerationClient struct {
	BaseURL string
	Client  *http.Client
	// Timeout bounds each call; zero means DefaultRequestTimeout
	Timeout time.Duration
}

func NewHTTPGenerationClient(baseURL string, client *http.Client) *HTTPGenerationClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGenerationClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  client,
	}
}

func (c *HTTPGenerationClient) GenerateImage(ctx context.Context, prompt string) (*relaymodel.ImageResponse, error) {
	var response relaymodel.ImageResponse
	if err := c.post(ctx, EndpointImage, relaymodel.ImageRequest{Prompt: prompt}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *HTTPGenerationClient) GenerateModel(ctx context.Context, prompt string, jewelryType string) (*relaymodel.ModelResponse, error) {
	var response relaymodel.ModelResponse
	if err := c.post(ctx, EndpointModel, relaymodel.ModelRequest{Prompt: prompt, Type: jewelryType}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// post sends body and decodes the answer into out. Any "error" field in the
// answer fails the call, whatever the status code.
func (c *HTTPGenerationClient) post(ctx context.Context, endpoint string, body any, out any) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	jsonData, err := json.Marshal(body)
	if err != nil {
		return &GenerationError{Endpoint: endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return &GenerationError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return &GenerationError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GenerationError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	var errResponse relaymodel.Error
	if err := json.Unmarshal(responseBody, &errResponse); err != nil {
		return &GenerationError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s returned %d: %w", endpoint, resp.StatusCode, err),
		}
	}
	if errResponse.Message != "" {
		return &GenerationError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: errResponse.Message}
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return &GenerationError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
