package util

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/aurum-labs/jewel-studio/relay/model"
)

func ErrorWrapper(err error, code string, statusCode int) *model.ErrorWithStatusCode {
	return &model.ErrorWithStatusCode{
		Error: model.Error{
			Message: err.Error(),
			Type:    code,
		},
		StatusCode: statusCode,
	}
}

func ErrorWithMessage(message string, code string, statusCode int) *model.ErrorWithStatusCode {
	return &model.ErrorWithStatusCode{
		Error: model.Error{
			Message: message,
			Type:    code,
		},
		StatusCode: statusCode,
	}
}

// upstreamError is the union of the error shapes the providers return.
type upstreamError struct {
	Name    string   `json:"name"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
	Error   any      `json:"error"`
}

// RelayErrorHandler turns a failed upstream response into a client error,
// keeping the upstream status code.
func RelayErrorHandler(resp *http.Response) *model.ErrorWithStatusCode {
	defer resp.Body.Close()
	ErrorWithStatusCode := &model.ErrorWithStatusCode{
		StatusCode: resp.StatusCode,
		Error: model.Error{
			Message: fmt.Sprintf("bad response status code %d", resp.StatusCode),
			Type:    "upstream_error",
		},
	}
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrorWithStatusCode
	}
	if message := parseUpstreamError(responseBody); message != "" {
		ErrorWithStatusCode.Message = message
	}
	return ErrorWithStatusCode
}

func parseUpstreamError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var upstream upstreamError
	if err := json.Unmarshal(body, &upstream); err != nil {
		return helper.Truncate(trimmed, 500)
	}
	switch {
	case len(upstream.Errors) > 0:
		message := strings.Join(upstream.Errors, "; ")
		if upstream.Name != "" {
			message = upstream.Name + ": " + message
		}
		return message
	case upstream.Message != "":
		return upstream.Message
	}
	switch e := upstream.Error.(type) {
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	return helper.Truncate(trimmed, 500)
}
