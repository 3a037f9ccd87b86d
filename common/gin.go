package common

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
)

const KeyRequestBody = "key_request_body"

// GetRequestBody reads the body once, caches it on the context and leaves
// the request body readable for the handlers that bind it.
func GetRequestBody(c *gin.Context) ([]byte, error) {
	if cached, ok := c.Get(KeyRequestBody); ok {
		return cached.([]byte), nil
	}
	requestBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	_ = c.Request.Body.Close()
	c.Set(KeyRequestBody, requestBody)
	c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
	return requestBody, nil
}
