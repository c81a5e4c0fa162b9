// Package httpx provides helper functions for creating HTTP responses.
package httpx

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// JSON creates a JSON HTTP response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}, nil
}

// Error creates a JSON HTTP error response with the given status code and message.
func Error(status int, msg string) (events.APIGatewayV2HTTPResponse, error) {
	return JSON(status, map[string]string{"error": msg})
}

// Text creates a plain-text response.
func Text(status int, body string) (events.APIGatewayV2HTTPResponse, error) {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       body,
	}, nil
}

// Binary creates a base64-encoded response for API Gateway. headers are
// merged over the Content-Type header.
func Binary(status int, contentType string, body []byte, headers map[string]string) (events.APIGatewayV2HTTPResponse, error) {
	h := map[string]string{"Content-Type": contentType}
	for k, v := range headers {
		h[k] = v
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode:      status,
		Headers:         h,
		Body:            base64.StdEncoding.EncodeToString(body),
		IsBase64Encoded: true,
	}, nil
}

// Header retrieves a header value in a case-insensitive manner.
func Header(h map[string]string, key string) string {
	lk := strings.ToLower(key)
	for k, v := range h {
		if strings.ToLower(k) == lk {
			return v
		}
	}
	return ""
}

// ClientIP returns the caller address, preferring the first X-Forwarded-For hop.
func ClientIP(req events.APIGatewayV2HTTPRequest) string {
	if fwd := Header(req.Headers, "x-forwarded-for"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := Header(req.Headers, "x-real-ip"); ip != "" {
		return ip
	}
	if ip := req.RequestContext.HTTP.SourceIP; ip != "" {
		return ip
	}
	return "unknown"
}

// Body returns the raw request body, decoding it when API Gateway delivered
// it base64-encoded.
func Body(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}
