// Package lambda adapts the function invoker to API Gateway proxy events.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"kuisin/internal/functions"
	transport "kuisin/internal/transport/http"
)

// Invoker runs one function call.
type Invoker interface {
	Invoke(ctx context.Context, resource, authorization string, body []byte) (int, functions.Envelope)
}

// Handler serves API Gateway proxy requests for /functions/v1/{resource}.
type Handler struct {
	inv         Invoker
	development bool
	origins     map[string]struct{}
}

func NewHandler(inv Invoker, development bool, allowedOrigins []string) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{inv: inv, development: development, origins: origins}
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := h.corsHeaders(header(req.Headers, "Origin"))

	if req.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: headers, Body: "ok"}, nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respond(headers, http.StatusBadRequest, functions.Envelope{Error: "invalid base64 body"})
		}
		body = decoded
	}

	resource := req.PathParameters["resource"]
	if resource == "" {
		resource = path.Base(req.Path)
	}
	status, env := h.inv.Invoke(ctx, resource, header(req.Headers, "Authorization"), body)
	return respond(headers, status, env)
}

// corsHeaders mirrors the HTTP router: any origin in development, the pinned list otherwise.
func (h *Handler) corsHeaders(origin string) map[string]string {
	headers := map[string]string{
		"Access-Control-Allow-Headers": strings.Join(transport.AllowedHeaders, ", "),
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Content-Type":                 "application/json",
	}
	switch {
	case h.development:
		headers["Access-Control-Allow-Origin"] = "*"
	case origin != "":
		if _, ok := h.origins[origin]; ok {
			headers["Access-Control-Allow-Origin"] = origin
			headers["Vary"] = "Origin"
		}
	}
	return headers
}

func respond(headers map[string]string, status int, env functions.Envelope) (events.APIGatewayProxyResponse, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Headers: headers}, nil
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(raw)}, nil
}

// header looks up name case-insensitively; API Gateway may lower-case header keys.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
