package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"btoolme/internal/bootstrap"
	"btoolme/internal/shared/config"
	"btoolme/internal/shared/telemetry"
)

const unavailableMessage = "Service unavailable"

// function builds the app on the first invocation and reuses it while the
// execution environment stays warm. A failed build is reported on every call.
type function struct {
	build func(config.Config) (*bootstrap.App, error)

	once  sync.Once
	err   error
	proxy *ginadapter.GinLambdaV2
}

func newFunction(build func(config.Config) (*bootstrap.App, error)) *function {
	return &function{build: build}
}

func (f *function) init() {
	app, err := f.build(config.Load())
	if err != nil {
		f.err = err
		return
	}
	f.proxy = ginadapter.NewV2(app.Router)
}

func (f *function) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	f.once.Do(f.init)
	if f.err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"error": f.err.Error(),
			"path":  req.RawPath,
		})
		return unavailable(), nil
	}
	if f.proxy == nil {
		return unavailable(), nil
	}
	return f.proxy.ProxyWithContext(ctx, req)
}

// unavailable mirrors the router's error envelope and CORS headers so browser
// callers can read the failure.
func unavailable() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{"success": false, "error": unavailableMessage})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": "Content-Type, X-Request-Id",
		},
	}
}

func main() {
	lambda.Start(newFunction(bootstrap.Build).Handle)
}
