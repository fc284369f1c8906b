// Command hello-lambda is the Lambda function behind the /hello endpoint.
//
// Build for the provided.al2023 runtime:
//
//	GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -o bootstrap ./cmd/hello-lambda
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/balaaddepalli/awsstacks/internal/config"
	"github.com/balaaddepalli/awsstacks/internal/handler"
	"github.com/balaaddepalli/awsstacks/internal/logger"
)

func main() {
	cfg := config.Load()

	h := handler.New(
		handler.WithLogger(logger.FromConfig(cfg)),
		handler.WithGreeting(cfg.Greeting),
	)

	lambda.Start(h.Handle)
}
