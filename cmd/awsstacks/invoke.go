package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/config"
	"github.com/balaaddepalli/awsstacks/internal/handler"
	"github.com/balaaddepalli/awsstacks/internal/logger"
)

func newInvokeCmd() *cobra.Command {
	var (
		eventPath string
		requestID string
		greeting  string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run the hello handler locally",
		Long: `Invoke runs the Lambda handler in process. Log entries go to stderr and the
response to stdout.

Without --event a GET /hello API Gateway proxy request is used.

Examples:
    awsstacks invoke
    awsstacks invoke --event event.json
    echo null | awsstacks invoke --event -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := readEvent(cmd.InOrStdin(), eventPath)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if greeting == "" {
				greeting = cfg.Greeting
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			if requestID == "" {
				requestID = uuid.NewString()
			}

			h := handler.New(
				handler.WithLogger(logger.New(cmd.ErrOrStderr(), logLevel)),
				handler.WithGreeting(greeting),
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
				AwsRequestID: requestID,
			})

			resp, err := h.Handle(ctx, event)
			if err != nil {
				return err
			}

			result := awsstacks.InvokeResult{
				RequestID:  resp.Headers["X-Request-ID"],
				StatusCode: resp.StatusCode,
				Headers:    resp.Headers,
				Body:       []byte(resp.Body),
			}
			if !json.Valid(result.Body) {
				if result.Body, err = json.Marshal(resp.Body); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event", "e", "", "Event file, or - for stdin")
	cmd.Flags().StringVar(&requestID, "request-id", "", "Platform request ID (default: random UUID)")
	cmd.Flags().StringVar(&greeting, "greeting", "", "Success message (default: $GREETING)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (default: $LOG_LEVEL or info)")

	return cmd
}

// readEvent returns the raw event from path, stdin for "-", or the sample
// request when path is empty.
func readEvent(stdin io.Reader, path string) ([]byte, error) {
	switch path {
	case "":
		return sampleEvent()
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading event from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading event: %w", err)
		}
		return data, nil
	}
}

func sampleEvent() ([]byte, error) {
	return json.Marshal(events.APIGatewayProxyRequest{
		Resource:   "/hello",
		Path:       "/hello",
		HTTPMethod: "GET",
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "awsstacks-invoke",
		},
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			Stage:      "prod",
			HTTPMethod: "GET",
			Path:       "/prod/hello",
			Identity: events.APIGatewayRequestIdentity{
				SourceIP: "127.0.0.1",
			},
		},
	})
}
