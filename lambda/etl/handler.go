package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/fruitdb/etl/internal/config"
	"github.com/fruitdb/etl/internal/etl"
	"golang.org/x/exp/slog"
)

type LambdaFunc func(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error)

func setupLogging(ctx context.Context) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}
	slog.SetDefault(logger)
}

// decodeOverrides reads the optional invocation payload. No payload, or a
// JSON null, means no overrides.
func decodeOverrides(payload json.RawMessage) (json.RawMessage, config.Overrides, error) {
	var overrides config.Overrides

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, overrides, nil
	}

	if err := json.Unmarshal(trimmed, &overrides); err != nil {
		return nil, overrides, err
	}
	return trimmed, overrides, nil
}

// HandleRequest is the only recovery boundary: every failure becomes a 500
// response and the returned error is always nil.
func HandleRequest(pipeline *etl.Pipeline) LambdaFunc {
	return func(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error) {
		setupLogging(ctx)

		input, overrides, err := decodeOverrides(payload)
		if err != nil {
			slog.Error("invalid event", "error", err)
			return failureResponse(fmt.Errorf("invalid event: %w", err)), nil
		}

		slog.Info("Starting ETL process")
		report, err := pipeline.Run(ctx, overrides)
		if err != nil {
			slog.Error("ETL process failed", "phase", report.Phase.String(), "extracted", report.Extracted, "error", err)
			return failureResponse(err), nil
		}

		slog.Info("ETL process completed", "extracted", report.Extracted, "loaded", report.Loaded)
		return successResponse(input), nil
	}
}
