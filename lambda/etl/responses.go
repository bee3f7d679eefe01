package main

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/exp/slog"
)

const (
	successMessage = "ETL process completed successfully."
	failureMessage = "ETL process failed."
)

type successBody struct {
	Message string          `json:"message"`
	Input   json.RawMessage `json:"input"`
}

type failureBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

//nolint:gochecknoglobals // This should be treated as a constant.
var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func successResponse(input json.RawMessage) events.APIGatewayProxyResponse {
	body, err := json.Marshal(successBody{Message: successMessage, Input: input})
	if err != nil {
		slog.Error("Failed to encode success body", "error", err)
		return failureResponse(err)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: jsonHeaders, Body: string(body)}
}

func failureResponse(cause error) events.APIGatewayProxyResponse {
	body, err := json.Marshal(failureBody{Message: failureMessage, Error: cause.Error()})
	if err != nil {
		body = []byte(`{"message":"` + failureMessage + `"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Headers: jsonHeaders, Body: string(body)}
}
