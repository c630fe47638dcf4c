package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/handlers"
	"github.com/sigrod-cmd/Examen-licencia/pkg/lambda"
)

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       `{"error":"` + message + `"}`,
	}
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := lambda.GetContainerManager().GetContainer()
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize container")
		return errorResponse(http.StatusInternalServerError, "Internal Server Error"), nil
	}

	req, err := lambda.FromAPIGatewayRequest(event)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Bad Request: request body must be a JSON object"), nil
	}

	var generate lambda.HandlerFunc = handlers.NewGenerateHandler(container.RelayService).HandleGenerate
	resp, err := generate(ctx, req)
	if err != nil {
		logrus.WithError(err).Error("Failed to render response")
		return errorResponse(http.StatusInternalServerError, "Internal Server Error"), nil
	}

	return resp.ToAPIGatewayResponse(), nil
}

func main() {
	awslambda.Start(handler)
}
