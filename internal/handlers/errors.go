package handlers

import (
	"errors"
	"net/http"

	"github.com/sigrod-cmd/Examen-licencia/internal/metrics"
	"github.com/sigrod-cmd/Examen-licencia/internal/models"
	"github.com/sigrod-cmd/Examen-licencia/internal/services"
)

const (
	msgMethodNotAllowed   = "Method Not Allowed"
	msgMissingCredential  = "Server Configuration Error: provider credential is not configured"
	msgUpstreamPrefix     = "Upstream Provider Error: "
	msgUnexpectedResponse = "Unexpected response format from upstream provider"
	msgInternal           = "Internal Server Error"
	msgBadRequestPrefix   = "Bad Request: "
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// relayReply is the status, body and metrics outcome of one relay request
type relayReply struct {
	status  int
	body    interface{}
	outcome string
	err     error
}

func errorReply(status int, message, outcome string, err error) relayReply {
	return relayReply{
		status:  status,
		body:    ErrorResponse{Error: message},
		outcome: outcome,
		err:     err,
	}
}

// replyForError maps a failure to the status code and message the caller sees.
// Only fixed messages and the provider's own error text are exposed.
func replyForError(err error) relayReply {
	if models.IsValidationError(err) {
		return errorReply(http.StatusBadRequest, msgBadRequestPrefix+err.Error(), metrics.OutcomeInvalidRequest, err)
	}

	if errors.Is(err, services.ErrMissingCredential) {
		return errorReply(http.StatusInternalServerError, msgMissingCredential, metrics.OutcomeMisconfigured, err)
	}

	if upstreamErr, ok := services.IsUpstreamError(err); ok {
		return errorReply(http.StatusInternalServerError, msgUpstreamPrefix+upstreamErr.PublicMessage(), metrics.OutcomeUpstreamError, err)
	}

	if errors.Is(err, services.ErrUnexpectedResponse) {
		return errorReply(http.StatusInternalServerError, msgUnexpectedResponse, metrics.OutcomeUnexpectedShape, err)
	}

	return errorReply(http.StatusInternalServerError, msgInternal, metrics.OutcomeInternalError, err)
}
