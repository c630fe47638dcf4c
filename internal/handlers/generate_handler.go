package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/metrics"
	"github.com/sigrod-cmd/Examen-licencia/internal/middleware"
	"github.com/sigrod-cmd/Examen-licencia/internal/models"
	"github.com/sigrod-cmd/Examen-licencia/internal/services"
	"github.com/sigrod-cmd/Examen-licencia/pkg/lambda"
)

// GenerateHandler relays prompts to the configured provider
type GenerateHandler struct {
	relayService services.RelayService
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(relayService services.RelayService) *GenerateHandler {
	return &GenerateHandler{
		relayService: relayService,
	}
}

// @Summary Generate content from a prompt
// @Description Forwards the prompt to the configured generative provider and returns the extracted result
// @Tags generate
// @Accept json
// @Produce json
// @Param request body models.GenerateRequest true "Prompt"
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var body []byte
	if c.Request.Method == http.MethodPost {
		data, err := c.GetRawData()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.writeGin(c, errorReply(http.StatusRequestEntityTooLarge, middleware.BodyTooLargeMessage(tooLarge.Limit), metrics.OutcomeInvalidRequest, err))
				return
			}
			h.writeGin(c, errorReply(http.StatusBadRequest, msgBadRequestPrefix+models.ErrInvalidBody.Error(), metrics.OutcomeInvalidRequest, err))
			return
		}
		body = data
	}

	reply := h.relay(c.Request.Context(), c.Request.Method, body)
	h.writeGin(c, reply)
}

// HandleGenerate is the framework-agnostic entry point used by the Lambda function
func (h *GenerateHandler) HandleGenerate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	requestID := headerValue(req.Headers, "X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	reply := h.relay(ctx, req.Method, req.Body)
	h.logReply(requestID, req.Method, req.Path, reply)

	payload, err := encodeJSON(reply.body)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Content-Type": "application/json; charset=utf-8",
		"X-Request-ID": requestID,
	}
	if reply.status == http.StatusMethodNotAllowed {
		headers["Allow"] = http.MethodPost
	}

	return &lambda.Response{
		StatusCode: reply.status,
		Headers:    headers,
		Body:       payload,
	}, nil
}

// relay runs one request through method check, prompt validation and the
// provider call. Every request makes at most one outbound call. Methods are
// compared case-sensitively on every path.
func (h *GenerateHandler) relay(ctx context.Context, method string, body []byte) relayReply {
	if method != http.MethodPost {
		return errorReply(http.StatusMethodNotAllowed, msgMethodNotAllowed, metrics.OutcomeInvalidRequest, nil)
	}

	req, err := models.ParseGenerateRequest(body)
	if err != nil {
		return replyForError(err)
	}

	result, err := h.relayService.Generate(ctx, req.Prompt)
	if err != nil {
		return replyForError(err)
	}

	return relayReply{
		status:  http.StatusOK,
		body:    models.GenerateResponse{Result: result.Value()},
		outcome: metrics.OutcomeSuccess,
	}
}

func (h *GenerateHandler) writeGin(c *gin.Context, reply relayReply) {
	h.logReply(c.GetString(middleware.RequestIDKey), c.Request.Method, c.Request.URL.Path, reply)

	if reply.status == http.StatusMethodNotAllowed {
		c.Header("Allow", http.MethodPost)
	}

	// Generated markup is returned verbatim, without HTML escaping
	c.PureJSON(reply.status, reply.body)
}

func (h *GenerateHandler) logReply(requestID, method, path string, reply relayReply) {
	profile := h.relayService.Profile().Name
	metrics.RecordRelayRequest(profile, reply.outcome)

	fields := logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"profile":     profile,
		"status_code": reply.status,
		"outcome":     reply.outcome,
	}

	if reply.err != nil {
		fields["error"] = reply.err.Error()
	}

	switch {
	case reply.status >= http.StatusInternalServerError:
		logrus.WithFields(fields).Error("Relay request failed")
	case reply.status >= http.StatusBadRequest:
		logrus.WithFields(fields).Warn("Relay request rejected")
	default:
		logrus.WithFields(fields).Info("Relay request completed")
	}
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
