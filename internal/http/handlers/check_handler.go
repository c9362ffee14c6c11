// Breach-check HTTP handlers.
//
// This file exposes the REST endpoints for password breach checks:
//   - POST   /check          (submit a password, receive a poll token)
//   - GET    /check/status   (poll a token for the result)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. The password never appears in a
// response, a log line, or a token.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pwdcheck-backend/internal/analyzer"
	"github.com/tbourn/go-pwdcheck-backend/internal/domain"
	"github.com/tbourn/go-pwdcheck-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// CheckService defines the breach-check operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CheckService interface {
	// Check accepts a password and returns a receipt carrying the poll token.
	Check(ctx context.Context, password string) (*services.CheckReceipt, error)
	// Status resolves a poll token to the current breach result.
	Status(ctx context.Context, token string) (domain.BreachResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the service. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	checkSvc CheckService

	// Polling guidance advertised on every accepted check.
	pollInterval    time.Duration
	maxPollAttempts int
}

// New constructs a Handlers instance bound to the given check service and
// polling guidance.
func New(checkSvc CheckService, pollInterval time.Duration, maxPollAttempts int) *Handlers {
	return &Handlers{
		checkSvc:        checkSvc,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
	}
}

//
// DTOs
//

// CheckRequest is the JSON payload for submitting a breach check.
type CheckRequest struct {
	// Password is checked against the breach corpus; it never leaves the
	// process in any form other than a 5-character digest prefix.
	Password string `json:"password" binding:"required"`
}

// CheckResponse acknowledges an accepted check. The token is the only handle
// the client holds; polling guidance tells it how long to keep trying.
type CheckResponse struct {
	Token           string          `json:"token"`
	PollIntervalMS  int64           `json:"poll_interval_ms"`
	MaxPollAttempts int             `json:"max_poll_attempts"`
	Analysis        analyzer.Report `json:"analysis"`
}

// StatusResponse is the poll answer for a token. Count is present only when
// Status is "ready": a number when the lookup succeeded, null when it failed
// after exhausting retries.
type StatusResponse struct {
	Status string `json:"status"`
	Count  *int   `json:"count"`
}

//
// Handlers
//

// Check godoc
// @ID          submitCheck
// @Summary     Submit a password for a breach check
// @Description Accepts a password, starts (or reuses) a breach lookup, and returns an opaque poll token together with a local strength analysis.
// @Tags        Checks
// @Accept      json
// @Produce     json
// @Success     202  {object}  handlers.CheckResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /check [post]
func (h *Handlers) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	receipt, err := h.checkSvc.Check(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordTooLong) {
			fail(c, http.StatusBadRequest, ErrCodePasswordTooLong, "password exceeds maximum length")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCheckFailed, err.Error())
		return
	}

	ok(c, http.StatusAccepted, CheckResponse{
		Token:           receipt.Token,
		PollIntervalMS:  h.pollInterval.Milliseconds(),
		MaxPollAttempts: h.maxPollAttempts,
		Analysis:        analyzer.Analyze(req.Password, nil),
	})
}

// Status godoc
// @ID          pollCheck
// @Summary     Poll a breach-check token
// @Description Resolves a poll token to its current result. A 404 means the token is unknown or expired and the client must stop polling.
// @Tags        Checks
// @Produce     json
// @Param       token  query  string  true  "Opaque poll token"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown or expired token"
// @Router      /check/status [get]
func (h *Handlers) Status(c *gin.Context) {
	tok := c.Query("token")
	if tok == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "token query parameter required")
		return
	}

	res, err := h.checkSvc.Status(c.Request.Context(), tok)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown or expired token")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCheckFailed, err.Error())
		return
	}

	switch res.Status {
	case domain.StatusReady:
		ok(c, http.StatusOK, StatusResponse{Status: "ready", Count: res.Count})
	case domain.StatusError:
		// A failed lookup is reported as ready with a null count so the
		// client can distinguish "could not verify" from "not breached".
		ok(c, http.StatusOK, StatusResponse{Status: "ready", Count: nil})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
	}
}
