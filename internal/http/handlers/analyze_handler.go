package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pwdcheck-backend/internal/analyzer"
)

// AnalyzeRequest is the JSON payload for a standalone strength analysis.
// CompareTo optionally holds a previous password so the client can judge
// whether the replacement is too close to it.
type AnalyzeRequest struct {
	Password  string   `json:"password" binding:"required"`
	CompareTo string   `json:"compare_to"`
	Wordlist  []string `json:"wordlist"`
}

// AnalyzeResponse carries the analysis report and, when CompareTo was given,
// similarity metrics against it.
type AnalyzeResponse struct {
	Analysis   analyzer.Report      `json:"analysis"`
	Similarity *analyzer.Similarity `json:"similarity,omitempty"`
}

// Analyze godoc
// @ID          analyzePassword
// @Summary     Analyze password strength locally
// @Description Runs entropy, composition, pattern, and policy checks without contacting any external service. Optionally compares against a previous password.
// @Tags        Analysis
// @Accept      json
// @Produce     json
// @Success     200  {object}  handlers.AnalyzeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /analyze [post]
func (h *Handlers) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	resp := AnalyzeResponse{Analysis: analyzer.Analyze(req.Password, req.Wordlist)}
	if req.CompareTo != "" {
		sim := analyzer.Compare(req.CompareTo, req.Password)
		resp.Similarity = &sim
	}
	ok(c, http.StatusOK, resp)
}
