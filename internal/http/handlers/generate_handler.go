package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pwdcheck-backend/internal/generate"
	"github.com/tbourn/go-pwdcheck-backend/internal/utils"
)

// GeneratePasswordRequest selects the length of a generated password.
// A zero Length uses the default.
type GeneratePasswordRequest struct {
	Length int `json:"length"`
}

// GeneratePassphraseRequest tunes passphrase generation. Zero values fall
// back to the generator defaults.
type GeneratePassphraseRequest struct {
	Words      int    `json:"words"`
	Separator  string `json:"separator"`
	Capitalize bool   `json:"capitalize"`
}

// GenerateResponse carries a freshly generated credential and its entropy.
type GenerateResponse struct {
	Value       string  `json:"value"`
	EntropyBits float64 `json:"entropy_bits"`
}

// GeneratePassword godoc
// @ID          generatePassword
// @Summary     Generate a random password
// @Description Returns a random password drawn from an unambiguous character pool, with its exact entropy in bits.
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Success     200  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /generate/password [post]
func (h *Handlers) GeneratePassword(c *gin.Context) {
	var req GeneratePasswordRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	// Query param wins over body; empty body is fine.
	req.Length = utils.AtoiDefault(c.Query("length"), req.Length)
	if req.Length == 0 {
		req.Length = generate.DefaultLength
	}

	pw, bits, err := generate.Password(req.Length)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeGenerateFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, GenerateResponse{Value: pw, EntropyBits: bits})
}

// GeneratePassphrase godoc
// @ID          generatePassphrase
// @Summary     Generate a random passphrase
// @Description Returns a word-based passphrase from the embedded word list, with its exact entropy in bits.
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Success     200  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /generate/passphrase [post]
func (h *Handlers) GeneratePassphrase(c *gin.Context) {
	var req GeneratePassphraseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	req.Words = utils.AtoiDefault(c.Query("words"), req.Words)

	pp, bits, err := generate.Passphrase(generate.PassphraseOptions{
		Words:      req.Words,
		Separator:  req.Separator,
		Capitalize: req.Capitalize,
	})
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeGenerateFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, GenerateResponse{Value: pp, EntropyBits: bits})
}
