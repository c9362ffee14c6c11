package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pwdcheck-backend/internal/generate"
)

func newGenRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(stubCheckSvc{}, time.Second, 10)
	r := gin.New()
	r.POST("/generate/password", h.GeneratePassword)
	r.POST("/generate/passphrase", h.GeneratePassphrase)
	return r
}

func TestGeneratePassword_DefaultLength(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/password", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Value) != generate.DefaultLength {
		t.Fatalf("length = %d, want %d", len(resp.Value), generate.DefaultLength)
	}
	if resp.EntropyBits <= 0 {
		t.Fatalf("entropy = %v", resp.EntropyBits)
	}
}

func TestGeneratePassword_ExplicitLength(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/password", `{"length":20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Value) != 20 {
		t.Fatalf("length = %d, want 20", len(resp.Value))
	}
}

func TestGeneratePassword_QueryOverridesBody(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/password?length=16", `{"length":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Value) != 16 {
		t.Fatalf("length = %d, want 16", len(resp.Value))
	}
}

func TestGeneratePassword_RejectsOutOfRange(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/password", `{"length":3}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeGenerateFailed {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestGeneratePassphrase_Defaults(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/passphrase", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := len(strings.Split(resp.Value, "-")); got != generate.DefaultWords {
		t.Fatalf("words = %d, want %d", got, generate.DefaultWords)
	}
}

func TestGeneratePassphrase_Options(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/passphrase", `{"words":5,"separator":".","capitalize":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := len(strings.Split(resp.Value, ".")); got != 5 {
		t.Fatalf("words = %d, want 5", got)
	}
}

func TestGeneratePassphrase_RejectsOutOfRange(t *testing.T) {
	r := newGenRouter()
	w := postJSON(t, r, "/generate/passphrase", `{"words":99}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}
