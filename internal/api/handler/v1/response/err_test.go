package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/i18n"
)

func render(t *testing.T, lang string, e *Err) (int, map[string]any) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(i18n.Localize())
	r.GET("/", func(ctx *gin.Context) { RenderErr(ctx, e) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", lang)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w.Code, body
}

func TestRenderErr(t *testing.T) {
	code, body := render(t, "it", ErrNotFound("associazione", "id", 7))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "associazione non trovato", body["message"])
	assert.Equal(t, "associazione with id 7 not found", body["error"])

	code, body = render(t, "en", ErrAdminRequired(errors.New("user 3 is not admin")))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "administrator privileges required", body["message"])

	code, body = render(t, "en", ErrInternalServerError(errors.New("connection refused")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["message"])
	assert.Equal(t, "connection refused", body["error"])
}

func TestErr_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, ErrBadRequest(cause), cause)
}
