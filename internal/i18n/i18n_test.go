package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.Italian},
		{"en-US,en;q=0.9", language.English},
		{"it-IT", language.Italian},
		{"de-DE", language.Italian},
		{"de;q=0.9, en;q=0.8", language.English},
		{"%%%", language.Italian},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.header))
		})
	}
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "orto non trovato", Sprintf(language.Italian, MsgNotFound, "orto"))
	assert.Equal(t, "orto not found", Sprintf(language.English, MsgNotFound, "orto"))
	assert.Equal(t, "unknown_key", Sprintf(language.English, "unknown_key"))
}

func TestLocalize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Localize())
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, T(ctx, MsgUnauthenticated))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "authentication required", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "autenticazione richiesta", w.Body.String())
}
