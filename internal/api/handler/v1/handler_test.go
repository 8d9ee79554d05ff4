package v1

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ortiurbani/orti-api/internal/api/middleware"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	municipalityAdmin = &domain.Principal{UserID: 1, Kind: domain.KindMunicipalityMember, Admin: true, MunicipalityID: 1}
	citizen           = &domain.Principal{UserID: 7, Kind: domain.KindCitizen}
)

// newTestRouter mimics the authenticated API group: the principal, when
// given, is installed the way VerifyJWT would.
func newTestRouter(principal *domain.Principal) *gin.Engine {
	r := gin.New()
	r.Use(i18n.Localize())
	if principal != nil {
		r.Use(func(ctx *gin.Context) {
			middleware.SetPrincipal(ctx, *principal)
			ctx.Next()
		})
	}

	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestHandleHealthcheck(t *testing.T) {
	r := newTestRouter(nil)
	r.GET("/", HandleHealthcheck)

	w := perform(r, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"service is up"}`, w.Body.String())
}

func TestQueryID(t *testing.T) {
	r := newTestRouter(nil)
	r.GET("/", func(ctx *gin.Context) {
		id, ok := queryID(ctx, "orto_id")
		if !ok {
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{"absent", "/", http.StatusOK, `{"id":0}`},
		{"present", "/?orto_id=12", http.StatusOK, `{"id":12}`},
		{"not a number", "/?orto_id=abc", http.StatusBadRequest, `"message":"invalid request"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), strings.Trim(tt.expectedBody, "{}"))
		})
	}
}
