package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ortiurbani/orti-api/internal/metrics"
)

func TestMetrics(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/orti/:id", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/orti/:id", "204")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/orti/1", "/orti/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
