package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	err := Register(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(AssignmentsRemoved.WithLabelValues("plot"))
	AssignmentsRemoved.WithLabelValues("plot").Add(3)

	assert.Equal(t, before+3, testutil.ToFloat64(AssignmentsRemoved.WithLabelValues("plot")))
}
