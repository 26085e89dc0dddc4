package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/devconnector/internal/metrics"
)

func TestMustRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.MustRegister()
		metrics.MustRegister()
	})

	metrics.UsersRegistered.Inc()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["devconnector_users_registered_total"])
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.UsersRegistered), 1.0)
}
