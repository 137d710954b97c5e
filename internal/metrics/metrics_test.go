package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() { MustRegister(reg) })
	assert.Panics(t, func() { MustRegister(reg) }, "duplicate registration panics")

	ReviewsTotal.WithLabelValues("good").Inc()
	DueItems.Set(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["scry_vocabulary_reviews_total"])
	assert.True(t, names["scry_vocabulary_due_items"])
	assert.Equal(t, 3.0, testutil.ToFloat64(DueItems))
}
