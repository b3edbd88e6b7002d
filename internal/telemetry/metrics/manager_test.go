package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersAll(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.CounterNotesAdded.Inc()
	m.CounterNotesAdded.Inc()
	m.HistStoreOpDuration.WithLabelValues("get_all").Observe(0.01)
	m.HistogramRequestDuration.WithLabelValues("list-notes", "GET", "200").Observe(0.02)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	notesAdded := byName["notesbox_test_server_notes_added"]
	require.NotNil(t, notesAdded)
	assert.Equal(t, 2.0, notesAdded.GetMetric()[0].GetCounter().GetValue())

	assert.Contains(t, byName, "notesbox_test_server_request")
	assert.Contains(t, byName, "notesbox_test_server_store_op_duration_seconds")
	assert.Contains(t, byName, "notesbox_test_server_request_duration_seconds")
	assert.Contains(t, byName, "notesbox_test_server_life_signal")
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	reg := SetupPrometheus(nil)
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
