package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unum-cloud/ukvsb/pkg/bench"
)

func TestPrometheusSinkPublishesGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewPrometheusSink(reg)

	sink.Publish("load", "operations_per_second", 12345.0, bench.UnitRate)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	family := families[0]
	assert.Equal(t, "ukvsb_operations_per_second", family.GetName())
	require.Len(t, family.Metric, 1)
	assert.Equal(t, 12345.0, family.Metric[0].GetGauge().GetValue())
	assertHasLabel(t, family.Metric[0], "workload", "load")
}

func TestPrometheusSinkReusesGaugeAcrossWorkloads(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewPrometheusSink(reg)

	sink.Publish("load", "fails_percent", 1.0, bench.UnitPercent)
	sink.Publish("mixed", "fails_percent", 2.0, bench.UnitPercent)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1, "both workloads share one gauge vector")
	assert.Len(t, families[0].Metric, 2)
}

func assertHasLabel(t *testing.T, m *dto.Metric, name, value string) {
	t.Helper()
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			assert.Equal(t, value, l.GetValue())
			return
		}
	}
	t.Fatalf("label %q not found", name)
}
