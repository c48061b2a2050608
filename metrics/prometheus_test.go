// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	InitializePrometheusMetrics()

	count := Counter("prom_count")
	countVec := CounterVec("prom_count_vec", []string{"zeroOrOne"})
	hist := Histogram("prom_hist", BucketExecMicros)
	gauge := Gauge("prom_gauge")
	gaugeVec := GaugeVec("prom_gauge_vec", []string{"zeroOrOne"})

	count.Add(1)
	Counter("prom_count").Add(2)

	total := 0
	for i := range 10 {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		hist.Observe(int64(i))
		countVec.AddWithLabel(int64(i), labels)
		gaugeVec.AddWithLabel(int64(i), labels)
		total += i
	}
	gauge.Set(42)

	m := gather(t)
	require.Equal(t, float64(3), m["vault_prom_count"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(total), m["vault_prom_hist"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, float64(42), m["vault_prom_gauge"].Metric[0].GetGauge().GetValue())

	sumCountVec := m["vault_prom_count_vec"].Metric[0].GetCounter().GetValue() +
		m["vault_prom_count_vec"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(total), sumCountVec)

	sumGaugeVec := m["vault_prom_gauge_vec"].Metric[0].GetGauge().GetValue() +
		m["vault_prom_gauge_vec"].Metric[1].GetGauge().GetValue()
	require.Equal(t, float64(total), sumGaugeVec)
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
