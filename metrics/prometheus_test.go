// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"io"
	"math/rand/v2"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := newPrometheusMetrics(reg)

	count1 := prom.GetOrCreateCountMeter("count1")
	countVec := prom.GetOrCreateCountVecMeter("countVec1", []string{"zeroOrOne"})
	histVec := prom.GetOrCreateHistogramVecMeter("hist1", []string{"zeroOrOne"}, BucketHTTPReqs)
	gauge := prom.GetOrCreateGaugeMeter("gauge1")
	gaugeVec := prom.GetOrCreateGaugeVecMeter("gaugeVec1", []string{"event"})

	count1.Add(1)
	randCount := rand.N(100) + 1
	for range randCount {
		prom.GetOrCreateCountMeter("count1").Add(1)
	}

	histTotal, vecTotal := 0, 0
	for i := range rand.N(100) + 2 {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		histVec.ObserveWithLabels(int64(i), labels)
		countVec.AddWithLabel(int64(i), labels)
		histTotal += i
		vecTotal += i
	}
	gauge.Set(10)
	gauge.Add(-3)
	gaugeVec.SetWithLabel(4, map[string]string{"event": "hit"})
	gaugeVec.SetWithLabel(2, map[string]string{"event": "hit"})

	families := gather(t, reg)
	require.Equal(t, float64(randCount+1), families["challenge_registry_count1"].Metric[0].GetCounter().GetValue())

	hist := families["challenge_registry_hist1"]
	require.Len(t, hist.Metric, 2)
	assert.Equal(t, float64(histTotal), hist.Metric[0].GetHistogram().GetSampleSum()+hist.Metric[1].GetHistogram().GetSampleSum())

	vec := families["challenge_registry_countVec1"]
	assert.Equal(t, float64(vecTotal), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	assert.Equal(t, float64(7), families["challenge_registry_gauge1"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(2), families["challenge_registry_gaugeVec1"].Metric[0].GetGauge().GetValue())
}

func TestPromHandler(t *testing.T) {
	prom := newPrometheusMetrics(prometheus.NewRegistry())
	prom.GetOrCreateCountMeter("served").Add(3)

	server := httptest.NewServer(prom.GetOrCreateHandler())
	t.Cleanup(server.Close)

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), "challenge_registry_served 3")
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics() // make sure it starts in the default state of noopMeter

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGaugeVec", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()
	t.Cleanup(func() { metrics = defaultNoopMetrics() })

	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
