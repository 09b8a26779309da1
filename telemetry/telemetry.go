// Copyright 2023 Cleancity AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures service metrics. Implementations must be cheap to
// call: hooks run inline with the ingest and aggregation paths.
type Collector interface {
	IncReadingIngested()
	IncLookupFailure()
	ObserveAggregation(d time.Duration, devices int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncReadingIngested()                   {}
func (noopCollector) IncLookupFailure()                     {}
func (noopCollector) ObserveAggregation(time.Duration, int) {}

// PrometheusCollector exposes service metrics via Prometheus.
type PrometheusCollector struct {
	readingsIngested    prometheus.Counter
	lookupFailures      prometheus.Counter
	aggregationDuration prometheus.Histogram
	aggregationDevices  prometheus.Histogram
}

// NewPrometheusCollector registers the service metrics with the provided
// registerer. A nil registerer falls back to the default one.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		readingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binwatch_readings_ingested_total",
			Help: "Number of telemetry readings accepted by the store.",
		}),
		lookupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binwatch_reading_lookup_failures_total",
			Help: "Number of per-device latest-reading lookups that failed during aggregation.",
		}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "binwatch_status_aggregation_duration_seconds",
			Help:    "Wall time spent assembling one fleet status response.",
			Buckets: prometheus.DefBuckets,
		}),
		aggregationDevices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "binwatch_status_aggregation_devices",
			Help:    "Number of devices covered by one fleet status response.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	for _, m := range []prometheus.Collector{
		c.readingsIngested,
		c.lookupFailures,
		c.aggregationDuration,
		c.aggregationDevices,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// IncReadingIngested counts one accepted reading.
func (c *PrometheusCollector) IncReadingIngested() {
	c.readingsIngested.Inc()
}

// IncLookupFailure counts one failed latest-reading lookup.
func (c *PrometheusCollector) IncLookupFailure() {
	c.lookupFailures.Inc()
}

// ObserveAggregation records the duration and fleet coverage of one
// status aggregation call.
func (c *PrometheusCollector) ObserveAggregation(d time.Duration, devices int) {
	c.aggregationDuration.Observe(d.Seconds())
	c.aggregationDevices.Observe(float64(devices))
}
