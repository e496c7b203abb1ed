// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	JoinTableBuildRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "build_rows_total",
			Help:      "Total number of rows inserted into join tables.",
		})

	joinTableProbeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "probe_total",
			Help:      "Total number of join table probes.",
		}, []string{"result"})
	JoinTableProbeHitCounter  = joinTableProbeCounter.WithLabelValues("hit")
	JoinTableProbeMissCounter = joinTableProbeCounter.WithLabelValues("miss")

	JoinTableThresholdExceededCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "threshold_exceeded_total",
			Help:      "Total number of join tables that grew past their key threshold.",
		})

	JoinTableSealedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "sealed_total",
			Help:      "Total number of join tables sealed for probing.",
		})
)

var (
	JoinTableDistinctKeysHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "distinct_keys",
			Help:      "Bucketed histogram of distinct keys per sealed join table.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		})

	mapJoinDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "mapjoin",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of map join phase duration.",
			Buckets:   getDurationBuckets(),
		}, []string{"step"})
	MapJoinBuildDurationHistogram = mapJoinDurationHistogram.WithLabelValues("build")
	MapJoinProbeDurationHistogram = mapJoinDurationHistogram.WithLabelValues("probe")
)

func initMapJoinMetrics() {
	registry.MustRegister(JoinTableBuildRowsCounter)
	registry.MustRegister(joinTableProbeCounter)
	registry.MustRegister(JoinTableThresholdExceededCounter)
	registry.MustRegister(JoinTableSealedCounter)
	registry.MustRegister(JoinTableDistinctKeysHistogram)
	registry.MustRegister(mapJoinDurationHistogram)
}
