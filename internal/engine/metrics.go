package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_samples_total",
		Help: "Total barge-in events collected across sessions",
	})

	metricTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_collection_timeouts_total",
		Help: "Bounded waits that expired without a new event",
	})

	metricAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_instrumentation_anomalies_total",
		Help: "Negative intervals nulled during extraction",
	})

	metricFalseBargeIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_false_barge_ins_total",
		Help: "Barge-in attempts classified as false by caller policy",
	})

	metricTotalLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_barge_in_total_latency_ms",
		Help:    "Latency from speech detection to audio silent",
		Buckets: prometheus.ExponentialBuckets(10, 1.6, 10),
	})

	metricDetectionToFade = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_detection_to_fade_ms",
		Help:    "Latency from speech detection to fade start",
		Buckets: prometheus.ExponentialBuckets(5, 1.6, 10),
	})

	metricFadeToSilence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_fade_to_silence_ms",
		Help:    "Latency from fade start to audio silent",
		Buckets: prometheus.ExponentialBuckets(5, 1.6, 10),
	})
)
