package fractal

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	levelLabel = "level"
)

var (
	fractalStepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fractal_steps_total",
		Help: "The total number of propagated frames.",
	})

	fractalStepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fractal_step_duration_seconds",
		Help:    "Time to propagate one frame through every level.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
	})

	fractalLevelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fractal_level_duration_seconds",
		Help:    "Time to update one level, barrier included.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16),
	}, []string{levelLabel})

	fractalParts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fractal_parts",
		Help: "The number of parts held by live trees.",
	})

	fractalTreesBuiltTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fractal_trees_built_total",
		Help: "The total number of tree constructions, rebuilds included.",
	})
)

func instrumentStep(d time.Duration) {
	fractalStepsTotal.Inc()
	fractalStepDuration.Observe(d.Seconds())
}

func instrumentLevel(level int, d time.Duration) {
	fractalLevelDuration.
		With(prometheus.Labels{levelLabel: strconv.Itoa(level)}).
		Observe(d.Seconds())
}

func instrumentBuild(parts int) {
	fractalTreesBuiltTotal.Inc()
	fractalParts.Add(float64(parts))
}

func instrumentRelease(parts int) {
	fractalParts.Sub(float64(parts))
}
