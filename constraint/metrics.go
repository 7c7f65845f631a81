// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package constraint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/go-air/euclid/constraint")

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "euclid_solver_checks_total",
		Help: "Satisfiability checks by result",
	}, []string{"result"})

	checkSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "euclid_solver_check_seconds",
		Help:    "Satisfiability check duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
	})

	checkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "euclid_solver_check_errors_total",
		Help: "Satisfiability checks failing with an error",
	})
)

func observe(a Answer) {
	checksTotal.WithLabelValues(a.Result.String()).Inc()
	checkSeconds.Observe(a.Elapsed.Seconds())
}
