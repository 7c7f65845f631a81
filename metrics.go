// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/go-air/euclid")

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "euclid_session_operations_total",
		Help: "Proof session operations by kind and outcome",
	}, []string{"op", "outcome"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "euclid_sessions_active",
		Help: "Proof sessions created and not yet closed",
	})
)
