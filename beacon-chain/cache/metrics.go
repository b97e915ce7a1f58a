package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bidEquivocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_bid_equivocations_total",
		Help: "The number of equivocating execution payload bids observed.",
	})
	attestationEquivocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payload_attestation_equivocations_total",
		Help: "The number of equivocating payload attestations observed.",
	})
	bidPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "execution_bid_pool_size",
		Help: "The number of bids currently held in the bid pool.",
	})
)
