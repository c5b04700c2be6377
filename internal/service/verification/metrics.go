package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvb_verifications_total",
		Help: "Completed provider verifications by region and outcome.",
	}, []string{"region", "valid"})

	verificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pvb_verification_duration_seconds",
		Help:    "End-to-end provider verification latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"region"})

	licenseChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvb_license_checks_total",
		Help: "License validations performed within verifications.",
	}, []string{"region"})
)
