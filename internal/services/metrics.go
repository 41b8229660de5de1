package services

import "github.com/prometheus/client_golang/prometheus"

var (
	appointmentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "appointments_created_total",
		Help: "Appointment requests stored.",
	})
	appointmentsReplayed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "appointments_replayed_total",
		Help: "Appointment submissions answered from an earlier Idempotency-Key.",
	})
	reviewsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviews_submitted_total",
		Help: "Reviews submitted for moderation.",
	})
	reviewsModerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reviews_moderated_total",
		Help: "Moderation actions applied to reviews, by action.",
	}, []string{"action"})
)

func init() {
	prometheus.MustRegister(appointmentsCreated, appointmentsReplayed, reviewsSubmitted, reviewsModerated)
}
