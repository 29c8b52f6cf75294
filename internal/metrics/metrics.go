package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estatedesk_bookings_created_total",
		Help: "Bookings committed by the booking orchestrator.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estatedesk_bookings_cancelled_total",
		Help: "Bookings cancelled.",
	})

	PlanGenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estatedesk_payment_plan_generation_failures_total",
		Help: "Bookings committed without a payment plan because generation failed.",
	})

	DemandDraftsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estatedesk_demand_drafts_generated_total",
		Help: "Demand drafts generated, by trigger.",
	}, []string{"trigger"})

	DemandDraftFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estatedesk_demand_draft_failures_total",
		Help: "Detected milestones whose demand draft could not be generated.",
	})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estatedesk_notification_failures_total",
		Help: "Post-commit notifications that failed.",
	}, []string{"kind"})

	MilestoneSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estatedesk_milestone_sweeps_total",
		Help: "Milestone sweep runs, by outcome.",
	}, []string{"outcome"})
)
