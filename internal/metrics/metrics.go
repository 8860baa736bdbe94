package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lead capture metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobvault_leads_submissions_total",
			Help: "Total number of lead submissions received",
		},
		[]string{"source", "status"},
	)

	StoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobvault_leads_store_duration_seconds",
			Help:    "Duration of submission store writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobvault_leads_store_errors_total",
			Help: "Total number of submission store errors",
		},
	)

	// Triage metrics
	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobvault_leads_status_changes_total",
			Help: "Total number of triage status changes",
		},
		[]string{"status"},
	)

	DeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobvault_leads_deletions_total",
			Help: "Total number of submissions deleted",
		},
	)

	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobvault_leads_exports_total",
			Help: "Total number of CSV exports served",
		},
	)

	// SMS dispatch metrics
	SMSDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobvault_sms_dispatch_total",
			Help: "Total number of SMS dispatch attempts",
		},
		[]string{"result"},
	)

	// Notification metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobvault_notifications_sent_total",
			Help: "Total number of notifications delivered",
		},
		[]string{"channel"},
	)

	NotificationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobvault_notification_errors_total",
			Help: "Total number of notification delivery failures",
		},
		[]string{"channel"},
	)

	// Poller metrics
	PollerRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobvault_poller_runs_total",
			Help: "Total number of poll cycles executed",
		},
	)

	PollerNewSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobvault_poller_new_submissions_total",
			Help: "Total number of new submissions detected by the poller",
		},
	)
)
