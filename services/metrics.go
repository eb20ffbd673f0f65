package services

import "github.com/prometheus/client_golang/prometheus"

var (
	contentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_mutations_total",
			Help: "Total number of repository mutations by operation.",
		},
		[]string{"op"},
	)
	persistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Total number of failed persistence calls by operation.",
		},
		[]string{"op"},
	)
	backupArchives = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_archives_total",
			Help: "Total number of snapshot archives written to object storage.",
		},
	)
)

func init() {
	prometheus.MustRegister(contentMutations, persistenceFailures, backupArchives)
}
