package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalogbot"

var (
	// MetadataLookups counts TMDB lookups by result: found, not_found, error.
	MetadataLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_lookups_total",
		Help:      "Metadata lookups by result.",
	}, []string{"result"})

	// Announcements counts channel posts by kind and result.
	Announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announcements_total",
		Help:      "Announcement posts by kind and result.",
	}, []string{"kind", "result"})

	BotUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bot_updates_total",
		Help:      "Inbound bot updates by kind.",
	}, []string{"kind"})

	// FileRelays counts copyMessage deliveries to users.
	FileRelays = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_relays_total",
		Help:      "Stored media relayed to users by result.",
	}, []string{"result"})
)
