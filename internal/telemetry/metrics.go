package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the process-lifetime Prometheus collectors describing the
// progress of a single crawl run. Construction registers the collectors on
// a private registry so that repeated runs within the same test binary
// don't collide on prometheus' global DefaultRegisterer.
type Metrics struct {
	Registry *prometheus.Registry

	Downloaded       prometheus.Counter
	FailedDownloads  prometheus.Counter
	NotFoundSeeds    prometheus.Counter
	WrongLinkedDocID prometheus.Counter
	NoOutlinkPages   prometheus.Counter
	FrontierSize     prometheus.Gauge
	SeenCount        prometheus.Gauge
	Checkpoints      prometheus.Counter
}

// NewMetrics creates and registers a fresh set of crawl metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Downloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_pages_downloaded_total",
			Help: "Pages popped from the frontier and recorded in the download log.",
		}),
		FailedDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_failed_downloads_total",
			Help: "Pops whose URL could not be resolved to a docid by the corpus index.",
		}),
		NotFoundSeeds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_notfound_seed_urls_total",
			Help: "Seed URLs absent from the corpus index.",
		}),
		WrongLinkedDocID: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_wrong_linked_docid_total",
			Help: "Outlinks whose target URL could not be resolved to a docno.",
		}),
		NoOutlinkPages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_no_outlinks_pages_total",
			Help: "Downloaded pages for which no outlinks record was found.",
		}),
		FrontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crawlsim_frontier_size",
			Help: "Current number of distinct URLs tracked by the frontier.",
		}),
		SeenCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crawlsim_seen_count",
			Help: "Current number of docids marked seen.",
		}),
		Checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crawlsim_checkpoints_total",
			Help: "Number of download-log checkpoints flushed to disk.",
		}),
	}

	reg.MustRegister(
		m.Downloaded, m.FailedDownloads, m.NotFoundSeeds, m.WrongLinkedDocID,
		m.NoOutlinkPages, m.FrontierSize, m.SeenCount, m.Checkpoints,
	)

	return m
}
