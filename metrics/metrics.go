package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Namespace string
	Labels    map[string]string

	registry *prometheus.Registry
	handler  http.Handler

	// descriptor acquisition
	descriptorReads      prometheus.Counter
	descriptorReadErrors prometheus.Counter
	saclReads            prometheus.Counter

	// privilege elevation
	elevations        prometheus.Counter
	elevationFailures prometheus.Counter

	// account lookups
	lookups        prometheus.Counter
	lookupFailures prometheus.Counter

	// scans
	scanObjects      prometheus.Counter
	scanErrors       prometheus.Counter
	scanLastDuration prometheus.Gauge
}

func (m *Metrics) Init() {
	m.registry = prometheus.NewRegistry()
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	m.descriptorReads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "descriptor",
		Name:        "reads_total",
		Help:        `Total number of security descriptor reads attempted.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.descriptorReads)
	m.descriptorReadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "descriptor",
		Name:        "read_errors_total",
		Help:        `Total number of security descriptor reads that failed.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.descriptorReadErrors)
	m.saclReads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "descriptor",
		Name:        "sacl_reads_total",
		Help:        `Total number of descriptor reads that included the SACL.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.saclReads)
	m.elevations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "privilege",
		Name:        "elevations_total",
		Help:        `Total number of successful security privilege elevations.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.elevations)
	m.elevationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "privilege",
		Name:        "elevation_failures_total",
		Help:        `Total number of privilege elevation attempts the OS rejected.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.elevationFailures)
	m.lookups = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "account",
		Name:        "lookups_total",
		Help:        `Total number of SID to account name lookups.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.lookups)
	m.lookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "account",
		Name:        "lookup_failures_total",
		Help:        `Total number of SID lookups with no matching account.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.lookupFailures)
	m.scanObjects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "scan",
		Name:        "objects_total",
		Help:        `Total number of filesystem objects visited by scans.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.scanObjects)
	m.scanErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.Namespace,
		Subsystem:   "scan",
		Name:        "errors_total",
		Help:        `Total number of objects a scan could not read.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.scanErrors)
	m.scanLastDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.Namespace,
		Subsystem:   "scan",
		Name:        "last_duration_seconds",
		Help:        `Wall-clock duration of the most recent scan.`,
		ConstLabels: prometheus.Labels(m.Labels),
	})
	m.registry.MustRegister(m.scanLastDuration)
}

// OnDescriptorRead records one descriptor acquisition. sacl marks reads
// that went through the elevated path.
func (m *Metrics) OnDescriptorRead(err error, sacl bool) {
	m.descriptorReads.Inc()
	if err != nil {
		m.descriptorReadErrors.Inc()
		return
	}
	if sacl {
		m.saclReads.Inc()
	}
}

// OnElevation records one TryElevate outcome.
func (m *Metrics) OnElevation(err error) {
	if err != nil {
		m.elevationFailures.Inc()
		return
	}
	m.elevations.Inc()
}

// OnLookup records one SID to account lookup outcome.
func (m *Metrics) OnLookup(err error) {
	m.lookups.Inc()
	if err != nil {
		m.lookupFailures.Inc()
	}
}

// OnScanObject records one object visited during a scan.
func (m *Metrics) OnScanObject(err error) {
	m.scanObjects.Inc()
	if err != nil {
		m.scanErrors.Inc()
	}
}

// OnScanDone records the duration of a completed scan.
func (m *Metrics) OnScanDone(d time.Duration) {
	m.scanLastDuration.Set(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}
