package metrics

import (
	"strconv"
	"time"

	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	// NamespaceDefault is the metric namespace used when none is given
	NamespaceDefault string = "irodshttp"
)

// Outcome is a classification of a request result
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeValidationError  Outcome = "validation_error"
	OutcomeTransportError   Outcome = "transport_error"
	OutcomeApplicationError Outcome = "application_error"
)

// GetOutcome classifies a request error
func GetOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case irodshttp.IsApplicationError(err):
		return OutcomeApplicationError
	case irodshttp.IsValidationError(err):
		return OutcomeValidationError
	default:
		return OutcomeTransportError
	}
}

// Collector collects request metrics, implements irodshttp.RequestObserver
type Collector struct {
	registry *prometheus.Registry

	requestCounter    *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	httpStatusCounter *prometheus.CounterVec
}

// NewCollector creates a new Collector with its own registry
func NewCollector(namespace string) (*Collector, error) {
	if len(namespace) == 0 {
		namespace = NamespaceDefault
	}

	collector := &Collector{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of iRODS HTTP API requests",
		}, []string{"endpoint", "op", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of iRODS HTTP API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "op"}),
		httpStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of iRODS HTTP API responses by HTTP status code",
		}, []string{"endpoint", "code"}),
	}

	for _, c := range []prometheus.Collector{collector.requestCounter, collector.requestDuration, collector.httpStatusCounter} {
		err := collector.registry.Register(c)
		if err != nil {
			return nil, xerrors.Errorf("failed to register metric: %w", err)
		}
	}

	return collector, nil
}

// GetRegistry returns the registry holding all metrics of the collector
func (collector *Collector) GetRegistry() *prometheus.Registry {
	return collector.registry
}

// ObserveRequest records a request
func (collector *Collector) ObserveRequest(endpoint string, operation string, httpStatusCode int, duration time.Duration, err error) {
	collector.requestCounter.WithLabelValues(endpoint, operation, string(GetOutcome(err))).Inc()
	collector.requestDuration.WithLabelValues(endpoint, operation).Observe(duration.Seconds())

	// no response was received
	if httpStatusCode > 0 {
		collector.httpStatusCounter.WithLabelValues(endpoint, strconv.Itoa(httpStatusCode)).Inc()
	}
}

// WriteToTextfile writes all metrics to a file in the text exposition format
func (collector *Collector) WriteToTextfile(path string) error {
	logger := log.WithFields(log.Fields{
		"package":  "metrics",
		"struct":   "Collector",
		"function": "WriteToTextfile",
	})

	err := prometheus.WriteToTextfile(path, collector.registry)
	if err != nil {
		return xerrors.Errorf("failed to write metrics to %q: %w", path, err)
	}

	logger.Debugf("wrote metrics to %q", path)
	return nil
}
