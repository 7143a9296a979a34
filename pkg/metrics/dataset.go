package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics records metadata for dataset loads.
type DatasetMetrics struct {
	loadDuration *prometheus.HistogramVec
	loadSuccess  *prometheus.CounterVec
	loadFailure  *prometheus.CounterVec
	rows         *prometheus.GaugeVec
	skippedRows  *prometheus.CounterVec
}

// NewDatasetMetrics registers the dataset metrics on the provided registerer.
func NewDatasetMetrics(reg prometheus.Registerer) *DatasetMetrics {
	if reg == nil {
		return &DatasetMetrics{}
	}
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dataset_load_duration_seconds",
		Help:    "Duration of dataset loads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	loadSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_load_success",
		Help: "Successful dataset loads.",
	}, []string{"source"})
	loadFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_load_failure",
		Help: "Failed dataset loads.",
	}, []string{"source"})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Rows in the active snapshot by table.",
	}, []string{"table"})
	skippedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_skipped_rows_total",
		Help: "Rows dropped during parsing by table.",
	}, []string{"table"})
	reg.MustRegister(loadDuration, loadSuccess, loadFailure, rows, skippedRows)
	return &DatasetMetrics{
		loadDuration: loadDuration,
		loadSuccess:  loadSuccess,
		loadFailure:  loadFailure,
		rows:         rows,
		skippedRows:  skippedRows,
	}
}

// ObserveLoad records the duration for a load from the named source.
func (d *DatasetMetrics) ObserveLoad(source string, duration time.Duration) {
	if d == nil || d.loadDuration == nil {
		return
	}
	d.loadDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncLoadSuccess increments the success counter for the named source.
func (d *DatasetMetrics) IncLoadSuccess(source string) {
	if d == nil || d.loadSuccess == nil {
		return
	}
	d.loadSuccess.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncLoadFailure increments the failure counter for the named source.
func (d *DatasetMetrics) IncLoadFailure(source string) {
	if d == nil || d.loadFailure == nil {
		return
	}
	d.loadFailure.WithLabelValues(normalizeLabel(source)).Inc()
}

// SetRows records the active snapshot size for a table.
func (d *DatasetMetrics) SetRows(table string, count int) {
	if d == nil || d.rows == nil {
		return
	}
	d.rows.WithLabelValues(normalizeLabel(table)).Set(float64(count))
}

// AddSkippedRows counts rows dropped while parsing a table.
func (d *DatasetMetrics) AddSkippedRows(table string, count int) {
	if d == nil || d.skippedRows == nil || count <= 0 {
		return
	}
	d.skippedRows.WithLabelValues(normalizeLabel(table)).Add(float64(count))
}
