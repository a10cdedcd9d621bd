package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	// CloudWatch accepts at most 1000 datums per PutMetricData call; we flush
	// well before that.
	maxBufferSize = 150
	flushInterval = 30 * time.Second
)

// Metrics buffers metric datapoints and flushes them to CloudWatch in the
// background. With a nil client it degrades to a no-op sink, which is what
// local development and tests use.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client

	mu     sync.Mutex
	buffer []types.MetricDatum

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMetrics creates a metrics sink publishing under the given namespace.
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	m := &Metrics{
		namespace: namespace,
		client:    client,
		stop:      make(chan struct{}),
	}
	if client != nil {
		go m.flushLoop()
	}
	return m
}

// Increment adds 1 to a counter metric.
func (m *Metrics) Increment(metric, label string) {
	m.record(metric, label, 1, types.StandardUnitCount)
}

// RecordValue records an arbitrary value for a metric.
func (m *Metrics) RecordValue(metric, label string, value float64) {
	m.record(metric, label, value, types.StandardUnitNone)
}

// RecordDuration records a duration in milliseconds.
func (m *Metrics) RecordDuration(metric, label string, d time.Duration) {
	m.record(metric, label, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

// StartTimer starts a timer that records its elapsed time when stopped.
func (m *Metrics) StartTimer(metric, label string) *Timer {
	return &Timer{
		metrics: m,
		metric:  metric,
		label:   label,
		start:   time.Now(),
	}
}

// Timer measures the duration of an operation.
type Timer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

// Stop records the elapsed time since the timer was started.
func (t *Timer) Stop() {
	t.metrics.RecordDuration(t.metric, t.label, time.Since(t.start))
}

func (m *Metrics) record(metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(label)},
		},
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	shouldFlush := len(m.buffer) >= maxBufferSize
	m.mu.Unlock()

	if shouldFlush {
		go m.Flush(context.Background())
	}
}

// Flush publishes all buffered datapoints.
func (m *Metrics) Flush(ctx context.Context) {
	if m.client == nil {
		return
	}

	m.mu.Lock()
	if len(m.buffer) == 0 {
		m.mu.Unlock()
		return
	}
	batch := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	// Errors are swallowed: metrics must never take down request handling.
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: batch,
	})
}

// Close stops the background flush loop and drains the buffer.
func (m *Metrics) Close() {
	m.stopOnce.Do(func() { close(m.stop) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.Flush(ctx)
}

func (m *Metrics) flushLoop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Flush(context.Background())
		case <-m.stop:
			return
		}
	}
}
