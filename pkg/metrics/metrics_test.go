package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveQuery("exec", time.Millisecond, errors.New("boom"))
		m.BookingCreated(1)
		m.BookingRejected("capacity")
		m.BookingCancelled()
		m.RelayDelivery("slot_cancelled", false)
		m.CacheLookup(true)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.BookingCreated(2)
	m.BookingCreated(2)
	m.BookingRejected("capacity_exceeded")
	m.RelayDelivery("reply", false)
	m.CacheLookup(false)
	m.ObserveQuery("query", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingRejections.WithLabelValues("capacity_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayDeliveries.WithLabelValues("reply", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("query")))
}
