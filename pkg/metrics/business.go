package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fatflowers/gymcore/pkg/apperr"
)

const subsystem = "gym"

var (
	membershipOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "membership_ops_total",
		Help:      "Membership lifecycle operations partitioned by operation and result.",
	}, []string{"op", "result"})

	accessEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "access_events_total",
		Help:      "Check-in and check-out attempts partitioned by event and result.",
	}, []string{"event", "result"})

	bpDur = NewMetric(businessProcess, subsystem).(*prometheus.HistogramVec)
)

func init() {
	prometheus.MustRegister(membershipOps, accessEvents, bpDur)
}

// Result maps an operation error onto a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	case errors.Is(err, apperr.ErrMembershipInvalid):
		return "membership_invalid"
	case errors.Is(err, apperr.ErrSessionAlreadyOpen):
		return "session_already_open"
	case errors.Is(err, apperr.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func ObserveMembershipOp(op string, err error) {
	membershipOps.WithLabelValues(op, Result(err)).Inc()
}

func ObserveAccessEvent(event string, err error) {
	accessEvents.WithLabelValues(event, Result(err)).Inc()
}

// ObserveBusinessProcess records the elapsed milliseconds since start.
func ObserveBusinessProcess(typ, subtype string, start time.Time) {
	bpDur.WithLabelValues(typ, subtype).Observe(MillisecondsSince(start))
}
