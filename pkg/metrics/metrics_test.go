package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommand(t *testing.T) {
	before := testutil.ToFloat64(CommandCount("lsusb", OutcomeOK))

	ObserveCommand("lsusb", OutcomeOK, 25*time.Millisecond)
	ObserveCommand("lsusb", OutcomeOK, 30*time.Millisecond)
	ObserveCommand("lsusb", OutcomeTimeout, 10*time.Second)

	assert.Equal(t, before+2, testutil.ToFloat64(CommandCount("lsusb", OutcomeOK)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(CommandCount("lsusb", OutcomeTimeout)), 1.0)
}

func TestCacheLookups(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues(ResultHit))
	CacheLookups.WithLabelValues(ResultHit).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookups.WithLabelValues(ResultHit)))
}
