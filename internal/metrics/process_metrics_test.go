package metrics

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectProcessSamplesOwnPID(t *testing.T) {
	assert.NoError(t, Register(prometheus.NewRegistry()))

	CollectProcess(context.Background(), "self", int32(os.Getpid()))

	mem := testutil.ToFloat64(processMemoryMB.WithLabelValues("self"))
	assert.Greater(t, mem, 0.0, "own process should report resident memory")

	DropProcess("self")
	assert.Equal(t, 0, testutil.CollectAndCount(processMemoryMB))
	assert.Equal(t, 0, testutil.CollectAndCount(processCPU))
}

func TestCollectProcessIgnoresBogusPID(t *testing.T) {
	assert.NoError(t, Register(prometheus.NewRegistry()))

	assert.NotPanics(t, func() {
		CollectProcess(context.Background(), "ghost", -1)
		CollectProcess(context.Background(), "zero", 0)
	})
	assert.Equal(t, 0, testutil.CollectAndCount(processMemoryMB))
}

func TestDropProcessUnknownName(t *testing.T) {
	assert.NoError(t, Register(prometheus.NewRegistry()))
	assert.NotPanics(t, func() { DropProcess("never-seen") })
}
