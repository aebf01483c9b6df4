package metrics

import (
	"testing"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	s := logicsim.NewSimulator(nil, logicsim.WithProbe(m.Probe()))

	n, err := s.AddElement(logicsim.Not, logicsim.Position{}, "")
	require.NoError(t, err)
	require.NoError(t, s.SetSimulation(true))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("stable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.unstable))

	_, err = s.Connect(n.Output(), n.Pin("in"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("unstable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unstable))

	count, err := testutil.GatherAndCount(reg, "logicsim_stabilization_rounds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestObserveMutation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveMutation("connect", nil)
	m.ObserveMutation("connect", errors.New("boom"))
	m.ObserveMutation("connect", nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("connect", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("connect", "error")))
}

func TestNew_unregistered(t *testing.T) {
	m := New(nil)
	m.Probe()(logicsim.Result{Rounds: 3, Stable: true}, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("stable")))
}
