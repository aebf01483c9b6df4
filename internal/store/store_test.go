package store

import (
	"context"
	"testing"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/logiclib"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	c, p, err := logiclib.Build("half-adder")
	require.NoError(t, err)
	require.NoError(t, c.SetSwitch(p.In("a"), true))
	_, err = c.Stabilize(0)
	require.NoError(t, err)

	rec, err := s.Save(ctx, "ha", c)
	require.NoError(t, err)
	assert.Equal(t, "ha", rec.Name)
	assert.Equal(t, c.Len(), rec.Elements)
	assert.Equal(t, 6, rec.Wires)

	c2, rec2, err := s.Load(ctx, "ha")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, rec2.ID)
	assert.Equal(t, c.Snapshot(), c2.Snapshot())
	assert.True(t, c2.Get(p.Out("s")))

	// overwriting keeps the id
	rec3, err := s.Save(ctx, "ha", logicsim.New())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, rec3.ID)
	assert.Equal(t, 0, rec3.Elements)
}

func TestListDelete(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	for _, name := range []string{"mux", "full-adder", "xor-nand"} {
		c, _, err := logiclib.Build(name)
		require.NoError(t, err)
		_, err = s.Save(ctx, name, c)
		require.NoError(t, err)
	}
	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "full-adder", recs[0].Name)
	assert.Equal(t, "mux", recs[1].Name)
	assert.Equal(t, "xor-nand", recs[2].Name)

	require.NoError(t, s.Delete(ctx, "mux"))
	err = s.Delete(ctx, "mux")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, _, err = s.Load(ctx, "mux")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	recs, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSaveErrors(t *testing.T) {
	s := openMem(t)
	_, err := s.Save(context.Background(), " ", logicsim.New())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Save(ctx, "x", logicsim.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	c, _, err := logiclib.Build("not-chain-3")
	require.NoError(t, err)
	_, err = s.Save(ctx, "chain", c)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	c2, _, err := s.Load(ctx, "chain")
	require.NoError(t, err)
	assert.Equal(t, c.Len(), c2.Len())
}
