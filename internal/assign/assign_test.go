package assign

import (
	"testing"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	td := []struct {
		in   string
		want []Assignment
	}{
		{"", nil},
		{"  ", nil},
		{"a=1", []Assignment{{Label: "a", Value: true, Pos: 1}}},
		{"a=1, b=0,cin=TRUE", []Assignment{
			{Label: "a", Value: true, Pos: 1},
			{Label: "b", Value: false, Pos: 6},
			{Label: "cin", Value: true, Pos: 10},
		}},
		{"#3=on, s_0 = off", []Assignment{
			{Pin: 3, Value: true, Pos: 1},
			{Label: "s_0", Value: false, Pos: 8},
		}},
	}
	for _, d := range td {
		got, err := Parse(d.in)
		require.NoError(t, err, d.in)
		assert.Equal(t, d.want, got, d.in)
	}
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		in  string
		msg string
	}{
		{"a", `in "a" at pos 2: '=' expected after a`},
		{"a=", `in "a=" at pos 3: unexpected end of input`},
		{"a=2", `in "a=2" at pos 3: invalid value "2"`},
		{"a=1 b=0", `in "a=1 b=0" at pos 5: unexpected "b"`},
		{"a=1,", `in "a=1," at pos 5: expected switch name`},
		{"=1", `in "=1" at pos 1: expected switch name`},
		{"#x=1", `in "#x=1" at pos 2: pin id expected after '#'`},
		{"#0=1", `in "#0=1" at pos 2: invalid pin id 0`},
	}
	for _, d := range td {
		_, err := Parse(d.in)
		require.Error(t, err, d.in)
		assert.Equal(t, d.msg, err.Error())
	}
}

func TestApply(t *testing.T) {
	s := logicsim.NewSimulator(nil)
	a, err := s.AddElement(logicsim.Switch, logicsim.Position{}, "a")
	require.NoError(t, err)
	b, err := s.AddElement(logicsim.Switch, logicsim.Position{}, "b")
	require.NoError(t, err)
	_, err = s.AddElement(logicsim.Light, logicsim.Position{}, "out")
	require.NoError(t, err)
	c := s.Circuit()

	as, err := Parse("a=1, #2=1, b=0")
	require.NoError(t, err)
	require.NoError(t, Apply(s, as))
	assert.True(t, c.Get(a.Output()))
	assert.False(t, c.Get(b.Output()))

	as, _ = Parse("out=1")
	err = Apply(s, as)
	assert.True(t, errors.Is(err, logicsim.ErrNotSwitch), "got %v", err)

	as, _ = Parse("nope=1")
	assert.EqualError(t, Apply(s, as), `no switch labeled "nope"`)

	as, _ = Parse("#3=1")
	err = Apply(s, as)
	assert.True(t, errors.Is(err, logicsim.ErrNotSwitch), "got %v", err)
}
