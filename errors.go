// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// Structural errors. Mutations returning one of these (possibly wrapped) leave
// the circuit unchanged. Use errors.Is to test for them.
//
var (
	ErrUnknownPin      = errors.New("unknown pin")
	ErrUnknownKind     = errors.New("unknown element kind")
	ErrSelfWire        = errors.New("pin wired to itself")
	ErrDirection       = errors.New("wire must connect an output pin to an input pin")
	ErrDuplicateDriver = errors.New("input pin already driven")
	ErrNoWire          = errors.New("no wire")
	ErrNotSwitch       = errors.New("not an input switch")
	ErrFeedback        = errors.New("wire would close a feedback loop")
	ErrArity           = errors.New("pin layout does not match element kind")
	ErrInvalidCircuit  = errors.New("invalid circuit")
)

// ErrUnstable is returned by Stabilize when the circuit does not reach a fixed
// point within the iteration cap, which happens when a feedback loop
// oscillates.
//
var ErrUnstable = errors.New("circuit unstable")

// invalidCircuit tags a decoding error as ErrInvalidCircuit while keeping its
// cause reachable with errors.Is.
type invalidCircuit struct {
	err error
}

func (e invalidCircuit) Error() string        { return "invalid circuit: " + e.err.Error() }
func (e invalidCircuit) Unwrap() error        { return e.err }
func (e invalidCircuit) Is(target error) bool { return target == ErrInvalidCircuit }

func invalid(err error) error {
	return invalidCircuit{err}
}
