package domain

import "errors"

var (
	// ErrFieldNotFound is returned when a declared field cannot be located
	// in a service's output.
	ErrFieldNotFound = errors.New("field not found")
	// ErrZeroTimeBase indicates the elapsed-time denominator was zero.
	ErrZeroTimeBase = errors.New("zero time base")
	// ErrEmptyCatalog indicates the catalog declares no services.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrEmptyName indicates a service without a name.
	ErrEmptyName = errors.New("empty service name")
	// ErrEmptyCommand indicates a command-sampled service without a command.
	ErrEmptyCommand = errors.New("empty retrieval command")
	// ErrUnknownSampler indicates an unrecognized sampler kind.
	ErrUnknownSampler = errors.New("unknown sampler")
	// ErrNoMetrics indicates a service that declares no metrics.
	ErrNoMetrics = errors.New("no metrics declared")
	// ErrInvalidType indicates an unsupported value type.
	ErrInvalidType = errors.New("invalid value type")
	// ErrInvalidMode indicates an unsupported delta mode.
	ErrInvalidMode = errors.New("invalid delta mode")
	// ErrBadTimeBase indicates the time-base key does not reference an
	// absolute metric of the same service.
	ErrBadTimeBase = errors.New("invalid time base")
)
