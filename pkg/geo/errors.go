package geo

import "errors"

var (
	// ErrDegeneratePolygon is returned when an operation leaves fewer than
	// three vertices or no enclosed area.
	ErrDegeneratePolygon = errors.New("geo: degenerate polygon")

	// ErrNegativeInset is returned by Inset for a negative distance.
	ErrNegativeInset = errors.New("geo: inset distance must not be negative")
)
