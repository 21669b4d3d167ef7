package series

import "errors"

var (
	// ErrEmptySeries is returned when a statistic needs at least one sample.
	ErrEmptySeries = errors.New("empty series")

	// ErrLagTooLarge is returned by AutoCov when nlags is not smaller than the series length.
	ErrLagTooLarge = errors.New("nlags must be smaller than the series length")

	// ErrNegativeLag is returned by AutoCovColumns for nlags < 0.
	ErrNegativeLag = errors.New("nlags must be non-negative")

	// ErrInvalidShape is returned when a container shape has a non-positive dimension.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrItemShape is returned when an item does not match the container item shape.
	ErrItemShape = errors.New("item does not match item shape")

	// ErrIndexOutOfRange is returned when an index exceeds the declared step count.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnknownTag is returned for a tag other than f, a, s or u.
	ErrUnknownTag = errors.New("unknown series tag")

	// ErrSeriesNotStored is returned when accessing the smoothed series of a
	// FAUSt created without it.
	ErrSeriesNotStored = errors.New("series not stored")

	// ErrEmptyBuffer is returned by RollingArray.Leftmost before any insertion.
	ErrEmptyBuffer = errors.New("rolling array has no entries")

	// ErrDirectAssignment is returned by RollingArray.Set. Values must be
	// written with Insert.
	ErrDirectAssignment = errors.New("values should be set with Insert")
)
