package series

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tag selects one of the series of a FAUSt.
type Tag byte

const (
	Forecast  Tag = 'f'
	Analysis  Tag = 'a'
	Smoothed  Tag = 's'
	Universal Tag = 'u'
)

// Tags lists all tags in display order.
var Tags = []Tag{Forecast, Analysis, Smoothed, Universal}

func (t Tag) String() string { return string(rune(t)) }

// Alias is the long name used when printing the series.
func (t Tag) Alias() string {
	switch t {
	case Forecast:
		return "Forecast  (.f)"
	case Analysis:
		return "Analysis  (.a)"
	case Smoothed:
		return "Smoothed  (.s)"
	case Universal:
		return "Universal (.u)"
	}
	return "Unknown   (." + t.String() + ")"
}

// ParseTag parses "f", "a", "s" or "u".
func ParseTag(s string) (Tag, error) {
	if len(s) == 1 {
		switch t := Tag(s[0]); t {
		case Forecast, Analysis, Smoothed, Universal:
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

// Key addresses one item of a FAUSt. Forecast, analysis and smoothed items
// are indexed by the observation counter KObs; universal items by the step
// counter K.
type Key struct {
	K    int
	KObs int
	Tag  Tag
}

// FAUSt holds the time series of a statistic computed while filtering:
//
//	f  forecast   (KObs+1) items
//	a  analysis   (KObs+1) items
//	s  smoothed   (KObs+1) items, only if stored
//	u  universal  (K+1) items, or a single item holding the latest write
//
// All items share one shape and start out as NaN.
type FAUSt struct {
	k, kObs     int
	itemShape   []int
	storeU      bool
	f, a, s, u  *mat.Dense
	wereChanged bool
}

// NewFAUSt creates the container for K time steps and KObs observation times.
// With storeU false only the most recently written universal item is kept.
func NewFAUSt(k, kObs int, itemShape []int, storeU, storeS bool) (*FAUSt, error) {
	if k < 0 || kObs < 0 {
		return nil, fmt.Errorf("%w: K=%d, KObs=%d", ErrInvalidShape, k, kObs)
	}

	fs := &FAUSt{
		k:         k,
		kObs:      kObs,
		itemShape: append([]int{}, itemShape...),
		storeU:    storeU,
	}

	var err error
	if fs.f, err = newNaNDense(kObs+1, itemShape); err != nil {
		return nil, err
	}
	fs.a, _ = newNaNDense(kObs+1, itemShape)
	if storeS {
		fs.s, _ = newNaNDense(kObs+1, itemShape)
	}
	if storeU {
		fs.u, _ = newNaNDense(k+1, itemShape)
	} else {
		fs.u, _ = newNaNDense(1, itemShape)
	}
	return fs, nil
}

// K returns the number of time steps.
func (fs *FAUSt) K() int { return fs.k }

// KObs returns the number of observation times.
func (fs *FAUSt) KObs() int { return fs.kObs }

// ItemShape returns the shape of one item.
func (fs *FAUSt) ItemShape() []int { return append([]int{}, fs.itemShape...) }

// StoreU reports whether the full universal series is kept.
func (fs *FAUSt) StoreU() bool { return fs.storeU }

// StoreS reports whether the smoothed series is kept.
func (fs *FAUSt) StoreS() bool { return fs.s != nil }

// WereChanged reports whether Set has been called.
func (fs *FAUSt) WereChanged() bool { return fs.wereChanged }

// Series returns a read-only view of the series selected by tag.
func (fs *FAUSt) Series(tag Tag) (mat.Matrix, error) {
	d, err := fs.series(tag)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// At returns a copy of the item addressed by key.
func (fs *FAUSt) At(key Key) ([]float64, error) {
	d, row, err := fs.locate(key)
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, row, d), nil
}

// Set writes the item addressed by key. A single value is broadcast over the item.
func (fs *FAUSt) Set(key Key, item []float64) error {
	d, row, err := fs.locate(key)
	if err != nil {
		return err
	}
	vals, err := broadcastItem(item, d)
	if err != nil {
		return err
	}
	d.SetRow(row, vals)
	fs.wereChanged = true
	return nil
}

// Restore overwrites the whole series selected by tag with m. It is meant
// for loading persisted statistics and leaves WereChanged untouched.
func (fs *FAUSt) Restore(tag Tag, m mat.Matrix) error {
	d, err := fs.series(tag)
	if err != nil {
		return err
	}
	r, c := d.Dims()
	mr, mc := m.Dims()
	if r != mr || c != mc {
		return fmt.Errorf("%w: %s expects %dx%d, got %dx%d", ErrInvalidShape, tag.Alias(), r, c, mr, mc)
	}
	d.Copy(m)
	return nil
}

func (fs *FAUSt) series(tag Tag) (*mat.Dense, error) {
	switch tag {
	case Forecast:
		return fs.f, nil
	case Analysis:
		return fs.a, nil
	case Universal:
		return fs.u, nil
	case Smoothed:
		if fs.s == nil {
			return nil, fmt.Errorf("%w: %s", ErrSeriesNotStored, tag.Alias())
		}
		return fs.s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag.String())
}

// locate translates a logical key to the physical row of its series.
func (fs *FAUSt) locate(key Key) (*mat.Dense, int, error) {
	d, err := fs.series(key.Tag)
	if err != nil {
		return nil, 0, err
	}

	row := key.KObs
	if key.Tag == Universal {
		if key.K < 0 || key.K > fs.k {
			return nil, 0, fmt.Errorf("%w: k=%d exceeds K=%d", ErrIndexOutOfRange, key.K, fs.k)
		}
		row = 0
		if fs.storeU {
			row = key.K
		}
		return d, row, nil
	}

	if row < 0 || row > fs.kObs {
		return nil, 0, fmt.Errorf("%w: kObs=%d exceeds KObs=%d", ErrIndexOutOfRange, row, fs.kObs)
	}
	return d, row, nil
}

func (fs *FAUSt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FAUSt(K=%d, KObs=%d, item_shape=%s)\n", fs.k, fs.kObs, formatShape(fs.itemShape))
	for _, tag := range Tags {
		d, err := fs.series(tag)
		if err != nil {
			continue
		}
		r, c := d.Dims()
		fmt.Fprintf(&b, "  %s: [%dx%d]\n", tag.Alias(), r, c)
		b.WriteString(formatDense(d, "    "))
		b.WriteByte('\n')
	}
	return b.String()
}
