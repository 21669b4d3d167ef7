package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// XOR codec for float64 series (Pelkonen et al., "Gorilla: A Fast, Scalable,
// In-Memory Time Series Database", PVLDB 8(12), 2015):
//
//	[version: 1 byte][count: 4 bytes LE][first: 8 bytes LE][bit stream]
//
// Each later value is XORed with its predecessor:
//
//	'0'                             identical bits
//	'10' + meaningful bits          fits the previous leading/trailing window
//	'11' + 6b leading + 6b (len-1)  new window, then len meaningful bits
//
// NaN payloads survive bit-for-bit, so unfilled slots round-trip unchanged.

const xorVersion = 0x01

// ErrCorruptBlock is returned when an encoded block cannot be decoded.
var ErrCorruptBlock = errors.New("corrupt float block")

// EncodeFloats encodes values. An empty input encodes to nil.
func EncodeFloats(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}

	out := make([]byte, 13, 13+len(values)*2)
	out[0] = xorVersion
	binary.LittleEndian.PutUint32(out[1:], uint32(len(values)))
	prev := math.Float64bits(values[0])
	binary.LittleEndian.PutUint64(out[5:], prev)

	bw := newBitWriter(len(values) * 2)
	var lead, trail uint8
	width := uint8(0) // 0 until the first window is written

	for _, v := range values[1:] {
		cur := math.Float64bits(v)
		x := prev ^ cur
		prev = cur
		if x == 0 {
			bw.writeBit(false)
			continue
		}
		bw.writeBit(true)

		l := uint8(bits.LeadingZeros64(x))
		tz := uint8(bits.TrailingZeros64(x))
		if l > 63 {
			l = 63
		}
		if width > 0 && l >= lead && tz >= trail {
			bw.writeBit(false)
			bw.writeBits(x>>trail, width)
			continue
		}

		lead, trail, width = l, tz, 64-l-tz
		bw.writeBit(true)
		bw.writeBits(uint64(lead), 6)
		bw.writeBits(uint64(width-1), 6)
		bw.writeBits(x>>trail, width)
	}

	return append(out, bw.bytes()...)
}

// DecodeFloats decodes a block produced by EncodeFloats holding count values.
func DecodeFloats(data []byte, count int) ([]float64, error) {
	if count == 0 && len(data) == 0 {
		return nil, nil
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: invalid count %d", ErrCorruptBlock, count)
	}
	if len(data) < 13 {
		return nil, fmt.Errorf("%w: %d byte header", ErrCorruptBlock, len(data))
	}
	if data[0] != xorVersion {
		return nil, fmt.Errorf("%w: unknown version %#x", ErrCorruptBlock, data[0])
	}
	if stored := int(binary.LittleEndian.Uint32(data[1:])); stored != count {
		return nil, fmt.Errorf("%w: count mismatch: expected %d, got %d", ErrCorruptBlock, count, stored)
	}

	values := make([]float64, count)
	prev := binary.LittleEndian.Uint64(data[5:])
	values[0] = math.Float64frombits(prev)

	br := newBitReader(data[13:])
	var trail, width uint8
	for i := 1; i < count; i++ {
		changed, ok := br.readBit()
		if !ok {
			return nil, fmt.Errorf("%w: truncated at value %d", ErrCorruptBlock, i)
		}
		if changed {
			fresh, ok := br.readBit()
			if !ok {
				return nil, fmt.Errorf("%w: truncated at value %d", ErrCorruptBlock, i)
			}
			if fresh {
				lead, ok1 := br.readBits(6)
				w, ok2 := br.readBits(6)
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("%w: truncated window at value %d", ErrCorruptBlock, i)
				}
				width = uint8(w) + 1
				if uint8(lead)+width > 64 {
					return nil, fmt.Errorf("%w: bad window at value %d", ErrCorruptBlock, i)
				}
				trail = 64 - uint8(lead) - width
			} else if width == 0 {
				return nil, fmt.Errorf("%w: window reused before set at value %d", ErrCorruptBlock, i)
			}
			m, ok := br.readBits(width)
			if !ok {
				return nil, fmt.Errorf("%w: truncated bits at value %d", ErrCorruptBlock, i)
			}
			prev ^= m << trail
		}
		values[i] = math.Float64frombits(prev)
	}
	return values, nil
}
