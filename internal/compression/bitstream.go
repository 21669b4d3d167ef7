package compression

// bitWriter appends bits MSB first.
type bitWriter struct {
	buf  []byte
	nbit uint8 // bits used in the last byte of buf, 0 means byte aligned
}

func newBitWriter(capacity int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, capacity)}
}

func (w *bitWriter) writeBit(bit bool) {
	if w.nbit == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[len(w.buf)-1] |= 0x80 >> w.nbit
	}
	w.nbit = (w.nbit + 1) % 8
}

// writeBits writes the low n bits of v, n <= 64.
func (w *bitWriter) writeBits(v uint64, n uint8) {
	for n > 0 {
		if w.nbit == 0 {
			w.buf = append(w.buf, 0)
		}
		free := 8 - w.nbit
		take := free
		if n < take {
			take = n
		}
		chunk := byte(v>>(n-take)) & byte(uint16(1)<<take-1)
		w.buf[len(w.buf)-1] |= chunk << (free - take)
		w.nbit = (w.nbit + take) % 8
		n -= take
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }

// bitReader reads bits MSB first.
type bitReader struct {
	data []byte
	pos  int // absolute bit position
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (r *bitReader) readBit() (bool, bool) {
	if r.pos >= len(r.data)*8 {
		return false, false
	}
	b := r.data[r.pos/8]&(0x80>>(r.pos%8)) != 0
	r.pos++
	return b, true
}

// readBits reads n bits right-aligned, n <= 64.
func (r *bitReader) readBits(n uint8) (uint64, bool) {
	if r.pos+int(n) > len(r.data)*8 {
		return 0, false
	}
	var v uint64
	for n > 0 {
		off := uint8(r.pos % 8)
		avail := 8 - off
		take := avail
		if n < take {
			take = n
		}
		chunk := (r.data[r.pos/8] >> (avail - take)) & byte(uint16(1)<<take-1)
		v = v<<take | uint64(chunk)
		r.pos += int(take)
		n -= take
	}
	return v, true
}
