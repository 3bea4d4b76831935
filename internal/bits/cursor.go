// Package bits reads and writes bit fields at arbitrary offsets inside a
// fixed, caller-owned byte buffer.
//
// Bits are addressed MSB-first: bit 0 is the most significant bit of byte 0.
// Every read and write is bounds-checked before the buffer is touched, and a
// failed operation leaves both the buffer and the cursor unchanged.
package bits

// Alphabet maps characters to dense codes and back.
// charset.Transcoder is the production implementation.
type Alphabet interface {
	Encode(c byte) (uint8, bool)
	Decode(code uint8) (byte, bool)
	Width() int
}

// Cursor tracks a bit position inside buf. The zero value is unusable; use
// NewCursor.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at bit 0 of buf.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// Pos returns the current bit offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the total number of addressable bits.
func (c *Cursor) Len() int {
	return len(c.buf) * 8
}

// Remaining returns the number of bits left after the cursor.
func (c *Cursor) Remaining() int {
	return c.Len() - c.pos
}

func (c *Cursor) fits(n int) bool {
	return n >= 0 && c.pos >= 0 && c.pos+n <= c.Len()
}

// Skip advances the cursor by n bits without touching the buffer.
func (c *Cursor) Skip(n int) bool {
	if !c.fits(n) {
		return false
	}
	c.pos += n
	return true
}

// WriteBits stores the low n bits of v (1 <= n <= 8) at the cursor and
// advances it. Values wider than n bits are rejected rather than truncated.
func (c *Cursor) WriteBits(v byte, n int) bool {
	if n < 1 || n > 8 || !c.fits(n) {
		return false
	}
	if n < 8 && v>>n != 0 {
		return false
	}
	put(c.buf, c.pos, v, n)
	c.pos += n
	return true
}

// ReadBits loads n bits (1 <= n <= 8) from the cursor and advances it.
func (c *Cursor) ReadBits(n int) (byte, bool) {
	if n < 1 || n > 8 || !c.fits(n) {
		return 0, false
	}
	v := get(c.buf, c.pos, n)
	c.pos += n
	return v, true
}

// WriteUint stores the low n bits of v (1 <= n <= 64) as a big-endian field,
// most significant chunk first.
func (c *Cursor) WriteUint(v uint64, n int) bool {
	if n < 1 || n > 64 || !c.fits(n) {
		return false
	}
	if n < 64 && v>>n != 0 {
		return false
	}
	for n > 0 {
		chunk := n % 8
		if chunk == 0 {
			chunk = 8
		}
		n -= chunk
		put(c.buf, c.pos, byte(v>>n)&mask(chunk), chunk)
		c.pos += chunk
	}
	return true
}

// ReadUint loads an n-bit big-endian field (1 <= n <= 64).
func (c *Cursor) ReadUint(n int) (uint64, bool) {
	if n < 1 || n > 64 || !c.fits(n) {
		return 0, false
	}
	var v uint64
	for n > 0 {
		chunk := n % 8
		if chunk == 0 {
			chunk = 8
		}
		n -= chunk
		v = v<<chunk | uint64(get(c.buf, c.pos, chunk))
		c.pos += chunk
	}
	return v, true
}

// WriteRun encodes each byte of s with a and writes it at a.Width() bits.
// It stops at the first character that cannot be encoded or written and
// returns how many characters were stored. Callers compare the count with
// len(s) to detect a partial write.
func (c *Cursor) WriteRun(s []byte, a Alphabet) int {
	w := a.Width()
	for i := 0; i < len(s); i++ {
		code, ok := a.Encode(s[i])
		if !ok || !c.WriteBits(code, w) {
			return i
		}
	}
	return len(s)
}

// ReadRun fills dst with characters decoded by a, stopping at the first code
// that does not decode. It returns how many characters were produced.
func (c *Cursor) ReadRun(dst []byte, a Alphabet) int {
	w := a.Width()
	for i := range dst {
		start := c.pos
		code, ok := c.ReadBits(w)
		if !ok {
			return i
		}
		ch, ok := a.Decode(code)
		if !ok {
			c.pos = start
			return i
		}
		dst[i] = ch
	}
	return len(dst)
}

func mask(n int) byte {
	return byte(1<<n - 1)
}

// put writes n bits (n <= 8) of v at bit offset pos. The field spans at most
// two bytes, so a 16-bit window covers it.
func put(buf []byte, pos int, v byte, n int) {
	idx, off := pos>>3, pos&7
	shift := 16 - off - n
	val := uint16(v) << shift
	m := uint16(mask(n)) << shift
	buf[idx] = buf[idx]&^byte(m>>8) | byte(val>>8)
	if off+n > 8 {
		buf[idx+1] = buf[idx+1]&^byte(m) | byte(val)
	}
}

func get(buf []byte, pos int, n int) byte {
	idx, off := pos>>3, pos&7
	window := uint16(buf[idx]) << 8
	if off+n > 8 {
		window |= uint16(buf[idx+1])
	}
	return byte(window>>(16-off-n)) & mask(n)
}
