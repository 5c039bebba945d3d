// Package testutil holds helpers shared by fuzz and unit tests.
package testutil

// ByteStream reads bytes sequentially from a byte slice.
//
// Fuzz tests use it as the randomness source for argument generators, so the
// fuzzer controls every random choice. When the stream is exhausted all reads
// return zero values: the same input always produces the same choices.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// Consumed returns how many bytes have been read.
func (s *ByteStream) Consumed() int {
	return s.pos
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextUint16 returns a little-endian uint16 built from the next two bytes.
func (s *ByteStream) NextUint16() uint16 {
	lo := uint16(s.NextByte())
	hi := uint16(s.NextByte())

	return hi<<8 | lo
}

// IntN returns a value in [0, n). Small ranges consume one byte, larger
// ones two. Returns 0 if n <= 0.
//
// IntN makes *ByteStream usable wherever an IntN source is expected.
func (s *ByteStream) IntN(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= 256:
		return int(s.NextByte()) % n
	default:
		return int(s.NextUint16()) % n
	}
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// NextString returns a string of length 1-maxLen from the stream. Bytes are
// passed through unmodified, so the result may contain any byte value.
func (s *ByteStream) NextString(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	length := 1 + s.IntN(maxLen)

	out := make([]byte, length)
	for i := range out {
		out[i] = s.NextByte()
	}

	return string(out)
}
