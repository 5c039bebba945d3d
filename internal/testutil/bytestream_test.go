package testutil_test

import (
	"testing"

	"github.com/calvinalkan/argfuzz/internal/testutil"
)

func Test_ByteStream_Returns_Zero_When_Exhausted(t *testing.T) {
	t.Parallel()

	s := testutil.NewByteStream([]byte{7})

	if got, want := s.NextByte(), byte(7); got != want {
		t.Fatalf("NextByte=%d, want %d", got, want)
	}

	if s.HasMore() {
		t.Fatalf("HasMore=true after reading the only byte")
	}

	if got, want := s.IntN(10), 0; got != want {
		t.Fatalf("IntN=%d, want %d", got, want)
	}
}

func Test_ByteStream_IntN_Stays_In_Range(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input []byte
		n     int
		want  int
		used  int
	}{
		{name: "one byte", input: []byte{13}, n: 10, want: 3, used: 1},
		{name: "exact byte range", input: []byte{255}, n: 256, want: 255, used: 1},
		{name: "two bytes", input: []byte{0x01, 0x02}, n: 1000, want: 513, used: 2},
		{name: "non-positive", input: []byte{9}, n: 0, want: 0, used: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			s := testutil.NewByteStream(testCase.input)

			if got := s.IntN(testCase.n); got != testCase.want {
				t.Fatalf("IntN(%d)=%d, want %d", testCase.n, got, testCase.want)
			}

			if got := s.Consumed(); got != testCase.used {
				t.Fatalf("Consumed=%d, want %d", got, testCase.used)
			}
		})
	}
}

func Test_Clock_Now_Advances_Monotonically(t *testing.T) {
	t.Parallel()

	c := testutil.NewClock()

	first := c.Now()
	second := c.Now()

	if !second.After(first) {
		t.Fatalf("second=%v not after first=%v", second, first)
	}
}
