package hashtable

import (
	"hash/maphash"
	"math"
	"testing"
)

func TestNextPowOf2(t *testing.T) {
	cases := []struct{ n, want int }{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {16, 16}, {17, 32}, {1000, 1024},
	}
	for _, c := range cases {
		if got := nextPowOf2(c.n); got != c.want {
			t.Fatalf("n=%d got=%d want=%d", c.n, got, c.want)
		}
	}
}

func TestCalcTableLenFor(t *testing.T) {
	cases := []struct{ entries, want int }{
		{0, 16}, {1, 16}, {12, 16}, {13, 32}, {24, 32}, {25, 64}, {100, 256}, {768, 1024}, {769, 2048},
	}
	for _, c := range cases {
		got := calcTableLenFor(c.entries)
		if got != c.want {
			t.Fatalf("entries=%d got=%d want=%d", c.entries, got, c.want)
		}
		if calcThreshold(got) < c.entries {
			t.Fatalf("entries=%d table %d is too small", c.entries, got)
		}
	}
	if got := calcTableLenFor(calcThreshold(maxTableLen)); got != maxTableLen {
		t.Fatalf("largest table %d was expected, got: %d", maxTableLen, got)
	}
	expectPanic(t, ErrCapacityOverflow, func() { calcTableLenFor(calcThreshold(maxTableLen) + 1) })
	if th := calcThreshold(MinimumCapacity); th != 12 {
		t.Fatalf("threshold 12 was expected, got: %d", th)
	}
}

func TestIndexFor(t *testing.T) {
	cases := []struct {
		hash     int32
		tableLen int
		want     int
	}{
		{15, 16, 15},
		{25, 16, 9},
		{-1, 16, 15},
		{-16, 16, 0},
		{math.MinInt32, 16, 0},
		{math.MaxInt32, 1024, 1023},
	}
	for _, c := range cases {
		if got := indexFor(c.hash, c.tableLen); got != c.want {
			t.Fatalf("hash=%d len=%d got=%d want=%d", c.hash, c.tableLen, got, c.want)
		}
	}
}

func TestDefaultHasher_Integers(t *testing.T) {
	seed := maphash.MakeSeed()
	if h := defaultHasher[int](seed)(15); h != 15 {
		t.Fatalf("int 15 was expected to hash to 15, got: %d", h)
	}
	if h := defaultHasher[int32](seed)(-5); h != -5 {
		t.Fatalf("int32 -5 was expected to hash to -5, got: %d", h)
	}
	if h := defaultHasher[int8](seed)(-3); h != -3 {
		t.Fatalf("int8 -3 was expected to hash to -3, got: %d", h)
	}
	if h := defaultHasher[uint8](seed)(200); h != 200 {
		t.Fatalf("uint8 200 was expected to hash to 200, got: %d", h)
	}
	if h := defaultHasher[uint16](seed)(60000); h != 60000 {
		t.Fatalf("uint16 60000 was expected to hash to 60000, got: %d", h)
	}
	if h := defaultHasher[int16](seed)(-300); h != -300 {
		t.Fatalf("int16 -300 was expected to hash to -300, got: %d", h)
	}
	var big int64 = 1<<32 | 7
	if h := defaultHasher[int64](seed)(big); h != 6 {
		t.Fatalf("int64 words were expected to fold to 6, got: %d", h)
	}
	if h := defaultHasher[int64](seed)(-1); h != 0 {
		t.Fatalf("int64 -1 was expected to fold to 0, got: %d", h)
	}
	type myInt int32
	if h := defaultHasher[myInt](seed)(42); h != 42 {
		t.Fatalf("named int was expected to hash to 42, got: %d", h)
	}
}

func TestDefaultHasher_Scalars(t *testing.T) {
	seed := maphash.MakeSeed()
	hb := defaultHasher[bool](seed)
	if hb(true) != 1231 || hb(false) != 1237 {
		t.Fatalf("unexpected bool hashes: %d %d", hb(true), hb(false))
	}
	h64 := defaultHasher[float64](seed)
	if h64(0) != h64(math.Copysign(0, -1)) {
		t.Fatal("+0 and -0 were expected to hash equally")
	}
	if h64(1.5) == h64(2.5) {
		t.Fatal("distinct floats were not expected to collide")
	}
	h32 := defaultHasher[float32](seed)
	if h32(0) != h32(float32(math.Copysign(0, -1))) {
		t.Fatal("+0 and -0 were expected to hash equally")
	}
	hs := defaultHasher[string](seed)
	if hs("hello") != HashString("hello") {
		t.Fatal("string keys were expected to use HashString")
	}
	if HashBytes([]byte("hello")) != HashString("hello") {
		t.Fatal("HashBytes and HashString were expected to agree")
	}
}

func TestDefaultHasher_Comparable(t *testing.T) {
	type pair struct {
		a string
		b int
	}
	seed := maphash.MakeSeed()
	h := defaultHasher[pair](seed)
	if h(pair{"x", 1}) != h(pair{"x", 1}) {
		t.Fatal("equal structs were expected to hash equally")
	}
	ha := defaultHasher[any](seed)
	if ha("x") != ha("x") {
		t.Fatal("equal interface keys were expected to hash equally")
	}
}
