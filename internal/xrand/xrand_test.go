package xrand

import "testing"

func TestIntnStaysInRange(t *testing.T) {
	r := New(1)
	for i := 0; i < 10000; i++ {
		v := r.Intn(4)
		if v < 0 || v >= 4 {
			t.Fatalf("Intn(4) = %d, out of range", v)
		}
	}
}

func TestBoolIsNotConstant(t *testing.T) {
	r := New(2)
	sawTrue, sawFalse := false, false
	for i := 0; i < 1000 && !(sawTrue && sawFalse); i++ {
		if r.Bool() {
			sawTrue = true
		} else {
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Errorf("Bool() looks constant over 1000 draws")
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	r := Get()
	defer Put(r)
	_ = r.Uint32()
}
