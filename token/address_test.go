package token

import "testing"

func TestParseAddress(t *testing.T) {
	cases := []struct {
		in   string
		want byte // last byte of the parsed address
		ok   bool
	}{
		{"0x01", 0x01, true},
		{"02", 0x02, true},
		{"0xff", 0xff, true},
		{"f", 0x0f, true}, // odd length is zero-padded
		{"0x" + "ab" + "00" + "0000000000000000000000000000000000000000000000000000000000", 0x00, true},
		{"zz", 0, false},
	}
	for _, c := range cases {
		got, err := ParseAddress(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseAddress(%q): %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseAddress(%q): expected error", c.in)
			}
			continue
		}
		if got[AddressLength-1] != c.want {
			t.Errorf("ParseAddress(%q) last byte = %#x, want %#x", c.in, got[AddressLength-1], c.want)
		}
	}

	if _, err := ParseAddress("0x" + string(make([]byte, 0))); err != nil {
		t.Errorf("empty address should parse to zero: %v", err)
	}
}

func TestParseAddressTooLong(t *testing.T) {
	long := "0x" + "00" + "0102030405060708091011121314151617181920212223242526272829303132"
	if _, err := ParseAddress(long); err == nil {
		t.Error("expected error for oversized address")
	}
}

func TestAddressRoundTrip(t *testing.T) {
	a, err := ParseAddress("0xdeadbeef")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseAddress(a.String())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("round trip mismatch: %s != %s", a, b)
	}
}

func TestAddressIsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	a, _ := ParseAddress("0x01")
	if a.IsZero() {
		t.Error("nonzero address should not report IsZero")
	}
}
