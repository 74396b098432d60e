package frame

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		f    Frame
	}{
		{"simple string", SimpleString("OK")},
		{"simple error", SimpleError("ERR unknown command")},
		{"integer", Integer(42)},
		{"negative integer", Integer(-17)},
		{"bulk string", BulkString([]byte("hello"))},
		{"empty bulk string", BulkString([]byte{})},
		{"null bulk string", NullBulkString()},
		{"array", Array([]Frame{BulkString([]byte("a")), Integer(1)})},
		{"empty array", Array(nil)},
		{"null array", NullArray()},
		{"null", Null()},
		{"boolean true", Boolean(true)},
		{"boolean false", Boolean(false)},
		{"set", Set([]Frame{Integer(1), Integer(2)})},
		{"nested array", Array([]Frame{Array([]Frame{Integer(1)}), NullBulkString()})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wire := Encode(tc.f)
			got, n, err := Decode(wire)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(wire) {
				t.Fatalf("consumed %d, want %d", n, len(wire))
			}
			if !framesEqual(got, tc.f) {
				t.Fatalf("got %+v, want %+v", got, tc.f)
			}
		})
	}
}

func TestDoubleWireFormat(t *testing.T) {
	cases := []struct {
		x    float64
		want string
	}{
		{123.456, ",+123.456\r\n"},
		{-123.456, ",-123.456\r\n"},
		{123456000, ",+1.23456e8\r\n"},
		{-0.00000000123456, ",-1.23456e-9\r\n"},
	}
	for _, tc := range cases {
		got := string(Encode(Double(tc.x)))
		if got != tc.want {
			t.Errorf("Encode(Double(%v)) = %q, want %q", tc.x, got, tc.want)
		}
	}
}

func TestIntegerWireFormat(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{42, ":+42\r\n"},
		{0, ":+0\r\n"},
		{-17, ":-17\r\n"},
	}
	for _, tc := range cases {
		got := string(Encode(Integer(tc.n)))
		if got != tc.want {
			t.Errorf("Encode(Integer(%d)) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestDecodeDoubleWireFormat(t *testing.T) {
	for _, wire := range []string{",+123.456\r\n", ",-123.456\r\n", ",+1.23456e8\r\n", ",-1.23456e-9\r\n"} {
		f, n, err := Decode([]byte(wire))
		if err != nil {
			t.Fatalf("Decode(%q): %v", wire, err)
		}
		if n != len(wire) {
			t.Fatalf("consumed %d, want %d", n, len(wire))
		}
		if f.Kind != KindDouble {
			t.Fatalf("Kind = %v, want Double", f.Kind)
		}
	}
}

func TestIncompleteAtEverySplitPoint(t *testing.T) {
	full := Encode(Array([]Frame{
		BulkString([]byte("GET")),
		BulkString([]byte("key")),
	}))
	for i := 0; i < len(full); i++ {
		prefix := full[:i]
		_, n, err := Decode(prefix)
		if err != ErrIncomplete {
			t.Fatalf("split at %d: err = %v, want ErrIncomplete", i, err)
		}
		if n != 0 {
			t.Fatalf("split at %d: consumed %d bytes on Incomplete, want 0", i, n)
		}
	}
	f, n, err := Decode(full)
	if err != nil {
		t.Fatalf("Decode(full): %v", err)
	}
	if n != len(full) {
		t.Fatalf("consumed %d, want %d", n, len(full))
	}
	if f.Kind != KindArray || len(f.Array) != 2 {
		t.Fatalf("got %+v", f)
	}
}

func TestNullSentinelIncompleteNeverFallsThrough(t *testing.T) {
	full := "$-1\r\n"
	for i := 1; i < len(full); i++ {
		_, n, err := Decode([]byte(full[:i]))
		if err != ErrIncomplete {
			t.Fatalf("prefix %q: err = %v, want ErrIncomplete", full[:i], err)
		}
		if n != 0 {
			t.Fatalf("prefix %q: consumed %d, want 0", full[:i], n)
		}
	}

	f, n, err := Decode([]byte("$3\r\nabc\r\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len("$3\r\nabc\r\n") || f.Kind != KindBulkString || string(f.Bulk) != "abc" {
		t.Fatalf("got %+v n=%d", f, n)
	}
}

func TestDecodeInvalidFrameType(t *testing.T) {
	_, _, err := Decode([]byte("!oops\r\n"))
	if err != ErrInvalidFrameType {
		t.Fatalf("err = %v, want ErrInvalidFrameType", err)
	}
}

func TestDecodeParseNumber(t *testing.T) {
	_, _, err := Decode([]byte(":notanumber\r\n"))
	if err != ErrParseNumber {
		t.Fatalf("err = %v, want ErrParseNumber", err)
	}
}

func TestMapLastWriteWins(t *testing.T) {
	wire := "%2\r\n+a\r\n:1\r\n+a\r\n:2\r\n"
	f, n, err := Decode([]byte(wire))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(wire) {
		t.Fatalf("consumed %d, want %d", n, len(wire))
	}
	if len(f.Map) != 1 {
		t.Fatalf("len(Map) = %d, want 1", len(f.Map))
	}
	if f.Map[0].Key != "a" || f.Map[0].Value.Int != 2 {
		t.Fatalf("got %+v", f.Map[0])
	}
}

// A GET command request encodes to the expected wire bytes end to end.
func TestScenarioGetRequestBytes(t *testing.T) {
	req := Array([]Frame{BulkString([]byte("GET")), BulkString([]byte("key"))})
	wire := Encode(req)
	want := "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n"
	if string(wire) != want {
		t.Fatalf("got %q, want %q", wire, want)
	}
	got, n, err := Decode(wire)
	if err != nil || n != len(wire) {
		t.Fatalf("Decode: %v n=%d", err, n)
	}
	if got.Kind != KindArray || len(got.Array) != 2 {
		t.Fatalf("got %+v", got)
	}
}

func framesEqual(a, b Frame) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindSimpleString, KindSimpleError:
		return a.Str == b.Str
	case KindInteger:
		return a.Int == b.Int
	case KindBulkString:
		return bytes.Equal(a.Bulk, b.Bulk)
	case KindArray, KindSet:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !framesEqual(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindBoolean:
		return a.Bool == b.Bool
	case KindDouble:
		return a.Double == b.Double
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for i := range a.Map {
			if a.Map[i].Key != b.Map[i].Key || !framesEqual(a.Map[i].Value, b.Map[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
