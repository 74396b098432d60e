package frame

import (
	"math"
	"strconv"
)

// Encode renders f to its wire bytes. Encode never fails: a Frame built
// through the constructors in frame.go is always well-formed by
// construction, so the only way appendFrame can hit its default case is a
// Frame assembled by hand with an out-of-range Kind, which is a programmer
// error, not a runtime condition to recover from.
func Encode(f Frame) []byte {
	return appendFrame(nil, f)
}

func appendFrame(dst []byte, f Frame) []byte {
	switch f.Kind {
	case KindSimpleString:
		return appendSimpleString(dst, f.Str)
	case KindSimpleError:
		return appendSimpleError(dst, f.Str)
	case KindInteger:
		return appendInteger(dst, f.Int)
	case KindBulkString:
		return appendBulkString(dst, f.Bulk)
	case KindNullBulkString:
		return append(dst, "$-1\r\n"...)
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(f.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, item := range f.Array {
			dst = appendFrame(dst, item)
		}
		return dst
	case KindNullArray:
		return append(dst, "*-1\r\n"...)
	case KindNull:
		return append(dst, "_\r\n"...)
	case KindBoolean:
		if f.Bool {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	case KindDouble:
		return appendDouble(dst, f.Double)
	case KindMap:
		dst = append(dst, '%')
		dst = strconv.AppendInt(dst, int64(len(f.Map)), 10)
		dst = append(dst, '\r', '\n')
		for _, entry := range f.Map {
			dst = appendSimpleString(dst, entry.Key)
			dst = appendFrame(dst, entry.Value)
		}
		return dst
	case KindSet:
		dst = append(dst, '~')
		dst = strconv.AppendInt(dst, int64(len(f.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, item := range f.Array {
			dst = appendFrame(dst, item)
		}
		return dst
	default:
		panic("frame: invalid Kind in Frame passed to Encode")
	}
}

func appendSimpleString(dst []byte, s string) []byte {
	dst = append(dst, '+')
	dst = append(dst, s...)
	return append(dst, '\r', '\n')
}

func appendSimpleError(dst []byte, s string) []byte {
	dst = append(dst, '-')
	dst = append(dst, s...)
	return append(dst, '\r', '\n')
}

func appendInteger(dst []byte, n int64) []byte {
	dst = append(dst, ':')
	if n >= 0 {
		dst = append(dst, '+')
	}
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, '\r', '\n')
}

func appendBulkString(dst []byte, b []byte) []byte {
	dst = append(dst, '$')
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, b...)
	return append(dst, '\r', '\n')
}

func appendDouble(dst []byte, x float64) []byte {
	dst = append(dst, ',')
	if abs := math.Abs(x); abs > 1e8 || abs < 1e-8 {
		dst = append(dst, formatScientific(x)...)
	} else {
		if !math.Signbit(x) {
			dst = append(dst, '+')
		}
		dst = strconv.AppendFloat(dst, x, 'f', -1, 64)
	}
	return append(dst, '\r', '\n')
}

// formatScientific renders x the way the reference RESP3 encoder does:
// explicit leading sign on the mantissa, lowercase 'e', unpadded exponent
// digits, and an explicit sign on the exponent only when it is negative.
// strconv.FormatFloat's own 'e' form always zero-pads the exponent to two
// digits and always signs it (e.g. "1.23456e+08"); both of those need
// stripping to match the wire convention ("1.23456e8", "-1.23456e-9").
func formatScientific(x float64) string {
	s := strconv.FormatFloat(x, 'e', -1, 64)

	sign := ""
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	} else {
		sign = "+"
	}

	ei := -1
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			ei = i
			break
		}
	}
	mantissa := s
	exponent := ""
	if ei >= 0 {
		mantissa = s[:ei]
		exponent = s[ei+1:]
	}

	expSign := ""
	if len(exponent) > 0 && (exponent[0] == '+' || exponent[0] == '-') {
		if exponent[0] == '-' {
			expSign = "-"
		}
		exponent = exponent[1:]
	}
	for len(exponent) > 1 && exponent[0] == '0' {
		exponent = exponent[1:]
	}
	if exponent == "" {
		exponent = "0"
	}

	if ei < 0 {
		return sign + mantissa
	}
	return sign + mantissa + "e" + expSign + exponent
}
