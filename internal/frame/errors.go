// Package frame implements the RESP2/3 wire format: a tagged-union value type
// plus a pair of pure functions, Decode and Encode, that translate between that
// value type and its wire bytes.
package frame

import "errors"

// Decode error taxonomy. Every error other than ErrIncomplete means the byte
// stream itself is no longer trustworthy; the caller must close the connection.
var (
	// ErrIncomplete means buf does not yet hold a full frame. The caller should
	// read more bytes and retry decoding from the same (unconsumed) buffer.
	ErrIncomplete = errors.New("frame: incomplete")

	// ErrInvalidFrameType means the leading byte does not name a known frame
	// kind, or a frame's fixed structure does not match: a Null or Boolean
	// literal, a BulkString's trailing CRLF, or a Map key's '+' prefix.
	ErrInvalidFrameType = errors.New("frame: invalid frame type")

	// ErrInvalidFrameLength means a length prefix is malformed or negative
	// (other than the reserved -1 null sentinels).
	ErrInvalidFrameLength = errors.New("frame: invalid frame length")

	// ErrParseNumber means an Integer or Double payload failed to parse.
	ErrParseNumber = errors.New("frame: parse number")
)
