// Package wire implements cream's binary request/response framing: fixed
// little-endian headers over a raw net.Conn, one request and one response
// per connection.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// RequestCode identifies the operation a request asks the store to perform.
type RequestCode uint32

// Request codes.
const (
	Put   RequestCode = 1
	Get   RequestCode = 2
	Evict RequestCode = 3
	Clear RequestCode = 4
)

func (c RequestCode) String() string {
	switch c {
	case Put:
		return "PUT"
	case Get:
		return "GET"
	case Evict:
		return "EVICT"
	case Clear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// ResponseCode identifies the outcome reported back to the client.
type ResponseCode uint32

// Response codes.
const (
	OK          ResponseCode = 0
	NotFound    ResponseCode = 1
	BadRequest  ResponseCode = 2
	Unsupported ResponseCode = 3
)

func (c ResponseCode) String() string {
	switch c {
	case OK:
		return "OK"
	case NotFound:
		return "NOT_FOUND"
	case BadRequest:
		return "BAD_REQUEST"
	case Unsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// RequestHeaderSize is the on-wire size, in bytes, of a RequestHeader.
const RequestHeaderSize = 12

// ResponseHeaderSize is the on-wire size, in bytes, of a ResponseHeader.
const ResponseHeaderSize = 8

// ErrShortRead is returned in place of io.EOF or io.ErrUnexpectedEOF when a
// frame ends early, so callers can distinguish a truncated frame from other
// I/O failures, which are returned unchanged.
var ErrShortRead = errors.New("wire: short read")

// RequestHeader is the fixed 12-byte header preceding every request:
// request_code, key_size, value_size, each a uint32.
type RequestHeader struct {
	Code      RequestCode
	KeySize   uint32
	ValueSize uint32
}

// ReadRequestHeader reads and decodes a RequestHeader from r.
func ReadRequestHeader(r io.Reader) (RequestHeader, error) {
	var buf [RequestHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return RequestHeader{}, errShortRead(err)
	}
	return RequestHeader{
		Code:      RequestCode(binary.LittleEndian.Uint32(buf[0:4])),
		KeySize:   binary.LittleEndian.Uint32(buf[4:8]),
		ValueSize: binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

// WriteRequestHeader encodes and writes h to w.
func WriteRequestHeader(w io.Writer, h RequestHeader) error {
	var buf [RequestHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Code))
	binary.LittleEndian.PutUint32(buf[4:8], h.KeySize)
	binary.LittleEndian.PutUint32(buf[8:12], h.ValueSize)
	_, err := w.Write(buf[:])
	return err
}

// ResponseHeader is the fixed 8-byte header preceding every response:
// response_code, value_size, each a uint32.
type ResponseHeader struct {
	Code      ResponseCode
	ValueSize uint32
}

// ReadResponseHeader reads and decodes a ResponseHeader from r.
func ReadResponseHeader(r io.Reader) (ResponseHeader, error) {
	var buf [ResponseHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ResponseHeader{}, errShortRead(err)
	}
	return ResponseHeader{
		Code:      ResponseCode(binary.LittleEndian.Uint32(buf[0:4])),
		ValueSize: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// WriteResponseHeader encodes and writes h to w.
func WriteResponseHeader(w io.Writer, h ResponseHeader) error {
	var buf [ResponseHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Code))
	binary.LittleEndian.PutUint32(buf[4:8], h.ValueSize)
	_, err := w.Write(buf[:])
	return err
}

// ReadPayload reads exactly size bytes from r, retrying short reads until
// the buffer is full or an error occurs.
func ReadPayload(r io.Reader, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errShortRead(err)
	}
	return buf, nil
}

func errShortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrShortRead
	}
	return err
}
