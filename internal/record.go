package internal

import (
	"encoding/binary"
	"errors"
	"io"
)

// HeaderSize is the size of the length field in front of every record payload.
// The length is an unsigned 64 bit integer in the byte order of the target machine.
const HeaderSize = 8

var (
	// ErrTruncatedHeader is returned if there are fewer than HeaderSize bytes.
	ErrTruncatedHeader = errors.New("truncated length field")
	// ErrLengthExceedsData is returned if the length field points past the available bytes.
	ErrLengthExceedsData = errors.New("length exceeds data")
)

// WriteHeader writes the length field of a record with the given payload size.
func WriteHeader(w io.Writer, order binary.ByteOrder, size uint64) error {
	var header [HeaderSize]byte
	order.PutUint64(header[:], size)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	return nil
}

// SplitRecord interprets data as a record and returns its payload.
// The payload aliases data, nothing is copied.
// Bytes after the payload (e.g. alignment padding) are ignored.
func SplitRecord(data []byte, order binary.ByteOrder) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncatedHeader
	}
	size := order.Uint64(data[:HeaderSize])
	avail := uint64(len(data) - HeaderSize)
	if size > avail {
		return nil, ErrLengthExceedsData
	}
	return data[HeaderSize : HeaderSize+int(size) : HeaderSize+int(size)], nil
}
