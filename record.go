package symblob

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/maja42/symblob/internal"
)

// Record is a length-prefixed blob stored under a symbol.
type Record struct {
	name    string
	payload []byte
}

// Reader groups basic methods available on record payloads.
type Reader interface {
	io.ReadSeeker
	io.ReaderAt
	Size() int64
}

// Parse interprets data as a record that was included at build time,
// for example through a go:embed directive.
// The length field is read in the byte order of the running program.
// The returned record aliases data.
func Parse(name string, data []byte) (*Record, error) {
	return splitRecord(name, data, binary.NativeEndian)
}

func splitRecord(name string, data []byte, order binary.ByteOrder) (*Record, error) {
	payload, err := internal.SplitRecord(data, order)
	if err != nil {
		return nil, newRecordErr("corrupt record %q (%s)", name, err)
	}
	return &Record{name: name, payload: payload}, nil
}

// Name returns the symbol name the record was found under.
func (r *Record) Name() string {
	return r.name
}

// Len returns the payload size in bytes, as declared by the length field.
func (r *Record) Len() uint64 {
	return uint64(len(r.payload))
}

// Bytes returns the payload.
// The slice aliases the memory of the image the record was read from
// and must not be modified. Records of an Image become invalid when the Image is closed.
func (r *Record) Bytes() []byte {
	return r.payload
}

// Reader returns a reader for the payload.
func (r *Record) Reader() Reader {
	return bytes.NewReader(r.payload)
}

// WriteTo writes the payload to w.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.payload)
	return int64(n), err
}
