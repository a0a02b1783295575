package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// leWriter keeps the first little-endian write error.
type leWriter struct {
	buf *bytes.Buffer
	err error
}

func (w *leWriter) put(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.buf, binary.LittleEndian, v)
}

// leReader keeps the first little-endian read error, reported as truncated
// wrapped with the name of the field being read.
type leReader struct {
	r         *bytes.Reader
	truncated error
	err       error
}

func (r *leReader) get(what string, v any) {
	if r.err != nil {
		return
	}
	if err := binary.Read(r.r, binary.LittleEndian, v); err != nil {
		r.err = fmt.Errorf("%w: reading %s", r.truncated, what)
	}
}

func (r *leReader) bytes(what string, n int) []byte {
	if r.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = fmt.Errorf("%w: reading %s", r.truncated, what)
		return nil
	}
	return b
}

// fits reports whether n more bytes remain, so counts read from the file
// never drive an allocation larger than the file itself.
func (r *leReader) fits(what string, n uint64) bool {
	if r.err != nil {
		return false
	}
	if n > uint64(r.r.Len()) {
		r.err = fmt.Errorf("%w: %s need %d bytes, have %d", r.truncated, what, n, r.r.Len())
		return false
	}
	return true
}
