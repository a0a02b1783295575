package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/midgard-sculpt/pkg/encoding"
)

// File is one file to pack.
type File struct {
	Name string // slash or backslash separated
	Data []byte
}

// Write packs files into a version 0x200 archive. Names are stored with
// backslashes in EUC-KR.
func Write(w io.Writer, files []File) error {
	var body, table bytes.Buffer
	for _, f := range files {
		packed, err := deflate(f.Data)
		if err != nil {
			return fmt.Errorf("compressing %s: %w", f.Name, err)
		}
		offset := uint32(body.Len())
		body.Write(packed)

		table.Write(encoding.UTF8ToEUCKR(strings.ReplaceAll(f.Name, "/", "\\")))
		table.WriteByte(0)
		var field [entrySize]byte
		binary.LittleEndian.PutUint32(field[0:], uint32(len(packed)))
		binary.LittleEndian.PutUint32(field[4:], uint32(len(packed)))
		binary.LittleEndian.PutUint32(field[8:], uint32(len(f.Data)))
		field[12] = flagFile
		binary.LittleEndian.PutUint32(field[13:], offset)
		table.Write(field[:])
	}

	packedTable, err := deflate(table.Bytes())
	if err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}

	header := make([]byte, headerSize)
	copy(header, grfMagic)
	binary.LittleEndian.PutUint32(header[30:], uint32(body.Len()))
	binary.LittleEndian.PutUint32(header[38:], uint32(len(files)+7))
	binary.LittleEndian.PutUint32(header[42:], version200)

	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(len(packedTable)))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(table.Len()))

	for _, chunk := range [][]byte{header, body.Bytes(), sizes[:], packedTable} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("writing GRF: %w", err)
		}
	}
	return nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
