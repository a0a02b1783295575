// Package grf reads Ragnarok Online GRF archives (version 0x200).
package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/midgard-sculpt/pkg/encoding"
)

// Archive errors.
var (
	ErrInvalidArchive = errors.New("invalid GRF archive")
	ErrNotFound       = errors.New("file not found in archive")
	ErrEncrypted      = errors.New("encrypted GRF entries are not supported")
)

const (
	grfMagic   = "Master of Magic"
	headerSize = 46
	version200 = 0x200
	entrySize  = 17

	flagFile      = 0x01
	flagEncrypted = 0x02
)

// Header is the fixed archive header.
type Header struct {
	Magic         [15]byte
	EncryptionKey [15]byte
	TableOffset   uint32
	Seed          uint32
	FileCount     uint32
	Version       uint32
}

// Entry describes one stored file.
type Entry struct {
	Name             string
	CompressedSize   uint32
	AlignedSize      uint32
	UncompressedSize uint32
	Flags            uint8
	Offset           uint32
}

// Archive is an opened GRF archive. It is not safe for concurrent use when
// backed by a file opened with Open.
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	header  Header
	entries map[string]*Entry
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GRF: %w", err)
	}
	a, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewReader reads the header and file table from r.
func NewReader(r io.ReaderAt) (*Archive, error) {
	a := &Archive{r: r, entries: make(map[string]*Entry)}
	if err := a.readHeader(); err != nil {
		return nil, err
	}
	if err := a.readFileTable(); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	sr := io.NewSectionReader(a.r, 0, headerSize)
	if err := binary.Read(sr, binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrInvalidArchive, err)
	}
	if string(a.header.Magic[:]) != grfMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidArchive)
	}
	if a.header.Version != version200 {
		return fmt.Errorf("%w: unsupported version 0x%x", ErrInvalidArchive, a.header.Version)
	}
	return nil
}

func (a *Archive) readFileTable() error {
	base := int64(a.header.TableOffset) + headerSize

	var sizes [8]byte
	if _, err := a.r.ReadAt(sizes[:], base); err != nil {
		return fmt.Errorf("%w: reading table sizes: %v", ErrInvalidArchive, err)
	}
	compressedSize := binary.LittleEndian.Uint32(sizes[0:])
	uncompressedSize := binary.LittleEndian.Uint32(sizes[4:])

	table, err := inflate(io.NewSectionReader(a.r, base+8, int64(compressedSize)), uncompressedSize)
	if err != nil {
		return fmt.Errorf("%w: file table: %v", ErrInvalidArchive, err)
	}

	if a.header.FileCount < a.header.Seed+7 {
		return fmt.Errorf("%w: file count %d below seed", ErrInvalidArchive, a.header.FileCount)
	}
	count := a.header.FileCount - a.header.Seed - 7

	offset := 0
	for i := uint32(0); i < count; i++ {
		end := bytes.IndexByte(table[offset:], 0)
		if end < 0 || offset+end+1+entrySize > len(table) {
			return fmt.Errorf("%w: entry %d truncated", ErrInvalidArchive, i)
		}
		raw := table[offset : offset+end]
		offset += end + 1

		field := table[offset : offset+entrySize]
		offset += entrySize
		e := &Entry{
			Name:             encoding.NormalizeGRFPath(encoding.EUCKRToUTF8(raw)),
			CompressedSize:   binary.LittleEndian.Uint32(field[0:]),
			AlignedSize:      binary.LittleEndian.Uint32(field[4:]),
			UncompressedSize: binary.LittleEndian.Uint32(field[8:]),
			Flags:            field[12],
			Offset:           binary.LittleEndian.Uint32(field[13:]),
		}
		if e.Flags&flagFile != 0 {
			a.entries[e.Name] = e
		}
	}
	return nil
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int { return len(a.entries) }

// List returns the sorted paths of stored files ending in suffix. An empty
// suffix lists everything.
func (a *Archive) List(suffix string) []string {
	suffix = strings.ToLower(suffix)
	var out []string
	for name := range a.entries {
		if strings.HasSuffix(name, suffix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Contains reports whether path is stored in the archive.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[encoding.NormalizeGRFPath(path)]
	return ok
}

// Read returns the uncompressed contents of path.
func (a *Archive) Read(path string) ([]byte, error) {
	e, ok := a.entries[encoding.NormalizeGRFPath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if e.Flags&flagEncrypted != 0 {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}

	start := int64(e.Offset) + headerSize
	if e.CompressedSize == e.UncompressedSize {
		data := make([]byte, e.UncompressedSize)
		if _, err := a.r.ReadAt(data, start); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}
	data, err := inflate(io.NewSectionReader(a.r, start, int64(e.CompressedSize)), e.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func inflate(r io.Reader, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}
