package vector

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/peniel-r/cortex/internal/cerr"
)

const (
	magic         = "VECT"
	formatVersion = uint32(1)
)

// Save writes idx to path in the VECT binary format, stamping the header
// with timestamp (the source-tree mtime at build time, used by the sync
// engine to skip rebuilds — spec.md section 4.4). Written atomically via
// a temp file plus rename.
func Save(idx *Index, path string, timestamp int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	payload, err := encodePayload(idx)
	if err != nil {
		return err
	}
	checksum := crc32.ChecksumIEEE(payload)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	if err := writeHeader(f, timestamp, uint64(idx.dim), uint64(idx.Count()), checksum); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

func writeHeader(w io.Writer, timestamp int64, dim, count uint64, checksum uint32) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	fields := []interface{}{formatVersion, timestamp, dim, count, checksum, uint32(0)}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return cerr.Wrap(cerr.ErrCodeIOError, err)
		}
	}
	return nil
}

func encodePayload(idx *Index) ([]byte, error) {
	var buf []byte
	for _, id := range idx.order {
		e := idx.entries[id]
		if len(id) > 0xFFFF {
			return nil, cerr.New(cerr.ErrCodeInvalidFormat, "id too long for u16 length prefix", nil)
		}
		idLen := make([]byte, 2)
		binary.LittleEndian.PutUint16(idLen, uint16(len(id)))
		buf = append(buf, idLen...)
		buf = append(buf, id...)

		for _, f := range e.Vector {
			bits := make([]byte, 4)
			binary.LittleEndian.PutUint32(bits, math.Float32bits(f))
			buf = append(buf, bits...)
		}
	}
	return buf, nil
}

// Header is the decoded VECT header, returned by Load alongside the
// index so callers can inspect the build timestamp.
type Header struct {
	Timestamp int64
	Dim       int
	Count     int
}

// Load reads the VECT format from path, validating magic, version, and
// the CRC32 checksum over the payload. A mismatch on any of these is a
// refusal to load, not a panic: the caller treats the index as absent
// and rebuilds on next sync.
func Load(path string) (*Index, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Header{}, cerr.New(cerr.ErrCodeFileNotFound, "vector index not found: "+path, err)
		}
		return nil, Header{}, cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	const headerLen = 4 + 4 + 8 + 8 + 8 + 4 + 4
	if len(data) < headerLen {
		return nil, Header{}, cerr.New(cerr.ErrCodeInvalidMagic, "vector index truncated", nil)
	}

	if string(data[0:4]) != magic {
		return nil, Header{}, cerr.New(cerr.ErrCodeInvalidMagic, "vector index magic mismatch", nil)
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version > formatVersion {
		return nil, Header{}, cerr.New(cerr.ErrCodeUnsupportedVersion, fmt.Sprintf("vector index version %d unsupported", version), nil)
	}

	timestamp := int64(binary.LittleEndian.Uint64(data[8:16]))
	dim := binary.LittleEndian.Uint64(data[16:24])
	count := binary.LittleEndian.Uint64(data[24:32])
	checksum := binary.LittleEndian.Uint32(data[32:36])
	// data[36:40] is the reserved padding field.

	payload := data[headerLen:]
	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, Header{}, cerr.New(cerr.ErrCodeChecksumMismatch, "vector index checksum mismatch", nil)
	}

	idx := New(int(dim))
	offset := 0
	for i := uint64(0); i < count; i++ {
		if offset+2 > len(payload) {
			return nil, Header{}, cerr.New(cerr.ErrCodeInvalidFormat, "vector index payload truncated", nil)
		}
		idLen := int(binary.LittleEndian.Uint16(payload[offset : offset+2]))
		offset += 2
		if offset+idLen > len(payload) {
			return nil, Header{}, cerr.New(cerr.ErrCodeInvalidFormat, "vector index payload truncated", nil)
		}
		id := string(payload[offset : offset+idLen])
		offset += idLen

		vecBytes := int(dim) * 4
		if offset+vecBytes > len(payload) {
			return nil, Header{}, cerr.New(cerr.ErrCodeInvalidFormat, "vector index payload truncated", nil)
		}
		vec := make([]float32, dim)
		for j := range vec {
			bits := binary.LittleEndian.Uint32(payload[offset : offset+4])
			vec[j] = math.Float32frombits(bits)
			offset += 4
		}
		idx.Add(id, vec)
	}

	return idx, Header{Timestamp: timestamp, Dim: int(dim), Count: int(count)}, nil
}
