package vectorindex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/father-fjv/ChanceRAG/internal/domain"
)

// Snapshot format: magic, version, dimension (uint32), count (uint64),
// row-major float64 payload, CRC32-IEEE of everything before it. The file
// is written to a temp path and renamed so a crash mid-save never leaves a
// half-written snapshot under the final name.

var fileMagic = [4]byte{'C', 'R', 'V', 'I'}

const fileVersion uint32 = 1

// Save serializes the full vector set to path.
func (f *Flat) Save(path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var buf bytes.Buffer
	buf.Write(fileMagic[:])
	for _, v := range []any{fileVersion, uint32(f.dimension), uint64(len(f.vectors))} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return &domain.PersistenceError{Op: "save", Path: path, Err: err}
		}
	}
	for _, vec := range f.vectors {
		if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
			return &domain.PersistenceError{Op: "save", Path: path, Err: err}
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, crc32.ChecksumIEEE(buf.Bytes())); err != nil {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load fully replaces the in-memory state with the snapshot at path. It
// fails closed: on any parse or integrity error the index keeps its prior
// state.
func (f *Flat) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	dimension, vectors, err := decodeSnapshot(data)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dimension = dimension
	f.vectors = vectors
	return nil
}

func decodeSnapshot(data []byte) (int, [][]float64, error) {
	const headerLen = 4 + 4 + 4 + 8
	if len(data) < headerLen+4 {
		return 0, nil, errors.New("truncated index file")
	}
	payload, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(trailer) {
		return 0, nil, errors.New("checksum mismatch")
	}
	if !bytes.Equal(payload[:4], fileMagic[:]) {
		return 0, nil, errors.New("bad magic")
	}
	r := bytes.NewReader(payload[4:])
	var version, dimension uint32
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, nil, err
	}
	if version != fileVersion {
		return 0, nil, fmt.Errorf("unsupported snapshot version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &dimension); err != nil {
		return 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, nil, err
	}
	if dimension == 0 {
		return 0, nil, errors.New("zero dimension in snapshot")
	}
	// Bound count before multiplying so an absurd header cannot wrap the
	// product or size a huge allocation.
	rowSize := uint64(dimension) * 8
	if count > uint64(r.Len())/rowSize || uint64(r.Len()) != count*rowSize {
		return 0, nil, errors.New("payload size does not match header")
	}
	vectors := make([][]float64, 0, count)
	for i := uint64(0); i < count; i++ {
		vec := make([]float64, dimension)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return 0, nil, err
		}
		vectors = append(vectors, vec)
	}
	return int(dimension), vectors, nil
}
