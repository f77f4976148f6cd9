package memmap

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/openlr"
)

const (
	magicBytes = "OLRNET01"
	version    = uint32(1)
	maxLines   = 50_000_000
	maxPoints  = 500_000_000
)

// fileHeader is the binary header of a network snapshot.
type fileHeader struct {
	Magic     [8]byte
	Version   uint32
	NumLines  uint32
	NumPoints uint64
}

// WriteSnapshot serializes a road network to a binary file. Geometry is
// stored in CSR layout: one offset table over flattened coordinate
// arrays. Uses unsafe.Slice for fast zero-copy I/O; the file is written
// to a temp path and renamed atomically.
func WriteSnapshot(path string, edges []Edge) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	numLines := uint32(len(edges))
	var numPoints uint64
	for _, e := range edges {
		numPoints += uint64(len(e.Geometry))
	}

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:   version,
		NumLines:  numLines,
		NumPoints: numPoints,
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Column-wise line tables.
	lineIDs := make([]int64, numLines)
	startIDs := make([]int64, numLines)
	endIDs := make([]int64, numLines)
	classes := make([]byte, numLines*2) // frc, fow interleaved
	geoFirstOut := make([]uint64, numLines+1)
	lons := make([]float64, 0, numPoints)
	lats := make([]float64, 0, numPoints)

	for i, e := range edges {
		lineIDs[i] = e.ID
		startIDs[i] = e.StartNodeID
		endIDs[i] = e.EndNodeID
		classes[2*i] = byte(e.FRC)
		classes[2*i+1] = byte(e.FOW)
		geoFirstOut[i] = uint64(len(lons))
		for _, p := range e.Geometry {
			lons = append(lons, p.Lon())
			lats = append(lats, p.Lat())
		}
	}
	geoFirstOut[numLines] = uint64(len(lons))

	if err := writeInt64Slice(w, lineIDs); err != nil {
		return fmt.Errorf("write line IDs: %w", err)
	}
	if err := writeInt64Slice(w, startIDs); err != nil {
		return fmt.Errorf("write start node IDs: %w", err)
	}
	if err := writeInt64Slice(w, endIDs); err != nil {
		return fmt.Errorf("write end node IDs: %w", err)
	}
	if _, err := w.Write(classes); err != nil {
		return fmt.Errorf("write classes: %w", err)
	}
	if err := writeUint64Slice(w, geoFirstOut); err != nil {
		return fmt.Errorf("write geometry offsets: %w", err)
	}
	if err := writeFloat64Slice(w, lons); err != nil {
		return fmt.Errorf("write longitudes: %w", err)
	}
	if err := writeFloat64Slice(w, lats); err != nil {
		return fmt.Errorf("write latitudes: %w", err)
	}

	// Write CRC32 trailer.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadSnapshot deserializes a road network from a binary file.
func ReadSnapshot(path string) ([]Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumLines > maxLines {
		return nil, fmt.Errorf("NumLines %d exceeds limit %d", hdr.NumLines, maxLines)
	}
	if hdr.NumPoints > maxPoints {
		return nil, fmt.Errorf("NumPoints %d exceeds limit %d", hdr.NumPoints, maxPoints)
	}

	numLines := int(hdr.NumLines)
	numPoints := int(hdr.NumPoints)

	lineIDs, err := readInt64Slice(r, numLines)
	if err != nil {
		return nil, fmt.Errorf("read line IDs: %w", err)
	}
	startIDs, err := readInt64Slice(r, numLines)
	if err != nil {
		return nil, fmt.Errorf("read start node IDs: %w", err)
	}
	endIDs, err := readInt64Slice(r, numLines)
	if err != nil {
		return nil, fmt.Errorf("read end node IDs: %w", err)
	}
	classes := make([]byte, numLines*2)
	if _, err := io.ReadFull(r, classes); err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}
	geoFirstOut, err := readUint64Slice(r, numLines+1)
	if err != nil {
		return nil, fmt.Errorf("read geometry offsets: %w", err)
	}
	lons, err := readFloat64Slice(r, numPoints)
	if err != nil {
		return nil, fmt.Errorf("read longitudes: %w", err)
	}
	lats, err := readFloat64Slice(r, numPoints)
	if err != nil {
		return nil, fmt.Errorf("read latitudes: %w", err)
	}

	// Verify CRC32 trailer. The trailer itself is read from the raw
	// file, past the checksummed content.
	computed := crcReader.hash.Sum32()
	var stored uint32
	if err := binary.Read(f, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if computed != stored {
		return nil, fmt.Errorf("CRC32 mismatch: file %08x, computed %08x", stored, computed)
	}

	edges := make([]Edge, numLines)
	for i := range edges {
		lo := geoFirstOut[i]
		hi := geoFirstOut[i+1]
		if lo > hi || hi > uint64(numPoints) {
			return nil, fmt.Errorf("line %d: geometry offsets [%d, %d) out of range", i, lo, hi)
		}
		geom := make(orb.LineString, hi-lo)
		for j := lo; j < hi; j++ {
			geom[j-lo] = orb.Point{lons[j], lats[j]}
		}
		edges[i] = Edge{
			ID:          lineIDs[i],
			StartNodeID: startIDs[i],
			EndNodeID:   endIDs[i],
			FRC:         openlr.FRC(classes[2*i]),
			FOW:         openlr.FOW(classes[2*i+1]),
			Geometry:    geom,
		}
	}
	return edges, nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeInt64Slice(w io.Writer, s []int64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeUint64Slice(w io.Writer, s []uint64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readInt64Slice(r io.Reader, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
