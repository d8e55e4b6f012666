package netsync

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/emberhost/skirmish/internal/domain"
)

// Batch wire format, little-endian:
//
//	count  uint32
//	entry  { targetID uint64, damage float32 }  x count
//
// An immediate single-hit send uses the same format with count = 1.
const (
	batchHeaderSize = 4
	batchEntrySize  = 12
)

// ErrMalformedBatch marks a received payload that does not decode as a
// damage batch.
var ErrMalformedBatch = errors.New("malformed damage batch")

// Entry is one (target, damage) pair of a batch.
type Entry struct {
	TargetID domain.CombatantID
	Damage   float32
}

// EncodeBatch serializes entries into buf. The caller owns buf for the
// whole flush and returns it to the pool afterwards.
func EncodeBatch(buf *bytes.Buffer, entries []Entry) {
	var scratch [batchEntrySize]byte

	binary.LittleEndian.PutUint32(scratch[:batchHeaderSize], uint32(len(entries)))
	buf.Write(scratch[:batchHeaderSize])

	for _, e := range entries {
		binary.LittleEndian.PutUint64(scratch[0:8], uint64(e.TargetID))
		binary.LittleEndian.PutUint32(scratch[8:12], math.Float32bits(e.Damage))
		buf.Write(scratch[:])
	}
}

// DecodeBatch is the inverse of EncodeBatch. A truncated or oversized
// payload is rejected as a whole; per-entry validity is the receiver's
// concern so one bad entry cannot hide a framing error.
func DecodeBatch(data []byte) ([]Entry, error) {
	if len(data) < batchHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is below the header size", ErrMalformedBatch, len(data))
	}

	count := binary.LittleEndian.Uint32(data[:batchHeaderSize])
	want := batchHeaderSize + int(count)*batchEntrySize
	if len(data) != want {
		return nil, fmt.Errorf("%w: count %d implies %d bytes, got %d", ErrMalformedBatch, count, want, len(data))
	}

	if count == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, count)
	offset := batchHeaderSize
	for i := uint32(0); i < count; i++ {
		entries = append(entries, Entry{
			TargetID: domain.CombatantID(binary.LittleEndian.Uint64(data[offset : offset+8])),
			Damage:   math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8 : offset+12])),
		})
		offset += batchEntrySize
	}
	return entries, nil
}
