package codec

import (
	"encoding/binary"
	"fmt"
)

// Reader is responsible for reading entity fields in catapult wire order.
// Every read is bounds checked; a short buffer fails fast with ErrOutOfRange
// instead of silently truncating.
type Reader struct {
	index int
	end   int
	data  []byte
}

// NewReader returns reader with the data given.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:  data,
		index: 0,
		end:   len(data),
	}
}

func (r *Reader) require(size int) error {
	if r.index+size > r.end {
		return fmt.Errorf("%w: need %d bytes at offset %d but only %d remain", ErrOutOfRange, size, r.index, r.end-r.index)
	}
	return nil
}

// ReadBytes reads the given number of raw bytes.
func (r *Reader) ReadBytes(size int) ([]byte, error) {
	if err := r.require(size); err != nil {
		return nil, err
	}
	result := make([]byte, size)
	copy(result, r.data[r.index:r.index+size])
	r.index += size
	return result, nil
}

// ReadUInt8 reads a single byte.
func (r *Reader) ReadUInt8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	result := r.data[r.index]
	r.index++
	return result, nil
}

// ReadUInt16 reads a little-endian uint16.
func (r *Reader) ReadUInt16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	result := binary.LittleEndian.Uint16(r.data[r.index:])
	r.index += 2
	return result, nil
}

// ReadUInt32 reads a little-endian uint32.
func (r *Reader) ReadUInt32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	result := binary.LittleEndian.Uint32(r.data[r.index:])
	r.index += 4
	return result, nil
}

// ReadUInt64 reads a little-endian uint64.
func (r *Reader) ReadUInt64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	result := binary.LittleEndian.Uint64(r.data[r.index:])
	r.index += 8
	return result, nil
}

// Skip advances the reader over reserved bytes.
func (r *Reader) Skip(size int) error {
	if err := r.require(size); err != nil {
		return err
	}
	r.index += size
	return nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return r.end - r.index
}

// AssertConsumed fails when unread bytes remain, to reject payloads which
// declare a larger size than their fields occupy.
func (r *Reader) AssertConsumed() error {
	if r.Remaining() != 0 {
		return fmt.Errorf("%w: %d bytes", ErrUnreadBytes, r.Remaining())
	}
	return nil
}
