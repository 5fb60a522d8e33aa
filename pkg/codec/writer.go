package codec

import (
	"encoding/binary"
)

// Writer is responsible for writing entity fields in catapult wire order.
// All multi byte integers are little-endian and fields are positional, there
// are no keys or tags on the wire.
type Writer struct {
	result []byte
}

// NewWriter returns a new instance of a writer.
func NewWriter() *Writer {
	return &Writer{
		result: []byte{},
	}
}

// NewWriterSize returns a writer with a preallocated buffer.
func NewWriterSize(size int) *Writer {
	return &Writer{
		result: make([]byte, 0, size),
	}
}

// WriteBytes writes raw bytes to result.
func (w *Writer) WriteBytes(data []byte) {
	w.result = append(w.result, data...)
}

// WriteUInt8 writes a single byte to result.
func (w *Writer) WriteUInt8(data uint8) {
	w.result = append(w.result, data)
}

// WriteUInt16 writes a uint16 to result.
func (w *Writer) WriteUInt16(data uint16) {
	w.result = binary.LittleEndian.AppendUint16(w.result, data)
}

// WriteUInt32 writes a uint32 to result.
func (w *Writer) WriteUInt32(data uint32) {
	w.result = binary.LittleEndian.AppendUint32(w.result, data)
}

// WriteUInt64 writes a uint64 to result.
func (w *Writer) WriteUInt64(data uint64) {
	w.result = binary.LittleEndian.AppendUint64(w.result, data)
}

// WriteZeros writes the given number of zero bytes, used for reserved fields
// and placeholder signature or signer buffers.
func (w *Writer) WriteZeros(size int) {
	w.result = append(w.result, make([]byte, size)...)
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int {
	return len(w.result)
}

// Result returns the written bytes.
func (w *Writer) Result() []byte {
	return w.result
}
