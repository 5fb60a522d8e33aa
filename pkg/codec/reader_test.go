package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderReadAll(t *testing.T) {
	writer := NewWriter()
	writer.WriteUInt8(0x01)
	writer.WriteUInt16(0x0203)
	writer.WriteUInt32(0x04050607)
	writer.WriteUInt64(0x08090a0b0c0d0e0f)
	writer.WriteBytes([]byte{0xaa, 0xbb})

	reader := NewReader(writer.Result())
	u8, err := reader.ReadUInt8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)
	u16, err := reader.ReadUInt16()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0203), u16)
	u32, err := reader.ReadUInt32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), u32)
	u64, err := reader.ReadUInt64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x08090a0b0c0d0e0f), u64)
	raw, err := reader.ReadBytes(2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, raw)
	assert.NoError(t, reader.AssertConsumed())
}

func TestReaderLittleEndian(t *testing.T) {
	reader := NewReader([]byte{0x44, 0xb2, 0x62, 0xc4, 0x6c, 0xea, 0xbb, 0x85})
	val, err := reader.ReadUInt64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x85BBEA6CC462B244), val)
}

func TestReaderOutOfRange(t *testing.T) {
	reader := NewReader([]byte{0x01, 0x02})
	_, err := reader.ReadUInt32()
	assert.ErrorIs(t, err, ErrOutOfRange)

	reader = NewReader([]byte{0x01})
	assert.ErrorIs(t, reader.Skip(2), ErrOutOfRange)

	reader = NewReader([]byte{0x01, 0x02, 0x03})
	_, err = reader.ReadBytes(4)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestReaderUnreadBytes(t *testing.T) {
	reader := NewReader([]byte{0x01, 0x02})
	_, err := reader.ReadUInt8()
	assert.NoError(t, err)
	assert.ErrorIs(t, reader.AssertConsumed(), ErrUnreadBytes)
	assert.Equal(t, 1, reader.Remaining())
}

func TestWriterZeros(t *testing.T) {
	writer := NewWriter()
	writer.WriteZeros(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, writer.Result())
	assert.Equal(t, 4, writer.Size())
}
