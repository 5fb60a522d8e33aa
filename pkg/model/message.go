package model

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
)

// MessageType is the one byte tag preceding a message payload on the wire.
type MessageType uint8

const (
	// MessagePlain is an unencrypted UTF-8 message.
	MessagePlain MessageType = 0x00
	// MessageEncrypted is an AES encrypted message between two accounts.
	MessageEncrypted MessageType = 0x01
	// MessageDelegation marks a persistent harvesting delegation request.
	MessageDelegation MessageType = 0xFE
)

// MaxMessageSize caps the payload of a transfer message in bytes.
const MaxMessageSize = 1023

// Message is a typed payload attached to a transfer. An empty plain message
// occupies no wire bytes at all.
type Message struct {
	Type    MessageType
	Payload []byte
}

// NewPlainMessage wraps a UTF-8 text. Its encoded length is measured in
// bytes, not characters.
func NewPlainMessage(text string) (Message, error) {
	return newMessage(MessagePlain, []byte(text))
}

// NewEncryptedMessage wraps an already encrypted payload.
func NewEncryptedMessage(payload []byte) (Message, error) {
	return newMessage(MessageEncrypted, payload)
}

// NewRawMessage reconstructs a message from its wire bytes (type byte plus
// payload). Empty input yields the empty plain message.
func NewRawMessage(data []byte) (Message, error) {
	if len(data) == 0 {
		return Message{}, nil
	}
	switch MessageType(data[0]) {
	case MessagePlain, MessageEncrypted, MessageDelegation:
		return newMessage(MessageType(data[0]), codec.Copy(data[1:]))
	}
	return Message{}, fmt.Errorf("%w: unknown message type %d", codec.ErrInvalidArgument, data[0])
}

func newMessage(messageType MessageType, payload []byte) (Message, error) {
	if len(payload) > MaxMessageSize {
		return Message{}, fmt.Errorf("%w: message payload size %d exceeds maximum %d", codec.ErrInvalidArgument, len(payload), MaxMessageSize)
	}
	return Message{Type: messageType, Payload: payload}, nil
}

// Size returns the wire byte length: zero for an empty plain message,
// otherwise the type byte plus the payload bytes.
func (m Message) Size() int {
	if m.Type == MessagePlain && len(m.Payload) == 0 {
		return 0
	}
	return 1 + len(m.Payload)
}

// Bytes returns the wire form.
func (m Message) Bytes() []byte {
	if m.Size() == 0 {
		return nil
	}
	result := make([]byte, 0, m.Size())
	result = append(result, byte(m.Type))
	return append(result, m.Payload...)
}

// Text returns the payload as a string.
func (m Message) Text() string {
	return string(m.Payload)
}
