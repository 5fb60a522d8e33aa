package transaction

import (
	"errors"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// Wire layout constants. The common header of a top level transaction is
//
//	size(4) | signature(64) | signerPublicKey(32) | version(2) | type(2) |
//	maxFee(8) | deadline(8)
//
// and of an embedded transaction
//
//	size(4) | signerPublicKey(32) | version(2) | type(2)
//
// so embedding strips exactly EmbeddedHeaderDelta bytes from a kind's top
// level size. All integers are little-endian. The version field packs the
// entity version in its high byte and the network type in its low byte.
const (
	// HeaderSize is the fixed byte count every top level transaction
	// contributes before its body.
	HeaderSize = 120
	// EmbeddedHeaderSize is the fixed byte count of an embedded record
	// before its body.
	EmbeddedHeaderSize = 40
	// EmbeddedHeaderDelta is the header shrinkage of an embedded record.
	// Protocol constant: signature(64) + maxFee(8) + deadline(8) = 80.
	EmbeddedHeaderDelta = HeaderSize - EmbeddedHeaderSize
	// CosignatureSize is one cosignature record: signer key(32) + signature(64).
	CosignatureSize = 96
	// GenerationHashSize is the network's replay protection constant.
	GenerationHashSize = 32

	signatureOffset = 4
	signerOffset    = signatureOffset + crypto.EdSignatureLength
	// signingDataOffset is where the signed byte range begins: everything
	// from the version field onward.
	signingDataOffset = signerOffset + crypto.EdPublicKeyLength
)

var (
	// ErrUnknownTransactionType is raised when dispatch meets a type code
	// outside the closed catalog.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	// ErrMissingTransactionInfo is raised when alias resolution is attempted
	// on a transaction which was never confirmed; height and index are
	// required lookup keys.
	ErrMissingTransactionInfo = errors.New("transaction info is missing")
	// ErrDelegatedSignerNotAllowed is raised when a bonded aggregate holds
	// an inner transaction without an explicit signer.
	ErrDelegatedSignerNotAllowed = errors.New("inner transaction of a bonded aggregate must carry a signer")
	// ErrMissingSigner is raised when serialization needs a signer which was
	// never provided.
	ErrMissingSigner = errors.New("signer is missing")
	// ErrCannotEmbed is raised when an aggregate is placed inside another
	// aggregate; the wire format does not nest.
	ErrCannotEmbed = errors.New("aggregate transaction cannot be embedded")
)

// TransactionInfo locates a confirmed transaction on chain. It is populated
// by the mapping layer only, never set by the caller.
type TransactionInfo struct {
	Height uint64    `json:"height"`
	Index  uint32    `json:"index"`
	Hash   codec.Hex `json:"hash"`
}

// TransactionHeader holds the fields common to every kind. Transactions are
// immutable value objects; operations producing a variant return a new
// instance and never mutate the receiver.
type TransactionHeader struct {
	Type      TransactionType
	Version   uint8
	Network   model.NetworkType
	MaxFee    uint64
	Deadline  model.Deadline
	Signature codec.Hex            // 64 bytes once signed, nil otherwise
	Signer    *model.PublicAccount // nil until known
	Info      *TransactionInfo     // confirmed transactions only
}

// Transaction is the closed polymorphic contract every kind implements. The
// unexported methods keep the set of implementations inside this package.
type Transaction interface {
	// Header exposes the common fields.
	Header() *TransactionHeader
	// Size is the exact serialized byte length, computable without signing.
	Size() int
	// Serialize produces the canonical top level byte buffer with zero
	// filled signature and signer placeholders until signed.
	Serialize() ([]byte, error)
	// SerializeEmbedded produces the header light record used inside an
	// aggregate's inner transaction list.
	SerializeEmbedded() ([]byte, error)
	// ResolveAliases returns a copy with every alias capable field replaced
	// by its concrete value according to the statement.
	ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error)
	// ShouldNotifyAccount reports whether the address participates in the
	// transaction, directly or through one of the given aliases.
	ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool

	bodySize() int
	writeBody(writer *codec.Writer) error
	clone() Transaction
}

// Header returns the shared fields; it is the single implementation every
// kind inherits by embedding TransactionHeader.
func (h *TransactionHeader) Header() *TransactionHeader {
	return h
}

// SignedBy reports whether the transaction's top level signer is the given
// account.
func (h *TransactionHeader) SignedBy(account *model.PublicAccount) bool {
	return h.Signer != nil && h.Signer.Equal(account)
}

// resolutionSource derives the receipt lookup coordinate. The chain indexes
// receipt sources from 1; 0 denotes the block itself.
func (h *TransactionHeader) resolutionSource(aggregateIndex uint32) (uint64, receipt.Source, error) {
	if h.Info == nil {
		return 0, receipt.Source{}, ErrMissingTransactionInfo
	}
	return h.Info.Height, receipt.Source{Primary: h.Info.Index + 1, Secondary: aggregateIndex}, nil
}

func (h *TransactionHeader) signerNotified(address model.Address) bool {
	return h.Signer != nil && h.Signer.Address.Equal(address)
}

// versionValue packs version and network into the wire uint16. Invariant:
// the low byte always equals the network type.
func (h *TransactionHeader) versionValue() uint16 {
	return uint16(h.Version)<<8 | uint16(h.Network)
}

func serialize(tx Transaction) ([]byte, error) {
	header := tx.Header()
	size := tx.Size()
	writer := codec.NewWriterSize(size)
	writer.WriteUInt32(uint32(size))
	if err := writeFixed(writer, header.Signature, crypto.EdSignatureLength, "signature"); err != nil {
		return nil, err
	}
	signerKey := codec.Hex(nil)
	if header.Signer != nil {
		signerKey = header.Signer.PublicKey
	}
	if err := writeFixed(writer, signerKey, crypto.EdPublicKeyLength, "signer public key"); err != nil {
		return nil, err
	}
	writer.WriteUInt16(header.versionValue())
	writer.WriteUInt16(uint16(header.Type))
	writer.WriteUInt64(header.MaxFee)
	writer.WriteUInt64(header.Deadline.Value)
	if err := tx.writeBody(writer); err != nil {
		return nil, err
	}
	if writer.Size() != size {
		return nil, fmt.Errorf("%w: serialized %d bytes for a declared size of %d", codec.ErrInvalidData, writer.Size(), size)
	}
	return writer.Result(), nil
}

func serializeEmbedded(tx Transaction) ([]byte, error) {
	header := tx.Header()
	if header.Type.IsAggregate() {
		return nil, ErrCannotEmbed
	}
	size := tx.Size() - EmbeddedHeaderDelta
	writer := codec.NewWriterSize(size)
	writer.WriteUInt32(uint32(size))
	signerKey := codec.Hex(nil)
	if header.Signer != nil {
		signerKey = header.Signer.PublicKey
	}
	if err := writeFixed(writer, signerKey, crypto.EdPublicKeyLength, "signer public key"); err != nil {
		return nil, err
	}
	writer.WriteUInt16(header.versionValue())
	writer.WriteUInt16(uint16(header.Type))
	if err := tx.writeBody(writer); err != nil {
		return nil, err
	}
	if writer.Size() != size {
		return nil, fmt.Errorf("%w: serialized %d bytes for a declared embedded size of %d", codec.ErrInvalidData, writer.Size(), size)
	}
	return writer.Result(), nil
}

// writeFixed writes a fixed width field, zero filling when the value is
// absent (the pre-signing placeholder form).
func writeFixed(writer *codec.Writer, value []byte, width int, name string) error {
	if value == nil {
		writer.WriteZeros(width)
		return nil
	}
	if len(value) != width {
		return fmt.Errorf("%w: %s must have length of %d but received %d", codec.ErrInvalidArgument, name, width, len(value))
	}
	writer.WriteBytes(value)
	return nil
}

func isZeroFilled(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
