package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// LockHashAlgorithm selects the hash a secret lock's proof is verified with.
type LockHashAlgorithm uint8

const (
	LockHashSha3256   LockHashAlgorithm = 0
	LockHashKeccak256 LockHashAlgorithm = 1
	LockHashHash160   LockHashAlgorithm = 2
	LockHashHash256   LockHashAlgorithm = 3
)

// secretWireSize is the fixed on-wire width of a secret; shorter digests are
// zero padded on the right.
const secretWireSize = 32

// SecretLength returns the digest byte length the algorithm produces.
func (a LockHashAlgorithm) SecretLength() (int, error) {
	switch a {
	case LockHashSha3256, LockHashKeccak256, LockHashHash256:
		return 32, nil
	case LockHashHash160:
		return 20, nil
	}
	return 0, fmt.Errorf("%w: unknown lock hash algorithm %d", codec.ErrInvalidArgument, a)
}

// Apply hashes a proof with the algorithm.
func (a LockHashAlgorithm) Apply(proof []byte) ([]byte, error) {
	switch a {
	case LockHashSha3256:
		return crypto.Sha3256(proof), nil
	case LockHashKeccak256:
		return crypto.Keccak256(proof), nil
	case LockHashHash160:
		return crypto.Hash160(proof), nil
	case LockHashHash256:
		return crypto.Hash256(proof), nil
	}
	return nil, fmt.Errorf("%w: unknown lock hash algorithm %d", codec.ErrInvalidArgument, a)
}

func validateSecret(secret []byte, algorithm LockHashAlgorithm) error {
	expected, err := algorithm.SecretLength()
	if err != nil {
		return err
	}
	if len(secret) != expected {
		return fmt.Errorf("%w: secret for algorithm %d must have length of %d but received %d", codec.ErrInvalidArgument, algorithm, expected, len(secret))
	}
	return nil
}

func padSecret(secret []byte) []byte {
	padded := make([]byte, secretWireSize)
	copy(padded, secret)
	return padded
}

// HashLockTransaction locks funds to pay for the eventual confirmation of a
// bonded aggregate. It references the signed aggregate by hash.
type HashLockTransaction struct {
	TransactionHeader
	Mosaic   model.Mosaic
	Duration uint64
	Hash     codec.Hex
}

// NewHashLockTransaction locks the deposit for a signed bonded aggregate.
// The signed transaction must be of the aggregate bonded type.
func NewHashLockTransaction(
	mosaic model.Mosaic,
	duration uint64,
	signed *SignedTransaction,
	deadline model.Deadline,
	network model.NetworkType,
) (*HashLockTransaction, error) {
	if signed.Type != TypeAggregateBonded {
		return nil, fmt.Errorf("%w: hash lock requires an aggregate bonded transaction but received %s", codec.ErrInvalidArgument, signed.Type)
	}
	if len(signed.Hash) != crypto.HashLength {
		return nil, fmt.Errorf("%w: hash must have length of %d but received %d", codec.ErrInvalidArgument, crypto.HashLength, len(signed.Hash))
	}
	return &HashLockTransaction{
		TransactionHeader: TransactionHeader{Type: TypeHashLock, Version: 1, Network: network, Deadline: deadline},
		Mosaic:            mosaic,
		Duration:          duration,
		Hash:              signed.Hash,
	}, nil
}

func (tx *HashLockTransaction) bodySize() int {
	return model.MosaicEntrySize + 8 + crypto.HashLength
}

func (tx *HashLockTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *HashLockTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(tx.Mosaic.ID.ID())
	writer.WriteUInt64(tx.Mosaic.Amount)
	writer.WriteUInt64(tx.Duration)
	writer.WriteBytes(tx.Hash)
	return nil
}

func parseHashLockBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	amount, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	duration, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	hash, err := reader.ReadBytes(crypto.HashLength)
	if err != nil {
		return nil, err
	}
	return &HashLockTransaction{
		TransactionHeader: header,
		Mosaic:            model.NewMosaic(model.DecodeUnresolvedMosaicID(id), amount),
		Duration:          duration,
		Hash:              hash,
	}, nil
}

func (tx *HashLockTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *HashLockTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *HashLockTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *HashLockTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	mosaic, err := statement.ResolveMosaic(tx.Mosaic, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.Mosaic = mosaic
	return &copied, nil
}

func (tx *HashLockTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// SecretLockTransaction locks a mosaic for a recipient who must present the
// preimage of the secret before the duration elapses.
type SecretLockTransaction struct {
	TransactionHeader
	Recipient     model.UnresolvedAddress
	Secret        codec.Hex // unpadded digest bytes
	Mosaic        model.Mosaic
	Duration      uint64
	HashAlgorithm LockHashAlgorithm
}

// NewSecretLockTransaction creates a secret lock. The secret's length must
// match the digest width of the chosen algorithm.
func NewSecretLockTransaction(
	mosaic model.Mosaic,
	duration uint64,
	algorithm LockHashAlgorithm,
	secret codec.Hex,
	recipient model.UnresolvedAddress,
	deadline model.Deadline,
	network model.NetworkType,
) (*SecretLockTransaction, error) {
	if err := validateSecret(secret, algorithm); err != nil {
		return nil, err
	}
	return &SecretLockTransaction{
		TransactionHeader: TransactionHeader{Type: TypeSecretLock, Version: 1, Network: network, Deadline: deadline},
		Recipient:         recipient,
		Secret:            secret,
		Mosaic:            mosaic,
		Duration:          duration,
		HashAlgorithm:     algorithm,
	}, nil
}

func (tx *SecretLockTransaction) bodySize() int {
	return model.AddressSize + secretWireSize + model.MosaicEntrySize + 8 + 1
}

func (tx *SecretLockTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *SecretLockTransaction) writeBody(writer *codec.Writer) error {
	recipient, err := model.EncodeUnresolvedAddress(tx.Recipient, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(recipient)
	writer.WriteBytes(padSecret(tx.Secret))
	writer.WriteUInt64(tx.Mosaic.ID.ID())
	writer.WriteUInt64(tx.Mosaic.Amount)
	writer.WriteUInt64(tx.Duration)
	writer.WriteUInt8(uint8(tx.HashAlgorithm))
	return nil
}

func parseSecretLockBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	recipientBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	recipient, err := model.DecodeUnresolvedAddress(recipientBytes)
	if err != nil {
		return nil, err
	}
	secret, err := reader.ReadBytes(secretWireSize)
	if err != nil {
		return nil, err
	}
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	amount, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	duration, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	algorithm, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	length, err := LockHashAlgorithm(algorithm).SecretLength()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
	}
	return &SecretLockTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Secret:            secret[:length],
		Mosaic:            model.NewMosaic(model.DecodeUnresolvedMosaicID(id), amount),
		Duration:          duration,
		HashAlgorithm:     LockHashAlgorithm(algorithm),
	}, nil
}

func (tx *SecretLockTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *SecretLockTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *SecretLockTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *SecretLockTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	recipient, err := statement.ResolveAddress(tx.Recipient, height, source)
	if err != nil {
		return nil, err
	}
	mosaic, err := statement.ResolveMosaic(tx.Mosaic, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.Recipient = recipient
	copied.Mosaic = mosaic
	return &copied, nil
}

func (tx *SecretLockTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch recipient := tx.Recipient.(type) {
	case model.Address:
		return recipient.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == recipient {
				return true
			}
		}
	}
	return false
}

// SecretProofTransaction reveals the preimage unlocking a secret lock.
type SecretProofTransaction struct {
	TransactionHeader
	Recipient     model.UnresolvedAddress
	Secret        codec.Hex
	HashAlgorithm LockHashAlgorithm
	Proof         codec.Hex
}

// NewSecretProofTransaction creates a secret proof.
func NewSecretProofTransaction(
	algorithm LockHashAlgorithm,
	secret codec.Hex,
	recipient model.UnresolvedAddress,
	proof codec.Hex,
	deadline model.Deadline,
	network model.NetworkType,
) (*SecretProofTransaction, error) {
	if err := validateSecret(secret, algorithm); err != nil {
		return nil, err
	}
	return &SecretProofTransaction{
		TransactionHeader: TransactionHeader{Type: TypeSecretProof, Version: 1, Network: network, Deadline: deadline},
		Recipient:         recipient,
		Secret:            secret,
		HashAlgorithm:     algorithm,
		Proof:             proof,
	}, nil
}

func (tx *SecretProofTransaction) bodySize() int {
	return model.AddressSize + secretWireSize + 1 + 2 + len(tx.Proof)
}

func (tx *SecretProofTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *SecretProofTransaction) writeBody(writer *codec.Writer) error {
	recipient, err := model.EncodeUnresolvedAddress(tx.Recipient, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(recipient)
	writer.WriteBytes(padSecret(tx.Secret))
	writer.WriteUInt8(uint8(tx.HashAlgorithm))
	writer.WriteUInt16(uint16(len(tx.Proof)))
	writer.WriteBytes(tx.Proof)
	return nil
}

func parseSecretProofBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	recipientBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	recipient, err := model.DecodeUnresolvedAddress(recipientBytes)
	if err != nil {
		return nil, err
	}
	secret, err := reader.ReadBytes(secretWireSize)
	if err != nil {
		return nil, err
	}
	algorithm, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	proofSize, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	proof, err := reader.ReadBytes(int(proofSize))
	if err != nil {
		return nil, err
	}
	length, err := LockHashAlgorithm(algorithm).SecretLength()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
	}
	return &SecretProofTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Secret:            secret[:length],
		HashAlgorithm:     LockHashAlgorithm(algorithm),
		Proof:             proof,
	}, nil
}

func (tx *SecretProofTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *SecretProofTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *SecretProofTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *SecretProofTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	recipient, err := statement.ResolveAddress(tx.Recipient, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.Recipient = recipient
	return &copied, nil
}

func (tx *SecretProofTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch recipient := tx.Recipient.(type) {
	case model.Address:
		return recipient.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == recipient {
				return true
			}
		}
	}
	return false
}
