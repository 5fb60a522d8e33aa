package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// MosaicFlags packs the properties of a mosaic definition.
type MosaicFlags uint8

const (
	MosaicFlagNone          MosaicFlags = 0
	MosaicFlagSupplyMutable MosaicFlags = 1 << 0
	MosaicFlagTransferable  MosaicFlags = 1 << 1
	MosaicFlagRestrictable  MosaicFlags = 1 << 2
)

// MosaicSupplyChangeAction increases or decreases circulating supply.
type MosaicSupplyChangeAction uint8

const (
	MosaicSupplyDecrease MosaicSupplyChangeAction = 0
	MosaicSupplyIncrease MosaicSupplyChangeAction = 1
)

const maxMosaicDivisibility = 6

// MosaicDefinitionTransaction creates a new mosaic. The id is derived from
// the nonce and the owner's address and validated by the chain.
type MosaicDefinitionTransaction struct {
	TransactionHeader
	ID           model.MosaicID
	Duration     uint64
	Nonce        uint32
	Flags        MosaicFlags
	Divisibility uint8
}

// NewMosaicDefinitionTransaction creates a mosaic definition. A zero
// duration means the mosaic never expires.
func NewMosaicDefinitionTransaction(
	nonce uint32,
	owner model.Address,
	flags MosaicFlags,
	divisibility uint8,
	duration uint64,
	deadline model.Deadline,
	network model.NetworkType,
) (*MosaicDefinitionTransaction, error) {
	if divisibility > maxMosaicDivisibility {
		return nil, fmt.Errorf("%w: divisibility must be at most %d but received %d", codec.ErrInvalidArgument, maxMosaicDivisibility, divisibility)
	}
	return &MosaicDefinitionTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMosaicDefinition, Version: 1, Network: network, Deadline: deadline},
		ID:                model.NewMosaicIDFromNonce(nonce, owner),
		Duration:          duration,
		Nonce:             nonce,
		Flags:             flags,
		Divisibility:      divisibility,
	}, nil
}

func (tx *MosaicDefinitionTransaction) bodySize() int {
	return 8 + 8 + 4 + 1 + 1
}

func (tx *MosaicDefinitionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicDefinitionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(uint64(tx.ID))
	writer.WriteUInt64(tx.Duration)
	writer.WriteUInt32(tx.Nonce)
	writer.WriteUInt8(uint8(tx.Flags))
	writer.WriteUInt8(tx.Divisibility)
	return nil
}

func parseMosaicDefinitionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	duration, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	nonce, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	flags, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	divisibility, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	return &MosaicDefinitionTransaction{
		TransactionHeader: header,
		ID:                model.MosaicID(id),
		Duration:          duration,
		Nonce:             nonce,
		Flags:             MosaicFlags(flags),
		Divisibility:      divisibility,
	}, nil
}

func (tx *MosaicDefinitionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicDefinitionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicDefinitionTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *MosaicDefinitionTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *MosaicDefinitionTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// MosaicSupplyChangeTransaction mints or burns supply of an owned mosaic.
// The mosaic may be referenced through an alias.
type MosaicSupplyChangeTransaction struct {
	TransactionHeader
	MosaicID model.UnresolvedMosaicID
	Delta    uint64
	Action   MosaicSupplyChangeAction
}

// NewMosaicSupplyChangeTransaction creates a supply change.
func NewMosaicSupplyChangeTransaction(
	mosaicID model.UnresolvedMosaicID,
	action MosaicSupplyChangeAction,
	delta uint64,
	deadline model.Deadline,
	network model.NetworkType,
) *MosaicSupplyChangeTransaction {
	return &MosaicSupplyChangeTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMosaicSupplyChange, Version: 1, Network: network, Deadline: deadline},
		MosaicID:          mosaicID,
		Delta:             delta,
		Action:            action,
	}
}

func (tx *MosaicSupplyChangeTransaction) bodySize() int {
	return 8 + 8 + 1
}

func (tx *MosaicSupplyChangeTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicSupplyChangeTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(tx.MosaicID.ID())
	writer.WriteUInt64(tx.Delta)
	writer.WriteUInt8(uint8(tx.Action))
	return nil
}

func parseMosaicSupplyChangeBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	delta, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	action, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	if action > uint8(MosaicSupplyIncrease) {
		return nil, fmt.Errorf("%w: unknown supply change action %d", codec.ErrInvalidData, action)
	}
	return &MosaicSupplyChangeTransaction{
		TransactionHeader: header,
		MosaicID:          model.DecodeUnresolvedMosaicID(id),
		Delta:             delta,
		Action:            MosaicSupplyChangeAction(action),
	}, nil
}

func (tx *MosaicSupplyChangeTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicSupplyChangeTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicSupplyChangeTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

// ResolveAliases resolves the mosaic id when it is an alias.
func (tx *MosaicSupplyChangeTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	resolved, err := statement.ResolveMosaicID(tx.MosaicID, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.MosaicID = resolved
	return &copied, nil
}

func (tx *MosaicSupplyChangeTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}
