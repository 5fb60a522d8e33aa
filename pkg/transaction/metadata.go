package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// MaxMetadataValueSize is the largest value a metadata entry may carry.
const MaxMetadataValueSize = 1024

func validateMetadataValue(value []byte) error {
	if len(value) > MaxMetadataValueSize {
		return fmt.Errorf("%w: metadata value must not exceed %d bytes but received %d", codec.ErrInvalidArgument, MaxMetadataValueSize, len(value))
	}
	return nil
}

// AccountMetadataTransaction attaches a keyed value to an account. The value
// on the wire is the xor delta against the current value; the size delta
// records how the stored length changes.
type AccountMetadataTransaction struct {
	TransactionHeader
	TargetAddress     model.UnresolvedAddress
	ScopedMetadataKey uint64
	ValueSizeDelta    int16
	Value             codec.Hex
}

// NewAccountMetadataTransaction creates an account metadata update.
func NewAccountMetadataTransaction(
	target model.UnresolvedAddress,
	scopedMetadataKey uint64,
	valueSizeDelta int16,
	value codec.Hex,
	deadline model.Deadline,
	network model.NetworkType,
) (*AccountMetadataTransaction, error) {
	if err := validateMetadataValue(value); err != nil {
		return nil, err
	}
	return &AccountMetadataTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAccountMetadata, Version: 1, Network: network, Deadline: deadline},
		TargetAddress:     target,
		ScopedMetadataKey: scopedMetadataKey,
		ValueSizeDelta:    valueSizeDelta,
		Value:             value,
	}, nil
}

func (tx *AccountMetadataTransaction) bodySize() int {
	return model.AddressSize + 8 + 2 + 2 + len(tx.Value)
}

func (tx *AccountMetadataTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AccountMetadataTransaction) writeBody(writer *codec.Writer) error {
	target, err := model.EncodeUnresolvedAddress(tx.TargetAddress, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(target)
	writer.WriteUInt64(tx.ScopedMetadataKey)
	writer.WriteUInt16(uint16(tx.ValueSizeDelta))
	writer.WriteUInt16(uint16(len(tx.Value)))
	writer.WriteBytes(tx.Value)
	return nil
}

func parseAccountMetadataBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	targetBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	target, err := model.DecodeUnresolvedAddress(targetBytes)
	if err != nil {
		return nil, err
	}
	key, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	delta, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	valueSize, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	value, err := reader.ReadBytes(int(valueSize))
	if err != nil {
		return nil, err
	}
	return &AccountMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		ValueSizeDelta:    int16(delta),
		Value:             value,
	}, nil
}

func (tx *AccountMetadataTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AccountMetadataTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AccountMetadataTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *AccountMetadataTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	target, err := statement.ResolveAddress(tx.TargetAddress, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.TargetAddress = target
	return &copied, nil
}

func (tx *AccountMetadataTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch target := tx.TargetAddress.(type) {
	case model.Address:
		return target.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == target {
				return true
			}
		}
	}
	return false
}

// MosaicMetadataTransaction attaches a keyed value to a mosaic.
type MosaicMetadataTransaction struct {
	TransactionHeader
	TargetAddress     model.UnresolvedAddress
	ScopedMetadataKey uint64
	TargetMosaicID    model.UnresolvedMosaicID
	ValueSizeDelta    int16
	Value             codec.Hex
}

// NewMosaicMetadataTransaction creates a mosaic metadata update.
func NewMosaicMetadataTransaction(
	target model.UnresolvedAddress,
	scopedMetadataKey uint64,
	targetMosaicID model.UnresolvedMosaicID,
	valueSizeDelta int16,
	value codec.Hex,
	deadline model.Deadline,
	network model.NetworkType,
) (*MosaicMetadataTransaction, error) {
	if err := validateMetadataValue(value); err != nil {
		return nil, err
	}
	return &MosaicMetadataTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMosaicMetadata, Version: 1, Network: network, Deadline: deadline},
		TargetAddress:     target,
		ScopedMetadataKey: scopedMetadataKey,
		TargetMosaicID:    targetMosaicID,
		ValueSizeDelta:    valueSizeDelta,
		Value:             value,
	}, nil
}

func (tx *MosaicMetadataTransaction) bodySize() int {
	return model.AddressSize + 8 + 8 + 2 + 2 + len(tx.Value)
}

func (tx *MosaicMetadataTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicMetadataTransaction) writeBody(writer *codec.Writer) error {
	target, err := model.EncodeUnresolvedAddress(tx.TargetAddress, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(target)
	writer.WriteUInt64(tx.ScopedMetadataKey)
	writer.WriteUInt64(tx.TargetMosaicID.ID())
	writer.WriteUInt16(uint16(tx.ValueSizeDelta))
	writer.WriteUInt16(uint16(len(tx.Value)))
	writer.WriteBytes(tx.Value)
	return nil
}

func parseMosaicMetadataBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	targetBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	target, err := model.DecodeUnresolvedAddress(targetBytes)
	if err != nil {
		return nil, err
	}
	key, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	delta, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	valueSize, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	value, err := reader.ReadBytes(int(valueSize))
	if err != nil {
		return nil, err
	}
	return &MosaicMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		TargetMosaicID:    model.DecodeUnresolvedMosaicID(id),
		ValueSizeDelta:    int16(delta),
		Value:             value,
	}, nil
}

func (tx *MosaicMetadataTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicMetadataTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicMetadataTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *MosaicMetadataTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	target, err := statement.ResolveAddress(tx.TargetAddress, height, source)
	if err != nil {
		return nil, err
	}
	id, err := statement.ResolveMosaicID(tx.TargetMosaicID, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.TargetAddress = target
	copied.TargetMosaicID = id
	return &copied, nil
}

func (tx *MosaicMetadataTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch target := tx.TargetAddress.(type) {
	case model.Address:
		return target.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == target {
				return true
			}
		}
	}
	return false
}

// NamespaceMetadataTransaction attaches a keyed value to a namespace.
type NamespaceMetadataTransaction struct {
	TransactionHeader
	TargetAddress     model.UnresolvedAddress
	ScopedMetadataKey uint64
	TargetNamespaceID model.NamespaceID
	ValueSizeDelta    int16
	Value             codec.Hex
}

// NewNamespaceMetadataTransaction creates a namespace metadata update.
func NewNamespaceMetadataTransaction(
	target model.UnresolvedAddress,
	scopedMetadataKey uint64,
	targetNamespaceID model.NamespaceID,
	valueSizeDelta int16,
	value codec.Hex,
	deadline model.Deadline,
	network model.NetworkType,
) (*NamespaceMetadataTransaction, error) {
	if err := validateMetadataValue(value); err != nil {
		return nil, err
	}
	return &NamespaceMetadataTransaction{
		TransactionHeader: TransactionHeader{Type: TypeNamespaceMetadata, Version: 1, Network: network, Deadline: deadline},
		TargetAddress:     target,
		ScopedMetadataKey: scopedMetadataKey,
		TargetNamespaceID: targetNamespaceID,
		ValueSizeDelta:    valueSizeDelta,
		Value:             value,
	}, nil
}

func (tx *NamespaceMetadataTransaction) bodySize() int {
	return model.AddressSize + 8 + 8 + 2 + 2 + len(tx.Value)
}

func (tx *NamespaceMetadataTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *NamespaceMetadataTransaction) writeBody(writer *codec.Writer) error {
	target, err := model.EncodeUnresolvedAddress(tx.TargetAddress, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(target)
	writer.WriteUInt64(tx.ScopedMetadataKey)
	writer.WriteUInt64(tx.TargetNamespaceID.ID())
	writer.WriteUInt16(uint16(tx.ValueSizeDelta))
	writer.WriteUInt16(uint16(len(tx.Value)))
	writer.WriteBytes(tx.Value)
	return nil
}

func parseNamespaceMetadataBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	targetBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	target, err := model.DecodeUnresolvedAddress(targetBytes)
	if err != nil {
		return nil, err
	}
	key, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	delta, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	valueSize, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	value, err := reader.ReadBytes(int(valueSize))
	if err != nil {
		return nil, err
	}
	return &NamespaceMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		TargetNamespaceID: model.NamespaceID(id),
		ValueSizeDelta:    int16(delta),
		Value:             value,
	}, nil
}

func (tx *NamespaceMetadataTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *NamespaceMetadataTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *NamespaceMetadataTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *NamespaceMetadataTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	target, err := statement.ResolveAddress(tx.TargetAddress, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.TargetAddress = target
	return &copied, nil
}

func (tx *NamespaceMetadataTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch target := tx.TargetAddress.(type) {
	case model.Address:
		return target.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == target {
				return true
			}
		}
	}
	return false
}
