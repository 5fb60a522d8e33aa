package transaction

import (
	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// TransferTransaction moves mosaics and an optional message to a recipient.
// The recipient may be a namespace alias until resolved.
type TransferTransaction struct {
	TransactionHeader
	Recipient model.UnresolvedAddress
	Mosaics   []model.Mosaic
	Message   model.Message
}

// NewTransferTransaction creates an immutable transfer. Mosaics are stored in
// canonical id ascending order; maxFee defaults to zero.
func NewTransferTransaction(
	recipient model.UnresolvedAddress,
	mosaics []model.Mosaic,
	message model.Message,
	deadline model.Deadline,
	network model.NetworkType,
) *TransferTransaction {
	return &TransferTransaction{
		TransactionHeader: TransactionHeader{
			Type:     TypeTransfer,
			Version:  1,
			Network:  network,
			Deadline: deadline,
		},
		Recipient: recipient,
		Mosaics:   model.SortMosaics(mosaics),
		Message:   message,
	}
}

func (tx *TransferTransaction) bodySize() int {
	return model.AddressSize + 2 + 1 + tx.Message.Size() + model.MosaicEntrySize*len(tx.Mosaics)
}

// Size returns the full serialized byte length.
func (tx *TransferTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *TransferTransaction) writeBody(writer *codec.Writer) error {
	recipient, err := model.EncodeUnresolvedAddress(tx.Recipient, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(recipient)
	writer.WriteUInt16(uint16(tx.Message.Size()))
	writer.WriteUInt8(uint8(len(tx.Mosaics)))
	writer.WriteBytes(tx.Message.Bytes())
	for _, mosaic := range tx.Mosaics {
		writer.WriteUInt64(mosaic.ID.ID())
		writer.WriteUInt64(mosaic.Amount)
	}
	return nil
}

func parseTransferBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	recipientBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	recipient, err := model.DecodeUnresolvedAddress(recipientBytes)
	if err != nil {
		return nil, err
	}
	messageSize, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	mosaicsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	messageBytes, err := reader.ReadBytes(int(messageSize))
	if err != nil {
		return nil, err
	}
	message, err := model.NewRawMessage(messageBytes)
	if err != nil {
		return nil, err
	}
	mosaics := make([]model.Mosaic, mosaicsCount)
	for i := range mosaics {
		id, err := reader.ReadUInt64()
		if err != nil {
			return nil, err
		}
		amount, err := reader.ReadUInt64()
		if err != nil {
			return nil, err
		}
		mosaics[i] = model.NewMosaic(model.DecodeUnresolvedMosaicID(id), amount)
	}
	return &TransferTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Mosaics:           mosaics,
		Message:           message,
	}, nil
}

// Serialize produces the canonical top level byte buffer.
func (tx *TransferTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

// SerializeEmbedded produces the aggregate inner record form.
func (tx *TransferTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *TransferTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

// ResolveAliases replaces the recipient and every mosaic alias with the
// concrete values in effect at this transaction's block coordinate.
func (tx *TransferTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	recipient, err := statement.ResolveAddress(tx.Recipient, height, source)
	if err != nil {
		return nil, err
	}
	mosaics := make([]model.Mosaic, len(tx.Mosaics))
	for i, mosaic := range tx.Mosaics {
		if mosaics[i], err = statement.ResolveMosaic(mosaic, height, source); err != nil {
			return nil, err
		}
	}
	copied := *tx
	copied.Recipient = recipient
	copied.Mosaics = mosaics
	return &copied, nil
}

// ShouldNotifyAccount reports whether the address is the signer, the
// recipient, or aliased to the recipient by one of the given namespace ids.
func (tx *TransferTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
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
