// Package dto maps the JSON wire objects served by catapult REST and
// websocket endpoints to and from the typed transaction catalog. Amounts and
// other 64 bit quantities travel as decimal or hex strings and are never
// routed through a float.
package dto

import (
	"encoding/json"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

// Meta is the confirmation envelope of a transaction returned by the chain.
type Meta struct {
	Height codec.UInt64Str `json:"height"`
	Index  uint32          `json:"index"`
	Hash   codec.Hex       `json:"hash,omitempty"`
}

// Wrapper is the outer object: the transaction body plus, for confirmed
// transactions, its meta.
type Wrapper struct {
	Meta        *Meta `json:"meta,omitempty"`
	Transaction Body  `json:"transaction"`
}

// Mosaic is the (id, amount) pair in its JSON form: hex id, decimal amount.
type Mosaic struct {
	ID     string          `json:"id"`
	Amount codec.UInt64Str `json:"amount"`
}

// CosignatureBody is one attached cosignature.
type CosignatureBody struct {
	SignerPublicKey codec.Hex `json:"signerPublicKey"`
	Signature       codec.Hex `json:"signature"`
}

// Body is the union of every kind's JSON fields; the type code decides which
// are populated. Unused fields stay absent through omitempty.
type Body struct {
	Signature       codec.Hex        `json:"signature,omitempty"`
	SignerPublicKey codec.Hex        `json:"signerPublicKey,omitempty"`
	Version         uint8            `json:"version"`
	Network         uint8            `json:"network"`
	Type            uint16           `json:"type"`
	MaxFee          *codec.UInt64Str `json:"maxFee,omitempty"`
	Deadline        *codec.UInt64Str `json:"deadline,omitempty"`

	RecipientAddress codec.Hex `json:"recipientAddress,omitempty"`
	Mosaics          []Mosaic  `json:"mosaics,omitempty"`
	Message          codec.Hex `json:"message,omitempty"`

	Duration         *codec.UInt64Str `json:"duration,omitempty"`
	ParentID         string           `json:"parentId,omitempty"`
	ID               string           `json:"id,omitempty"`
	RegistrationType *uint8           `json:"registrationType,omitempty"`
	Name             string           `json:"name,omitempty"`
	NamespaceID      string           `json:"namespaceId,omitempty"`
	Address          codec.Hex        `json:"address,omitempty"`
	AliasAction      *uint8           `json:"aliasAction,omitempty"`
	MosaicID         string           `json:"mosaicId,omitempty"`

	Nonce        *uint32          `json:"nonce,omitempty"`
	Flags        *uint8           `json:"flags,omitempty"`
	Divisibility *uint8           `json:"divisibility,omitempty"`
	Action       *uint8           `json:"action,omitempty"`
	Delta        *codec.UInt64Str `json:"delta,omitempty"`

	MinRemovalDelta  *int8       `json:"minRemovalDelta,omitempty"`
	MinApprovalDelta *int8       `json:"minApprovalDelta,omitempty"`
	AddressAdditions []codec.Hex `json:"addressAdditions,omitempty"`
	AddressDeletions []codec.Hex `json:"addressDeletions,omitempty"`

	Transactions []Wrapper         `json:"transactions,omitempty"`
	Cosignatures []CosignatureBody `json:"cosignatures,omitempty"`

	Amount        *codec.UInt64Str `json:"amount,omitempty"`
	Hash          codec.Hex        `json:"hash,omitempty"`
	Secret        codec.Hex        `json:"secret,omitempty"`
	HashAlgorithm *uint8           `json:"hashAlgorithm,omitempty"`
	Proof         codec.Hex        `json:"proof,omitempty"`

	RestrictionFlags     *uint16           `json:"restrictionFlags,omitempty"`
	RestrictionAdditions []json.RawMessage `json:"restrictionAdditions,omitempty"`
	RestrictionDeletions []json.RawMessage `json:"restrictionDeletions,omitempty"`

	RestrictionKey           string           `json:"restrictionKey,omitempty"`
	PreviousRestrictionValue *codec.UInt64Str `json:"previousRestrictionValue,omitempty"`
	NewRestrictionValue      *codec.UInt64Str `json:"newRestrictionValue,omitempty"`
	PreviousRestrictionType  *uint8           `json:"previousRestrictionType,omitempty"`
	NewRestrictionType       *uint8           `json:"newRestrictionType,omitempty"`
	ReferenceMosaicID        string           `json:"referenceMosaicId,omitempty"`
	TargetAddress            codec.Hex        `json:"targetAddress,omitempty"`

	ScopedMetadataKey string    `json:"scopedMetadataKey,omitempty"`
	TargetMosaicID    string    `json:"targetMosaicId,omitempty"`
	TargetNamespaceID string    `json:"targetNamespaceId,omitempty"`
	ValueSizeDelta    *int16    `json:"valueSizeDelta,omitempty"`
	ValueSize         *uint16   `json:"valueSize,omitempty"`
	Value             codec.Hex `json:"value,omitempty"`

	LinkedPublicKey codec.Hex `json:"linkedPublicKey,omitempty"`
	LinkAction      *uint8    `json:"linkAction,omitempty"`
	StartEpoch      *uint32   `json:"startEpoch,omitempty"`
	EndEpoch        *uint32   `json:"endEpoch,omitempty"`
}

// FromJSON maps one wrapped transaction object to its typed form.
func FromJSON(data []byte) (transaction.Transaction, error) {
	wrapper := Wrapper{}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
	}
	return MapTransaction(&wrapper)
}

// ToJSON maps a typed transaction back to its wrapped JSON object.
func ToJSON(tx transaction.Transaction) ([]byte, error) {
	wrapper, err := MapToWrapper(tx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wrapper)
}

// MapTransaction converts a decoded wrapper to a typed transaction.
func MapTransaction(wrapper *Wrapper) (transaction.Transaction, error) {
	body := &wrapper.Transaction
	txType, err := transaction.TransactionTypeFromValue(body.Type)
	if err != nil {
		return nil, err
	}
	network, err := model.NetworkTypeFromValue(body.Network)
	if err != nil {
		return nil, err
	}
	header := transaction.TransactionHeader{
		Type:      txType,
		Version:   body.Version,
		Network:   network,
		Signature: body.Signature,
	}
	if body.MaxFee != nil {
		header.MaxFee = uint64(*body.MaxFee)
	}
	if body.Deadline != nil {
		header.Deadline = model.NewDeadlineFromValue(uint64(*body.Deadline))
	}
	if len(body.SignerPublicKey) > 0 {
		if header.Signer, err = model.NewPublicAccount(body.SignerPublicKey, network); err != nil {
			return nil, err
		}
	}
	if wrapper.Meta != nil {
		header.Info = &transaction.TransactionInfo{
			Height: uint64(wrapper.Meta.Height),
			Index:  wrapper.Meta.Index,
			Hash:   wrapper.Meta.Hash,
		}
	}
	mapper, exist := bodyMappers[txType]
	if !exist {
		return nil, fmt.Errorf("%w: 0x%04X", transaction.ErrUnknownTransactionType, body.Type)
	}
	return mapper(body, header)
}

// MapToWrapper converts a typed transaction to its wrapper form.
func MapToWrapper(tx transaction.Transaction) (*Wrapper, error) {
	header := tx.Header()
	body := Body{
		Signature: header.Signature,
		Version:   header.Version,
		Network:   uint8(header.Network),
		Type:      uint16(header.Type),
	}
	maxFee := codec.UInt64Str(header.MaxFee)
	deadline := codec.UInt64Str(header.Deadline.Value)
	body.MaxFee = &maxFee
	body.Deadline = &deadline
	if header.Signer != nil {
		body.SignerPublicKey = header.Signer.PublicKey
	}
	if err := fillBody(tx, &body); err != nil {
		return nil, err
	}
	wrapper := &Wrapper{Transaction: body}
	if header.Info != nil {
		wrapper.Meta = &Meta{
			Height: codec.UInt64Str(header.Info.Height),
			Index:  header.Info.Index,
			Hash:   header.Info.Hash,
		}
	}
	return wrapper, nil
}

func unresolvedAddressToJSON(unresolved model.UnresolvedAddress, network model.NetworkType) (codec.Hex, error) {
	encoded, err := model.EncodeUnresolvedAddress(unresolved, network)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func unresolvedAddressFromJSON(value codec.Hex) (model.UnresolvedAddress, error) {
	return model.DecodeUnresolvedAddress(value)
}

func unresolvedMosaicIDToJSON(id model.UnresolvedMosaicID) string {
	return codec.Uint64ToHex(id.ID())
}

func unresolvedMosaicIDFromJSON(value string) (model.UnresolvedMosaicID, error) {
	raw, err := codec.Uint64FromHex(value)
	if err != nil {
		return nil, err
	}
	return model.DecodeUnresolvedMosaicID(raw), nil
}
