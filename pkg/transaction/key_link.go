package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// LinkAction attaches or removes a linked key.
type LinkAction uint8

const (
	LinkActionUnlink LinkAction = 0
	LinkActionLink   LinkAction = 1
)

func validateLinkedKey(key []byte) error {
	if len(key) != crypto.EdPublicKeyLength {
		return fmt.Errorf("%w: linked public key must have length of %d but received %d", codec.ErrInvalidArgument, crypto.EdPublicKeyLength, len(key))
	}
	return nil
}

// keyLinkBody is the shared layout of the simple key link kinds.
type keyLinkBody struct {
	LinkedPublicKey codec.Hex
	LinkAction      LinkAction
}

func (b *keyLinkBody) writeKeyLink(writer *codec.Writer) {
	writer.WriteBytes(b.LinkedPublicKey)
	writer.WriteUInt8(uint8(b.LinkAction))
}

func parseKeyLinkBody(reader *codec.Reader) (keyLinkBody, error) {
	key, err := reader.ReadBytes(crypto.EdPublicKeyLength)
	if err != nil {
		return keyLinkBody{}, err
	}
	action, err := reader.ReadUInt8()
	if err != nil {
		return keyLinkBody{}, err
	}
	return keyLinkBody{LinkedPublicKey: key, LinkAction: LinkAction(action)}, nil
}

// AccountKeyLinkTransaction links a remote public key to the signer, enabling
// delegated harvesting.
type AccountKeyLinkTransaction struct {
	TransactionHeader
	keyLinkBody
}

// NewAccountKeyLinkTransaction creates an account key link.
func NewAccountKeyLinkTransaction(
	linkedPublicKey codec.Hex,
	action LinkAction,
	deadline model.Deadline,
	network model.NetworkType,
) (*AccountKeyLinkTransaction, error) {
	if err := validateLinkedKey(linkedPublicKey); err != nil {
		return nil, err
	}
	return &AccountKeyLinkTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAccountKeyLink, Version: 1, Network: network, Deadline: deadline},
		keyLinkBody:       keyLinkBody{LinkedPublicKey: linkedPublicKey, LinkAction: action},
	}, nil
}

func (tx *AccountKeyLinkTransaction) bodySize() int {
	return crypto.EdPublicKeyLength + 1
}

func (tx *AccountKeyLinkTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AccountKeyLinkTransaction) writeBody(writer *codec.Writer) error {
	tx.writeKeyLink(writer)
	return nil
}

func parseAccountKeyLinkTxBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	body, err := parseKeyLinkBody(reader)
	if err != nil {
		return nil, err
	}
	return &AccountKeyLinkTransaction{TransactionHeader: header, keyLinkBody: body}, nil
}

func (tx *AccountKeyLinkTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AccountKeyLinkTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AccountKeyLinkTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *AccountKeyLinkTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *AccountKeyLinkTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// NodeKeyLinkTransaction links a node public key to the signer so the node
// can be used for delegated harvesting.
type NodeKeyLinkTransaction struct {
	TransactionHeader
	keyLinkBody
}

// NewNodeKeyLinkTransaction creates a node key link.
func NewNodeKeyLinkTransaction(
	linkedPublicKey codec.Hex,
	action LinkAction,
	deadline model.Deadline,
	network model.NetworkType,
) (*NodeKeyLinkTransaction, error) {
	if err := validateLinkedKey(linkedPublicKey); err != nil {
		return nil, err
	}
	return &NodeKeyLinkTransaction{
		TransactionHeader: TransactionHeader{Type: TypeNodeKeyLink, Version: 1, Network: network, Deadline: deadline},
		keyLinkBody:       keyLinkBody{LinkedPublicKey: linkedPublicKey, LinkAction: action},
	}, nil
}

func (tx *NodeKeyLinkTransaction) bodySize() int {
	return crypto.EdPublicKeyLength + 1
}

func (tx *NodeKeyLinkTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *NodeKeyLinkTransaction) writeBody(writer *codec.Writer) error {
	tx.writeKeyLink(writer)
	return nil
}

func parseNodeKeyLinkTxBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	body, err := parseKeyLinkBody(reader)
	if err != nil {
		return nil, err
	}
	return &NodeKeyLinkTransaction{TransactionHeader: header, keyLinkBody: body}, nil
}

func (tx *NodeKeyLinkTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *NodeKeyLinkTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *NodeKeyLinkTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *NodeKeyLinkTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *NodeKeyLinkTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// VrfKeyLinkTransaction links a VRF public key used for block generation
// randomness to the signer.
type VrfKeyLinkTransaction struct {
	TransactionHeader
	keyLinkBody
}

// NewVrfKeyLinkTransaction creates a VRF key link.
func NewVrfKeyLinkTransaction(
	linkedPublicKey codec.Hex,
	action LinkAction,
	deadline model.Deadline,
	network model.NetworkType,
) (*VrfKeyLinkTransaction, error) {
	if err := validateLinkedKey(linkedPublicKey); err != nil {
		return nil, err
	}
	return &VrfKeyLinkTransaction{
		TransactionHeader: TransactionHeader{Type: TypeVrfKeyLink, Version: 1, Network: network, Deadline: deadline},
		keyLinkBody:       keyLinkBody{LinkedPublicKey: linkedPublicKey, LinkAction: action},
	}, nil
}

func (tx *VrfKeyLinkTransaction) bodySize() int {
	return crypto.EdPublicKeyLength + 1
}

func (tx *VrfKeyLinkTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *VrfKeyLinkTransaction) writeBody(writer *codec.Writer) error {
	tx.writeKeyLink(writer)
	return nil
}

func parseVrfKeyLinkTxBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	body, err := parseKeyLinkBody(reader)
	if err != nil {
		return nil, err
	}
	return &VrfKeyLinkTransaction{TransactionHeader: header, keyLinkBody: body}, nil
}

func (tx *VrfKeyLinkTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *VrfKeyLinkTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *VrfKeyLinkTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *VrfKeyLinkTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *VrfKeyLinkTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// VotingKeyLinkTransaction links a voting public key to the signer for a
// range of finalization epochs.
type VotingKeyLinkTransaction struct {
	TransactionHeader
	LinkedPublicKey codec.Hex
	StartEpoch      uint32
	EndEpoch        uint32
	LinkAction      LinkAction
}

// NewVotingKeyLinkTransaction creates a voting key link.
func NewVotingKeyLinkTransaction(
	linkedPublicKey codec.Hex,
	startEpoch uint32,
	endEpoch uint32,
	action LinkAction,
	deadline model.Deadline,
	network model.NetworkType,
) (*VotingKeyLinkTransaction, error) {
	if err := validateLinkedKey(linkedPublicKey); err != nil {
		return nil, err
	}
	if endEpoch < startEpoch {
		return nil, fmt.Errorf("%w: end epoch %d precedes start epoch %d", codec.ErrInvalidArgument, endEpoch, startEpoch)
	}
	return &VotingKeyLinkTransaction{
		TransactionHeader: TransactionHeader{Type: TypeVotingKeyLink, Version: 1, Network: network, Deadline: deadline},
		LinkedPublicKey:   linkedPublicKey,
		StartEpoch:        startEpoch,
		EndEpoch:          endEpoch,
		LinkAction:        action,
	}, nil
}

func (tx *VotingKeyLinkTransaction) bodySize() int {
	return crypto.EdPublicKeyLength + 4 + 4 + 1
}

func (tx *VotingKeyLinkTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *VotingKeyLinkTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteBytes(tx.LinkedPublicKey)
	writer.WriteUInt32(tx.StartEpoch)
	writer.WriteUInt32(tx.EndEpoch)
	writer.WriteUInt8(uint8(tx.LinkAction))
	return nil
}

func parseVotingKeyLinkTxBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	key, err := reader.ReadBytes(crypto.EdPublicKeyLength)
	if err != nil {
		return nil, err
	}
	startEpoch, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	endEpoch, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	action, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	return &VotingKeyLinkTransaction{
		TransactionHeader: header,
		LinkedPublicKey:   key,
		StartEpoch:        startEpoch,
		EndEpoch:          endEpoch,
		LinkAction:        LinkAction(action),
	}, nil
}

func (tx *VotingKeyLinkTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *VotingKeyLinkTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *VotingKeyLinkTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *VotingKeyLinkTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *VotingKeyLinkTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}
