package transaction

import (
	"encoding/binary"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// AggregateTransaction bundles up to a block's worth of inner transactions
// which confirm atomically. The complete variant carries every required
// signature at announce time; the bonded variant waits on chain, funded by a
// hash lock, until the missing cosignatures arrive.
type AggregateTransaction struct {
	TransactionHeader
	InnerTransactions []Transaction
	Cosignatures      []Cosignature
}

// NewAggregateCompleteTransaction bundles inner transactions whose
// cosignatures are all collected before announcing.
func NewAggregateCompleteTransaction(
	inner []Transaction,
	deadline model.Deadline,
	network model.NetworkType,
) (*AggregateTransaction, error) {
	return newAggregate(TypeAggregateComplete, inner, deadline, network)
}

// NewAggregateBondedTransaction bundles inner transactions to be cosigned on
// chain. Announcing it requires a prior hash lock.
func NewAggregateBondedTransaction(
	inner []Transaction,
	deadline model.Deadline,
	network model.NetworkType,
) (*AggregateTransaction, error) {
	return newAggregate(TypeAggregateBonded, inner, deadline, network)
}

func newAggregate(txType TransactionType, inner []Transaction, deadline model.Deadline, network model.NetworkType) (*AggregateTransaction, error) {
	for _, tx := range inner {
		if tx.Header().Type.IsAggregate() {
			return nil, ErrCannotEmbed
		}
	}
	return &AggregateTransaction{
		TransactionHeader: TransactionHeader{Type: txType, Version: 1, Network: network, Deadline: deadline},
		InnerTransactions: append([]Transaction{}, inner...),
	}, nil
}

// AddTransactions returns a copy with the transactions appended to the inner
// list.
func (tx *AggregateTransaction) AddTransactions(inner ...Transaction) (*AggregateTransaction, error) {
	for _, candidate := range inner {
		if candidate.Header().Type.IsAggregate() {
			return nil, ErrCannotEmbed
		}
	}
	copied := tx.clone().(*AggregateTransaction)
	copied.InnerTransactions = append(copied.InnerTransactions, inner...)
	return copied, nil
}

func (tx *AggregateTransaction) bodySize() int {
	size := 4
	for _, inner := range tx.InnerTransactions {
		size += inner.Size() - EmbeddedHeaderDelta
	}
	return size + CosignatureSize*len(tx.Cosignatures)
}

func (tx *AggregateTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

// preparedInner resolves the signer every embedded record must carry. A
// complete aggregate may inherit the outer signer; a bonded one may not,
// its inner signers are exactly the accounts expected to cosign.
func (tx *AggregateTransaction) preparedInner(inner Transaction) (Transaction, error) {
	if inner.Header().Signer != nil {
		return inner, nil
	}
	if tx.Type == TypeAggregateBonded {
		return nil, ErrDelegatedSignerNotAllowed
	}
	if tx.Signer == nil {
		return nil, ErrMissingSigner
	}
	prepared := inner.clone()
	prepared.Header().Signer = tx.Signer
	return prepared, nil
}

func (tx *AggregateTransaction) writeBody(writer *codec.Writer) error {
	payloadSize := 0
	for _, inner := range tx.InnerTransactions {
		payloadSize += inner.Size() - EmbeddedHeaderDelta
	}
	writer.WriteUInt32(uint32(payloadSize))
	for _, inner := range tx.InnerTransactions {
		prepared, err := tx.preparedInner(inner)
		if err != nil {
			return err
		}
		record, err := prepared.SerializeEmbedded()
		if err != nil {
			return err
		}
		writer.WriteBytes(record)
	}
	for _, cosignature := range tx.Cosignatures {
		if cosignature.Signer == nil {
			return ErrMissingSigner
		}
		writer.WriteBytes(cosignature.Signer.PublicKey)
		writer.WriteBytes(cosignature.Signature)
	}
	return nil
}

func parseAggregateBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	payloadSize, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	payload, err := reader.ReadBytes(int(payloadSize))
	if err != nil {
		return nil, err
	}
	var inner []Transaction
	for len(payload) > 0 {
		if len(payload) < 4 {
			return nil, fmt.Errorf("%w: truncated embedded transaction record", codec.ErrInvalidData)
		}
		recordSize := binary.LittleEndian.Uint32(payload[:4])
		if recordSize < EmbeddedHeaderSize || int(recordSize) > len(payload) {
			return nil, fmt.Errorf("%w: embedded transaction size %d exceeds remaining payload of %d bytes", codec.ErrInvalidData, recordSize, len(payload))
		}
		tx, err := FromPayload(payload[:recordSize], true)
		if err != nil {
			return nil, err
		}
		inner = append(inner, tx)
		payload = payload[recordSize:]
	}
	var cosignatures []Cosignature
	for reader.Remaining() > 0 {
		if reader.Remaining() < CosignatureSize {
			return nil, fmt.Errorf("%w: truncated cosignature record of %d bytes", codec.ErrInvalidData, reader.Remaining())
		}
		signerKey, err := reader.ReadBytes(crypto.EdPublicKeyLength)
		if err != nil {
			return nil, err
		}
		signature, err := reader.ReadBytes(crypto.EdSignatureLength)
		if err != nil {
			return nil, err
		}
		signer, err := model.NewPublicAccount(signerKey, header.Network)
		if err != nil {
			return nil, err
		}
		cosignatures = append(cosignatures, Cosignature{Signer: signer, Signature: signature})
	}
	return &AggregateTransaction{
		TransactionHeader: header,
		InnerTransactions: inner,
		Cosignatures:      cosignatures,
	}, nil
}

func (tx *AggregateTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

// SerializeEmbedded always fails: the wire format does not nest aggregates.
func (tx *AggregateTransaction) SerializeEmbedded() ([]byte, error) {
	return nil, ErrCannotEmbed
}

func (tx *AggregateTransaction) clone() Transaction {
	copied := *tx
	copied.InnerTransactions = append([]Transaction{}, tx.InnerTransactions...)
	copied.Cosignatures = append([]Cosignature{}, tx.Cosignatures...)
	return &copied
}

// SignWith signs the aggregate with the initiator's key alone.
func (tx *AggregateTransaction) SignWith(initiator *model.Account, generationHash []byte) (*SignedTransaction, error) {
	return Sign(tx, initiator, generationHash)
}

// SignWithCosignatories signs the aggregate with the initiator and appends
// one cosignature per cosignatory, all over the same transaction hash.
func (tx *AggregateTransaction) SignWithCosignatories(initiator *model.Account, cosignatories []*model.Account, generationHash []byte) (*SignedTransaction, error) {
	signed, err := Sign(tx, initiator, generationHash)
	if err != nil {
		return nil, err
	}
	cosignatures := make([]CosignatureSignedTransaction, 0, len(cosignatories))
	for _, cosignatory := range cosignatories {
		cosignature, err := CosignHash(signed.Hash, cosignatory)
		if err != nil {
			return nil, err
		}
		cosignatures = append(cosignatures, *cosignature)
	}
	return appendCosignatures(signed, cosignatures)
}

// SignGivenCosignatures signs the aggregate with the initiator and appends
// cosignatures collected out of band. Every cosignature must reference the
// hash this signing produces.
func (tx *AggregateTransaction) SignGivenCosignatures(initiator *model.Account, cosignatures []CosignatureSignedTransaction, generationHash []byte) (*SignedTransaction, error) {
	signed, err := Sign(tx, initiator, generationHash)
	if err != nil {
		return nil, err
	}
	for _, cosignature := range cosignatures {
		if !signed.Hash.Equal(cosignature.ParentHash) {
			return nil, fmt.Errorf("%w: cosignature parent hash %s does not match transaction hash %s", codec.ErrInvalidArgument, cosignature.ParentHash, signed.Hash)
		}
	}
	return appendCosignatures(signed, cosignatures)
}

// SignedByAccount reports whether the account initiated or cosigned the
// aggregate.
func (tx *AggregateTransaction) SignedByAccount(account *model.PublicAccount) bool {
	if tx.SignedBy(account) {
		return true
	}
	for _, cosignature := range tx.Cosignatures {
		if cosignature.Signer.Equal(account) {
			return true
		}
	}
	return false
}

// ResolveAliases resolves every inner transaction, keying each receipt lookup
// by the inner's position in the aggregate.
func (tx *AggregateTransaction) ResolveAliases(statement *receipt.Statement, _ uint32) (Transaction, error) {
	copied := tx.clone().(*AggregateTransaction)
	for i, inner := range copied.InnerTransactions {
		prepared := inner
		if prepared.Header().Info == nil && tx.Info != nil {
			prepared = inner.clone()
			prepared.Header().Info = tx.Info
		}
		resolved, err := prepared.ResolveAliases(statement, uint32(i))
		if err != nil {
			return nil, err
		}
		copied.InnerTransactions[i] = resolved
	}
	return copied, nil
}

// ShouldNotifyAccount reports whether the address takes part in the aggregate
// itself or in any inner transaction.
func (tx *AggregateTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	for _, cosignature := range tx.Cosignatures {
		if cosignature.Signer != nil && cosignature.Signer.Address.Equal(address) {
			return true
		}
	}
	for _, inner := range tx.InnerTransactions {
		if inner.ShouldNotifyAccount(address, aliases) {
			return true
		}
	}
	return false
}
