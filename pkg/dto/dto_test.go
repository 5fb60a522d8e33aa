package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

func dtoDeadline() model.Deadline {
	return model.NewDeadlineFromValue(8266897456)
}

func dtoAccount(t *testing.T, passphrase string) *model.Account {
	t.Helper()
	account, err := model.NewAccountFromPassphrase(passphrase, model.TestNet)
	require.NoError(t, err)
	return account
}

func seqBytes(length int) codec.Hex {
	result := make([]byte, length)
	for i := range result {
		result[i] = byte(i + 1)
	}
	return result
}

func dtoTransfer(t *testing.T) *transaction.TransferTransaction {
	t.Helper()
	recipient := dtoAccount(t, "recipient").Address
	message, err := model.NewPlainMessage("hello")
	require.NoError(t, err)
	return transaction.NewTransferTransaction(
		recipient,
		[]model.Mosaic{model.NewMosaic(model.MosaicID(0x2CF403E85507F39E), 1000000)},
		message,
		dtoDeadline(),
		model.TestNet,
	)
}

// sampleTransactions covers every mapped transaction kind with representative
// values. Aggregates carry the signers their serialization requires.
func sampleTransactions(t *testing.T) map[string]transaction.Transaction {
	t.Helper()
	deadline := dtoDeadline()
	signer := dtoAccount(t, "signer")
	other := dtoAccount(t, "other")
	namespaceID, err := model.NewNamespaceIDFromName("catapult")
	require.NoError(t, err)
	mosaicID := model.MosaicID(0x2CF403E85507F39E)

	transfer := dtoTransfer(t)
	aliasTransfer := transaction.NewTransferTransaction(
		namespaceID,
		[]model.Mosaic{model.NewMosaic(mosaicID, 5)},
		model.Message{},
		deadline,
		model.TestNet,
	)

	rootNamespace, err := transaction.NewRootNamespaceRegistrationTransaction("catapult", 86400, deadline, model.TestNet)
	require.NoError(t, err)
	childNamespace, err := transaction.NewChildNamespaceRegistrationTransaction(namespaceID, "alpha", deadline, model.TestNet)
	require.NoError(t, err)

	mosaicDefinition, err := transaction.NewMosaicDefinitionTransaction(
		7, signer.Address, transaction.MosaicFlagSupplyMutable|transaction.MosaicFlagTransferable, 3, 1000, deadline, model.TestNet)
	require.NoError(t, err)

	innerComplete := dtoTransfer(t)
	aggregateComplete, err := transaction.NewAggregateCompleteTransaction(
		[]transaction.Transaction{innerComplete}, deadline, model.TestNet)
	require.NoError(t, err)
	aggregateComplete.Signer = &signer.PublicAccount
	aggregateComplete.Cosignatures = []transaction.Cosignature{
		{Signer: &other.PublicAccount, Signature: seqBytes(64)},
	}

	innerBonded := dtoTransfer(t)
	innerBonded.Signer = &other.PublicAccount
	aggregateBonded, err := transaction.NewAggregateBondedTransaction(
		[]transaction.Transaction{innerBonded}, deadline, model.TestNet)
	require.NoError(t, err)

	hashLock, err := transaction.NewHashLockTransaction(
		model.NewMosaic(mosaicID, 10000000),
		480,
		&transaction.SignedTransaction{Type: transaction.TypeAggregateBonded, Hash: seqBytes(32)},
		deadline,
		model.TestNet,
	)
	require.NoError(t, err)

	secret := seqBytes(32)
	secretLock, err := transaction.NewSecretLockTransaction(
		model.NewMosaic(mosaicID, 50), 96, transaction.LockHashSha3256, secret, other.Address, deadline, model.TestNet)
	require.NoError(t, err)
	secretProof, err := transaction.NewSecretProofTransaction(
		transaction.LockHashSha3256, secret, other.Address, seqBytes(20), deadline, model.TestNet)
	require.NoError(t, err)

	addressRestriction, err := transaction.NewAccountAddressRestrictionTransaction(
		transaction.AccountRestrictionAddress|transaction.AccountRestrictionBlock,
		[]model.UnresolvedAddress{other.Address},
		[]model.UnresolvedAddress{namespaceID},
		deadline,
		model.TestNet,
	)
	require.NoError(t, err)
	mosaicRestriction, err := transaction.NewAccountMosaicRestrictionTransaction(
		transaction.AccountRestrictionMosaic,
		[]model.UnresolvedMosaicID{mosaicID},
		[]model.UnresolvedMosaicID{model.MosaicID(0x0DC67FBE1CAD29E3)},
		deadline,
		model.TestNet,
	)
	require.NoError(t, err)
	operationRestriction, err := transaction.NewAccountOperationRestrictionTransaction(
		transaction.AccountRestrictionTransactionType|transaction.AccountRestrictionOutgoing,
		[]transaction.TransactionType{transaction.TypeTransfer},
		[]transaction.TransactionType{transaction.TypeSecretProof},
		deadline,
		model.TestNet,
	)
	require.NoError(t, err)

	accountMetadata, err := transaction.NewAccountMetadataTransaction(
		other.Address, 0xA123456789ABCDEF, 5, codec.Hex("hello"), deadline, model.TestNet)
	require.NoError(t, err)
	mosaicMetadata, err := transaction.NewMosaicMetadataTransaction(
		other.Address, 0xA123456789ABCDEF, mosaicID, 5, codec.Hex("hello"), deadline, model.TestNet)
	require.NoError(t, err)
	namespaceMetadata, err := transaction.NewNamespaceMetadataTransaction(
		other.Address, 0xA123456789ABCDEF, namespaceID, 5, codec.Hex("hello"), deadline, model.TestNet)
	require.NoError(t, err)

	linkedKey := seqBytes(32)
	accountKeyLink, err := transaction.NewAccountKeyLinkTransaction(linkedKey, transaction.LinkActionLink, deadline, model.TestNet)
	require.NoError(t, err)
	nodeKeyLink, err := transaction.NewNodeKeyLinkTransaction(linkedKey, transaction.LinkActionLink, deadline, model.TestNet)
	require.NoError(t, err)
	vrfKeyLink, err := transaction.NewVrfKeyLinkTransaction(linkedKey, transaction.LinkActionUnlink, deadline, model.TestNet)
	require.NoError(t, err)
	votingKeyLink, err := transaction.NewVotingKeyLinkTransaction(linkedKey, 10, 250, transaction.LinkActionLink, deadline, model.TestNet)
	require.NoError(t, err)

	return map[string]transaction.Transaction{
		"transfer":                    transfer,
		"transferToAlias":             aliasTransfer,
		"rootNamespaceRegistration":   rootNamespace,
		"childNamespaceRegistration":  childNamespace,
		"addressAlias":                transaction.NewAddressAliasTransaction(transaction.AliasLink, namespaceID, other.Address, deadline, model.TestNet),
		"mosaicAlias":                 transaction.NewMosaicAliasTransaction(transaction.AliasUnlink, namespaceID, mosaicID, deadline, model.TestNet),
		"mosaicDefinition":            mosaicDefinition,
		"mosaicSupplyChange":          transaction.NewMosaicSupplyChangeTransaction(mosaicID, transaction.MosaicSupplyIncrease, 500, deadline, model.TestNet),
		"multisigAccountModification": transaction.NewMultisigAccountModificationTransaction(1, 1, []model.UnresolvedAddress{other.Address}, []model.UnresolvedAddress{signer.Address}, deadline, model.TestNet),
		"aggregateComplete":           aggregateComplete,
		"aggregateBonded":             aggregateBonded,
		"hashLock":                    hashLock,
		"secretLock":                  secretLock,
		"secretProof":                 secretProof,
		"accountAddressRestriction":   addressRestriction,
		"accountMosaicRestriction":    mosaicRestriction,
		"accountOperationRestriction": operationRestriction,
		"mosaicAddressRestriction":    transaction.NewMosaicAddressRestrictionTransaction(mosaicID, 0x1111222233334444, 9, 8, other.Address, deadline, model.TestNet),
		"mosaicGlobalRestriction":     transaction.NewMosaicGlobalRestrictionTransaction(mosaicID, nil, 0x1111222233334444, 0, 1, transaction.MosaicRestrictionNone, transaction.MosaicRestrictionEq, deadline, model.TestNet),
		"accountMetadata":             accountMetadata,
		"mosaicMetadata":              mosaicMetadata,
		"namespaceMetadata":           namespaceMetadata,
		"accountKeyLink":              accountKeyLink,
		"nodeKeyLink":                 nodeKeyLink,
		"vrfKeyLink":                  vrfKeyLink,
		"votingKeyLink":               votingKeyLink,
	}
}

func TestJSONRoundTripAllKinds(t *testing.T) {
	for name, tx := range sampleTransactions(t) {
		t.Run(name, func(t *testing.T) {
			data, err := ToJSON(tx)
			require.NoError(t, err)

			parsed, err := FromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, tx.Header().Type, parsed.Header().Type)
			assert.Equal(t, tx.Header().Deadline, parsed.Header().Deadline)

			original, err := tx.Serialize()
			require.NoError(t, err)
			reparsed, err := parsed.Serialize()
			require.NoError(t, err)
			assert.Equal(t, original, reparsed)

			again, err := ToJSON(parsed)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestMetaMapsToTransactionInfo(t *testing.T) {
	tx := dtoTransfer(t)
	tx.Info = &transaction.TransactionInfo{Height: 40, Index: 3, Hash: seqBytes(32)}

	wrapper, err := MapToWrapper(tx)
	require.NoError(t, err)
	require.NotNil(t, wrapper.Meta)
	assert.Equal(t, codec.UInt64Str(40), wrapper.Meta.Height)
	assert.Equal(t, uint32(3), wrapper.Meta.Index)

	data, err := json.Marshal(wrapper)
	require.NoError(t, err)
	parsed, err := FromJSON(data)
	require.NoError(t, err)
	require.NotNil(t, parsed.Header().Info)
	assert.Equal(t, uint64(40), parsed.Header().Info.Height)
	assert.Equal(t, uint32(3), parsed.Header().Info.Index)
	assert.Equal(t, seqBytes(32), parsed.Header().Info.Hash)
}

func TestQuantitiesTravelAsStrings(t *testing.T) {
	data, err := ToJSON(dtoTransfer(t))
	require.NoError(t, err)

	encoded := string(data)
	assert.Contains(t, encoded, `"amount":"1000000"`)
	assert.Contains(t, encoded, `"id":"2CF403E85507F39E"`)
	assert.Contains(t, encoded, `"deadline":"8266897456"`)
	assert.Contains(t, encoded, `"maxFee":"0"`)
	assert.NotContains(t, encoded, `"amount":1000000`)
}

func TestRestrictionValuesEncodePerKind(t *testing.T) {
	samples := sampleTransactions(t)

	operationData, err := ToJSON(samples["accountOperationRestriction"])
	require.NoError(t, err)
	var operation struct {
		Transaction struct {
			RestrictionAdditions []json.RawMessage `json:"restrictionAdditions"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(operationData, &operation))
	require.Len(t, operation.Transaction.RestrictionAdditions, 1)
	assert.Equal(t, "16724", string(operation.Transaction.RestrictionAdditions[0]))

	addressData, err := ToJSON(samples["accountAddressRestriction"])
	require.NoError(t, err)
	var address struct {
		Transaction struct {
			RestrictionAdditions []json.RawMessage `json:"restrictionAdditions"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(addressData, &address))
	require.Len(t, address.Transaction.RestrictionAdditions, 1)
	element := string(address.Transaction.RestrictionAdditions[0])
	assert.True(t, strings.HasPrefix(element, `"`))
	// 25 address bytes as hex plus the surrounding quotes.
	assert.Len(t, element, 52)
}

func TestAggregateInnerTransactionsRoundTrip(t *testing.T) {
	samples := sampleTransactions(t)
	data, err := ToJSON(samples["aggregateComplete"])
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	aggregate, ok := parsed.(*transaction.AggregateTransaction)
	require.True(t, ok)
	require.Len(t, aggregate.InnerTransactions, 1)
	require.Len(t, aggregate.Cosignatures, 1)

	inner, ok := aggregate.InnerTransactions[0].(*transaction.TransferTransaction)
	require.True(t, ok)
	assert.Equal(t, transaction.TypeTransfer, inner.Type)
	assert.Equal(t, seqBytes(64), aggregate.Cosignatures[0].Signature)
}

func TestVotingKeyLinkEpochsRoundTrip(t *testing.T) {
	samples := sampleTransactions(t)
	data, err := ToJSON(samples["votingKeyLink"])
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	votingKeyLink, ok := parsed.(*transaction.VotingKeyLinkTransaction)
	require.True(t, ok)
	assert.Equal(t, uint32(10), votingKeyLink.StartEpoch)
	assert.Equal(t, uint32(250), votingKeyLink.EndEpoch)
}

func TestFromJSONRejectsUnknownType(t *testing.T) {
	_, err := FromJSON([]byte(`{"transaction":{"type":384,"network":152,"version":1}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, transaction.ErrUnknownTransactionType)
}

func TestFromJSONRejectsMalformedInput(t *testing.T) {
	_, err := FromJSON([]byte(`{"transaction":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrInvalidData)
}

func TestBodyMapperRegistryCoversAllTypes(t *testing.T) {
	require.NotEmpty(t, bodyMappers)
	for txType := range bodyMappers {
		_, err := transaction.TransactionTypeFromValue(uint16(txType))
		assert.NoError(t, err, txType.String())
	}
	for name, tx := range sampleTransactions(t) {
		assert.Contains(t, bodyMappers, tx.Header().Type, name)
	}
}
