package transaction

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

func testDeadline() model.Deadline {
	return model.NewDeadlineFromValue(8266897456)
}

func testAccount(t *testing.T, passphrase string) *model.Account {
	t.Helper()
	account, err := model.NewAccountFromPassphrase(passphrase, model.TestNet)
	require.NoError(t, err)
	return account
}

func testGenerationHash() []byte {
	hash := make([]byte, GenerationHashSize)
	for i := range hash {
		hash[i] = byte(i + 1)
	}
	return hash
}

func testTransfer(t *testing.T) *TransferTransaction {
	t.Helper()
	recipient := testAccount(t, "recipient").Address
	message, err := model.NewPlainMessage("hello")
	require.NoError(t, err)
	return NewTransferTransaction(
		recipient,
		[]model.Mosaic{model.NewMosaic(model.MosaicID(0x2CF403E85507F39E), 1000000)},
		message,
		testDeadline(),
		model.TestNet,
	)
}

func allKindsForCodec(t *testing.T) map[string]Transaction {
	t.Helper()
	owner := testAccount(t, "owner").Address
	other := testAccount(t, "other").Address
	namespaceID, err := model.NewNamespaceIDFromName("cat.currency")
	require.NoError(t, err)
	mosaicID := model.NewMosaicIDFromNonce(1234, owner)
	publicKey := testAccount(t, "linked").PublicKey

	rootNamespace, err := NewRootNamespaceRegistrationTransaction("cat", 10000, testDeadline(), model.TestNet)
	require.NoError(t, err)
	childNamespace, err := NewChildNamespaceRegistrationTransaction(rootNamespace.ID, "currency", testDeadline(), model.TestNet)
	require.NoError(t, err)
	mosaicDefinition, err := NewMosaicDefinitionTransaction(1234, owner, MosaicFlagTransferable|MosaicFlagSupplyMutable, 6, 0, testDeadline(), model.TestNet)
	require.NoError(t, err)
	secretLock, err := NewSecretLockTransaction(
		model.NewMosaic(namespaceID, 500),
		240,
		LockHashSha3256,
		crypto.Sha3256([]byte("proof")),
		other,
		testDeadline(),
		model.TestNet,
	)
	require.NoError(t, err)
	secretProof, err := NewSecretProofTransaction(
		LockHashHash160,
		crypto.Hash160([]byte("proof")),
		other,
		[]byte("proof"),
		testDeadline(),
		model.TestNet,
	)
	require.NoError(t, err)
	addressRestriction, err := NewAccountAddressRestrictionTransaction(
		AccountRestrictionAddress|AccountRestrictionBlock,
		[]model.UnresolvedAddress{other, namespaceID},
		nil,
		testDeadline(),
		model.TestNet,
	)
	require.NoError(t, err)
	mosaicRestriction, err := NewAccountMosaicRestrictionTransaction(
		AccountRestrictionMosaic,
		[]model.UnresolvedMosaicID{mosaicID},
		[]model.UnresolvedMosaicID{namespaceID},
		testDeadline(),
		model.TestNet,
	)
	require.NoError(t, err)
	operationRestriction, err := NewAccountOperationRestrictionTransaction(
		AccountRestrictionTransactionType|AccountRestrictionOutgoing,
		[]TransactionType{TypeTransfer},
		[]TransactionType{TypeSecretProof},
		testDeadline(),
		model.TestNet,
	)
	require.NoError(t, err)
	accountMetadata, err := NewAccountMetadataTransaction(other, 0xABCDEF, 5, []byte("value"), testDeadline(), model.TestNet)
	require.NoError(t, err)
	mosaicMetadata, err := NewMosaicMetadataTransaction(other, 0xABCDEF, mosaicID, 5, []byte("value"), testDeadline(), model.TestNet)
	require.NoError(t, err)
	namespaceMetadata, err := NewNamespaceMetadataTransaction(other, 0xABCDEF, namespaceID, 5, []byte("value"), testDeadline(), model.TestNet)
	require.NoError(t, err)
	accountKeyLink, err := NewAccountKeyLinkTransaction(publicKey, LinkActionLink, testDeadline(), model.TestNet)
	require.NoError(t, err)
	nodeKeyLink, err := NewNodeKeyLinkTransaction(publicKey, LinkActionLink, testDeadline(), model.TestNet)
	require.NoError(t, err)
	vrfKeyLink, err := NewVrfKeyLinkTransaction(publicKey, LinkActionUnlink, testDeadline(), model.TestNet)
	require.NoError(t, err)
	votingKeyLink, err := NewVotingKeyLinkTransaction(publicKey, 10, 250, LinkActionLink, testDeadline(), model.TestNet)
	require.NoError(t, err)

	return map[string]Transaction{
		"transfer":                    testTransfer(t),
		"rootNamespaceRegistration":   rootNamespace,
		"childNamespaceRegistration":  childNamespace,
		"addressAlias":                NewAddressAliasTransaction(AliasLink, namespaceID, other, testDeadline(), model.TestNet),
		"mosaicAlias":                 NewMosaicAliasTransaction(AliasUnlink, namespaceID, mosaicID, testDeadline(), model.TestNet),
		"mosaicDefinition":            mosaicDefinition,
		"mosaicSupplyChange":          NewMosaicSupplyChangeTransaction(namespaceID, MosaicSupplyIncrease, 5000, testDeadline(), model.TestNet),
		"multisigAccountModification": NewMultisigAccountModificationTransaction(1, 1, []model.UnresolvedAddress{other}, []model.UnresolvedAddress{namespaceID}, testDeadline(), model.TestNet),
		"secretLock":                  secretLock,
		"secretProof":                 secretProof,
		"accountAddressRestriction":   addressRestriction,
		"accountMosaicRestriction":    mosaicRestriction,
		"accountOperationRestriction": operationRestriction,
		"mosaicAddressRestriction":    NewMosaicAddressRestrictionTransaction(namespaceID, 0x1234, 0, 9, other, testDeadline(), model.TestNet),
		"mosaicGlobalRestriction":     NewMosaicGlobalRestrictionTransaction(mosaicID, model.MosaicID(0), 0x1234, 0, 9, MosaicRestrictionNone, MosaicRestrictionGe, testDeadline(), model.TestNet),
		"accountMetadata":             accountMetadata,
		"mosaicMetadata":              mosaicMetadata,
		"namespaceMetadata":           namespaceMetadata,
		"accountKeyLink":              accountKeyLink,
		"nodeKeyLink":                 nodeKeyLink,
		"vrfKeyLink":                  vrfKeyLink,
		"votingKeyLink":               votingKeyLink,
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for name, tx := range allKindsForCodec(t) {
		t.Run(name, func(t *testing.T) {
			payload, err := tx.Serialize()
			require.NoError(t, err)
			assert.Len(t, payload, tx.Size())
			assert.Equal(t, uint32(tx.Size()), binary.LittleEndian.Uint32(payload[:4]))

			decoded, err := FromPayload(payload, false)
			require.NoError(t, err)
			assert.Equal(t, tx.Header().Type, decoded.Header().Type)
			assert.Equal(t, model.TestNet, decoded.Header().Network)
			assert.Equal(t, testDeadline(), decoded.Header().Deadline)

			again, err := decoded.Serialize()
			require.NoError(t, err)
			assert.Equal(t, payload, again)
		})
	}
}

func TestSerializeEmbeddedRoundTrip(t *testing.T) {
	signer := &testAccount(t, "signer").PublicAccount
	for name, tx := range allKindsForCodec(t) {
		t.Run(name, func(t *testing.T) {
			tx.Header().Signer = signer
			record, err := tx.SerializeEmbedded()
			require.NoError(t, err)
			assert.Len(t, record, tx.Size()-EmbeddedHeaderDelta)
			assert.Equal(t, uint32(len(record)), binary.LittleEndian.Uint32(record[:4]))

			decoded, err := FromPayload(record, true)
			require.NoError(t, err)
			require.NotNil(t, decoded.Header().Signer)
			assert.True(t, decoded.Header().Signer.Equal(signer))

			again, err := decoded.SerializeEmbedded()
			require.NoError(t, err)
			assert.Equal(t, record, again)
		})
	}
}

func TestTransferBodyLayout(t *testing.T) {
	tx := testTransfer(t)
	payload, err := tx.Serialize()
	require.NoError(t, err)

	body := payload[HeaderSize:]
	recipient := testAccount(t, "recipient").Address
	assert.Equal(t, recipient.Bytes(), body[:25])
	// message size counts the type byte.
	assert.Equal(t, uint16(6), binary.LittleEndian.Uint16(body[25:27]))
	assert.Equal(t, uint8(1), body[27])
	assert.Equal(t, uint8(model.MessagePlain), body[28])
	assert.Equal(t, "hello", string(body[29:34]))
	assert.Equal(t, uint64(0x2CF403E85507F39E), binary.LittleEndian.Uint64(body[34:42]))
	assert.Equal(t, uint64(1000000), binary.LittleEndian.Uint64(body[42:50]))
	assert.Len(t, body, 50)
}

func TestUnsignedPayloadHasZeroPlaceholders(t *testing.T) {
	payload, err := testTransfer(t).Serialize()
	require.NoError(t, err)
	assert.True(t, isZeroFilled(payload[signatureOffset:signerOffset]))
	assert.True(t, isZeroFilled(payload[signerOffset:signingDataOffset]))

	decoded, err := FromPayload(payload, false)
	require.NoError(t, err)
	assert.Nil(t, decoded.Header().Signature)
	assert.Nil(t, decoded.Header().Signer)
}

func TestSign(t *testing.T) {
	signer := testAccount(t, "signer")
	tx := testTransfer(t)

	signed, err := Sign(tx, signer, testGenerationHash())
	require.NoError(t, err)
	assert.Len(t, signed.Payload, tx.Size())
	assert.Len(t, signed.Hash, crypto.HashLength)
	assert.Equal(t, TypeTransfer, signed.Type)
	assert.Equal(t, signer.PublicKey, signed.SignerPublicKey)

	// signature and signer are patched over their placeholders.
	signature := signed.Payload[signatureOffset:signerOffset]
	assert.Equal(t, codec.Hex(signer.PublicKey), codec.Hex(signed.Payload[signerOffset:signingDataOffset]))
	signingData := append(testGenerationHash(), signed.Payload[signingDataOffset:]...)
	assert.NoError(t, crypto.VerifySignature(signer.PublicKey, signature, signingData))

	// the original stays unsigned.
	assert.Nil(t, tx.Signature)
	assert.Nil(t, tx.Signer)

	decoded, err := FromPayload(signed.Payload, false)
	require.NoError(t, err)
	assert.Equal(t, codec.Hex(signature), decoded.Header().Signature)
	require.NotNil(t, decoded.Header().Signer)
	assert.Equal(t, signer.PublicKey, decoded.Header().Signer.PublicKey)
}

func TestSignRejectsBadGenerationHash(t *testing.T) {
	_, err := Sign(testTransfer(t), testAccount(t, "signer"), []byte{1, 2, 3})
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = Sign(testTransfer(t), nil, testGenerationHash())
	assert.ErrorIs(t, err, ErrMissingSigner)
}

func TestFromPayloadRejectsCorruptPayloads(t *testing.T) {
	payload, err := testTransfer(t).Serialize()
	require.NoError(t, err)

	t.Run("size mismatch", func(t *testing.T) {
		_, err := FromPayload(payload[:len(payload)-1], false)
		assert.ErrorIs(t, err, codec.ErrInvalidData)
	})
	t.Run("unknown type", func(t *testing.T) {
		corrupted := codec.Copy(payload)
		binary.LittleEndian.PutUint16(corrupted[102:], 0xFFFF)
		_, err := FromPayload(corrupted, false)
		assert.ErrorIs(t, err, ErrUnknownTransactionType)
	})
	t.Run("trailing bytes", func(t *testing.T) {
		extended := append(codec.Copy(payload), 0xAB)
		binary.LittleEndian.PutUint32(extended[:4], uint32(len(extended)))
		_, err := FromPayload(extended, false)
		assert.ErrorIs(t, err, codec.ErrUnreadBytes)
	})
}

func TestSecretValidation(t *testing.T) {
	recipient := testAccount(t, "recipient").Address
	mosaic := model.NewMosaic(model.MosaicID(0x1234), 10)

	_, err := NewSecretLockTransaction(mosaic, 240, LockHashSha3256, []byte{1, 2, 3}, recipient, testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewSecretLockTransaction(mosaic, 240, LockHashHash160, crypto.Sha3256([]byte("x")), recipient, testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewSecretProofTransaction(LockHashAlgorithm(9), crypto.Sha3256([]byte("x")), recipient, []byte("x"), testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestLockHashAlgorithmApply(t *testing.T) {
	proof := []byte("proof")
	for _, algorithm := range []LockHashAlgorithm{LockHashSha3256, LockHashKeccak256, LockHashHash160, LockHashHash256} {
		secret, err := algorithm.Apply(proof)
		require.NoError(t, err)
		expected, err := algorithm.SecretLength()
		require.NoError(t, err)
		assert.Len(t, secret, expected)
	}
	_, err := LockHashAlgorithm(9).Apply(proof)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestShortSecretIsZeroPaddedOnWire(t *testing.T) {
	recipient := testAccount(t, "recipient").Address
	secret := crypto.Hash160([]byte("proof"))
	tx, err := NewSecretLockTransaction(model.NewMosaic(model.MosaicID(0x1234), 10), 240, LockHashHash160, secret, recipient, testDeadline(), model.TestNet)
	require.NoError(t, err)

	payload, err := tx.Serialize()
	require.NoError(t, err)
	wireSecret := payload[HeaderSize+model.AddressSize : HeaderSize+model.AddressSize+secretWireSize]
	assert.Equal(t, secret, wireSecret[:20])
	assert.True(t, isZeroFilled(wireSecret[20:]))

	decoded, err := FromPayload(payload, false)
	require.NoError(t, err)
	assert.Equal(t, codec.Hex(secret), decoded.(*SecretLockTransaction).Secret)
}

func TestMetadataValueCap(t *testing.T) {
	target := testAccount(t, "target").Address
	_, err := NewAccountMetadataTransaction(target, 1, 0, make([]byte, MaxMetadataValueSize+1), testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewAccountMetadataTransaction(target, 1, 0, make([]byte, MaxMetadataValueSize), testDeadline(), model.TestNet)
	assert.NoError(t, err)
}

func TestAccountRestrictionFlagValidation(t *testing.T) {
	_, err := NewAccountAddressRestrictionTransaction(AccountRestrictionMosaic, nil, nil, testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewAccountMosaicRestrictionTransaction(AccountRestrictionAddress, nil, nil, testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewAccountOperationRestrictionTransaction(AccountRestrictionAddress|AccountRestrictionOutgoing, nil, nil, testDeadline(), model.TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestResolveAliases(t *testing.T) {
	namespaceID, err := model.NewNamespaceIDFromName("alias")
	require.NoError(t, err)
	concreteAddress := testAccount(t, "resolved").Address
	concreteMosaic := model.MosaicID(0x2CF403E85507F39E)

	message, err := model.NewPlainMessage("hi")
	require.NoError(t, err)
	tx := NewTransferTransaction(
		namespaceID,
		[]model.Mosaic{model.NewMosaic(namespaceID, 77)},
		message,
		testDeadline(),
		model.TestNet,
	)
	tx.Info = &TransactionInfo{Height: 40, Index: 3}

	statement := &receipt.Statement{
		AddressResolutions: []receipt.AddressResolutionStatement{{
			Height:     40,
			Unresolved: namespaceID,
			Entries: []receipt.AddressResolutionEntry{
				{Source: receipt.Source{Primary: 1}, Resolved: testAccount(t, "stale").Address},
				{Source: receipt.Source{Primary: 4}, Resolved: concreteAddress},
			},
		}},
		MosaicResolutions: []receipt.MosaicResolutionStatement{{
			Height:     40,
			Unresolved: namespaceID,
			Entries:    []receipt.MosaicResolutionEntry{{Source: receipt.Source{Primary: 2}, Resolved: concreteMosaic}},
		}},
	}

	resolved, err := tx.ResolveAliases(statement, 0)
	require.NoError(t, err)
	transfer := resolved.(*TransferTransaction)
	assert.Equal(t, concreteAddress, transfer.Recipient)
	assert.Equal(t, concreteMosaic, transfer.Mosaics[0].ID)
	// the original keeps its aliases.
	assert.Equal(t, namespaceID, tx.Recipient)

	tx.Info = nil
	_, err = tx.ResolveAliases(statement, 0)
	assert.ErrorIs(t, err, ErrMissingTransactionInfo)
}

func TestResolveAliasesWithoutStatementEntry(t *testing.T) {
	namespaceID, err := model.NewNamespaceIDFromName("alias")
	require.NoError(t, err)
	message, err := model.NewPlainMessage("")
	require.NoError(t, err)
	tx := NewTransferTransaction(namespaceID, nil, message, testDeadline(), model.TestNet)
	tx.Info = &TransactionInfo{Height: 40, Index: 3}

	_, err = tx.ResolveAliases(&receipt.Statement{}, 0)
	assert.ErrorIs(t, err, receipt.ErrUnresolved)
}

func TestShouldNotifyAccount(t *testing.T) {
	signer := testAccount(t, "signer")
	recipient := testAccount(t, "recipient")
	stranger := testAccount(t, "stranger")
	namespaceID, err := model.NewNamespaceIDFromName("alias")
	require.NoError(t, err)

	message, err := model.NewPlainMessage("")
	require.NoError(t, err)
	direct := NewTransferTransaction(recipient.Address, nil, message, testDeadline(), model.TestNet)
	direct.Signer = &signer.PublicAccount
	assert.True(t, direct.ShouldNotifyAccount(signer.Address, nil))
	assert.True(t, direct.ShouldNotifyAccount(recipient.Address, nil))
	assert.False(t, direct.ShouldNotifyAccount(stranger.Address, nil))

	aliased := NewTransferTransaction(namespaceID, nil, message, testDeadline(), model.TestNet)
	assert.False(t, aliased.ShouldNotifyAccount(recipient.Address, nil))
	assert.True(t, aliased.ShouldNotifyAccount(recipient.Address, []model.NamespaceID{namespaceID}))

	multisig := NewMultisigAccountModificationTransaction(1, 1, []model.UnresolvedAddress{recipient.Address}, nil, testDeadline(), model.TestNet)
	assert.True(t, multisig.ShouldNotifyAccount(recipient.Address, nil))
	assert.False(t, multisig.ShouldNotifyAccount(stranger.Address, nil))
}

func TestSetMaxFee(t *testing.T) {
	tx := testTransfer(t)
	updated, err := SetMaxFee(tx, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(tx.Size()*100), updated.Header().MaxFee)
	assert.Equal(t, uint64(0), tx.MaxFee)

	_, err = SetMaxFee(tx, ^uint32(0))
	assert.NoError(t, err)
}

func TestBodyParserRegistryCoversAllTypes(t *testing.T) {
	require.Len(t, bodyParsers, len(transactionTypeNames))
	for txType := range transactionTypeNames {
		assert.Contains(t, bodyParsers, txType, txType.String())
	}
}
