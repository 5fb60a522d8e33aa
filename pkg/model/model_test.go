package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
)

func testAddress(t *testing.T, network NetworkType) Address {
	t.Helper()
	address, err := NewAddressFromPublicKey(crypto.RandomBytes(32), network)
	require.NoError(t, err)
	return address
}

func TestNetworkTypeFromValue(t *testing.T) {
	for _, network := range []NetworkType{MainNet, TestNet, Mijin, MijinTest, Private, PrivateTest} {
		parsed, err := NetworkTypeFromValue(uint8(network))
		assert.NoError(t, err)
		assert.Equal(t, network, parsed)
		// the alias tag bit is never part of a network value
		assert.Zero(t, uint8(network)&0x01)
	}
	_, err := NetworkTypeFromValue(7)
	assert.Error(t, err)
}

func TestAddressRoundTrip(t *testing.T) {
	address := testAddress(t, TestNet)

	plain := address.Plain()
	assert.Len(t, plain, AddressPlainSize)
	fromPlain, err := NewAddressFromPlain(plain)
	require.NoError(t, err)
	assert.True(t, address.Equal(fromPlain))

	encoded := address.Encoded()
	assert.Len(t, encoded, AddressEncodedSize)
	fromEncoded, err := NewAddressFromEncoded(encoded)
	require.NoError(t, err)
	assert.True(t, address.Equal(fromEncoded))
	assert.Equal(t, encoded, fromEncoded.Encoded())

	assert.Equal(t, TestNet, address.Network())
}

func TestAddressChecksum(t *testing.T) {
	address := testAddress(t, MainNet)
	raw := address.Bytes()
	raw[22] ^= 0xFF
	_, err := NewAddressFromRaw(raw)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	_, err = NewAddressFromRaw(raw[:24])
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestAddressJSON(t *testing.T) {
	address := testAddress(t, TestNet)
	marshaled, err := json.Marshal(address)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(marshaled, &decoded))
	assert.True(t, address.Equal(decoded))

	var fromEncoded Address
	require.NoError(t, json.Unmarshal([]byte(`"`+address.Encoded()+`"`), &fromEncoded))
	assert.True(t, address.Equal(fromEncoded))
}

func TestNamespaceIDDerivation(t *testing.T) {
	// known chain constants
	nem, err := NewNamespaceIDFromName("nem")
	require.NoError(t, err)
	assert.Equal(t, "84B3552D375FFA4B", nem.Hex())

	catCurrency, err := NewNamespaceIDFromName("cat.currency")
	require.NoError(t, err)
	assert.Equal(t, "85BBEA6CC462B244", catCurrency.Hex())

	// two step derivation agrees with the dotted form
	cat, err := NewNamespaceIDFromName("cat")
	require.NoError(t, err)
	child, err := DeriveChildNamespaceID(cat, "currency")
	require.NoError(t, err)
	assert.Equal(t, catCurrency, child)

	// the namespace bit is always set
	assert.NotZero(t, uint64(nem)&(uint64(1)<<63))
}

func TestNamespaceIDValidation(t *testing.T) {
	_, err := NewNamespaceIDFromName("")
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
	_, err = NewNamespaceIDFromName("UPPER")
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
	_, err = NewNamespaceIDFromName("root..child")
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	id, err := NewNamespaceIDFromHex("85BBEA6CC462B244")
	require.NoError(t, err)
	assert.Equal(t, NamespaceID(0x85BBEA6CC462B244), id)
}

func TestMosaicIDFromNonce(t *testing.T) {
	owner := testAddress(t, TestNet)
	id1 := NewMosaicIDFromNonce(1, owner)
	id2 := NewMosaicIDFromNonce(1, owner)
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, NewMosaicIDFromNonce(2, owner))
	// the namespace bit is always clear
	assert.Zero(t, uint64(id1)&(uint64(1)<<63))
}

func TestSortMosaics(t *testing.T) {
	mosaics := []Mosaic{
		NewMosaic(MosaicID(300), 1),
		NewMosaic(MosaicID(100), 2),
		NewMosaic(MosaicID(200), 3),
	}
	sorted := SortMosaics(mosaics)
	assert.Equal(t, uint64(100), sorted[0].ID.ID())
	assert.Equal(t, uint64(200), sorted[1].ID.ID())
	assert.Equal(t, uint64(300), sorted[2].ID.ID())
	// input not mutated
	assert.Equal(t, uint64(300), mosaics[0].ID.ID())
}

func TestUnresolvedAddressEncoding(t *testing.T) {
	address := testAddress(t, TestNet)
	encoded, err := EncodeUnresolvedAddress(address, TestNet)
	require.NoError(t, err)
	decoded, err := DecodeUnresolvedAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, address, decoded)

	alias := NamespaceID(0x85BBEA6CC462B244)
	encoded, err = EncodeUnresolvedAddress(alias, TestNet)
	require.NoError(t, err)
	assert.Equal(t, byte(TestNet)|0x01, encoded[0])
	decoded, err = DecodeUnresolvedAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, alias, decoded)

	_, err = DecodeUnresolvedAddress(encoded[:10])
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestDecodeUnresolvedMosaicID(t *testing.T) {
	assert.Equal(t, MosaicID(0x12345678), DecodeUnresolvedMosaicID(0x12345678))
	assert.Equal(t, NamespaceID(0x85BBEA6CC462B244), DecodeUnresolvedMosaicID(0x85BBEA6CC462B244))
}

func TestMessage(t *testing.T) {
	message, err := NewPlainMessage("test-message")
	require.NoError(t, err)
	assert.Equal(t, 13, message.Size())
	assert.Equal(t, append([]byte{0x00}, []byte("test-message")...), message.Bytes())
	assert.Equal(t, "test-message", message.Text())

	// byte length, not character length
	utf8Message, err := NewPlainMessage("猫")
	require.NoError(t, err)
	assert.Equal(t, 4, utf8Message.Size())

	empty, err := NewPlainMessage("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Size())
	assert.Nil(t, empty.Bytes())

	_, err = NewPlainMessage(string(make([]byte, MaxMessageSize+1)))
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	raw, err := NewRawMessage(message.Bytes())
	require.NoError(t, err)
	assert.Equal(t, message, raw)

	_, err = NewRawMessage([]byte{0x77, 0x01})
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
}

func TestDeadline(t *testing.T) {
	const epochAdjustment = 1573430400

	deadline, err := NewDeadline(epochAdjustment, 2*time.Hour)
	require.NoError(t, err)
	assert.NotZero(t, deadline.Value)

	_, err = NewDeadline(epochAdjustment, 0)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)
	_, err = NewDeadline(epochAdjustment, -1)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	assert.Zero(t, EmbeddedDeadline().Value)
	assert.Equal(t, uint64(42), NewDeadlineFromValue(42).Value)
}

func TestAccount(t *testing.T) {
	account, err := NewAccountFromPassphrase("lorem ipsum", TestNet)
	require.NoError(t, err)
	again, err := NewAccountFromPassphrase("lorem ipsum", TestNet)
	require.NoError(t, err)
	assert.True(t, account.PublicAccount.Equal(&again.PublicAccount))

	message := []byte("payload")
	signature, err := account.Sign(message)
	require.NoError(t, err)
	assert.NoError(t, crypto.VerifySignature(account.PublicKey, signature, message))

	_, err = NewAccountFromPrivateKey(crypto.RandomBytes(16), TestNet)
	assert.ErrorIs(t, err, codec.ErrInvalidArgument)

	seed := crypto.RandomBytes(32)
	fromSeed, err := NewAccountFromPrivateKey(seed, TestNet)
	require.NoError(t, err)
	assert.Equal(t, codec.Hex(crypto.GetEdPublicKey(seed)), fromSeed.PublicKey)

	phrase, err := crypto.GenerateRecoveryPhrase()
	require.NoError(t, err)
	derived, err := NewAccountFromRecoveryPhrase(phrase, crypto.DefaultDerivationPath, TestNet)
	require.NoError(t, err)
	derivedAgain, err := NewAccountFromRecoveryPhrase(phrase, crypto.DefaultDerivationPath, TestNet)
	require.NoError(t, err)
	assert.True(t, derived.PublicAccount.Equal(&derivedAgain.PublicAccount))
}
