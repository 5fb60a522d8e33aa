package transaction

import (
	"encoding/binary"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
)

// SignedTransaction is the announceable result of signing: the payload is
// handed verbatim to the transport's announce call.
type SignedTransaction struct {
	Payload         codec.Hex         `json:"payload"`
	Hash            codec.Hex         `json:"hash"`
	SignerPublicKey codec.Hex         `json:"signerPublicKey"`
	Type            TransactionType   `json:"type"`
	Network         model.NetworkType `json:"networkType"`
}

// Cosignature is one (signer, signature) pair attached to an aggregate, in
// the order cosigners signed.
type Cosignature struct {
	Signer    *model.PublicAccount `json:"signer"`
	Signature codec.Hex            `json:"signature"`
}

// CosignatureSignedTransaction is a detached cosignature of a parent
// aggregate hash, produced offline or by a cosignature announce flow.
type CosignatureSignedTransaction struct {
	ParentHash      codec.Hex `json:"parentHash"`
	Signature       codec.Hex `json:"signature"`
	SignerPublicKey codec.Hex `json:"signerPublicKey"`
}

// Sign produces the signed top level payload of any transaction kind. The
// generation hash is mixed into the signed message so a signature can never
// replay on another network. The signature scheme signs everything from the
// version field onward; signature and signer bytes are then written back in
// place over their zero placeholders.
func Sign(tx Transaction, signer *model.Account, generationHash []byte) (*SignedTransaction, error) {
	if signer == nil {
		return nil, ErrMissingSigner
	}
	if len(generationHash) != GenerationHashSize {
		return nil, fmt.Errorf("%w: generation hash must have length of %d but received %d", codec.ErrInvalidArgument, GenerationHashSize, len(generationHash))
	}
	prepared := tx.clone()
	if prepared.Header().Signer == nil {
		prepared.Header().Signer = &signer.PublicAccount
	}
	payload, err := prepared.Serialize()
	if err != nil {
		return nil, err
	}
	signingData := append(codec.Copy(generationHash), payload[signingDataOffset:]...)
	signature, err := signer.Sign(signingData)
	if err != nil {
		return nil, err
	}
	copy(payload[signatureOffset:signerOffset], signature)
	copy(payload[signerOffset:signingDataOffset], signer.PublicKey)

	header := tx.Header()
	return &SignedTransaction{
		Payload:         payload,
		Hash:            entityHash(signature, signer.PublicKey, generationHash, payload),
		SignerPublicKey: signer.PublicKey,
		Type:            header.Type,
		Network:         header.Network,
	}, nil
}

// entityHash computes the confirmed transaction hash: sha3-256 over the
// signature, the signer key, the generation hash and the signed byte range.
func entityHash(signature, signerKey, generationHash, payload []byte) codec.Hex {
	return crypto.Sha3256(signature, signerKey, generationHash, payload[signingDataOffset:])
}

// CosignHash signs an aggregate transaction hash with a cosigner's key,
// yielding the detached record other parties can collect offline.
func CosignHash(parentHash codec.Hex, cosigner *model.Account) (*CosignatureSignedTransaction, error) {
	if len(parentHash) != crypto.HashLength {
		return nil, fmt.Errorf("%w: parent hash must have length of %d but received %d", codec.ErrInvalidArgument, crypto.HashLength, len(parentHash))
	}
	signature, err := cosigner.Sign(parentHash)
	if err != nil {
		return nil, err
	}
	return &CosignatureSignedTransaction{
		ParentHash:      parentHash,
		Signature:       signature,
		SignerPublicKey: cosigner.PublicKey,
	}, nil
}

// appendCosignatures grows a signed aggregate payload with 96 byte
// cosignature records and rewrites the leading size field. Skipping the size
// rewrite would corrupt every cosigned aggregate, the chain validates the
// field against the received byte count.
func appendCosignatures(signed *SignedTransaction, cosignatures []CosignatureSignedTransaction) (*SignedTransaction, error) {
	payload := codec.Copy(signed.Payload)
	for _, cosignature := range cosignatures {
		if len(cosignature.SignerPublicKey) != crypto.EdPublicKeyLength {
			return nil, fmt.Errorf("%w: cosigner public key must have length of %d but received %d", codec.ErrInvalidArgument, crypto.EdPublicKeyLength, len(cosignature.SignerPublicKey))
		}
		if len(cosignature.Signature) != crypto.EdSignatureLength {
			return nil, fmt.Errorf("%w: cosignature must have length of %d but received %d", codec.ErrInvalidArgument, crypto.EdSignatureLength, len(cosignature.Signature))
		}
		payload = append(payload, cosignature.SignerPublicKey...)
		payload = append(payload, cosignature.Signature...)
	}
	binary.LittleEndian.PutUint32(payload[:4], uint32(len(payload)))
	updated := *signed
	updated.Payload = payload
	return &updated, nil
}
