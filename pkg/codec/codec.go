// Package codec implements the fixed-layout little-endian serialization used
// by catapult wire entities and the textual encodings of the chain primitives
// (16-digit hex uint64, decimal string amounts, base32 addresses).
package codec
