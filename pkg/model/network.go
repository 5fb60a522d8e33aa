// Package model holds the typed chain primitives: networks, addresses,
// mosaic and namespace identifiers, messages, deadlines and accounts.
package model

import "fmt"

// NetworkType identifies the chain a signed entity belongs to. Its value is
// embedded in every signed byte buffer as the low byte of the version field.
//
// All network type values are even. The lowest bit of an address' leading
// byte is reserved to tag a namespace alias standing in for the address.
type NetworkType uint8

const (
	// MainNet is the public production network.
	MainNet NetworkType = 104
	// TestNet is the public test network.
	TestNet NetworkType = 152
	// Mijin is the private network.
	Mijin NetworkType = 96
	// MijinTest is the private test network.
	MijinTest NetworkType = 144
	// Private is the isolated production network.
	Private NetworkType = 120
	// PrivateTest is the isolated test network.
	PrivateTest NetworkType = 168
)

// NetworkTypeFromValue validates a raw network byte.
func NetworkTypeFromValue(value uint8) (NetworkType, error) {
	switch NetworkType(value) {
	case MainNet, TestNet, Mijin, MijinTest, Private, PrivateTest:
		return NetworkType(value), nil
	}
	return 0, fmt.Errorf("unknown network type %d", value)
}

func (n NetworkType) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	case Mijin:
		return "mijin"
	case MijinTest:
		return "mijinTest"
	case Private:
		return "private"
	case PrivateTest:
		return "privateTest"
	}
	return fmt.Sprintf("unknown(%d)", uint8(n))
}
