// Package receipt models the per block resolution statements produced by the
// chain and the lookup deciding which resolution was in effect when a given
// transaction executed.
package receipt

import (
	"errors"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/model"
)

var (
	// ErrUnresolved is returned when an alias has no resolution statement in
	// the consulted block.
	ErrUnresolved = errors.New("no resolution statement for alias")
	// ErrNoEntry is returned when a statement matches but no entry precedes
	// the query coordinate. The chain guarantees at least one entry at or
	// before any point which referenced the alias, so hitting this means the
	// statement data is inconsistent.
	ErrNoEntry = errors.New("no resolution entry at or before source")
)

// Source locates the receipt inside its block: the 1-based index of the
// triggering transaction and, for transactions inside an aggregate, the
// 1-based index of the inner transaction.
type Source struct {
	Primary   uint32 `json:"primaryId"`
	Secondary uint32 `json:"secondaryId"`
}

// Precedes reports whether s comes at or before other in block order.
// Ordering is lexicographic: primary index first, then secondary.
func (s Source) Precedes(other Source) bool {
	if s.Primary != other.Primary {
		return s.Primary < other.Primary
	}
	return s.Secondary <= other.Secondary
}

// AddressResolutionEntry records one concrete address a namespace alias
// resolved to from a given source onward.
type AddressResolutionEntry struct {
	Source   Source        `json:"source"`
	Resolved model.Address `json:"resolved"`
}

// AddressResolutionStatement collects every resolution of one unresolved
// address within one block. Resolutions can be superseded later in the same
// block, hence the entry list.
type AddressResolutionStatement struct {
	Height     uint64                   `json:"height"`
	Unresolved model.UnresolvedAddress  `json:"unresolved"`
	Entries    []AddressResolutionEntry `json:"resolutionEntries"`
}

// MosaicResolutionEntry records one concrete mosaic id an alias resolved to.
type MosaicResolutionEntry struct {
	Source   Source         `json:"source"`
	Resolved model.MosaicID `json:"resolved"`
}

// MosaicResolutionStatement collects every resolution of one unresolved
// mosaic id within one block.
type MosaicResolutionStatement struct {
	Height     uint64                   `json:"height"`
	Unresolved model.UnresolvedMosaicID `json:"unresolved"`
	Entries    []MosaicResolutionEntry  `json:"resolutionEntries"`
}

// Statement bundles the resolution statements of one block.
type Statement struct {
	AddressResolutions []AddressResolutionStatement `json:"addressResolutionStatements"`
	MosaicResolutions  []MosaicResolutionStatement  `json:"mosaicResolutionStatements"`
}

// ResolveAddress resolves an unresolved address as seen by the transaction
// at the given block coordinate. A value which is already a concrete address
// passes through unchanged. Among the entries of the matching statement the
// one with the greatest source at or before the query coordinate wins,
// modelling the resolution in effect at execution time.
func (s *Statement) ResolveAddress(unresolved model.UnresolvedAddress, height uint64, source Source) (model.Address, error) {
	if address, ok := unresolved.(model.Address); ok {
		return address, nil
	}
	for _, statement := range s.AddressResolutions {
		if statement.Height != height || statement.Unresolved != unresolved {
			continue
		}
		found := false
		var best AddressResolutionEntry
		for _, entry := range statement.Entries {
			if !entry.Source.Precedes(source) {
				continue
			}
			if !found || best.Source.Precedes(entry.Source) {
				best = entry
				found = true
			}
		}
		if !found {
			return model.Address{}, fmt.Errorf("%w: alias %v at height %d source (%d,%d)", ErrNoEntry, unresolved, height, source.Primary, source.Secondary)
		}
		return best.Resolved, nil
	}
	return model.Address{}, fmt.Errorf("%w: address alias %v at height %d", ErrUnresolved, unresolved, height)
}

// ResolveMosaicID resolves an unresolved mosaic id the same way.
func (s *Statement) ResolveMosaicID(unresolved model.UnresolvedMosaicID, height uint64, source Source) (model.MosaicID, error) {
	if id, ok := unresolved.(model.MosaicID); ok {
		return id, nil
	}
	for _, statement := range s.MosaicResolutions {
		if statement.Height != height || statement.Unresolved != unresolved {
			continue
		}
		found := false
		var best MosaicResolutionEntry
		for _, entry := range statement.Entries {
			if !entry.Source.Precedes(source) {
				continue
			}
			if !found || best.Source.Precedes(entry.Source) {
				best = entry
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: alias %v at height %d source (%d,%d)", ErrNoEntry, unresolved, height, source.Primary, source.Secondary)
		}
		return best.Resolved, nil
	}
	return 0, fmt.Errorf("%w: mosaic alias %v at height %d", ErrUnresolved, unresolved, height)
}

// ResolveMosaic resolves a mosaic's id, keeping its amount.
func (s *Statement) ResolveMosaic(mosaic model.Mosaic, height uint64, source Source) (model.Mosaic, error) {
	resolved, err := s.ResolveMosaicID(mosaic.ID, height, source)
	if err != nil {
		return model.Mosaic{}, err
	}
	return model.NewMosaic(resolved, mosaic.Amount), nil
}
