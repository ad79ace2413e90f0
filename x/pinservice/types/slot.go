package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ContentDigest is the sha256 digest of a content identifier string.
type ContentDigest [sha256.Size]byte

// DigestContentID hashes a content identifier into its slot digest.
func DigestContentID(contentID string) ContentDigest {
	return sha256.Sum256([]byte(contentID))
}

// String returns the lowercase hex encoding of the digest.
func (d ContentDigest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalJSON encodes the digest as a hex string.
func (d ContentDigest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a hex string digest.
func (d *ContentDigest) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("content digest: %w", err)
	}
	if len(raw) != sha256.Size {
		return fmt.Errorf("content digest: expected %d bytes, got %d", sha256.Size, len(raw))
	}
	copy(d[:], raw)
	return nil
}

// PinSlot is an escrowed request to replicate one piece of content.
type PinSlot struct {
	Publisher     string        `json:"publisher"`
	ContentDigest ContentDigest `json:"content_digest"`
	OfferPrice    uint64        `json:"offer_price"`
	PinQty        uint32        `json:"pin_qty"`
	PinsRemaining uint32        `json:"pins_remaining"`
	EscrowBalance uint64        `json:"escrow_balance"`
	CreatedAt     int64         `json:"created_at"`
	Claims        []string      `json:"claims"`
}

// HasClaim reports whether addr already collected this slot.
func (s PinSlot) HasClaim(addr string) bool {
	for _, c := range s.Claims {
		if c == addr {
			return true
		}
	}
	return false
}

// ValidateEscrow checks the slot escrow and claim invariants.
func (s PinSlot) ValidateEscrow() error {
	if s.PinsRemaining > s.PinQty {
		return fmt.Errorf("pins remaining %d exceeds pin qty %d", s.PinsRemaining, s.PinQty)
	}
	if uint64(s.PinsRemaining)*s.OfferPrice != s.EscrowBalance {
		return fmt.Errorf("escrow %d != pins remaining %d * offer %d", s.EscrowBalance, s.PinsRemaining, s.OfferPrice)
	}
	if len(s.Claims) > int(s.PinQty) {
		return fmt.Errorf("%d claims exceed pin qty %d", len(s.Claims), s.PinQty)
	}
	if uint32(len(s.Claims))+s.PinsRemaining != s.PinQty {
		return fmt.Errorf("claims %d + pins remaining %d != pin qty %d", len(s.Claims), s.PinsRemaining, s.PinQty)
	}
	seen := make(map[string]struct{}, len(s.Claims))
	for _, c := range s.Claims {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate claim by %s", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// SlotEntry is one cell of the slot arena: either empty or holding a PinSlot.
type SlotEntry struct {
	ID   uint32
	slot *PinSlot
}

// EmptySlot returns an empty arena cell.
func EmptySlot(id uint32) SlotEntry {
	return SlotEntry{ID: id}
}

// OccupiedSlot returns an arena cell holding slot.
func OccupiedSlot(id uint32, slot PinSlot) SlotEntry {
	return SlotEntry{ID: id, slot: &slot}
}

// IsEmpty reports whether the cell holds no slot.
func (e SlotEntry) IsEmpty() bool {
	return e.slot == nil
}

// Slot returns the held slot and whether the cell is occupied.
func (e SlotEntry) Slot() (PinSlot, bool) {
	if e.slot == nil {
		return PinSlot{}, false
	}
	return *e.slot, true
}

// ValidateSlotID rejects indices outside the arena.
func ValidateSlotID(id uint32) error {
	if id >= SlotCapacity {
		return ErrInvalidSlotID.Wrapf("slot %d outside [0, %d)", id, SlotCapacity)
	}
	return nil
}

// SlotInfo is the query view of an occupied slot.
type SlotInfo struct {
	ID      uint32  `json:"id"`
	Slot    PinSlot `json:"slot"`
	Expired bool    `json:"expired"`
}
