package types

import (
	"fmt"
)

// GenesisSlot is an occupied slot in genesis.
type GenesisSlot struct {
	ID   uint32  `json:"id"`
	Slot PinSlot `json:"slot"`
}

// GenesisFlaggers is the accumulated flagger list for one target.
type GenesisFlaggers struct {
	Target   string   `json:"target"`
	Flaggers []string `json:"flaggers"`
}

// GenesisState defines the pinservice module's genesis state.
type GenesisState struct {
	Config   ServiceConfig     `json:"config"`
	Admins   []string          `json:"admins"`
	Pinners  []Pinner          `json:"pinners"`
	Slots    []GenesisSlot     `json:"slots"`
	Flaggers []GenesisFlaggers `json:"flaggers"`
}

// DefaultGenesis returns the default genesis state. It has no admin and must be
// completed before use.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Config:   DefaultServiceConfig(),
		Admins:   []string{},
		Pinners:  []Pinner{},
		Slots:    []GenesisSlot{},
		Flaggers: []GenesisFlaggers{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if len(gs.Admins) == 0 {
		return fmt.Errorf("at least one admin is required")
	}
	seenAdmins := make(map[string]bool)
	for i, a := range gs.Admins {
		if _, err := ValidateAddress("admin", a); err != nil {
			return fmt.Errorf("admin %d: %w", i, err)
		}
		if seenAdmins[a] {
			return fmt.Errorf("admin %d: duplicate admin %s", i, a)
		}
		seenAdmins[a] = true
	}

	pinners := make(map[string]Pinner)
	for i, p := range gs.Pinners {
		if _, err := ValidateAddress("pinner", p.Address); err != nil {
			return fmt.Errorf("pinner %d: %w", i, err)
		}
		if _, dup := pinners[p.Address]; dup {
			return fmt.Errorf("pinner %d: duplicate pinner %s", i, p.Address)
		}
		if !p.Active && p.Staked != 0 {
			return fmt.Errorf("pinner %s: inactive pinner holds stake %d", p.Address, p.Staked)
		}
		pinners[p.Address] = p
	}

	seenSlots := make(map[uint32]bool)
	for _, s := range gs.Slots {
		if err := ValidateSlotID(s.ID); err != nil {
			return err
		}
		if seenSlots[s.ID] {
			return fmt.Errorf("slot %d: duplicate slot", s.ID)
		}
		seenSlots[s.ID] = true
		if _, err := ValidateAddress("publisher", s.Slot.Publisher); err != nil {
			return fmt.Errorf("slot %d: %w", s.ID, err)
		}
		if err := s.Slot.ValidateEscrow(); err != nil {
			return fmt.Errorf("slot %d: %w", s.ID, err)
		}
	}

	for _, f := range gs.Flaggers {
		target, ok := pinners[f.Target]
		if !ok {
			return fmt.Errorf("flaggers for unknown pinner %s", f.Target)
		}
		if uint32(len(f.Flaggers)) > target.Flags {
			return fmt.Errorf("pinner %s: %d flaggers exceed %d flags", f.Target, len(f.Flaggers), target.Flags)
		}
		seen := make(map[string]bool)
		for _, flagger := range f.Flaggers {
			if _, err := ValidateAddress("flagger", flagger); err != nil {
				return fmt.Errorf("pinner %s: %w", f.Target, err)
			}
			if flagger == f.Target || seen[flagger] {
				return fmt.Errorf("pinner %s: invalid flagger %s", f.Target, flagger)
			}
			seen[flagger] = true
		}
	}

	return nil
}
