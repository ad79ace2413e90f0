package types_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func validGenesis() types.GenesisState {
	admin := sdk.AccAddress("admin-address-000001").String()
	pinner := sdk.AccAddress("pinner-address-00001").String()
	flagger := sdk.AccAddress("flagger-address-0001").String()

	gs := *types.DefaultGenesis()
	gs.Admins = []string{admin}
	gs.Pinners = []types.Pinner{
		{Address: pinner, NodeID: "n1", Multiaddr: "/ip4/1.2.3.4/tcp/1", Staked: 100, Flags: 1, Active: true},
		{Address: flagger, NodeID: "n2", Multiaddr: "/ip4/1.2.3.5/tcp/1", Staked: 100, Active: true},
	}
	gs.Slots = []types.GenesisSlot{{
		ID: 4,
		Slot: types.PinSlot{
			Publisher:     admin,
			ContentDigest: types.DigestContentID("x"),
			OfferPrice:    10,
			PinQty:        2,
			PinsRemaining: 1,
			EscrowBalance: 10,
			Claims:        []string{pinner},
		},
	}}
	gs.Flaggers = []types.GenesisFlaggers{{Target: pinner, Flaggers: []string{flagger}}}
	return gs
}

func TestGenesisState_Validate(t *testing.T) {
	require.NoError(t, validGenesis().Validate())
	require.Error(t, types.DefaultGenesis().Validate(), "default genesis has no admin")

	tests := []struct {
		name   string
		mutate func(*types.GenesisState)
	}{
		{"bad config", func(gs *types.GenesisState) { gs.Config.MaxCycles = 0 }},
		{"duplicate admin", func(gs *types.GenesisState) { gs.Admins = append(gs.Admins, gs.Admins[0]) }},
		{"bad admin", func(gs *types.GenesisState) { gs.Admins = []string{"nope"} }},
		{"duplicate pinner", func(gs *types.GenesisState) { gs.Pinners = append(gs.Pinners, gs.Pinners[0]) }},
		{"inactive pinner with stake", func(gs *types.GenesisState) { gs.Pinners[0].Active = false }},
		{"slot out of range", func(gs *types.GenesisState) { gs.Slots[0].ID = types.SlotCapacity }},
		{"duplicate slot", func(gs *types.GenesisState) { gs.Slots = append(gs.Slots, gs.Slots[0]) }},
		{"escrow mismatch", func(gs *types.GenesisState) { gs.Slots[0].Slot.EscrowBalance = 20 }},
		{"flaggers for unknown pinner", func(gs *types.GenesisState) {
			gs.Flaggers[0].Target = sdk.AccAddress("someone-else-0000001").String()
		}},
		{"more flaggers than flags", func(gs *types.GenesisState) { gs.Pinners[0].Flags = 0 }},
		{"self flag", func(gs *types.GenesisState) { gs.Flaggers[0].Flaggers = []string{gs.Flaggers[0].Target} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := validGenesis()
			tc.mutate(&gs)
			require.Error(t, gs.Validate())
		})
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	require.NoError(t, types.DefaultServiceConfig().Validate())

	config := types.DefaultServiceConfig()
	config.MinPinQty = types.SlotCapacity + 1
	require.ErrorIs(t, config.Validate(), types.ErrInvalidConfig)

	config = types.DefaultServiceConfig()
	config.PayDenom = "1"
	require.ErrorIs(t, config.Validate(), types.ErrInvalidConfig)
}
