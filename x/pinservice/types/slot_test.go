package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestContentDigestJSON(t *testing.T) {
	d := types.DigestContentID("bafkreigh2akiscaildc")
	bz, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"`+d.String()+`"`, string(bz))

	var decoded types.ContentDigest
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.Equal(t, d, decoded)

	require.Error(t, json.Unmarshal([]byte(`"abcd"`), &decoded))
	require.Error(t, json.Unmarshal([]byte(`"zz"`), &decoded))
}

func TestValidateEscrow(t *testing.T) {
	valid := types.PinSlot{OfferPrice: 10, PinQty: 3, PinsRemaining: 1, EscrowBalance: 10, Claims: []string{"a", "b"}}
	require.NoError(t, valid.ValidateEscrow())

	tests := []struct {
		name   string
		mutate func(*types.PinSlot)
	}{
		{"remaining above qty", func(s *types.PinSlot) { s.PinsRemaining = 4 }},
		{"escrow mismatch", func(s *types.PinSlot) { s.EscrowBalance = 11 }},
		{"claims mismatch", func(s *types.PinSlot) { s.Claims = []string{"a"} }},
		{"duplicate claim", func(s *types.PinSlot) { s.Claims = []string{"a", "a"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			s.Claims = append([]string{}, valid.Claims...)
			tc.mutate(&s)
			require.Error(t, s.ValidateEscrow())
		})
	}
}

func TestSlotEntry(t *testing.T) {
	empty := types.EmptySlot(2)
	require.True(t, empty.IsEmpty())
	_, ok := empty.Slot()
	require.False(t, ok)

	occupied := types.OccupiedSlot(3, types.PinSlot{PinQty: 1})
	require.False(t, occupied.IsEmpty())
	slot, ok := occupied.Slot()
	require.True(t, ok)
	require.Equal(t, uint32(1), slot.PinQty)
	require.True(t, types.PinSlot{Claims: []string{"x"}}.HasClaim("x"))

	require.NoError(t, types.ValidateSlotID(types.SlotCapacity-1))
	require.ErrorIs(t, types.ValidateSlotID(types.SlotCapacity), types.ErrInvalidSlotID)
}
