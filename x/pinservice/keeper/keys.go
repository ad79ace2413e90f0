package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// SlotKey returns the store key for a slot index
func SlotKey(slotID uint32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, slotID)
	return append(append([]byte{}, types.SlotKeyPrefix...), bz...)
}

// PinnerKey returns the store key for a pinner
func PinnerKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, types.PinnerKeyPrefix...), address.MustLengthPrefix(addr)...)
}

// FlagKey returns the store key for the flag cast by flagger against target
func FlagKey(flagger, target sdk.AccAddress) []byte {
	key := append([]byte{}, types.FlagKeyPrefix...)
	key = append(key, address.MustLengthPrefix(target)...)
	return append(key, address.MustLengthPrefix(flagger)...)
}

// FlaggersKey returns the store key for the flagger list of target
func FlaggersKey(target sdk.AccAddress) []byte {
	return append(append([]byte{}, types.FlaggersKeyPrefix...), address.MustLengthPrefix(target)...)
}
