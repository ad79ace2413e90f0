package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// GetConfig returns the service configuration
func (k Keeper) GetConfig(ctx context.Context) (types.ServiceConfig, error) {
	bz := k.getStore(ctx).Get(types.ConfigKey)
	if bz == nil {
		return types.ServiceConfig{}, types.ErrNotInitialized
	}
	var config types.ServiceConfig
	if err := json.Unmarshal(bz, &config); err != nil {
		return types.ServiceConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

// SetConfig stores the service configuration
func (k Keeper) SetConfig(ctx context.Context, config types.ServiceConfig) error {
	bz, err := json.Marshal(&config)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.ConfigKey, bz)
	return nil
}

// GetAdminList returns the ordered admin list; index 0 is the founding admin.
func (k Keeper) GetAdminList(ctx context.Context) ([]string, error) {
	bz := k.getStore(ctx).Get(types.AdminListKey)
	if bz == nil {
		return []string{}, nil
	}
	var admins []string
	if err := json.Unmarshal(bz, &admins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin list: %w", err)
	}
	return admins, nil
}

func (k Keeper) setAdminList(ctx context.Context, admins []string) error {
	bz, err := json.Marshal(admins)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.AdminListKey, bz)
	return nil
}

// GetPinnerCount returns the number of registered pinners
func (k Keeper) GetPinnerCount(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PinnerCountKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setPinnerCount(ctx context.Context, count uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, count)
	k.getStore(ctx).Set(types.PinnerCountKey, bz)
}

// GetPinner returns a pinner by address
func (k Keeper) GetPinner(ctx context.Context, addr sdk.AccAddress) (*types.Pinner, error) {
	bz := k.getStore(ctx).Get(PinnerKey(addr))
	if bz == nil {
		return nil, types.ErrNotPinner.Wrapf("%s", addr)
	}
	var pinner types.Pinner
	if err := json.Unmarshal(bz, &pinner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pinner: %w", err)
	}
	return &pinner, nil
}

// IsPinner reports whether addr is registered
func (k Keeper) IsPinner(ctx context.Context, addr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(PinnerKey(addr))
}

// SetPinner stores a pinner
func (k Keeper) SetPinner(ctx context.Context, pinner types.Pinner) error {
	addr, err := sdk.AccAddressFromBech32(pinner.Address)
	if err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	bz, err := json.Marshal(&pinner)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(PinnerKey(addr), bz)
	return nil
}

func (k Keeper) deletePinner(ctx context.Context, addr sdk.AccAddress) {
	k.getStore(ctx).Delete(PinnerKey(addr))
}

// IteratePinners iterates over all pinners
func (k Keeper) IteratePinners(ctx context.Context, cb func(pinner types.Pinner) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PinnerKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pinner types.Pinner
		if err := json.Unmarshal(iterator.Value(), &pinner); err != nil {
			return fmt.Errorf("failed to unmarshal pinner: %w", err)
		}
		stop, err := cb(pinner)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// loadSlot returns the arena cell at slotID.
func (k Keeper) loadSlot(ctx context.Context, slotID uint32) (types.SlotEntry, error) {
	if err := types.ValidateSlotID(slotID); err != nil {
		return types.SlotEntry{}, err
	}
	bz := k.getStore(ctx).Get(SlotKey(slotID))
	if bz == nil {
		return types.EmptySlot(slotID), nil
	}
	var slot types.PinSlot
	if err := json.Unmarshal(bz, &slot); err != nil {
		return types.SlotEntry{}, fmt.Errorf("failed to unmarshal slot %d: %w", slotID, err)
	}
	return types.OccupiedSlot(slotID, slot), nil
}

// occupiedSlot returns the slot at slotID or ErrSlotNotActive when the cell is empty.
func (k Keeper) occupiedSlot(ctx context.Context, slotID uint32) (types.PinSlot, error) {
	entry, err := k.loadSlot(ctx, slotID)
	if err != nil {
		return types.PinSlot{}, err
	}
	slot, ok := entry.Slot()
	if !ok {
		return types.PinSlot{}, types.ErrSlotNotActive.Wrapf("slot %d", slotID)
	}
	return slot, nil
}

func (k Keeper) setSlot(ctx context.Context, slotID uint32, slot types.PinSlot) error {
	bz, err := json.Marshal(&slot)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(SlotKey(slotID), bz)
	return nil
}

func (k Keeper) deleteSlot(ctx context.Context, slotID uint32) {
	k.getStore(ctx).Delete(SlotKey(slotID))
}

// HasFlagged reports whether flagger has an outstanding flag against target
func (k Keeper) HasFlagged(ctx context.Context, flagger, target sdk.AccAddress) bool {
	return k.getStore(ctx).Has(FlagKey(flagger, target))
}

func (k Keeper) setFlag(ctx context.Context, flagger, target sdk.AccAddress) {
	k.getStore(ctx).Set(FlagKey(flagger, target), []byte{0x01})
}

func (k Keeper) deleteFlag(ctx context.Context, flagger, target sdk.AccAddress) {
	k.getStore(ctx).Delete(FlagKey(flagger, target))
}

// GetFlaggers returns the flaggers accumulated against target since the last reset
func (k Keeper) GetFlaggers(ctx context.Context, target sdk.AccAddress) ([]string, error) {
	bz := k.getStore(ctx).Get(FlaggersKey(target))
	if bz == nil {
		return []string{}, nil
	}
	var flaggers []string
	if err := json.Unmarshal(bz, &flaggers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flaggers: %w", err)
	}
	return flaggers, nil
}

func (k Keeper) setFlaggers(ctx context.Context, target sdk.AccAddress, flaggers []string) error {
	bz, err := json.Marshal(flaggers)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(FlaggersKey(target), bz)
	return nil
}

func (k Keeper) deleteFlaggers(ctx context.Context, target sdk.AccAddress) {
	k.getStore(ctx).Delete(FlaggersKey(target))
}

// IterateFlaggers iterates over every target with a non-empty flagger list
func (k Keeper) IterateFlaggers(ctx context.Context, cb func(target string, flaggers []string) error) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.FlaggersKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		// key: prefix | len | target
		raw := iterator.Key()[len(types.FlaggersKeyPrefix):]
		target := sdk.AccAddress(raw[1:])
		var flaggers []string
		if err := json.Unmarshal(iterator.Value(), &flaggers); err != nil {
			return fmt.Errorf("failed to unmarshal flaggers: %w", err)
		}
		if err := cb(target.String(), flaggers); err != nil {
			return err
		}
	}
	return nil
}
