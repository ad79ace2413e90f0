package keeper

import (
	"context"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// GetSlot returns the slot at slotID, or ErrSlotNotActive when the cell is empty
func (k Keeper) GetSlot(ctx context.Context, slotID uint32) (types.SlotInfo, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return types.SlotInfo{}, err
	}
	slot, err := k.occupiedSlot(ctx, slotID)
	if err != nil {
		return types.SlotInfo{}, err
	}
	return types.SlotInfo{ID: slotID, Slot: slot, Expired: k.isExpired(ctx, slot, config)}, nil
}

// GetAllSlots returns every occupied slot in index order
func (k Keeper) GetAllSlots(ctx context.Context) ([]types.SlotInfo, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	table, err := k.SlotTable(ctx)
	if err != nil {
		return nil, err
	}
	out := []types.SlotInfo{}
	for _, entry := range table {
		if slot, ok := entry.Slot(); ok {
			out = append(out, types.SlotInfo{ID: entry.ID, Slot: slot, Expired: k.isExpired(ctx, slot, config)})
		}
	}
	return out, nil
}

// TotalEscrow sums the escrow balance of every occupied slot
func (k Keeper) TotalEscrow(ctx context.Context) (uint64, error) {
	table, err := k.SlotTable(ctx)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, entry := range table {
		if slot, ok := entry.Slot(); ok {
			if total, err = SafeAddUint64(total, slot.EscrowBalance); err != nil {
				return 0, err
			}
		}
	}
	return total, nil
}

// TotalStaked sums the stake held by every registered pinner
func (k Keeper) TotalStaked(ctx context.Context) (uint64, error) {
	var total uint64
	err := k.IteratePinners(ctx, func(p types.Pinner) (bool, error) {
		var err error
		total, err = SafeAddUint64(total, p.Staked)
		return false, err
	})
	return total, err
}
