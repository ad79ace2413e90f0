package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// SlotTable loads every arena cell in index order.
func (k Keeper) SlotTable(ctx context.Context) ([]types.SlotEntry, error) {
	table := make([]types.SlotEntry, 0, types.SlotCapacity)
	for id := uint32(0); id < types.SlotCapacity; id++ {
		entry, err := k.loadSlot(ctx, id)
		if err != nil {
			return nil, err
		}
		table = append(table, entry)
	}
	return table, nil
}

// slotScan is the result of one pass over the arena.
type slotScan struct {
	free      types.SlotEntry
	hasFree   bool
	duplicate bool
}

// scanSlots walks the arena once. It picks the first empty cell, or failing
// that the first cell holding an expired slot, and reports whether a
// non-expired slot holds digest. A nil digest skips the duplicate check.
func (k Keeper) scanSlots(ctx context.Context, digest *types.ContentDigest, config types.ServiceConfig) (slotScan, error) {
	table, err := k.SlotTable(ctx)
	if err != nil {
		return slotScan{}, err
	}

	var (
		scan          slotScan
		expired       types.SlotEntry
		expiredExists bool
	)
	for _, entry := range table {
		slot, occupied := entry.Slot()
		if !occupied {
			if !scan.hasFree {
				scan.free, scan.hasFree = entry, true
			}
			continue
		}
		if k.isExpired(ctx, slot, config) {
			if !expiredExists {
				expired, expiredExists = entry, true
			}
			continue
		}
		if digest != nil && slot.ContentDigest == *digest {
			scan.duplicate = true
		}
	}
	if !scan.hasFree && expiredExists {
		scan.free, scan.hasFree = expired, true
	}
	return scan, nil
}

// FindAvailableSlot returns the first empty cell, or failing that the first
// cell holding an expired slot.
func (k Keeper) FindAvailableSlot(ctx context.Context) (uint32, bool, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return 0, false, err
	}
	scan, err := k.scanSlots(ctx, nil, config)
	if err != nil {
		return 0, false, err
	}
	return scan.free.ID, scan.hasFree, nil
}

// HasAvailableSlots reports whether create_pin could currently find a slot
func (k Keeper) HasAvailableSlots(ctx context.Context) (bool, error) {
	_, ok, err := k.FindAvailableSlot(ctx)
	return ok, err
}

// IsSlotExpired reports whether the slot at slotID has expired. Empty cells error.
func (k Keeper) IsSlotExpired(ctx context.Context, slotID uint32) (bool, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return false, err
	}
	slot, err := k.occupiedSlot(ctx, slotID)
	if err != nil {
		return false, err
	}
	return k.isExpired(ctx, slot, config), nil
}

// releaseSlot refunds the residual escrow to the slot publisher, deletes the
// slot and emits an unpin event. It returns the refunded amount.
func (k Keeper) releaseSlot(ctx sdk.Context, slotID uint32, slot types.PinSlot, config types.ServiceConfig, reason string) (uint64, error) {
	publisher, err := sdk.AccAddressFromBech32(slot.Publisher)
	if err != nil {
		return 0, fmt.Errorf("slot %d publisher: %w", slotID, err)
	}
	refund := slot.EscrowBalance
	if err := k.payFromCustody(ctx, publisher, config.PayDenom, refund); err != nil {
		return 0, err
	}

	k.deleteSlot(ctx, slotID)
	k.emitUnpin(ctx, slotID, slot, reason, refund)
	k.metrics.SlotsReleased.WithLabelValues(reason).Inc()
	k.metrics.EscrowRefunded.Add(float64(refund))
	return refund, nil
}

func (k Keeper) emitUnpin(ctx sdk.Context, slotID uint32, slot types.PinSlot, reason string, refund uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnpin,
			sdk.NewAttribute(types.AttributeKeySlotID, fmt.Sprintf("%d", slotID)),
			sdk.NewAttribute(types.AttributeKeyContentDigest, slot.ContentDigest.String()),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
			sdk.NewAttribute(types.AttributeKeyRefund, fmt.Sprintf("%d", refund)),
		),
	)
}
