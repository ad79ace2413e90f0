package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// CreatePinRequest holds the arguments of CreatePin.
type CreatePinRequest struct {
	ContentID  string
	Filename   string
	Gateway    string
	OfferPrice uint64
	PinQty     uint32
}

// CreatePin escrows offer_price * pin_qty plus the pin fee from the publisher
// and places the request in the first available slot. It returns the slot index.
func (k Keeper) CreatePin(ctx context.Context, publisher sdk.AccAddress, req CreatePinRequest) (uint32, error) {
	if err := k.requireAuth(ctx, publisher); err != nil {
		return 0, err
	}

	var slotID uint32
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}

		if req.OfferPrice < config.MinOfferPrice {
			return types.ErrOfferPriceTooLow.Wrapf("offer %d < minimum %d", req.OfferPrice, config.MinOfferPrice)
		}
		if req.PinQty < config.MinPinQty {
			return types.ErrInsufficientPinQty.Wrapf("pin qty %d < minimum %d", req.PinQty, config.MinPinQty)
		}
		if req.PinQty > types.SlotCapacity {
			return types.ErrPinQtyExceedsMax.Wrapf("pin qty %d > %d", req.PinQty, types.SlotCapacity)
		}
		if err := types.ValidateContentID(req.ContentID); err != nil {
			return err
		}
		if err := types.ValidateString("filename", req.Filename); err != nil {
			return err
		}
		if err := types.ValidateString("gateway", req.Gateway); err != nil {
			return err
		}

		escrow, err := SafeMulUint64(req.OfferPrice, uint64(req.PinQty))
		if err != nil {
			return types.ErrOfferOverflow.Wrap(err.Error())
		}
		total, err := SafeAddUint64(escrow, config.PinFee)
		if err != nil {
			return types.ErrOfferOverflow.Wrap(err.Error())
		}
		fees, err := SafeAddUint64(config.FeesCollected, config.PinFee)
		if err != nil {
			return types.ErrOfferOverflow.Wrapf("fees collected: %v", err)
		}

		digest := types.DigestContentID(req.ContentID)
		scan, err := k.scanSlots(ctx, &digest, config)
		if err != nil {
			return err
		}
		if scan.duplicate {
			return types.ErrDuplicateCid.Wrapf("%s", req.ContentID)
		}
		if !scan.hasFree {
			return types.ErrNoSlotsAvailable
		}
		id := scan.free.ID

		// lazy cleanup of an expired occupant
		if previous, occupied := scan.free.Slot(); occupied {
			if _, err := k.releaseSlot(ctx, id, previous, config, types.UnpinReasonReclaimed); err != nil {
				return err
			}
		}

		if err := k.pullIntoCustody(ctx, publisher, config.PayDenom, total); err != nil {
			return err
		}

		config.FeesCollected = fees
		if err := k.SetConfig(ctx, config); err != nil {
			return err
		}

		slot := types.PinSlot{
			Publisher:     publisher.String(),
			ContentDigest: digest,
			OfferPrice:    req.OfferPrice,
			PinQty:        req.PinQty,
			PinsRemaining: req.PinQty,
			EscrowBalance: escrow,
			CreatedAt:     ctx.BlockHeight(),
			Claims:        []string{},
		}
		if err := k.setSlot(ctx, id, slot); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePin,
				sdk.NewAttribute(types.AttributeKeySlotID, fmt.Sprintf("%d", id)),
				sdk.NewAttribute(types.AttributeKeyContentID, req.ContentID),
				sdk.NewAttribute(types.AttributeKeyFilename, req.Filename),
				sdk.NewAttribute(types.AttributeKeyGateway, req.Gateway),
				sdk.NewAttribute(types.AttributeKeyOfferPrice, fmt.Sprintf("%d", req.OfferPrice)),
				sdk.NewAttribute(types.AttributeKeyPinQty, fmt.Sprintf("%d", req.PinQty)),
				sdk.NewAttribute(types.AttributeKeyPublisher, publisher.String()),
			),
		)

		k.metrics.PinsCreated.Inc()
		k.metrics.EscrowLocked.Add(float64(escrow))
		k.metrics.FeesAccrued.WithLabelValues("pin").Add(float64(config.PinFee))
		slotID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	k.Logger(ctx).Info("pin created", "slot_id", slotID, "publisher", publisher.String(), "pin_qty", req.PinQty, "cid", types.IsCID(req.ContentID))
	return slotID, nil
}

// CollectPin pays offer_price from the slot's escrow to an active pinner that
// has not yet claimed the slot. It returns the amount paid.
func (k Keeper) CollectPin(ctx context.Context, pinnerAddr sdk.AccAddress, slotID uint32) (uint64, error) {
	if err := k.requireAuth(ctx, pinnerAddr); err != nil {
		return 0, err
	}

	var amount uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		slot, err := k.occupiedSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if k.isExpired(ctx, slot, config) {
			return types.ErrSlotExpired.Wrapf("slot %d", slotID)
		}

		pinner, err := k.GetPinner(ctx, pinnerAddr)
		if err != nil {
			return err
		}
		if !pinner.Active {
			return types.ErrPinnerInactive.Wrapf("%s", pinnerAddr)
		}
		if slot.HasClaim(pinner.Address) {
			return types.ErrAlreadyClaimed.Wrapf("slot %d", slotID)
		}
		if slot.PinsRemaining == 0 {
			return types.ErrSlotFilled.Wrapf("slot %d", slotID)
		}

		amount = slot.OfferPrice
		if err := k.payFromCustody(ctx, pinnerAddr, config.PayDenom, amount); err != nil {
			return err
		}

		slot.EscrowBalance, err = SafeSubUint64(slot.EscrowBalance, amount)
		if err != nil {
			return fmt.Errorf("slot %d escrow: %w", slotID, err)
		}
		slot.PinsRemaining--
		slot.Claims = append(slot.Claims, pinner.Address)

		pinner.PinsCompleted++
		if err := k.SetPinner(ctx, *pinner); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePinned,
				sdk.NewAttribute(types.AttributeKeySlotID, fmt.Sprintf("%d", slotID)),
				sdk.NewAttribute(types.AttributeKeyContentDigest, slot.ContentDigest.String()),
				sdk.NewAttribute(types.AttributeKeyPinner, pinner.Address),
				sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", amount)),
				sdk.NewAttribute(types.AttributeKeyPinsRemaining, fmt.Sprintf("%d", slot.PinsRemaining)),
			),
		)
		k.metrics.PinsCollected.Inc()
		k.metrics.EscrowReleased.Add(float64(amount))

		if slot.PinsRemaining == 0 {
			k.deleteSlot(ctx, slotID)
			k.emitUnpin(ctx, slotID, slot, types.UnpinReasonFilled, 0)
			k.metrics.SlotsReleased.WithLabelValues(types.UnpinReasonFilled).Inc()
			return nil
		}
		return k.setSlot(ctx, slotID, slot)
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// CancelPin lets the publisher withdraw a request. Only the remaining escrow
// is refunded; the pin fee is kept.
func (k Keeper) CancelPin(ctx context.Context, publisher sdk.AccAddress, slotID uint32) (uint64, error) {
	if err := k.requireAuth(ctx, publisher); err != nil {
		return 0, err
	}

	var refund uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		slot, err := k.occupiedSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.Publisher != publisher.String() {
			return types.ErrNotSlotPublisher.Wrapf("slot %d", slotID)
		}
		refund, err = k.releaseSlot(ctx, slotID, slot, config, types.UnpinReasonCancelled)
		return err
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

// ClearExpiredSlot is a permissionless reclaim of an expired slot; the residual
// escrow goes back to the publisher.
func (k Keeper) ClearExpiredSlot(ctx context.Context, slotID uint32) (uint64, error) {
	var refund uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		slot, err := k.occupiedSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if !k.isExpired(ctx, slot, config) {
			return types.ErrSlotNotExpired.Wrapf("slot %d", slotID)
		}
		refund, err = k.releaseSlot(ctx, slotID, slot, config, types.UnpinReasonExpired)
		return err
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

// ForceClearSlot clears a slot regardless of its expiration status.
func (k Keeper) ForceClearSlot(ctx context.Context, admin sdk.AccAddress, slotID uint32) (uint64, error) {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return 0, err
	}

	var refund uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		slot, err := k.occupiedSlot(ctx, slotID)
		if err != nil {
			return err
		}
		refund, err = k.releaseSlot(ctx, slotID, slot, config, types.UnpinReasonForced)
		return err
	})
	if err != nil {
		return 0, err
	}
	k.Logger(ctx).Info("slot force cleared", "slot_id", slotID, "admin", admin.String(), "refund", refund)
	return refund, nil
}
