package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// updateConfig applies mutate to the stored config under admin authorization.
func (k Keeper) updateConfig(ctx context.Context, admin sdk.AccAddress, parameter string, value any, mutate func(*types.ServiceConfig) error) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		if err := mutate(&config); err != nil {
			return err
		}
		if err := k.SetConfig(ctx, config); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpdateConfig,
				sdk.NewAttribute(types.AttributeKeyAdmin, admin.String()),
				sdk.NewAttribute(types.AttributeKeyParameter, parameter),
				sdk.NewAttribute(types.AttributeKeyValue, fmt.Sprintf("%v", value)),
			),
		)
		return nil
	})
}

// UpdatePinFee sets the non-refundable fee charged per pin request
func (k Keeper) UpdatePinFee(ctx context.Context, admin sdk.AccAddress, fee uint64) error {
	return k.updateConfig(ctx, admin, "pin_fee", fee, func(c *types.ServiceConfig) error {
		c.PinFee = fee
		return nil
	})
}

// UpdateJoinFee sets the fee charged when a pinner joins
func (k Keeper) UpdateJoinFee(ctx context.Context, admin sdk.AccAddress, fee uint64) error {
	return k.updateConfig(ctx, admin, "join_fee", fee, func(c *types.ServiceConfig) error {
		c.JoinFee = fee
		return nil
	})
}

// UpdateMinPinQty sets the minimum pin quantity; it must stay within [1, SlotCapacity]
func (k Keeper) UpdateMinPinQty(ctx context.Context, admin sdk.AccAddress, qty uint32) error {
	return k.updateConfig(ctx, admin, "min_pin_qty", qty, func(c *types.ServiceConfig) error {
		if qty == 0 || qty > types.SlotCapacity {
			return types.ErrInvalidConfig.Wrapf("min_pin_qty must be in [1, %d]", types.SlotCapacity)
		}
		c.MinPinQty = qty
		return nil
	})
}

// UpdateMinOfferPrice sets the minimum per-pin offer
func (k Keeper) UpdateMinOfferPrice(ctx context.Context, admin sdk.AccAddress, price uint64) error {
	return k.updateConfig(ctx, admin, "min_offer_price", price, func(c *types.ServiceConfig) error {
		c.MinOfferPrice = price
		return nil
	})
}

// UpdateMaxCycles sets the slot lifetime in epochs
func (k Keeper) UpdateMaxCycles(ctx context.Context, admin sdk.AccAddress, cycles uint64) error {
	return k.updateConfig(ctx, admin, "max_cycles", cycles, func(c *types.ServiceConfig) error {
		if cycles == 0 {
			return types.ErrInvalidConfig.Wrap("max_cycles must be positive")
		}
		c.MaxCycles = cycles
		return nil
	})
}

// UpdateFlagThreshold sets the number of flags that deactivates a pinner
func (k Keeper) UpdateFlagThreshold(ctx context.Context, admin sdk.AccAddress, threshold uint32) error {
	return k.updateConfig(ctx, admin, "flag_threshold", threshold, func(c *types.ServiceConfig) error {
		c.FlagThreshold = threshold
		return nil
	})
}

// UpdatePinnerStake sets the stake collected from future joiners. Existing
// pinners keep the stake they joined with.
func (k Keeper) UpdatePinnerStake(ctx context.Context, admin sdk.AccAddress, stake uint64) error {
	return k.updateConfig(ctx, admin, "pinner_stake", stake, func(c *types.ServiceConfig) error {
		c.PinnerStake = stake
		return nil
	})
}
