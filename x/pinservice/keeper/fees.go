package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// WithdrawFees sends the whole fee accumulator to recipient and resets it.
// Escrowed slot funds are never part of the accumulator.
func (k Keeper) WithdrawFees(ctx context.Context, admin, recipient sdk.AccAddress) (uint64, error) {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return 0, err
	}

	var amount uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		if config.FeesCollected == 0 {
			return types.ErrNoFeesToWithdraw
		}
		amount = config.FeesCollected
		if err := k.payFromCustody(ctx, recipient, config.PayDenom, amount); err != nil {
			return err
		}
		config.FeesCollected = 0
		if err := k.SetConfig(ctx, config); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWithdrawFees,
				sdk.NewAttribute(types.AttributeKeyAdmin, admin.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", amount)),
			),
		)
		k.metrics.FeesWithdrawn.Add(float64(amount))
		return nil
	})
	if err != nil {
		return 0, err
	}
	k.Logger(ctx).Info("fees withdrawn", "recipient", recipient.String(), "amount", amount)
	return amount, nil
}

// FundService deposits amount into custody. The deposit is neither escrow nor
// fees and stays as a custody surplus.
func (k Keeper) FundService(ctx context.Context, funder sdk.AccAddress, amount uint64) error {
	if err := k.requireAuth(ctx, funder); err != nil {
		return err
	}
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("amount must be positive")
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		if err := k.pullIntoCustody(ctx, funder, config.PayDenom, amount); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFundService,
				sdk.NewAttribute(types.AttributeKeyFunder, funder.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", amount)),
			),
		)
		return nil
	})
}
