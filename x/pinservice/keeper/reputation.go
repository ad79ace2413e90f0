package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// FlagPinner records caller's flag against target and returns target's flag
// count. Reaching the flag threshold deactivates target and redistributes its
// stake to the accumulated flaggers.
func (k Keeper) FlagPinner(ctx context.Context, caller, target sdk.AccAddress) (uint32, error) {
	if err := k.requireAuth(ctx, caller); err != nil {
		return 0, err
	}

	var flags uint32
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		if !k.IsPinner(ctx, caller) {
			return types.ErrNotPinner.Wrapf("flagger %s", caller)
		}
		if caller.Equals(target) {
			return types.ErrCannotFlagSelf
		}
		pinner, err := k.GetPinner(ctx, target)
		if err != nil {
			return err
		}
		if k.HasFlagged(ctx, caller, target) {
			return types.ErrAlreadyFlagged.Wrapf("%s -> %s", caller, target)
		}

		k.setFlag(ctx, caller, target)
		flaggers, err := k.GetFlaggers(ctx, target)
		if err != nil {
			return err
		}
		flaggers = append(flaggers, caller.String())
		if err := k.setFlaggers(ctx, target, flaggers); err != nil {
			return err
		}
		pinner.Flags++

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFlagPinner,
				sdk.NewAttribute(types.AttributeKeyFlagger, caller.String()),
				sdk.NewAttribute(types.AttributeKeyPinner, target.String()),
				sdk.NewAttribute(types.AttributeKeyFlags, fmt.Sprintf("%d", pinner.Flags)),
			),
		)
		k.metrics.FlagsCast.Inc()

		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		if pinner.Flags >= config.FlagThreshold {
			if err := k.forfeitStake(ctx, pinner, target, flaggers, config); err != nil {
				return err
			}
		}

		flags = pinner.Flags
		return k.SetPinner(ctx, *pinner)
	})
	if err != nil {
		return 0, err
	}
	return flags, nil
}

// forfeitStake deactivates pinner, splits its stake evenly among flaggers with
// the integer-division remainder credited to fees, and resets its flag state.
func (k Keeper) forfeitStake(ctx sdk.Context, pinner *types.Pinner, target sdk.AccAddress, flaggers []string, config types.ServiceConfig) error {
	pinner.Active = false
	forfeited := pinner.Staked

	if forfeited > 0 && len(flaggers) > 0 {
		count := uint64(len(flaggers))
		share := forfeited / count
		remainder := forfeited % count

		if share > 0 {
			for _, f := range flaggers {
				addr, err := sdk.AccAddressFromBech32(f)
				if err != nil {
					return fmt.Errorf("flagger %s: %w", f, err)
				}
				if err := k.payFromCustody(ctx, addr, config.PayDenom, share); err != nil {
					return err
				}
			}
		}
		if remainder > 0 {
			fees, err := SafeAddUint64(config.FeesCollected, remainder)
			if err != nil {
				return types.ErrInvalidAmount.Wrapf("fees collected: %v", err)
			}
			config.FeesCollected = fees
			if err := k.SetConfig(ctx, config); err != nil {
				return err
			}
			k.metrics.FeesAccrued.WithLabelValues("forfeit").Add(float64(remainder))
		}
	}
	pinner.Staked = 0

	if err := k.clearFlags(ctx, target, flaggers); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePinnerDeactivated,
			sdk.NewAttribute(types.AttributeKeyPinner, target.String()),
			sdk.NewAttribute(types.AttributeKeyFlags, fmt.Sprintf("%d", pinner.Flags)),
			sdk.NewAttribute(types.AttributeKeyForfeited, fmt.Sprintf("%d", forfeited)),
		),
	)
	k.metrics.PinnersDeactivated.Inc()
	k.Logger(ctx).Info("pinner deactivated", "pinner", target.String(), "flags", pinner.Flags, "forfeited", forfeited)
	return nil
}

// clearFlags removes every flag recorded against target and its flagger list.
func (k Keeper) clearFlags(ctx context.Context, target sdk.AccAddress, flaggers []string) error {
	for _, f := range flaggers {
		addr, err := sdk.AccAddressFromBech32(f)
		if err != nil {
			return fmt.Errorf("flagger %s: %w", f, err)
		}
		k.deleteFlag(ctx, addr, target)
	}
	k.deleteFlaggers(ctx, target)
	return nil
}
