package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// JoinAsPinner registers caller, collecting the join fee and the current stake.
func (k Keeper) JoinAsPinner(ctx context.Context, caller sdk.AccAddress, nodeID, multiaddr string, minPrice uint64) (types.Pinner, error) {
	if err := k.requireAuth(ctx, caller); err != nil {
		return types.Pinner{}, err
	}

	var pinner types.Pinner
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		if k.IsPinner(ctx, caller) {
			return types.ErrAlreadyPinner.Wrapf("%s", caller)
		}
		if err := types.ValidateString("node_id", nodeID); err != nil {
			return err
		}
		if err := types.ValidateMultiaddr(multiaddr); err != nil {
			return err
		}

		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		total, err := SafeAddUint64(config.JoinFee, config.PinnerStake)
		if err != nil {
			return types.ErrInvalidAmount.Wrap(err.Error())
		}
		fees, err := SafeAddUint64(config.FeesCollected, config.JoinFee)
		if err != nil {
			return types.ErrInvalidAmount.Wrapf("fees collected: %v", err)
		}

		if err := k.pullIntoCustody(ctx, caller, config.PayDenom, total); err != nil {
			return err
		}
		config.FeesCollected = fees
		if err := k.SetConfig(ctx, config); err != nil {
			return err
		}

		pinner = types.Pinner{
			Address:   caller.String(),
			NodeID:    nodeID,
			Multiaddr: multiaddr,
			MinPrice:  minPrice,
			JoinedAt:  ctx.BlockTime().Unix(),
			Staked:    config.PinnerStake,
			Active:    true,
		}
		if err := k.SetPinner(ctx, pinner); err != nil {
			return err
		}
		k.setPinnerCount(ctx, k.GetPinnerCount(ctx)+1)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeJoinPinner,
				sdk.NewAttribute(types.AttributeKeyPinner, caller.String()),
				sdk.NewAttribute(types.AttributeKeyNodeID, nodeID),
				sdk.NewAttribute(types.AttributeKeyMultiaddr, multiaddr),
			),
		)
		k.metrics.PinnersJoined.Inc()
		k.metrics.FeesAccrued.WithLabelValues("join").Add(float64(config.JoinFee))
		return nil
	})
	if err != nil {
		return types.Pinner{}, err
	}

	k.Logger(ctx).Info("pinner joined", "pinner", caller.String(), "node_id", nodeID, "staked", pinner.Staked, "multiaddr_ok", types.IsMultiaddr(multiaddr))
	return pinner, nil
}

// UpdatePinner applies the supplied fields to caller's pinner record.
// Activity status cannot be changed here.
func (k Keeper) UpdatePinner(ctx context.Context, caller sdk.AccAddress, update types.PinnerUpdate) (types.Pinner, error) {
	if err := k.requireAuth(ctx, caller); err != nil {
		return types.Pinner{}, err
	}

	var updated types.Pinner
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		pinner, err := k.GetPinner(ctx, caller)
		if err != nil {
			return err
		}
		if update.NodeID != nil {
			if err := types.ValidateString("node_id", *update.NodeID); err != nil {
				return err
			}
			pinner.NodeID = *update.NodeID
		}
		if update.Multiaddr != nil {
			if err := types.ValidateMultiaddr(*update.Multiaddr); err != nil {
				return err
			}
			pinner.Multiaddr = *update.Multiaddr
		}
		if update.MinPrice != nil {
			pinner.MinPrice = *update.MinPrice
		}
		if err := k.SetPinner(ctx, *pinner); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpdatePinner,
				sdk.NewAttribute(types.AttributeKeyPinner, caller.String()),
				sdk.NewAttribute(types.AttributeKeyNodeID, pinner.NodeID),
				sdk.NewAttribute(types.AttributeKeyMultiaddr, pinner.Multiaddr),
			),
		)
		updated = *pinner
		return nil
	})
	return updated, err
}

// LeaveAsPinner deregisters caller. An active pinner gets its stake back; a
// deactivated one already forfeited it and receives 0.
func (k Keeper) LeaveAsPinner(ctx context.Context, caller sdk.AccAddress) (uint64, error) {
	if err := k.requireAuth(ctx, caller); err != nil {
		return 0, err
	}

	var refund uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		pinner, err := k.GetPinner(ctx, caller)
		if err != nil {
			return err
		}
		if pinner.Active {
			refund = pinner.Staked
		}
		return k.dropPinner(ctx, caller, refund, types.RemoveReasonLeft)
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

// RemovePinner is a non-punitive admin removal that refunds whatever stake the
// pinner still holds. Forfeiture by flagging zeroes the stake first.
func (k Keeper) RemovePinner(ctx context.Context, admin, target sdk.AccAddress) (uint64, error) {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return 0, err
	}

	var refund uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		pinner, err := k.GetPinner(ctx, target)
		if err != nil {
			return err
		}
		refund = pinner.Staked
		return k.dropPinner(ctx, target, refund, types.RemoveReasonAdmin)
	})
	if err != nil {
		return 0, err
	}
	k.Logger(ctx).Info("pinner removed", "pinner", target.String(), "admin", admin.String(), "refund", refund)
	return refund, nil
}

// dropPinner pays refund, deletes the record and decrements the counter.
func (k Keeper) dropPinner(ctx sdk.Context, addr sdk.AccAddress, refund uint64, reason string) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if err := k.payFromCustody(ctx, addr, config.PayDenom, refund); err != nil {
		return err
	}

	// a rejoining address starts with no flags
	flaggers, err := k.GetFlaggers(ctx, addr)
	if err != nil {
		return err
	}
	if err := k.clearFlags(ctx, addr, flaggers); err != nil {
		return err
	}

	k.deletePinner(ctx, addr)
	k.setPinnerCount(ctx, SaturatingSubUint64(k.GetPinnerCount(ctx), 1))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRemovePinner,
			sdk.NewAttribute(types.AttributeKeyPinner, addr.String()),
			sdk.NewAttribute(types.AttributeKeyRefund, fmt.Sprintf("%d", refund)),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
		),
	)
	k.metrics.PinnersRemoved.WithLabelValues(reason).Inc()
	return nil
}
