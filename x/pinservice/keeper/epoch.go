package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// EpochAt returns floor((height - start) / length). Heights before start map to epoch 0.
func EpochAt(height, start int64, length int64) uint64 {
	if length <= 0 || height <= start {
		return 0
	}
	return uint64((height - start) / length)
}

// IsExpiredAt reports whether a slot created at createdAt has expired at height.
// Lifetime varies between max_cycles-1 and max_cycles full epochs depending on phase.
func IsExpiredAt(createdAt, height, start int64, maxCycles uint64) bool {
	current := EpochAt(height, start, types.EpochLength)
	created := EpochAt(createdAt, start, types.EpochLength)
	if current < created {
		return false
	}
	return current-created >= maxCycles
}

// CurrentEpoch returns the epoch of the current block
func (k Keeper) CurrentEpoch(ctx context.Context) (uint64, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	return EpochAt(sdk.UnwrapSDKContext(ctx).BlockHeight(), config.StartHeight, types.EpochLength), nil
}

func (k Keeper) isExpired(ctx context.Context, slot types.PinSlot, config types.ServiceConfig) bool {
	return IsExpiredAt(slot.CreatedAt, sdk.UnwrapSDKContext(ctx).BlockHeight(), config.StartHeight, config.MaxCycles)
}
