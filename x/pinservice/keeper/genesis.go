package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// InitService bootstraps an empty service with a founding admin and config.
// The epoch clock starts at the current block.
func (k Keeper) InitService(ctx context.Context, admin sdk.AccAddress, config types.ServiceConfig) error {
	if _, err := k.GetConfig(ctx); err == nil {
		return types.ErrInvalidConfig.Wrap("service already initialized")
	}
	config.FeesCollected = 0
	config.StartHeight = sdk.UnwrapSDKContext(ctx).BlockHeight()
	if err := config.Validate(); err != nil {
		return err
	}
	if admin.Empty() {
		return types.ErrInvalidAddress.Wrap("founding admin cannot be empty")
	}

	if err := k.SetConfig(ctx, config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	if err := k.setAdminList(ctx, []string{admin.String()}); err != nil {
		return fmt.Errorf("failed to set admin list: %w", err)
	}
	k.setPinnerCount(ctx, 0)
	return nil
}

// InitGenesis initializes the pinservice module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetConfig(ctx, data.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	if err := k.setAdminList(ctx, data.Admins); err != nil {
		return fmt.Errorf("failed to set admin list: %w", err)
	}

	for _, pinner := range data.Pinners {
		if err := k.SetPinner(ctx, pinner); err != nil {
			return fmt.Errorf("failed to initialize pinner %s: %w", pinner.Address, err)
		}
	}
	k.setPinnerCount(ctx, uint64(len(data.Pinners)))

	for _, s := range data.Slots {
		if err := k.setSlot(ctx, s.ID, s.Slot); err != nil {
			return fmt.Errorf("failed to initialize slot %d: %w", s.ID, err)
		}
	}

	for _, f := range data.Flaggers {
		target, err := sdk.AccAddressFromBech32(f.Target)
		if err != nil {
			return fmt.Errorf("invalid flag target %s: %w", f.Target, err)
		}
		if err := k.setFlaggers(ctx, target, f.Flaggers); err != nil {
			return fmt.Errorf("failed to set flaggers for %s: %w", f.Target, err)
		}
		for _, flagger := range f.Flaggers {
			addr, err := sdk.AccAddressFromBech32(flagger)
			if err != nil {
				return fmt.Errorf("invalid flagger %s: %w", flagger, err)
			}
			k.setFlag(ctx, addr, target)
		}
	}

	return nil
}

// ExportGenesis returns the pinservice module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	admins, err := k.GetAdminList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin list: %w", err)
	}

	pinners := []types.Pinner{}
	if err := k.IteratePinners(ctx, func(p types.Pinner) (bool, error) {
		pinners = append(pinners, p)
		return false, nil
	}); err != nil {
		return nil, fmt.Errorf("failed to export pinners: %w", err)
	}

	slots := []types.GenesisSlot{}
	table, err := k.SlotTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export slots: %w", err)
	}
	for _, entry := range table {
		if slot, ok := entry.Slot(); ok {
			slots = append(slots, types.GenesisSlot{ID: entry.ID, Slot: slot})
		}
	}

	flaggers := []types.GenesisFlaggers{}
	if err := k.IterateFlaggers(ctx, func(target string, list []string) error {
		flaggers = append(flaggers, types.GenesisFlaggers{Target: target, Flaggers: list})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to export flaggers: %w", err)
	}

	return &types.GenesisState{
		Config:   config,
		Admins:   admins,
		Pinners:  pinners,
		Slots:    slots,
		Flaggers: flaggers,
	}, nil
}
