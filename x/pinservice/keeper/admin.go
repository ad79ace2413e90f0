package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// requireAdmin checks proof of control of admin and its admin-list membership.
func (k Keeper) requireAdmin(ctx context.Context, admin sdk.AccAddress) error {
	if err := k.requireAuth(ctx, admin); err != nil {
		return err
	}
	isAdmin, err := k.IsAdmin(ctx, admin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return types.ErrNotAdmin.Wrapf("%s", admin)
	}
	return nil
}

// IsAdmin reports whether addr is in the admin list
func (k Keeper) IsAdmin(ctx context.Context, addr sdk.AccAddress) (bool, error) {
	admins, err := k.GetAdminList(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range admins {
		if a == addr.String() {
			return true, nil
		}
	}
	return false, nil
}

// AddAdmin appends newAdmin to the admin list
func (k Keeper) AddAdmin(ctx context.Context, admin, newAdmin sdk.AccAddress) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		admins, err := k.GetAdminList(ctx)
		if err != nil {
			return err
		}
		for _, a := range admins {
			if a == newAdmin.String() {
				return types.ErrAlreadyAdmin.Wrapf("%s", newAdmin)
			}
		}
		if err := k.setAdminList(ctx, append(admins, newAdmin.String())); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddAdmin,
				sdk.NewAttribute(types.AttributeKeyCaller, admin.String()),
				sdk.NewAttribute(types.AttributeKeyAdmin, newAdmin.String()),
			),
		)
		return nil
	})
}

// RemoveAdmin removes target from the admin list. The founding admin at index 0
// cannot be removed.
func (k Keeper) RemoveAdmin(ctx context.Context, admin, target sdk.AccAddress) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		admins, err := k.GetAdminList(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i, a := range admins {
			if a == target.String() {
				idx = i
				break
			}
		}
		switch {
		case idx == 0:
			return types.ErrCannotRemoveInitialAdmin
		case idx < 0:
			return types.ErrAdminNotFound.Wrapf("%s", target)
		}

		remaining := append(append([]string{}, admins[:idx]...), admins[idx+1:]...)
		if err := k.setAdminList(ctx, remaining); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRemoveAdmin,
				sdk.NewAttribute(types.AttributeKeyCaller, admin.String()),
				sdk.NewAttribute(types.AttributeKeyAdmin, target.String()),
			),
		)
		return nil
	})
}
