package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func payCoins(denom string, amount uint64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, sdkmath.NewIntFromUint64(amount)))
}

// pullIntoCustody moves amount from an account into the module account.
func (k Keeper) pullIntoCustody(ctx context.Context, from sdk.AccAddress, denom string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance := k.bankKeeper.GetBalance(ctx, from, denom)
	if balance.Amount.LT(sdkmath.NewIntFromUint64(amount)) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s, needs %d%s", from, balance, amount, denom)
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, payCoins(denom, amount)); err != nil {
		return types.ErrTransferFailed.Wrapf("into custody: %v", err)
	}
	return nil
}

// payFromCustody moves amount from the module account to an account.
func (k Keeper) payFromCustody(ctx context.Context, to sdk.AccAddress, denom string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, payCoins(denom, amount)); err != nil {
		return types.ErrTransferFailed.Wrapf("from custody to %s: %v", to, err)
	}
	return nil
}

// CustodyBalance returns the pay-denom balance held by the module account
func (k Keeper) CustodyBalance(ctx context.Context) (sdkmath.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return k.bankKeeper.GetBalance(ctx, k.CustodyAddress(), config.PayDenom).Amount, nil
}
