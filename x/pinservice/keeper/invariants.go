package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// RegisterInvariants registers all pinservice module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "custody-conservation",
		CustodyConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "slot-escrow",
		SlotEscrowInvariant(k))
	ir.RegisterRoute(types.ModuleName, "slot-claims",
		SlotClaimsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pinner-registry",
		PinnerRegistryInvariant(k))
}

// AllInvariants runs all invariants of the pinservice module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := CustodyConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = SlotEscrowInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = SlotClaimsInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return PinnerRegistryInvariant(k)(ctx)
	}
}

// CustodyConservationInvariant checks that escrow, stakes and fees together never
// exceed what custody holds. Deposits made with FundService may leave a surplus.
func CustodyConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody-conservation",
				fmt.Sprintf("error getting config: %v", err)), true
		}
		escrow, err := k.TotalEscrow(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody-conservation",
				fmt.Sprintf("error summing escrow: %v", err)), true
		}
		staked, err := k.TotalStaked(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody-conservation",
				fmt.Sprintf("error summing stakes: %v", err)), true
		}

		owed := sdkmath.NewIntFromUint64(escrow).
			Add(sdkmath.NewIntFromUint64(staked)).
			Add(sdkmath.NewIntFromUint64(config.FeesCollected))
		held := k.bankKeeper.GetBalance(ctx, k.CustodyAddress(), config.PayDenom).Amount

		if owed.GT(held) {
			return sdk.FormatInvariant(types.ModuleName, "custody-conservation",
				fmt.Sprintf(
					"custody is short\n"+
						"\tescrow: %d\n"+
						"\tstaked: %d\n"+
						"\tfees: %d\n"+
						"\tcustody balance: %s",
					escrow, staked, config.FeesCollected, held,
				)), true
		}
		return sdk.FormatInvariant(types.ModuleName, "custody-conservation", ""), false
	}
}

// SlotEscrowInvariant checks escrow_balance == pins_remaining * offer_price for every slot
func SlotEscrowInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		table, err := k.SlotTable(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "slot-escrow",
				fmt.Sprintf("error loading slots: %v", err)), true
		}
		var (
			broken bool
			msg    string
		)
		for _, entry := range table {
			slot, ok := entry.Slot()
			if !ok {
				continue
			}
			if uint64(slot.PinsRemaining)*slot.OfferPrice != slot.EscrowBalance || slot.PinsRemaining > slot.PinQty {
				broken = true
				msg += fmt.Sprintf("\tslot %d: escrow %d, pins remaining %d/%d, offer %d\n",
					entry.ID, slot.EscrowBalance, slot.PinsRemaining, slot.PinQty, slot.OfferPrice)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "slot-escrow", msg), broken
	}
}

// SlotClaimsInvariant checks that claimants are unique and account for every collected pin
func SlotClaimsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		table, err := k.SlotTable(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "slot-claims",
				fmt.Sprintf("error loading slots: %v", err)), true
		}
		var (
			broken bool
			msg    string
		)
		for _, entry := range table {
			slot, ok := entry.Slot()
			if !ok {
				continue
			}
			if err := slot.ValidateEscrow(); err != nil {
				broken = true
				msg += fmt.Sprintf("\tslot %d: %v\n", entry.ID, err)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "slot-claims", msg), broken
	}
}

// PinnerRegistryInvariant checks the pinner counter and that deactivated pinners hold no stake
func PinnerRegistryInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			count  uint64
			broken bool
			msg    string
		)
		err := k.IteratePinners(ctx, func(p types.Pinner) (bool, error) {
			count++
			if !p.Active && p.Staked != 0 {
				broken = true
				msg += fmt.Sprintf("\tinactive pinner %s holds stake %d\n", p.Address, p.Staked)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pinner-registry",
				fmt.Sprintf("error iterating pinners: %v", err)), true
		}
		if stored := k.GetPinnerCount(ctx); stored != count {
			broken = true
			msg += fmt.Sprintf("\tpinner count %d != registered pinners %d\n", stored, count)
		}
		return sdk.FormatInvariant(types.ModuleName, "pinner-registry", msg), broken
	}
}
