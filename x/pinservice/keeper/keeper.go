package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// Keeper of the pinservice store
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	auth          types.Authenticator

	metrics *PinServiceMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new pinservice Keeper instance. A nil authenticator
// defaults to the context signer set.
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	accountKeeper types.AccountKeeper,
	auth types.Authenticator,
) *Keeper {
	if auth == nil {
		auth = types.SignerAuthenticator{}
	}
	return &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		auth:          auth,
		metrics:       NewPinServiceMetrics(),
	}
}

// getStore returns the KVStore for the pinservice module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// CustodyAddress returns the module account holding escrow, stakes and fees.
func (k Keeper) CustodyAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

// atomically runs fn against a branch of the state. The branch and its events
// are committed to the parent only when fn succeeds.
func (k Keeper) atomically(ctx context.Context, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ms := sdkCtx.MultiStore().CacheMultiStore()
	em := sdk.NewEventManager()
	branch := sdkCtx.WithMultiStore(ms).WithEventManager(em)

	if err := fn(branch); err != nil {
		return err
	}

	ms.Write()
	sdkCtx.EventManager().EmitEvents(em.Events())
	return nil
}

// requireAuth checks proof of control of addr before any mutation.
func (k Keeper) requireAuth(ctx context.Context, addr sdk.AccAddress) error {
	if err := k.auth.RequireAuth(ctx, addr); err != nil {
		k.metrics.AuthFailures.Inc()
		return err
	}
	return nil
}
