package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/keeper"
	"github.com/paw-chain/pinservice/x/pinservice/types"
)

// PinServiceFixture bundles a pinservice keeper with the real bank keeper backing it.
type PinServiceFixture struct {
	Keeper        *keeper.Keeper
	Ctx           sdk.Context
	BankKeeper    bankkeeper.BaseKeeper
	AccountKeeper authkeeper.AccountKeeper
}

// PinServiceKeeper creates a pinservice keeper over an in-memory store with real
// auth and bank keepers. The service is not initialized.
func PinServiceKeeper(t testing.TB) *PinServiceFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		minttypes.ModuleName: {authtypes.Minter},
		types.ModuleName:     nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	k := keeper.NewKeeper(storeKey, bankKeeper, accountKeeper, nil)

	header := cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())
	require.NoError(t, bankKeeper.SetParams(ctx, banktypes.DefaultParams()))

	return &PinServiceFixture{
		Keeper:        k,
		Ctx:           ctx,
		BankKeeper:    bankKeeper,
		AccountKeeper: accountKeeper,
	}
}

// Fund mints amount of denom into addr.
func (f *PinServiceFixture) Fund(t testing.TB, addr sdk.AccAddress, denom string, amount int64) {
	t.Helper()
	coins := sdk.NewCoins(sdk.NewInt64Coin(denom, amount))
	require.NoError(t, banktestutil.FundAccount(f.Ctx, f.BankKeeper, addr, coins))
}

// Balance returns the denom balance of addr.
func (f *PinServiceFixture) Balance(addr sdk.AccAddress, denom string) int64 {
	return f.BankKeeper.GetBalance(f.Ctx, addr, denom).Amount.Int64()
}

// Signed returns the fixture context with addrs as verified signers.
func (f *PinServiceFixture) Signed(addrs ...sdk.AccAddress) sdk.Context {
	return types.WithSigners(f.Ctx, addrs...)
}

// AdvanceBlocks moves the fixture context forward n blocks.
func (f *PinServiceFixture) AdvanceBlocks(n int64) {
	f.Ctx = f.Ctx.
		WithBlockHeight(f.Ctx.BlockHeight() + n).
		WithBlockTime(f.Ctx.BlockTime().Add(time.Duration(n) * 5 * time.Second))
}
