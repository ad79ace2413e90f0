package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"go.opentelemetry.io/otel"

	"github.com/paw-chain/pinservice/indexer"
	pinkeeper "github.com/paw-chain/pinservice/x/pinservice/keeper"
	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

const (
	Name = "pinsvc"
)

var (
	// DefaultNodeHome is the default home directory for the daemon.
	DefaultNodeHome string

	// ErrAlreadyInitialized is returned by InitChain on a database that holds committed state.
	ErrAlreadyInitialized = errors.New("chain state already initialized")
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, ".pinsvc")
}

// module account permissions
var maccPerms = map[string][]string{
	minttypes.ModuleName: {authtypes.Minter},
	pintypes.ModuleName:  nil,
}

// Options configures a new App.
type Options struct {
	ChainID string
	// Sink receives the pinservice events of every delivered operation.
	Sink indexer.Sink
	// CheckInvariants refuses to commit a block whose state breaks a registered invariant.
	CheckInvariants bool
	// Now overrides the block clock.
	Now func() time.Time
}

// App hosts the pinservice keeper over a committed multistore. Operations are
// delivered one at a time into the pending block; Commit persists it.
type App struct {
	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	AccountKeeper    authkeeper.AccountKeeper
	BankKeeper       bankkeeper.BaseKeeper
	PinServiceKeeper *pinkeeper.Keeper

	msgServer  pintypes.MsgServer
	invariants *invariantRegistry
	telemetry  *TelemetryMiddleware
	metrics    *HostMetrics
	opts       Options

	mu        sync.Mutex
	pending   storetypes.CacheMultiStore
	height    int64
	blockTime time.Time
}

// New opens the host over db. The database may already hold committed blocks.
func New(logger log.Logger, db dbm.DB, opts Options) (*App, error) {
	if opts.ChainID == "" {
		return nil, fmt.Errorf("chain id is required")
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	encoding := MakeEncodingConfig()
	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, pintypes.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	authority := authtypes.NewModuleAddress(govtypes.ModuleName).String()
	prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()

	accountKeeper := authkeeper.NewAccountKeeper(
		encoding.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(prefix),
		prefix,
		authority,
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		encoding.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		accountKeeper,
		BlockedAddresses(),
		authority,
		logger,
	)

	pinKeeper := pinkeeper.NewKeeper(keys[pintypes.StoreKey], bankKeeper, accountKeeper, nil)

	tm, err := NewTelemetryMiddleware(otel.Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry middleware: %w", err)
	}

	app := &App{
		logger:           logger.With("module", "app"),
		db:               db,
		cms:              cms,
		keys:             keys,
		AccountKeeper:    accountKeeper,
		BankKeeper:       bankKeeper,
		PinServiceKeeper: pinKeeper,
		msgServer:        pinkeeper.NewMsgServerImpl(*pinKeeper),
		invariants:       &invariantRegistry{},
		telemetry:        tm,
		metrics:          NewHostMetrics(),
		opts:             opts,
	}
	pinkeeper.RegisterInvariants(app.invariants, *pinKeeper)
	app.startBlock(cms.LastCommitID().Version)
	return app, nil
}

// BlockedAddresses returns the module accounts that may not receive payouts.
func BlockedAddresses() map[string]bool {
	blocked := make(map[string]bool, len(maccPerms))
	for name := range maccPerms {
		blocked[authtypes.NewModuleAddress(name).String()] = true
	}
	return blocked
}

func (a *App) startBlock(lastHeight int64) {
	a.height = lastHeight + 1
	a.blockTime = a.opts.Now()
	a.pending = a.cms.CacheMultiStore()
}

func (a *App) newContext(ms storetypes.MultiStore) sdk.Context {
	header := cmtproto.Header{
		ChainID: a.opts.ChainID,
		Height:  a.height,
		Time:    a.blockTime,
	}
	return sdk.NewContext(ms, header, false, a.logger)
}

// InitChain funds the genesis accounts, loads the pinservice genesis and
// commits the first block.
func (a *App) InitChain(genesis *GenesisDoc) error {
	if err := genesis.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	if genesis.ChainID != a.opts.ChainID {
		return fmt.Errorf("genesis chain id %q does not match %q", genesis.ChainID, a.opts.ChainID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cms.LastCommitID().Version != 0 {
		return ErrAlreadyInitialized
	}

	if err := a.initGenesis(a.newContext(a.pending), genesis); err != nil {
		a.pending = a.cms.CacheMultiStore()
		return err
	}
	_, err := a.commitLocked()
	return err
}

func (a *App) initGenesis(ctx sdk.Context, genesis *GenesisDoc) error {
	if err := a.BankKeeper.SetParams(ctx, banktypes.DefaultParams()); err != nil {
		return fmt.Errorf("failed to set bank params: %w", err)
	}
	for _, b := range genesis.Balances {
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return err
		}
		if err := a.BankKeeper.MintCoins(ctx, minttypes.ModuleName, b.Coins); err != nil {
			return fmt.Errorf("failed to mint genesis balance: %w", err)
		}
		if err := a.BankKeeper.SendCoinsFromModuleToAccount(ctx, minttypes.ModuleName, addr, b.Coins); err != nil {
			return fmt.Errorf("failed to fund %s: %w", b.Address, err)
		}
	}
	return a.PinServiceKeeper.InitGenesis(ctx, genesis.PinService)
}

// Deliver runs fn against a branch of the pending block with signers attached
// as verified. The branch is kept only when fn succeeds, and its pinservice
// events are then handed to the configured sink.
func (a *App) Deliver(ctx context.Context, op string, signers []sdk.AccAddress, fn func(ctx sdk.Context) error) (sdk.Events, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, span := TraceOperation(ctx, op, a.height)
	start := time.Now()

	branch := a.pending.CacheMultiStore()
	sdkCtx := pintypes.WithSigners(a.newContext(branch).WithContext(ctx), signers...)
	err := fn(sdkCtx)

	elapsed := time.Since(start)
	a.telemetry.RecordOperation(ctx, op, elapsed, err == nil)
	a.metrics.OperationLatency.WithLabelValues(op).Observe(elapsed.Seconds())
	endSpan(span, err)
	if err != nil {
		a.metrics.Operations.WithLabelValues(op, string(pintypes.Classify(err))).Inc()
		return nil, err
	}
	a.metrics.Operations.WithLabelValues(op, "ok").Inc()

	branch.Write()
	events := sdkCtx.EventManager().Events()
	if a.opts.Sink != nil {
		batch := indexer.FromSDKEvents(a.height, a.blockTime, events)
		if err := a.opts.Sink.Index(ctx, batch); err != nil {
			a.metrics.IndexFailures.Inc()
			a.logger.Error("failed to index events", "operation", op, "err", err)
		}
	}
	return events, nil
}

// Query runs fn against a throwaway branch of the pending block.
func (a *App) Query(ctx context.Context, fn func(ctx sdk.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.newContext(a.pending.CacheMultiStore()).WithContext(ctx))
}

// Commit persists the pending block and opens the next one.
func (a *App) Commit() (storetypes.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commitLocked()
}

func (a *App) commitLocked() (storetypes.CommitID, error) {
	if a.opts.CheckInvariants {
		if msg, broken := a.invariants.check(a.newContext(a.pending.CacheMultiStore())); broken {
			a.metrics.InvariantFailures.Inc()
			a.logger.Error("refusing to commit block", "height", a.height, "invariant", msg)
			return storetypes.CommitID{}, fmt.Errorf("invariant broken at height %d: %s", a.height, msg)
		}
	}

	a.pending.Write()
	id := a.cms.Commit()

	a.metrics.BlockHeight.Set(float64(id.Version))
	a.telemetry.RecordBlockHeight(context.Background(), id.Version)
	a.logger.Debug("committed block", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))

	a.startBlock(id.Version)
	return id, nil
}

// Run commits a block every interval until ctx is cancelled, then commits
// whatever is pending.
func (a *App) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_, err := a.Commit()
			return err
		case <-ticker.C:
			if _, err := a.Commit(); err != nil {
				return err
			}
		}
	}
}

// Height returns the height of the block being built.
func (a *App) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// LastCommitID returns the id of the last committed block.
func (a *App) LastCommitID() storetypes.CommitID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cms.LastCommitID()
}

// ChainID returns the chain id the host was opened with.
func (a *App) ChainID() string {
	return a.opts.ChainID
}

// MsgServer returns the pinservice message handlers.
func (a *App) MsgServer() pintypes.MsgServer {
	return a.msgServer
}

// Close releases the sink and the database.
func (a *App) Close() error {
	var errs []error
	if a.opts.Sink != nil {
		errs = append(errs, a.opts.Sink.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

type invariantRoute struct {
	module string
	route  string
	check  sdk.Invariant
}

// invariantRegistry collects module invariants in place of the crisis module.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, check: invar})
}

func (r *invariantRegistry) check(ctx sdk.Context) (string, bool) {
	for _, ir := range r.routes {
		if msg, broken := ir.check(ctx); broken {
			return fmt.Sprintf("%s/%s: %s", ir.module, ir.route, msg), true
		}
	}
	return "", false
}
