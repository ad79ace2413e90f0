package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/pinservice/app"
	"github.com/paw-chain/pinservice/indexer"
	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

const (
	chainID   = "pinsvc-test-1"
	validCID  = "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy"
	startBank = 1_000_000
)

type captureSink struct {
	events []indexer.Event
	closed bool
}

func (c *captureSink) Index(_ context.Context, events []indexer.Event) error {
	c.events = append(c.events, events...)
	return nil
}

func (c *captureSink) Close() error {
	c.closed = true
	return nil
}

type AppTestSuite struct {
	suite.Suite

	db        dbm.DB
	app       *app.App
	sink      *captureSink
	admin     sdk.AccAddress
	publisher sdk.AccAddress
	now       time.Time
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.db = dbm.NewMemDB()
	s.sink = &captureSink{}
	s.admin = sdk.AccAddress("admin-address-000001")
	s.publisher = sdk.AccAddress("publisher-address-01")
	s.now = time.Unix(1_700_000_000, 0).UTC()

	s.app = s.open()

	genesis := app.NewDefaultGenesisDoc(chainID, s.admin)
	coins := sdk.NewCoins(sdk.NewInt64Coin(app.PayDenom, startBank))
	s.Require().NoError(genesis.AddAccount(s.publisher, coins))
	s.Require().NoError(s.app.InitChain(genesis))
}

func (s *AppTestSuite) open() *app.App {
	a, err := app.New(log.NewNopLogger(), s.db, app.Options{
		ChainID:         chainID,
		Sink:            s.sink,
		CheckInvariants: true,
		Now:             func() time.Time { return s.now },
	})
	s.Require().NoError(err)
	return a
}

func (s *AppTestSuite) balance(addr sdk.AccAddress) int64 {
	var amount int64
	s.Require().NoError(s.app.Query(context.Background(), func(ctx sdk.Context) error {
		amount = s.app.BankKeeper.GetBalance(ctx, addr, app.PayDenom).Amount.Int64()
		return nil
	}))
	return amount
}

func (s *AppTestSuite) createPin() uint32 {
	var resp *pintypes.MsgCreatePinResponse
	_, err := s.app.Deliver(context.Background(), pintypes.TypeMsgCreatePin, []sdk.AccAddress{s.publisher}, func(ctx sdk.Context) error {
		var err error
		resp, err = s.app.MsgServer().CreatePin(ctx, &pintypes.MsgCreatePin{
			Publisher:  s.publisher.String(),
			ContentID:  validCID,
			Filename:   "file.bin",
			Gateway:    "https://gateway.example.org",
			OfferPrice: 100,
			PinQty:     2,
		})
		return err
	})
	s.Require().NoError(err)
	return resp.SlotID
}

func (s *AppTestSuite) TestInitChain() {
	s.Require().Equal(int64(1), s.app.LastCommitID().Version)
	s.Require().Equal(int64(2), s.app.Height())
	s.Require().Equal(int64(startBank), s.balance(s.publisher))

	err := s.app.InitChain(app.NewDefaultGenesisDoc(chainID, s.admin))
	s.Require().ErrorIs(err, app.ErrAlreadyInitialized)
}

func (s *AppTestSuite) TestDeliverIndexesEvents() {
	slotID := s.createPin()
	s.Require().Equal(uint32(0), slotID)

	s.Require().Len(s.sink.events, 1)
	s.Require().Equal(pintypes.EventTypePin, s.sink.events[0].Type)
	s.Require().Equal(int64(2), s.sink.events[0].Height)
	s.Require().Equal(int64(startBank-200-pintypes.DefaultServiceConfig().PinFee), s.balance(s.publisher))
}

func (s *AppTestSuite) TestDeliverFailureDiscardsBranch() {
	_, err := s.app.Deliver(context.Background(), "broken", []sdk.AccAddress{s.publisher}, func(ctx sdk.Context) error {
		if err := s.app.BankKeeper.SendCoins(ctx, s.publisher, s.admin, sdk.NewCoins(sdk.NewInt64Coin(app.PayDenom, 10))); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Require().Error(err)
	s.Require().Equal(int64(startBank), s.balance(s.publisher))
	s.Require().Empty(s.sink.events)
}

func (s *AppTestSuite) TestDeliverRequiresSigner() {
	_, err := s.app.Deliver(context.Background(), pintypes.TypeMsgCreatePin, nil, func(ctx sdk.Context) error {
		_, err := s.app.MsgServer().CreatePin(ctx, &pintypes.MsgCreatePin{
			Publisher:  s.publisher.String(),
			ContentID:  validCID,
			Filename:   "file.bin",
			Gateway:    "https://gateway.example.org",
			OfferPrice: 100,
			PinQty:     1,
		})
		return err
	})
	s.Require().ErrorIs(err, pintypes.ErrUnauthorized)
}

func (s *AppTestSuite) TestCommitPersistsAcrossRestart() {
	s.createPin()
	id, err := s.app.Commit()
	s.Require().NoError(err)
	s.Require().Equal(int64(2), id.Version)

	reopened := s.open()
	s.Require().Equal(id, reopened.LastCommitID())
	s.Require().Equal(int64(3), reopened.Height())

	var info pintypes.SlotInfo
	s.Require().NoError(reopened.Query(context.Background(), func(ctx sdk.Context) error {
		var err error
		info, err = reopened.PinServiceKeeper.GetSlot(ctx, 0)
		return err
	}))
	s.Require().Equal(s.publisher.String(), info.Slot.Publisher)
}

func (s *AppTestSuite) TestUncommittedStateIsLostOnRestart() {
	s.createPin()
	reopened := s.open()

	err := reopened.Query(context.Background(), func(ctx sdk.Context) error {
		_, err := reopened.PinServiceKeeper.GetSlot(ctx, 0)
		return err
	})
	s.Require().ErrorIs(err, pintypes.ErrSlotNotActive)
}

func (s *AppTestSuite) TestRunCommitsUntilCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.app.Run(ctx, 5*time.Millisecond) }()

	s.Require().Eventually(func() bool { return s.app.LastCommitID().Version >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Require().NoError(<-done)
}

func (s *AppTestSuite) TestClose() {
	s.Require().NoError(s.app.Close())
	s.Require().True(s.sink.closed)
}

func TestNewRequiresChainID(t *testing.T) {
	_, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), app.Options{})
	require.Error(t, err)
}

func TestGenesisDocValidate(t *testing.T) {
	admin := sdk.AccAddress("admin-address-000001")
	genesis := app.NewDefaultGenesisDoc(chainID, admin)
	require.NoError(t, genesis.Validate())

	coins := sdk.NewCoins(sdk.NewInt64Coin(app.PayDenom, 5))
	require.NoError(t, genesis.AddAccount(admin, coins))
	require.NoError(t, genesis.AddAccount(admin, coins))
	require.Len(t, genesis.Balances, 1)
	require.Equal(t, int64(10), genesis.Balances[0].Coins.AmountOf(app.PayDenom).Int64())

	genesis.ChainID = ""
	require.Error(t, genesis.Validate())

	noAdmin := app.NewDefaultGenesisDoc(chainID, nil)
	require.Error(t, noAdmin.Validate())
}

func TestGenesisDocSaveLoad(t *testing.T) {
	path := t.TempDir() + "/config/genesis.json"
	genesis := app.NewDefaultGenesisDoc(chainID, sdk.AccAddress("admin-address-000001"))
	require.NoError(t, genesis.AddAccount(sdk.AccAddress("user-address-0000001"), sdk.NewCoins(sdk.NewInt64Coin(app.PayDenom, 42))))
	require.NoError(t, genesis.Save(path))

	loaded, err := app.LoadGenesisDoc(path)
	require.NoError(t, err)
	require.Equal(t, genesis.ChainID, loaded.ChainID)
	require.True(t, genesis.GenesisTime.Equal(loaded.GenesisTime))
	require.Equal(t, genesis.Balances[0].Address, loaded.Balances[0].Address)
	require.True(t, genesis.Balances[0].Coins.Equal(loaded.Balances[0].Coins))
	require.Equal(t, genesis.PinService.Admins, loaded.PinService.Admins)
}
