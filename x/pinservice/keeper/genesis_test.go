package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/pinservice/testutil/keeper"
	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestInitService_Twice(t *testing.T) {
	s := setupService(t)
	err := s.Keeper.InitService(s.Ctx, testAddr(1), testConfig())
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	admins, err := s.Keeper.GetAdminList(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, []string{s.admin.String()}, admins)
}

func TestInitService_InvalidConfig(t *testing.T) {
	f := keepertest.PinServiceKeeper(t)
	config := testConfig()
	config.MaxCycles = 0
	require.ErrorIs(t, f.Keeper.InitService(f.Ctx, testAddr(0), config), types.ErrInvalidConfig)

	_, err := f.Keeper.GetConfig(f.Ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)
}

func TestGenesisRoundTrip(t *testing.T) {
	s := setupService(t)
	publisher := s.funded(t, 1)
	s.createPin(t, publisher, 1, 20, 3)
	s.createPin(t, publisher, 2, 15, 1)

	target := s.funded(t, 2)
	flagger := s.funded(t, 3)
	s.joinPinner(t, target)
	s.joinPinner(t, flagger)
	_, err := s.Keeper.CollectPin(s.Signed(target), target, 0)
	require.NoError(t, err)
	_, err = s.Keeper.FlagPinner(s.Signed(flagger), flagger, target)
	require.NoError(t, err)
	require.NoError(t, s.Keeper.AddAdmin(s.Signed(s.admin), s.admin, testAddr(4)))

	exported, err := s.Keeper.ExportGenesis(s.Ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Slots, 2)
	require.Len(t, exported.Pinners, 2)
	require.Len(t, exported.Admins, 2)
	require.Len(t, exported.Flaggers, 1)

	fresh := keepertest.PinServiceKeeper(t)
	require.NoError(t, fresh.Keeper.InitGenesis(fresh.Ctx, *exported))

	reexported, err := fresh.Keeper.ExportGenesis(fresh.Ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	require.Equal(t, uint64(2), fresh.Keeper.GetPinnerCount(fresh.Ctx))
	require.True(t, fresh.Keeper.HasFlagged(fresh.Ctx, flagger, target))
	_, err = fresh.Keeper.FlagPinner(fresh.Signed(flagger), flagger, target)
	require.ErrorIs(t, err, types.ErrAlreadyFlagged)
}

func TestInitGenesis_Invalid(t *testing.T) {
	f := keepertest.PinServiceKeeper(t)
	genesis := types.DefaultGenesis()
	genesis.Admins = nil
	require.Error(t, f.Keeper.InitGenesis(f.Ctx, *genesis))
}
