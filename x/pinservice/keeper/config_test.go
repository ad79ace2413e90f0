package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestConfigSetters(t *testing.T) {
	s := setupService(t)
	ctx := s.Signed(s.admin)

	require.NoError(t, s.Keeper.UpdatePinFee(ctx, s.admin, 1))
	require.NoError(t, s.Keeper.UpdateJoinFee(ctx, s.admin, 2))
	require.NoError(t, s.Keeper.UpdateMinPinQty(ctx, s.admin, 3))
	require.NoError(t, s.Keeper.UpdateMinOfferPrice(ctx, s.admin, 4))
	require.NoError(t, s.Keeper.UpdateMaxCycles(ctx, s.admin, 5))
	require.NoError(t, s.Keeper.UpdateFlagThreshold(ctx, s.admin, 6))
	require.NoError(t, s.Keeper.UpdatePinnerStake(ctx, s.admin, 7))

	config, err := s.Keeper.GetConfig(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), config.PinFee)
	require.Equal(t, uint64(2), config.JoinFee)
	require.Equal(t, uint32(3), config.MinPinQty)
	require.Equal(t, uint64(4), config.MinOfferPrice)
	require.Equal(t, uint64(5), config.MaxCycles)
	require.Equal(t, uint32(6), config.FlagThreshold)
	require.Equal(t, uint64(7), config.PinnerStake)

	event := s.requireEvent(t, types.EventTypeUpdateConfig)
	require.Equal(t, "pinner_stake", attr(event, types.AttributeKeyParameter))
	require.Equal(t, "7", attr(event, types.AttributeKeyValue))
}

func TestConfigSetters_Rejections(t *testing.T) {
	s := setupService(t)
	ctx := s.Signed(s.admin)

	require.ErrorIs(t, s.Keeper.UpdateMinPinQty(ctx, s.admin, 0), types.ErrInvalidConfig)
	require.ErrorIs(t, s.Keeper.UpdateMinPinQty(ctx, s.admin, types.SlotCapacity+1), types.ErrInvalidConfig)
	require.ErrorIs(t, s.Keeper.UpdateMaxCycles(ctx, s.admin, 0), types.ErrInvalidConfig)

	outsider := testAddr(1)
	require.ErrorIs(t, s.Keeper.UpdatePinFee(s.Signed(outsider), outsider, 1), types.ErrNotAdmin)

	config, err := s.Keeper.GetConfig(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, testConfig().MinPinQty, config.MinPinQty)
	require.Equal(t, testConfig().MaxCycles, config.MaxCycles)
	require.Equal(t, testConfig().PinFee, config.PinFee)
}

// TestMinPinQtyAppliesToNewRequests tests that raising the minimum leaves existing slots alone
func TestMinPinQtyAppliesToNewRequests(t *testing.T) {
	s := setupService(t)
	publisher := s.funded(t, 1)
	slotID := s.createPin(t, publisher, 1, minOffer, 1)

	require.NoError(t, s.Keeper.UpdateMinPinQty(s.Signed(s.admin), s.admin, 2))

	_, err := s.Keeper.CreatePin(s.Signed(publisher), publisher, createRequest(t, 2, minOffer, 1))
	require.ErrorIs(t, err, types.ErrInsufficientPinQty)

	info, err := s.Keeper.GetSlot(s.Ctx, slotID)
	require.NoError(t, err)
	require.Equal(t, uint32(1), info.Slot.PinQty)
}
