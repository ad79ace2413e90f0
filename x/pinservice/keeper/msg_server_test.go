package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/keeper"
	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestMsgServer_PinLifecycle(t *testing.T) {
	s := setupService(t)
	srv := keeper.NewMsgServerImpl(*s.Keeper)
	publisher := s.funded(t, 1)
	pinner := s.funded(t, 2)

	created, err := srv.CreatePin(s.Signed(publisher), &types.MsgCreatePin{
		Publisher:  publisher.String(),
		ContentID:  testCID(t, 1),
		Filename:   testFile,
		Gateway:    testGate,
		OfferPrice: 25,
		PinQty:     2,
	})
	require.NoError(t, err)

	_, err = srv.JoinAsPinner(s.Signed(pinner), &types.MsgJoinAsPinner{
		Pinner:    pinner.String(),
		NodeID:    "node-2",
		Multiaddr: nodeAddr,
	})
	require.NoError(t, err)

	collected, err := srv.CollectPin(s.Signed(pinner), &types.MsgCollectPin{Pinner: pinner.String(), SlotID: created.SlotID})
	require.NoError(t, err)
	require.Equal(t, uint64(25), collected.Amount)

	cancelled, err := srv.CancelPin(s.Signed(publisher), &types.MsgCancelPin{Publisher: publisher.String(), SlotID: created.SlotID})
	require.NoError(t, err)
	require.Equal(t, uint64(25), cancelled.Refund)

	left, err := srv.LeaveAsPinner(s.Signed(pinner), &types.MsgLeaveAsPinner{Pinner: pinner.String()})
	require.NoError(t, err)
	require.Equal(t, uint64(stake), left.Refund)
	s.requireInvariants(t)
}

func TestMsgServer_ValidateBasic(t *testing.T) {
	s := setupService(t)
	srv := keeper.NewMsgServerImpl(*s.Keeper)
	publisher := testAddr(1).String()

	_, err := srv.CreatePin(s.Ctx, &types.MsgCreatePin{Publisher: "bogus", ContentID: testCID(t, 1), Filename: testFile, Gateway: testGate, OfferPrice: 10, PinQty: 1})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = srv.CreatePin(s.Ctx, &types.MsgCreatePin{Publisher: publisher, ContentID: "", Filename: testFile, Gateway: testGate, OfferPrice: 10, PinQty: 1})
	require.ErrorIs(t, err, types.ErrInvalidCid)

	_, err = srv.CollectPin(s.Ctx, &types.MsgCollectPin{Pinner: publisher, SlotID: types.SlotCapacity})
	require.ErrorIs(t, err, types.ErrInvalidSlotID)

	_, err = srv.FlagPinner(s.Ctx, &types.MsgFlagPinner{Flagger: publisher, Target: publisher})
	require.ErrorIs(t, err, types.ErrCannotFlagSelf)

	_, err = srv.FundService(s.Ctx, &types.MsgFundService{Funder: publisher})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = srv.UpdateConfig(s.Ctx, &types.MsgUpdateConfig{Admin: s.admin.String()})
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestMsgServer_UpdateConfigAllOrNothing(t *testing.T) {
	s := setupService(t)
	srv := keeper.NewMsgServerImpl(*s.Keeper)

	pinFeeUpdate := uint64(77)
	badQty := uint32(types.SlotCapacity + 1)
	_, err := srv.UpdateConfig(s.Signed(s.admin), &types.MsgUpdateConfig{
		Admin:     s.admin.String(),
		PinFee:    &pinFeeUpdate,
		MinPinQty: &badQty,
	})
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	config, err := s.Keeper.GetConfig(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(pinFee), config.PinFee)

	cycles := uint64(9)
	_, err = srv.UpdateConfig(s.Signed(s.admin), &types.MsgUpdateConfig{
		Admin:     s.admin.String(),
		PinFee:    &pinFeeUpdate,
		MaxCycles: &cycles,
	})
	require.NoError(t, err)
	config, err = s.Keeper.GetConfig(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, pinFeeUpdate, config.PinFee)
	require.Equal(t, cycles, config.MaxCycles)
}

func TestMsgServer_ClearExpiredNeedsNoSigner(t *testing.T) {
	s := setupService(t)
	srv := keeper.NewMsgServerImpl(*s.Keeper)
	publisher := s.funded(t, 1)
	slotID := s.createPin(t, publisher, 1, 10, 2)

	_, err := srv.ClearExpiredSlot(s.Ctx, &types.MsgClearExpiredSlot{SlotID: slotID})
	require.ErrorIs(t, err, types.ErrSlotNotExpired)

	s.expireAll()
	resp, err := srv.ClearExpiredSlot(s.Ctx, &types.MsgClearExpiredSlot{SlotID: slotID})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.Refund)
}
