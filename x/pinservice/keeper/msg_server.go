package keeper

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// observe records latency and outcome of a message through the SDK telemetry sink.
func observe(msgType string, start time.Time, err error) {
	telemetry.MeasureSince(start, types.ModuleName, "msg", msgType)
	outcome := "ok"
	if err != nil {
		outcome = string(types.Classify(err))
	}
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("type", msgType),
			telemetry.NewLabel("outcome", outcome),
		},
	)
}

// CreatePin handles a new pin request
func (ms msgServer) CreatePin(goCtx context.Context, msg *types.MsgCreatePin) (resp *types.MsgCreatePinResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	publisher, _ := sdk.AccAddressFromBech32(msg.Publisher)

	slotID, err := ms.Keeper.CreatePin(goCtx, publisher, CreatePinRequest{
		ContentID:  msg.ContentID,
		Filename:   msg.Filename,
		Gateway:    msg.Gateway,
		OfferPrice: msg.OfferPrice,
		PinQty:     msg.PinQty,
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePinResponse{SlotID: slotID}, nil
}

// CollectPin handles a pinner claiming a replication payment
func (ms msgServer) CollectPin(goCtx context.Context, msg *types.MsgCollectPin) (resp *types.MsgCollectPinResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	pinner, _ := sdk.AccAddressFromBech32(msg.Pinner)

	amount, err := ms.Keeper.CollectPin(goCtx, pinner, msg.SlotID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCollectPinResponse{Amount: amount}, nil
}

// CancelPin handles a publisher withdrawing a pin request
func (ms msgServer) CancelPin(goCtx context.Context, msg *types.MsgCancelPin) (resp *types.MsgCancelPinResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	publisher, _ := sdk.AccAddressFromBech32(msg.Publisher)

	refund, err := ms.Keeper.CancelPin(goCtx, publisher, msg.SlotID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCancelPinResponse{Refund: refund}, nil
}

// ClearExpiredSlot handles a permissionless reclaim
func (ms msgServer) ClearExpiredSlot(goCtx context.Context, msg *types.MsgClearExpiredSlot) (resp *types.MsgClearExpiredSlotResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	refund, err := ms.Keeper.ClearExpiredSlot(goCtx, msg.SlotID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClearExpiredSlotResponse{Refund: refund}, nil
}

// ForceClearSlot handles an admin clearing a slot
func (ms msgServer) ForceClearSlot(goCtx context.Context, msg *types.MsgForceClearSlot) (resp *types.MsgForceClearSlotResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)

	refund, err := ms.Keeper.ForceClearSlot(goCtx, admin, msg.SlotID)
	if err != nil {
		return nil, err
	}
	return &types.MsgForceClearSlotResponse{Refund: refund}, nil
}

// JoinAsPinner handles a pinner registration
func (ms msgServer) JoinAsPinner(goCtx context.Context, msg *types.MsgJoinAsPinner) (resp *types.MsgJoinAsPinnerResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	addr, _ := sdk.AccAddressFromBech32(msg.Pinner)

	pinner, err := ms.Keeper.JoinAsPinner(goCtx, addr, msg.NodeID, msg.Multiaddr, msg.MinPrice)
	if err != nil {
		return nil, err
	}
	return &types.MsgJoinAsPinnerResponse{Pinner: pinner}, nil
}

// UpdatePinner handles a partial pinner update
func (ms msgServer) UpdatePinner(goCtx context.Context, msg *types.MsgUpdatePinner) (resp *types.MsgUpdatePinnerResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	addr, _ := sdk.AccAddressFromBech32(msg.Pinner)

	pinner, err := ms.Keeper.UpdatePinner(goCtx, addr, msg.Update)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdatePinnerResponse{Pinner: pinner}, nil
}

// LeaveAsPinner handles a voluntary deregistration
func (ms msgServer) LeaveAsPinner(goCtx context.Context, msg *types.MsgLeaveAsPinner) (resp *types.MsgLeaveAsPinnerResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	addr, _ := sdk.AccAddressFromBech32(msg.Pinner)

	refund, err := ms.Keeper.LeaveAsPinner(goCtx, addr)
	if err != nil {
		return nil, err
	}
	return &types.MsgLeaveAsPinnerResponse{Refund: refund}, nil
}

// RemovePinner handles an admin removal
func (ms msgServer) RemovePinner(goCtx context.Context, msg *types.MsgRemovePinner) (resp *types.MsgRemovePinnerResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)
	target, _ := sdk.AccAddressFromBech32(msg.Pinner)

	refund, err := ms.Keeper.RemovePinner(goCtx, admin, target)
	if err != nil {
		return nil, err
	}
	return &types.MsgRemovePinnerResponse{Refund: refund}, nil
}

// FlagPinner handles a flag cast by one pinner against another
func (ms msgServer) FlagPinner(goCtx context.Context, msg *types.MsgFlagPinner) (resp *types.MsgFlagPinnerResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	flagger, _ := sdk.AccAddressFromBech32(msg.Flagger)
	target, _ := sdk.AccAddressFromBech32(msg.Target)

	flags, err := ms.Keeper.FlagPinner(goCtx, flagger, target)
	if err != nil {
		return nil, err
	}
	return &types.MsgFlagPinnerResponse{Flags: flags}, nil
}

// WithdrawFees handles an admin fee withdrawal
func (ms msgServer) WithdrawFees(goCtx context.Context, msg *types.MsgWithdrawFees) (resp *types.MsgWithdrawFeesResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)
	recipient, _ := sdk.AccAddressFromBech32(msg.Recipient)

	amount, err := ms.Keeper.WithdrawFees(goCtx, admin, recipient)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawFeesResponse{Amount: amount}, nil
}

// AddAdmin handles adding an admin
func (ms msgServer) AddAdmin(goCtx context.Context, msg *types.MsgAddAdmin) (resp *types.MsgEmptyResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)
	newAdmin, _ := sdk.AccAddressFromBech32(msg.NewAdmin)

	if err := ms.Keeper.AddAdmin(goCtx, admin, newAdmin); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// RemoveAdmin handles removing an admin
func (ms msgServer) RemoveAdmin(goCtx context.Context, msg *types.MsgRemoveAdmin) (resp *types.MsgEmptyResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)
	target, _ := sdk.AccAddressFromBech32(msg.Target)

	if err := ms.Keeper.RemoveAdmin(goCtx, admin, target); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// FundService handles a custody deposit
func (ms msgServer) FundService(goCtx context.Context, msg *types.MsgFundService) (resp *types.MsgEmptyResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	funder, _ := sdk.AccAddressFromBech32(msg.Funder)

	if err := ms.Keeper.FundService(goCtx, funder, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// UpdateConfig applies every supplied parameter or none of them
func (ms msgServer) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateConfig) (resp *types.MsgEmptyResponse, err error) {
	defer func(start time.Time) { observe(msg.Type(), start, err) }(time.Now())

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	admin, _ := sdk.AccAddressFromBech32(msg.Admin)

	err = ms.atomically(goCtx, func(ctx sdk.Context) error {
		if msg.PinFee != nil {
			if err := ms.UpdatePinFee(ctx, admin, *msg.PinFee); err != nil {
				return err
			}
		}
		if msg.JoinFee != nil {
			if err := ms.UpdateJoinFee(ctx, admin, *msg.JoinFee); err != nil {
				return err
			}
		}
		if msg.MinPinQty != nil {
			if err := ms.UpdateMinPinQty(ctx, admin, *msg.MinPinQty); err != nil {
				return err
			}
		}
		if msg.MinOfferPrice != nil {
			if err := ms.UpdateMinOfferPrice(ctx, admin, *msg.MinOfferPrice); err != nil {
				return err
			}
		}
		if msg.MaxCycles != nil {
			if err := ms.UpdateMaxCycles(ctx, admin, *msg.MaxCycles); err != nil {
				return err
			}
		}
		if msg.FlagThreshold != nil {
			if err := ms.UpdateFlagThreshold(ctx, admin, *msg.FlagThreshold); err != nil {
				return err
			}
		}
		if msg.PinnerStake != nil {
			if err := ms.UpdatePinnerStake(ctx, admin, *msg.PinnerStake); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}
