package api

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

func (s *Server) handleForceClearSlot(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgForceClearSlot, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().ForceClearSlot(ctx, &pintypes.MsgForceClearSlot{Admin: caller.String(), SlotID: slotID})
	})
}

func (s *Server) handleRemovePinner(c *gin.Context) {
	target, ok := addressParam(c, "address")
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgRemovePinner, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().RemovePinner(ctx, &pintypes.MsgRemovePinner{Admin: caller.String(), Pinner: target.String()})
	})
}

func (s *Server) handleAddAdmin(c *gin.Context) {
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgAddAdmin, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().AddAdmin(ctx, &pintypes.MsgAddAdmin{Admin: caller.String(), NewAdmin: req.Address})
	})
}

func (s *Server) handleRemoveAdmin(c *gin.Context) {
	target, ok := addressParam(c, "address")
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgRemoveAdmin, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().RemoveAdmin(ctx, &pintypes.MsgRemoveAdmin{Admin: caller.String(), Target: target.String()})
	})
}

func (s *Server) handleWithdrawFees(c *gin.Context) {
	var req WithdrawFeesRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgWithdrawFees, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		recipient := req.Recipient
		if recipient == "" {
			recipient = caller.String()
		}
		return s.host.MsgServer().WithdrawFees(ctx, &pintypes.MsgWithdrawFees{Admin: caller.String(), Recipient: recipient})
	})
}

func (s *Server) handleUpdateConfig(c *gin.Context) {
	var req ConfigUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgUpdateConfig, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().UpdateConfig(ctx, &pintypes.MsgUpdateConfig{
			Admin:         caller.String(),
			PinFee:        req.PinFee,
			JoinFee:       req.JoinFee,
			MinPinQty:     req.MinPinQty,
			MinOfferPrice: req.MinOfferPrice,
			MaxCycles:     req.MaxCycles,
			FlagThreshold: req.FlagThreshold,
			PinnerStake:   req.PinnerStake,
		})
	})
}
