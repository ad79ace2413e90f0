package api

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

func (s *Server) handleJoinAsPinner(c *gin.Context) {
	var req JoinPinnerRequest
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgJoinAsPinner, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().JoinAsPinner(ctx, &pintypes.MsgJoinAsPinner{
			Pinner:    caller.String(),
			NodeID:    req.NodeID,
			Multiaddr: req.Multiaddr,
			MinPrice:  req.MinPrice,
		})
	})
}

func (s *Server) handleUpdatePinner(c *gin.Context) {
	var req pintypes.PinnerUpdate
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgUpdatePinner, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().UpdatePinner(ctx, &pintypes.MsgUpdatePinner{Pinner: caller.String(), Update: req})
	})
}

func (s *Server) handleLeaveAsPinner(c *gin.Context) {
	s.deliverAsCaller(c, pintypes.TypeMsgLeaveAsPinner, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().LeaveAsPinner(ctx, &pintypes.MsgLeaveAsPinner{Pinner: caller.String()})
	})
}

func (s *Server) handleFlagPinner(c *gin.Context) {
	target, ok := addressParam(c, "address")
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgFlagPinner, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().FlagPinner(ctx, &pintypes.MsgFlagPinner{Flagger: caller.String(), Target: target.String()})
	})
}
