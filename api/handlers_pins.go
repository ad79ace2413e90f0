package api

import (
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

// deliver runs fn as one operation of the pending block on behalf of signers
// and renders its result and pinservice events.
func (s *Server) deliver(c *gin.Context, op string, signers []sdk.AccAddress, fn func(ctx sdk.Context) (interface{}, error)) {
	var result interface{}
	events, err := s.host.Deliver(c.Request.Context(), op, signers, func(ctx sdk.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}

	summaries := []EventSummary{}
	for _, ev := range events {
		if !pintypes.IsServiceEvent(ev.Type) {
			continue
		}
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		summaries = append(summaries, EventSummary{Type: ev.Type, Attributes: attrs})
	}

	c.JSON(http.StatusOK, TxResponse{
		Height: s.host.Height(),
		Result: result,
		Events: summaries,
	})
}

// deliverAsCaller is deliver with the session address as the only signer
func (s *Server) deliverAsCaller(c *gin.Context, op string, fn func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error)) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	s.deliver(c, op, []sdk.AccAddress{caller}, func(ctx sdk.Context) (interface{}, error) {
		return fn(ctx, caller)
	})
}

func (s *Server) handleCreatePin(c *gin.Context) {
	var req CreatePinRequest
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgCreatePin, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().CreatePin(ctx, &pintypes.MsgCreatePin{
			Publisher:  caller.String(),
			ContentID:  req.ContentID,
			Filename:   req.Filename,
			Gateway:    req.Gateway,
			OfferPrice: req.OfferPrice,
			PinQty:     req.PinQty,
		})
	})
}

func (s *Server) handleCollectPin(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgCollectPin, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().CollectPin(ctx, &pintypes.MsgCollectPin{Pinner: caller.String(), SlotID: slotID})
	})
}

func (s *Server) handleCancelPin(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgCancelPin, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().CancelPin(ctx, &pintypes.MsgCancelPin{Publisher: caller.String(), SlotID: slotID})
	})
}

// handleClearExpiredSlot is permissionless and runs without signers
func (s *Server) handleClearExpiredSlot(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}
	s.deliver(c, pintypes.TypeMsgClearExpiredSlot, nil, func(ctx sdk.Context) (interface{}, error) {
		return s.host.MsgServer().ClearExpiredSlot(ctx, &pintypes.MsgClearExpiredSlot{SlotID: slotID})
	})
}

func (s *Server) handleFundService(c *gin.Context) {
	var req AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	s.deliverAsCaller(c, pintypes.TypeMsgFundService, func(ctx sdk.Context, caller sdk.AccAddress) (interface{}, error) {
		return s.host.MsgServer().FundService(ctx, &pintypes.MsgFundService{Funder: caller.String(), Amount: req.Amount})
	})
}
