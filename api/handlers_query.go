package api

import (
	"errors"
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

// query runs fn against the pending state and renders its result
func (s *Server) query(c *gin.Context, fn func(ctx sdk.Context) (interface{}, error)) {
	var result interface{}
	err := s.host.Query(c.Request.Context(), func(ctx sdk.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		return s.host.PinServiceKeeper.GetConfig(ctx)
	})
}

func (s *Server) handleGetSlots(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		slots, err := s.host.PinServiceKeeper.GetAllSlots(ctx)
		if err != nil {
			return nil, err
		}
		return SlotsResponse{Slots: slots}, nil
	})
}

func (s *Server) handleGetSlot(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}
	var info pintypes.SlotInfo
	err := s.host.Query(c.Request.Context(), func(ctx sdk.Context) error {
		var err error
		info, err = s.host.PinServiceKeeper.GetSlot(ctx, slotID)
		return err
	})
	if errors.Is(err, pintypes.ErrSlotNotActive) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleSlotsAvailable(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		available, err := s.host.PinServiceKeeper.HasAvailableSlots(ctx)
		if err != nil {
			return nil, err
		}
		return AvailabilityResponse{Available: available}, nil
	})
}

func (s *Server) handleGetEpoch(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		epoch, err := s.host.PinServiceKeeper.CurrentEpoch(ctx)
		if err != nil {
			return nil, err
		}
		return EpochResponse{Height: ctx.BlockHeight(), Epoch: epoch}, nil
	})
}

func (s *Server) handleGetPinner(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var resp PinnerResponse
	found := true
	err := s.host.Query(c.Request.Context(), func(ctx sdk.Context) error {
		if !s.host.PinServiceKeeper.IsPinner(ctx, addr) {
			found = false
			return nil
		}
		pinner, err := s.host.PinServiceKeeper.GetPinner(ctx, addr)
		if err != nil {
			return err
		}
		flaggers, err := s.host.PinServiceKeeper.GetFlaggers(ctx, addr)
		if err != nil {
			return err
		}
		resp = PinnerResponse{Pinner: *pinner, Flaggers: flaggers}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "pinner not found", Code: "NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetPinnerCount(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		return CountResponse{Count: s.host.PinServiceKeeper.GetPinnerCount(ctx)}, nil
	})
}

func (s *Server) handleGetAdmins(c *gin.Context) {
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		admins, err := s.host.PinServiceKeeper.GetAdminList(ctx)
		if err != nil {
			return nil, err
		}
		return AdminsResponse{Admins: admins}, nil
	})
}

func (s *Server) handleGetBalance(c *gin.Context) {
	addr, ok := addressQuery(c, "address")
	if !ok {
		return
	}
	s.query(c, func(ctx sdk.Context) (interface{}, error) {
		config, err := s.host.PinServiceKeeper.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		coin := s.host.BankKeeper.GetBalance(ctx, addr, config.PayDenom)
		return BalanceResponse{Address: addr.String(), Denom: coin.Denom, Amount: coin.Amount.String()}, nil
	})
}
