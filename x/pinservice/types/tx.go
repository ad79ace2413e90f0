package types

import "context"

// MsgServer is the server API for pinservice state transitions.
type MsgServer interface {
	CreatePin(context.Context, *MsgCreatePin) (*MsgCreatePinResponse, error)
	CollectPin(context.Context, *MsgCollectPin) (*MsgCollectPinResponse, error)
	CancelPin(context.Context, *MsgCancelPin) (*MsgCancelPinResponse, error)
	ClearExpiredSlot(context.Context, *MsgClearExpiredSlot) (*MsgClearExpiredSlotResponse, error)
	ForceClearSlot(context.Context, *MsgForceClearSlot) (*MsgForceClearSlotResponse, error)
	JoinAsPinner(context.Context, *MsgJoinAsPinner) (*MsgJoinAsPinnerResponse, error)
	UpdatePinner(context.Context, *MsgUpdatePinner) (*MsgUpdatePinnerResponse, error)
	LeaveAsPinner(context.Context, *MsgLeaveAsPinner) (*MsgLeaveAsPinnerResponse, error)
	RemovePinner(context.Context, *MsgRemovePinner) (*MsgRemovePinnerResponse, error)
	FlagPinner(context.Context, *MsgFlagPinner) (*MsgFlagPinnerResponse, error)
	WithdrawFees(context.Context, *MsgWithdrawFees) (*MsgWithdrawFeesResponse, error)
	AddAdmin(context.Context, *MsgAddAdmin) (*MsgEmptyResponse, error)
	RemoveAdmin(context.Context, *MsgRemoveAdmin) (*MsgEmptyResponse, error)
	FundService(context.Context, *MsgFundService) (*MsgEmptyResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgEmptyResponse, error)
}

// MsgEmptyResponse is returned by operations with no result value.
type MsgEmptyResponse struct{}
