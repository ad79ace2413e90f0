package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePin        = "create_pin"
	TypeMsgCollectPin       = "collect_pin"
	TypeMsgCancelPin        = "cancel_pin"
	TypeMsgClearExpiredSlot = "clear_expired_slot"
	TypeMsgForceClearSlot   = "force_clear_slot"
	TypeMsgJoinAsPinner     = "join_as_pinner"
	TypeMsgUpdatePinner     = "update_pinner"
	TypeMsgLeaveAsPinner    = "leave_as_pinner"
	TypeMsgRemovePinner     = "remove_pinner"
	TypeMsgFlagPinner       = "flag_pinner"
	TypeMsgWithdrawFees     = "withdraw_fees"
	TypeMsgAddAdmin         = "add_admin"
	TypeMsgRemoveAdmin      = "remove_admin"
	TypeMsgFundService      = "fund_service"
	TypeMsgUpdateConfig     = "update_config"
)

// Msg is a pinservice state transition request.
type Msg interface {
	Type() string
	ValidateBasic() error
	GetSigners() []sdk.AccAddress
}

var (
	_ Msg = &MsgCreatePin{}
	_ Msg = &MsgCollectPin{}
	_ Msg = &MsgCancelPin{}
	_ Msg = &MsgClearExpiredSlot{}
	_ Msg = &MsgForceClearSlot{}
	_ Msg = &MsgJoinAsPinner{}
	_ Msg = &MsgUpdatePinner{}
	_ Msg = &MsgLeaveAsPinner{}
	_ Msg = &MsgRemovePinner{}
	_ Msg = &MsgFlagPinner{}
	_ Msg = &MsgWithdrawFees{}
	_ Msg = &MsgAddAdmin{}
	_ Msg = &MsgRemoveAdmin{}
	_ Msg = &MsgFundService{}
	_ Msg = &MsgUpdateConfig{}
)

func signers(addrs ...string) []sdk.AccAddress {
	out := make([]sdk.AccAddress, 0, len(addrs))
	for _, a := range addrs {
		addr, _ := sdk.AccAddressFromBech32(a)
		out = append(out, addr)
	}
	return out
}

// MsgCreatePin requests replication of content_id by pin_qty pinners.
type MsgCreatePin struct {
	Publisher  string `json:"publisher"`
	ContentID  string `json:"content_id"`
	Filename   string `json:"filename"`
	Gateway    string `json:"gateway"`
	OfferPrice uint64 `json:"offer_price"`
	PinQty     uint32 `json:"pin_qty"`
}

type MsgCreatePinResponse struct {
	SlotID uint32 `json:"slot_id"`
}

func (msg *MsgCreatePin) Type() string                 { return TypeMsgCreatePin }
func (msg *MsgCreatePin) GetSigners() []sdk.AccAddress { return signers(msg.Publisher) }

// ValidateBasic performs stateless validation
func (msg *MsgCreatePin) ValidateBasic() error {
	if _, err := ValidateAddress("publisher", msg.Publisher); err != nil {
		return err
	}
	if err := ValidateContentID(msg.ContentID); err != nil {
		return err
	}
	if err := ValidateString("filename", msg.Filename); err != nil {
		return err
	}
	if err := ValidateString("gateway", msg.Gateway); err != nil {
		return err
	}
	if msg.PinQty == 0 {
		return ErrInsufficientPinQty.Wrap("pin_qty must be positive")
	}
	if msg.PinQty > SlotCapacity {
		return ErrPinQtyExceedsMax.Wrapf("pin_qty %d > %d", msg.PinQty, SlotCapacity)
	}
	return nil
}

// MsgCollectPin claims one replication payment from a slot.
type MsgCollectPin struct {
	Pinner string `json:"pinner"`
	SlotID uint32 `json:"slot_id"`
}

type MsgCollectPinResponse struct {
	Amount uint64 `json:"amount"`
}

func (msg *MsgCollectPin) Type() string                 { return TypeMsgCollectPin }
func (msg *MsgCollectPin) GetSigners() []sdk.AccAddress { return signers(msg.Pinner) }

func (msg *MsgCollectPin) ValidateBasic() error {
	if _, err := ValidateAddress("pinner", msg.Pinner); err != nil {
		return err
	}
	return ValidateSlotID(msg.SlotID)
}

// MsgCancelPin withdraws a pin request and refunds its remaining escrow.
type MsgCancelPin struct {
	Publisher string `json:"publisher"`
	SlotID    uint32 `json:"slot_id"`
}

type MsgCancelPinResponse struct {
	Refund uint64 `json:"refund"`
}

func (msg *MsgCancelPin) Type() string                 { return TypeMsgCancelPin }
func (msg *MsgCancelPin) GetSigners() []sdk.AccAddress { return signers(msg.Publisher) }

func (msg *MsgCancelPin) ValidateBasic() error {
	if _, err := ValidateAddress("publisher", msg.Publisher); err != nil {
		return err
	}
	return ValidateSlotID(msg.SlotID)
}

// MsgClearExpiredSlot reclaims an expired slot. It needs no signer.
type MsgClearExpiredSlot struct {
	SlotID uint32 `json:"slot_id"`
}

type MsgClearExpiredSlotResponse struct {
	Refund uint64 `json:"refund"`
}

func (msg *MsgClearExpiredSlot) Type() string                 { return TypeMsgClearExpiredSlot }
func (msg *MsgClearExpiredSlot) GetSigners() []sdk.AccAddress { return nil }
func (msg *MsgClearExpiredSlot) ValidateBasic() error         { return ValidateSlotID(msg.SlotID) }

// MsgForceClearSlot clears a slot regardless of expiration.
type MsgForceClearSlot struct {
	Admin  string `json:"admin"`
	SlotID uint32 `json:"slot_id"`
}

type MsgForceClearSlotResponse struct {
	Refund uint64 `json:"refund"`
}

func (msg *MsgForceClearSlot) Type() string                 { return TypeMsgForceClearSlot }
func (msg *MsgForceClearSlot) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgForceClearSlot) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return ValidateSlotID(msg.SlotID)
}

// MsgJoinAsPinner registers the signer as a pinner.
type MsgJoinAsPinner struct {
	Pinner    string `json:"pinner"`
	NodeID    string `json:"node_id"`
	Multiaddr string `json:"multiaddr"`
	MinPrice  uint64 `json:"min_price"`
}

type MsgJoinAsPinnerResponse struct {
	Pinner Pinner `json:"pinner"`
}

func (msg *MsgJoinAsPinner) Type() string                 { return TypeMsgJoinAsPinner }
func (msg *MsgJoinAsPinner) GetSigners() []sdk.AccAddress { return signers(msg.Pinner) }

func (msg *MsgJoinAsPinner) ValidateBasic() error {
	if _, err := ValidateAddress("pinner", msg.Pinner); err != nil {
		return err
	}
	if err := ValidateString("node_id", msg.NodeID); err != nil {
		return err
	}
	return ValidateMultiaddr(msg.Multiaddr)
}

// MsgUpdatePinner changes the supplied pinner fields.
type MsgUpdatePinner struct {
	Pinner string       `json:"pinner"`
	Update PinnerUpdate `json:"update"`
}

type MsgUpdatePinnerResponse struct {
	Pinner Pinner `json:"pinner"`
}

func (msg *MsgUpdatePinner) Type() string                 { return TypeMsgUpdatePinner }
func (msg *MsgUpdatePinner) GetSigners() []sdk.AccAddress { return signers(msg.Pinner) }

func (msg *MsgUpdatePinner) ValidateBasic() error {
	if _, err := ValidateAddress("pinner", msg.Pinner); err != nil {
		return err
	}
	if msg.Update.NodeID != nil {
		if err := ValidateString("node_id", *msg.Update.NodeID); err != nil {
			return err
		}
	}
	if msg.Update.Multiaddr != nil {
		if err := ValidateMultiaddr(*msg.Update.Multiaddr); err != nil {
			return err
		}
	}
	return nil
}

// MsgLeaveAsPinner deregisters the signer.
type MsgLeaveAsPinner struct {
	Pinner string `json:"pinner"`
}

type MsgLeaveAsPinnerResponse struct {
	Refund uint64 `json:"refund"`
}

func (msg *MsgLeaveAsPinner) Type() string                 { return TypeMsgLeaveAsPinner }
func (msg *MsgLeaveAsPinner) GetSigners() []sdk.AccAddress { return signers(msg.Pinner) }

func (msg *MsgLeaveAsPinner) ValidateBasic() error {
	_, err := ValidateAddress("pinner", msg.Pinner)
	return err
}

// MsgRemovePinner is an admin removal of a pinner.
type MsgRemovePinner struct {
	Admin  string `json:"admin"`
	Pinner string `json:"pinner"`
}

type MsgRemovePinnerResponse struct {
	Refund uint64 `json:"refund"`
}

func (msg *MsgRemovePinner) Type() string                 { return TypeMsgRemovePinner }
func (msg *MsgRemovePinner) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgRemovePinner) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	_, err := ValidateAddress("pinner", msg.Pinner)
	return err
}

// MsgFlagPinner reports a misbehaving pinner.
type MsgFlagPinner struct {
	Flagger string `json:"flagger"`
	Target  string `json:"target"`
}

type MsgFlagPinnerResponse struct {
	Flags uint32 `json:"flags"`
}

func (msg *MsgFlagPinner) Type() string                 { return TypeMsgFlagPinner }
func (msg *MsgFlagPinner) GetSigners() []sdk.AccAddress { return signers(msg.Flagger) }

func (msg *MsgFlagPinner) ValidateBasic() error {
	if _, err := ValidateAddress("flagger", msg.Flagger); err != nil {
		return err
	}
	if _, err := ValidateAddress("target", msg.Target); err != nil {
		return err
	}
	if msg.Flagger == msg.Target {
		return ErrCannotFlagSelf
	}
	return nil
}

// MsgWithdrawFees sends all collected fees to recipient.
type MsgWithdrawFees struct {
	Admin     string `json:"admin"`
	Recipient string `json:"recipient"`
}

type MsgWithdrawFeesResponse struct {
	Amount uint64 `json:"amount"`
}

func (msg *MsgWithdrawFees) Type() string                 { return TypeMsgWithdrawFees }
func (msg *MsgWithdrawFees) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgWithdrawFees) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	_, err := ValidateAddress("recipient", msg.Recipient)
	return err
}

// MsgAddAdmin appends an admin.
type MsgAddAdmin struct {
	Admin    string `json:"admin"`
	NewAdmin string `json:"new_admin"`
}

func (msg *MsgAddAdmin) Type() string                 { return TypeMsgAddAdmin }
func (msg *MsgAddAdmin) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgAddAdmin) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	_, err := ValidateAddress("new_admin", msg.NewAdmin)
	return err
}

// MsgRemoveAdmin removes a non-founding admin.
type MsgRemoveAdmin struct {
	Admin  string `json:"admin"`
	Target string `json:"target"`
}

func (msg *MsgRemoveAdmin) Type() string                 { return TypeMsgRemoveAdmin }
func (msg *MsgRemoveAdmin) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgRemoveAdmin) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	_, err := ValidateAddress("target", msg.Target)
	return err
}

// MsgFundService deposits funds into custody.
type MsgFundService struct {
	Funder string `json:"funder"`
	Amount uint64 `json:"amount"`
}

func (msg *MsgFundService) Type() string                 { return TypeMsgFundService }
func (msg *MsgFundService) GetSigners() []sdk.AccAddress { return signers(msg.Funder) }

func (msg *MsgFundService) ValidateBasic() error {
	if _, err := ValidateAddress("funder", msg.Funder); err != nil {
		return err
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount.Wrap("amount must be positive")
	}
	return nil
}

// MsgUpdateConfig sets the supplied configuration parameters.
type MsgUpdateConfig struct {
	Admin         string  `json:"admin"`
	PinFee        *uint64 `json:"pin_fee,omitempty"`
	JoinFee       *uint64 `json:"join_fee,omitempty"`
	MinPinQty     *uint32 `json:"min_pin_qty,omitempty"`
	MinOfferPrice *uint64 `json:"min_offer_price,omitempty"`
	MaxCycles     *uint64 `json:"max_cycles,omitempty"`
	FlagThreshold *uint32 `json:"flag_threshold,omitempty"`
	PinnerStake   *uint64 `json:"pinner_stake,omitempty"`
}

func (msg *MsgUpdateConfig) Type() string                 { return TypeMsgUpdateConfig }
func (msg *MsgUpdateConfig) GetSigners() []sdk.AccAddress { return signers(msg.Admin) }

func (msg *MsgUpdateConfig) ValidateBasic() error {
	if _, err := ValidateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if msg.MinPinQty != nil && *msg.MinPinQty == 0 {
		return ErrInvalidConfig.Wrap("min_pin_qty must be positive")
	}
	if msg.MaxCycles != nil && *msg.MaxCycles == 0 {
		return ErrInvalidConfig.Wrap("max_cycles must be positive")
	}
	if msg.PinFee == nil && msg.JoinFee == nil && msg.MinPinQty == nil && msg.MinOfferPrice == nil &&
		msg.MaxCycles == nil && msg.FlagThreshold == nil && msg.PinnerStake == nil {
		return ErrInvalidConfig.Wrap("no parameters to update")
	}
	return nil
}
