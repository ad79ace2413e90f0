package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Pinservice module sentinel errors

var (
	// Authorization errors
	ErrUnauthorized     = sdkerrors.Register(ModuleName, 2, "unauthorized")
	ErrNotAdmin         = sdkerrors.Register(ModuleName, 3, "caller is not an admin")
	ErrNotPinner        = sdkerrors.Register(ModuleName, 4, "address is not a registered pinner")
	ErrPinnerInactive   = sdkerrors.Register(ModuleName, 5, "pinner is inactive")
	ErrNotSlotPublisher = sdkerrors.Register(ModuleName, 6, "caller is not the slot publisher")

	// Validation errors
	ErrOfferPriceTooLow   = sdkerrors.Register(ModuleName, 10, "offer price below minimum")
	ErrInsufficientPinQty = sdkerrors.Register(ModuleName, 11, "pin quantity below minimum")
	ErrPinQtyExceedsMax   = sdkerrors.Register(ModuleName, 12, "pin quantity exceeds slot capacity")
	ErrOfferOverflow      = sdkerrors.Register(ModuleName, 13, "escrow computation overflows")
	ErrInvalidString      = sdkerrors.Register(ModuleName, 14, "invalid string")
	ErrInvalidCid         = sdkerrors.Register(ModuleName, 15, "invalid content identifier")
	ErrInvalidAmount      = sdkerrors.Register(ModuleName, 16, "invalid amount")
	ErrInvalidConfig      = sdkerrors.Register(ModuleName, 17, "invalid service configuration")
	ErrInvalidSlotID      = sdkerrors.Register(ModuleName, 18, "invalid slot id")
	ErrCannotFlagSelf     = sdkerrors.Register(ModuleName, 19, "cannot flag self")
	ErrInvalidAddress     = sdkerrors.Register(ModuleName, 20, "invalid address")
	ErrInvalidMultiaddr   = sdkerrors.Register(ModuleName, 21, "invalid multiaddr")
	ErrNotInitialized     = sdkerrors.Register(ModuleName, 22, "service not initialized")

	// State conflict errors
	ErrDuplicateCid             = sdkerrors.Register(ModuleName, 30, "content already pinned in an active slot")
	ErrAlreadyClaimed           = sdkerrors.Register(ModuleName, 31, "slot already claimed by caller")
	ErrNoSlotsAvailable         = sdkerrors.Register(ModuleName, 32, "no slots available")
	ErrAlreadyAdmin             = sdkerrors.Register(ModuleName, 33, "address is already an admin")
	ErrAdminNotFound            = sdkerrors.Register(ModuleName, 34, "admin not found")
	ErrAlreadyPinner            = sdkerrors.Register(ModuleName, 35, "address is already a pinner")
	ErrAlreadyFlagged           = sdkerrors.Register(ModuleName, 36, "pinner already flagged by caller")
	ErrSlotFilled               = sdkerrors.Register(ModuleName, 37, "slot already filled")
	ErrCannotRemoveInitialAdmin = sdkerrors.Register(ModuleName, 38, "cannot remove initial admin")
	ErrNoFeesToWithdraw         = sdkerrors.Register(ModuleName, 39, "no fees to withdraw")

	// Expiration errors
	ErrSlotNotActive  = sdkerrors.Register(ModuleName, 40, "slot not active")
	ErrSlotExpired    = sdkerrors.Register(ModuleName, 41, "slot expired")
	ErrSlotNotExpired = sdkerrors.Register(ModuleName, 42, "slot not expired")

	// Funding errors
	ErrInsufficientFunds = sdkerrors.Register(ModuleName, 50, "insufficient funds")
	ErrTransferFailed    = sdkerrors.Register(ModuleName, 51, "transfer failed")
)

// ErrorClass groups sentinel errors by the kind of failure they report.
type ErrorClass string

const (
	ClassAuthorization ErrorClass = "authorization"
	ClassValidation    ErrorClass = "validation"
	ClassStateConflict ErrorClass = "state_conflict"
	ClassExpiration    ErrorClass = "expiration"
	ClassFunding       ErrorClass = "funding"
	ClassUnknown       ErrorClass = "unknown"
)

var errorClasses = map[*sdkerrors.Error]ErrorClass{
	ErrUnauthorized:     ClassAuthorization,
	ErrNotAdmin:         ClassAuthorization,
	ErrNotPinner:        ClassAuthorization,
	ErrPinnerInactive:   ClassAuthorization,
	ErrNotSlotPublisher: ClassAuthorization,

	ErrOfferPriceTooLow:   ClassValidation,
	ErrInsufficientPinQty: ClassValidation,
	ErrPinQtyExceedsMax:   ClassValidation,
	ErrOfferOverflow:      ClassValidation,
	ErrInvalidString:      ClassValidation,
	ErrInvalidCid:         ClassValidation,
	ErrInvalidAmount:      ClassValidation,
	ErrInvalidConfig:      ClassValidation,
	ErrInvalidSlotID:      ClassValidation,
	ErrCannotFlagSelf:     ClassValidation,
	ErrInvalidAddress:     ClassValidation,
	ErrInvalidMultiaddr:   ClassValidation,
	ErrNotInitialized:     ClassValidation,

	ErrDuplicateCid:             ClassStateConflict,
	ErrAlreadyClaimed:           ClassStateConflict,
	ErrNoSlotsAvailable:         ClassStateConflict,
	ErrAlreadyAdmin:             ClassStateConflict,
	ErrAdminNotFound:            ClassStateConflict,
	ErrAlreadyPinner:            ClassStateConflict,
	ErrAlreadyFlagged:           ClassStateConflict,
	ErrSlotFilled:               ClassStateConflict,
	ErrCannotRemoveInitialAdmin: ClassStateConflict,
	ErrNoFeesToWithdraw:         ClassStateConflict,

	ErrSlotNotActive:  ClassExpiration,
	ErrSlotExpired:    ClassExpiration,
	ErrSlotNotExpired: ClassExpiration,

	ErrInsufficientFunds: ClassFunding,
	ErrTransferFailed:    ClassFunding,
}

// Classify returns the class of a pinservice error, looking through wrapping.
func Classify(err error) ErrorClass {
	for sentinel, class := range errorClasses {
		if errors.Is(err, sentinel) {
			return class
		}
	}
	return ClassUnknown
}

// RecoverySuggestions provides actionable recovery steps for common errors
var RecoverySuggestions = map[error]string{
	ErrNotAdmin:         "Only addresses in the admin list may call this operation. Query the admin list.",
	ErrNotPinner:        "Join the service with a join_pinner transaction before claiming or flagging.",
	ErrPinnerInactive:   "This pinner reached the flag threshold and was deactivated. Leave and rejoin with a new address.",
	ErrNotSlotPublisher: "Only the address that created the pin may cancel it.",

	ErrOfferPriceTooLow:   "Query the service config and offer at least min_offer_price per pin.",
	ErrInsufficientPinQty: "Request at least min_pin_qty pins.",
	ErrPinQtyExceedsMax:   "Pin quantity cannot exceed the number of slots in the service.",
	ErrOfferOverflow:      "Lower the offer price or the pin quantity so the escrow fits a 64-bit amount.",
	ErrInvalidCid:         "Provide a non-empty content id no longer than 256 bytes.",

	ErrDuplicateCid:     "This content is already pinned in an active slot. Wait for it to fill or expire.",
	ErrAlreadyClaimed:   "Each pinner may collect a slot only once.",
	ErrNoSlotsAvailable: "All slots are active. Call clear_expired_slot on an expired slot or retry later.",
	ErrAlreadyFlagged:   "A pinner may flag the same target only once.",

	ErrSlotNotActive:  "The slot is empty. Query the slot list for active slots.",
	ErrSlotExpired:    "The slot expired. Anyone may clear it so the publisher is refunded.",
	ErrSlotNotExpired: "The slot is still within its expiration window.",

	ErrInsufficientFunds: "Fund the account with the pay denom before retrying.",
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for sentinel, suggestion := range RecoverySuggestions {
		if errors.Is(err, sentinel) {
			return suggestion
		}
	}
	return "No recovery suggestion available. Check error message for details."
}
