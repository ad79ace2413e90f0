package types

// Event types for the pinservice module
const (
	// Slot events
	EventTypePin    = "pin"
	EventTypePinned = "pinned"
	EventTypeUnpin  = "unpin"

	// Pinner events
	EventTypeJoinPinner        = "join_pinner"
	EventTypeUpdatePinner      = "update_pinner"
	EventTypeRemovePinner      = "remove_pinner"
	EventTypeFlagPinner        = "flag_pinner"
	EventTypePinnerDeactivated = "pinner_deactivated"

	// Admin events
	EventTypeAddAdmin    = "add_admin"
	EventTypeRemoveAdmin = "remove_admin"

	// Funds events
	EventTypeWithdrawFees = "withdraw_fees"
	EventTypeFundService  = "fund_service"
	EventTypeUpdateConfig = "update_config"
)

// Event attribute keys for the pinservice module
const (
	AttributeKeySlotID        = "slot_id"
	AttributeKeyContentID     = "content_id"
	AttributeKeyContentDigest = "content_digest"
	AttributeKeyFilename      = "filename"
	AttributeKeyGateway       = "gateway"
	AttributeKeyOfferPrice    = "offer_price"
	AttributeKeyPinQty        = "pin_qty"
	AttributeKeyPinsRemaining = "pins_remaining"
	AttributeKeyPublisher     = "publisher"
	AttributeKeyPinner        = "pinner"
	AttributeKeyNodeID        = "node_id"
	AttributeKeyMultiaddr     = "multiaddr"
	AttributeKeyAmount        = "amount"
	AttributeKeyRefund        = "refund"
	AttributeKeyReason        = "reason"
	AttributeKeyFlagger       = "flagger"
	AttributeKeyFlags         = "flags"
	AttributeKeyForfeited     = "forfeited"
	AttributeKeyAdmin         = "admin"
	AttributeKeyCaller        = "caller"
	AttributeKeyRecipient     = "recipient"
	AttributeKeyParameter     = "parameter"
	AttributeKeyValue         = "value"
	AttributeKeyFunder        = "funder"
)

// Reasons attached to unpin events
const (
	UnpinReasonFilled    = "filled"
	UnpinReasonCancelled = "cancelled"
	UnpinReasonExpired   = "expired"
	UnpinReasonReclaimed = "reclaimed"
	UnpinReasonForced    = "forced"
)

// Reasons attached to remove_pinner events
const (
	RemoveReasonLeft  = "left"
	RemoveReasonAdmin = "admin"
)

var serviceEventTypes = map[string]struct{}{
	EventTypePin: {}, EventTypePinned: {}, EventTypeUnpin: {},
	EventTypeJoinPinner: {}, EventTypeUpdatePinner: {}, EventTypeRemovePinner: {},
	EventTypeFlagPinner: {}, EventTypePinnerDeactivated: {},
	EventTypeAddAdmin: {}, EventTypeRemoveAdmin: {},
	EventTypeWithdrawFees: {}, EventTypeFundService: {}, EventTypeUpdateConfig: {},
}

// IsServiceEvent reports whether eventType is emitted by this module.
func IsServiceEvent(eventType string) bool {
	_, ok := serviceEventTypes[eventType]
	return ok
}
