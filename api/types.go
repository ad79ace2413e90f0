package api

import (
	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ChallengeResponse carries a login nonce and the message to sign
type ChallengeResponse struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
	ExpiresAt int64  `json:"expires_at"`
}

// LoginRequest proves control of Address by signing the challenge message.
// PubKey is the 33-byte compressed secp256k1 key and Signature the 64-byte
// R||S signature, both base64 encoded.
type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	PubKey    []byte `json:"pub_key" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Signature []byte `json:"signature" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // Seconds until token expires
	Address   string `json:"address"`
}

// CreatePinRequest represents a new pin request
type CreatePinRequest struct {
	ContentID  string `json:"content_id" binding:"required"`
	Filename   string `json:"filename"`
	Gateway    string `json:"gateway"`
	OfferPrice uint64 `json:"offer_price"`
	PinQty     uint32 `json:"pin_qty"`
}

// JoinPinnerRequest registers the caller as a pinner
type JoinPinnerRequest struct {
	NodeID    string `json:"node_id"`
	Multiaddr string `json:"multiaddr"`
	MinPrice  uint64 `json:"min_price"`
}

// AddressRequest names a target account
type AddressRequest struct {
	Address string `json:"address" binding:"required"`
}

// AmountRequest carries an amount in the pay denom
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

// WithdrawFeesRequest names the fee recipient. Empty means the caller.
type WithdrawFeesRequest struct {
	Recipient string `json:"recipient"`
}

// ConfigUpdateRequest sets the supplied parameters; omitted ones are unchanged
type ConfigUpdateRequest struct {
	PinFee        *uint64 `json:"pin_fee,omitempty"`
	JoinFee       *uint64 `json:"join_fee,omitempty"`
	MinPinQty     *uint32 `json:"min_pin_qty,omitempty"`
	MinOfferPrice *uint64 `json:"min_offer_price,omitempty"`
	MaxCycles     *uint64 `json:"max_cycles,omitempty"`
	FlagThreshold *uint32 `json:"flag_threshold,omitempty"`
	PinnerStake   *uint64 `json:"pinner_stake,omitempty"`
}

// TxResponse is returned by every state-changing endpoint
type TxResponse struct {
	Height int64          `json:"height"`
	Result interface{}    `json:"result,omitempty"`
	Events []EventSummary `json:"events"`
}

// EventSummary is a pinservice event emitted by an operation
type EventSummary struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// SlotsResponse lists the occupied slots
type SlotsResponse struct {
	Slots []pintypes.SlotInfo `json:"slots"`
}

// AvailabilityResponse reports whether a new pin would find a slot
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// EpochResponse reports the current epoch
type EpochResponse struct {
	Height int64  `json:"height"`
	Epoch  uint64 `json:"epoch"`
}

// CountResponse carries a count
type CountResponse struct {
	Count uint64 `json:"count"`
}

// PinnerResponse is a pinner record with its flaggers
type PinnerResponse struct {
	Pinner   pintypes.Pinner `json:"pinner"`
	Flaggers []string        `json:"flaggers"`
}

// AdminsResponse lists the admins, founding admin first
type AdminsResponse struct {
	Admins []string `json:"admins"`
}

// BalanceResponse represents an account balance in the pay denom
type BalanceResponse struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
	Amount  string `json:"amount"`
}
