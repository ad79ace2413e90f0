package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultPayDenom is the bank denom used to pay for pins when none is configured.
const DefaultPayDenom = "upin"

// ServiceConfig is the service-wide configuration and accounting singleton.
type ServiceConfig struct {
	Symbol        string `json:"symbol"`
	PinFee        uint64 `json:"pin_fee"`
	JoinFee       uint64 `json:"join_fee"`
	MinPinQty     uint32 `json:"min_pin_qty"`
	MinOfferPrice uint64 `json:"min_offer_price"`
	PinnerStake   uint64 `json:"pinner_stake"`
	MaxCycles     uint64 `json:"max_cycles"`
	FlagThreshold uint32 `json:"flag_threshold"`
	PayDenom      string `json:"pay_denom"`

	// FeesCollected accumulates pin fees, join fees and forfeiture remainders.
	FeesCollected uint64 `json:"fees_collected"`
	// StartHeight anchors epoch numbering.
	StartHeight int64 `json:"start_height"`
}

// DefaultServiceConfig returns default service configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Symbol:        "PIN",
		PinFee:        10,
		JoinFee:       10,
		MinPinQty:     1,
		MinOfferPrice: 10,
		PinnerStake:   100,
		MaxCycles:     60,
		FlagThreshold: 3,
		PayDenom:      DefaultPayDenom,
	}
}

// Validate checks the static configuration values.
func (c ServiceConfig) Validate() error {
	if c.MaxCycles == 0 {
		return ErrInvalidConfig.Wrap("max_cycles must be positive")
	}
	if c.MinPinQty == 0 {
		return ErrInvalidConfig.Wrap("min_pin_qty must be positive")
	}
	if c.MinPinQty > SlotCapacity {
		return ErrInvalidConfig.Wrapf("min_pin_qty %d exceeds slot capacity %d", c.MinPinQty, SlotCapacity)
	}
	if err := sdk.ValidateDenom(c.PayDenom); err != nil {
		return ErrInvalidConfig.Wrapf("pay_denom: %s", err)
	}
	if len(c.Symbol) > MaxStringLength {
		return ErrInvalidConfig.Wrap("symbol too long")
	}
	if c.StartHeight < 0 {
		return ErrInvalidConfig.Wrap("start_height cannot be negative")
	}
	return nil
}

// String implements fmt.Stringer
func (c ServiceConfig) String() string {
	return fmt.Sprintf(
		"pin_fee=%d join_fee=%d min_pin_qty=%d min_offer_price=%d pinner_stake=%d max_cycles=%d flag_threshold=%d pay_denom=%s fees_collected=%d",
		c.PinFee, c.JoinFee, c.MinPinQty, c.MinOfferPrice, c.PinnerStake, c.MaxCycles, c.FlagThreshold, c.PayDenom, c.FeesCollected,
	)
}
