package types

// Pinner is a registered replication provider.
type Pinner struct {
	Address       string `json:"address"`
	NodeID        string `json:"node_id"`
	Multiaddr     string `json:"multiaddr"`
	MinPrice      uint64 `json:"min_price"`
	JoinedAt      int64  `json:"joined_at"`
	PinsCompleted uint64 `json:"pins_completed"`
	Flags         uint32 `json:"flags"`
	Staked        uint64 `json:"staked"`
	Active        bool   `json:"active"`
}

// PinnerUpdate carries the optional fields of an update_pinner call.
// Nil fields are left unchanged.
type PinnerUpdate struct {
	NodeID    *string `json:"node_id,omitempty"`
	Multiaddr *string `json:"multiaddr,omitempty"`
	MinPrice  *uint64 `json:"min_price,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u PinnerUpdate) IsEmpty() bool {
	return u.NodeID == nil && u.Multiaddr == nil && u.MinPrice == nil
}
