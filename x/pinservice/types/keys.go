package types

const (
	// ModuleName defines the module name
	ModuleName = "pinservice"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for pinservice
	RouterKey = ModuleName

	// SlotCapacity is the fixed number of pin slots.
	SlotCapacity = 10

	// EpochLength is the number of blocks in one expiration epoch.
	EpochLength = 12

	// MaxStringLength bounds every identifier string accepted by the service.
	MaxStringLength = 256
)

var (
	// ConfigKey is the key for the service configuration singleton
	ConfigKey = []byte{0x01}

	// AdminListKey is the key for the ordered admin list
	AdminListKey = []byte{0x02}

	// PinnerCountKey is the key for the registered pinner counter
	PinnerCountKey = []byte{0x03}

	// PinnerKeyPrefix is the prefix for pinner storage
	PinnerKeyPrefix = []byte{0x04}

	// SlotKeyPrefix is the prefix for pin slot storage
	SlotKeyPrefix = []byte{0x05}

	// FlagKeyPrefix is the prefix for (flagger, target) flag records
	FlagKeyPrefix = []byte{0x06}

	// FlaggersKeyPrefix is the prefix for per-target flagger lists
	FlaggersKeyPrefix = []byte{0x07}
)
