package keeper_test

import (
	"fmt"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/pinservice/testutil/keeper"
	"github.com/paw-chain/pinservice/x/pinservice/keeper"
	"github.com/paw-chain/pinservice/x/pinservice/types"
)

const (
	denom      = "upin"
	pinFee     = 10
	joinFee    = 5
	minOffer   = 10
	stake      = 100
	maxCycles  = 2
	threshold  = 3
	nodeAddr   = "/ip4/127.0.0.1/tcp/4001"
	testGate   = "https://gateway.example.org"
	testFile   = "file.bin"
	startFunds = 1_000_000
)

func testConfig() types.ServiceConfig {
	return types.ServiceConfig{
		Symbol:        "PIN",
		PinFee:        pinFee,
		JoinFee:       joinFee,
		MinPinQty:     1,
		MinOfferPrice: minOffer,
		PinnerStake:   stake,
		MaxCycles:     maxCycles,
		FlagThreshold: threshold,
		PayDenom:      denom,
	}
}

// testAddr returns a deterministic 20-byte account address.
func testAddr(i int) sdk.AccAddress {
	return sdk.AccAddress(fmt.Sprintf("test-address-%07d", i))
}

// testCID returns a distinct CIDv1 for each i.
func testCID(t testing.TB, i int) string {
	t.Helper()
	mh, err := multihash.Sum([]byte(fmt.Sprintf("content-%d", i)), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh).String()
}

type testService struct {
	*keepertest.PinServiceFixture
	admin sdk.AccAddress
}

// setupService returns an initialized service whose founding admin is testAddr(0).
func setupService(t testing.TB) *testService {
	t.Helper()
	f := keepertest.PinServiceKeeper(t)
	admin := testAddr(0)
	require.NoError(t, f.Keeper.InitService(f.Ctx, admin, testConfig()))
	return &testService{PinServiceFixture: f, admin: admin}
}

func (s *testService) funded(t testing.TB, i int) sdk.AccAddress {
	t.Helper()
	addr := testAddr(i)
	s.Fund(t, addr, denom, startFunds)
	return addr
}

func (s *testService) createPin(t testing.TB, publisher sdk.AccAddress, content int, offer uint64, qty uint32) uint32 {
	t.Helper()
	slotID, err := s.Keeper.CreatePin(s.Signed(publisher), publisher, createRequest(t, content, offer, qty))
	require.NoError(t, err)
	return slotID
}

func createRequest(t testing.TB, content int, offer uint64, qty uint32) keeper.CreatePinRequest {
	t.Helper()
	return keeper.CreatePinRequest{
		ContentID:  testCID(t, content),
		Filename:   testFile,
		Gateway:    testGate,
		OfferPrice: offer,
		PinQty:     qty,
	}
}

func (s *testService) joinPinner(t testing.TB, addr sdk.AccAddress) {
	t.Helper()
	_, err := s.Keeper.JoinAsPinner(s.Signed(addr), addr, "node-"+addr.String()[:12], nodeAddr, 1)
	require.NoError(t, err)
}

func (s *testService) fees(t testing.TB) uint64 {
	t.Helper()
	config, err := s.Keeper.GetConfig(s.Ctx)
	require.NoError(t, err)
	return config.FeesCollected
}

func (s *testService) custody() int64 {
	return s.Balance(s.Keeper.CustodyAddress(), denom)
}

func (s *testService) requireInvariants(t testing.TB) {
	t.Helper()
	msg, broken := keeper.AllInvariants(*s.Keeper)(s.Ctx)
	require.False(t, broken, msg)
}

func (s *testService) requireEvent(t testing.TB, eventType string) sdk.Event {
	t.Helper()
	events := s.Ctx.EventManager().Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == eventType {
			return events[i]
		}
	}
	require.Failf(t, "event not emitted", "no %s event", eventType)
	return sdk.Event{}
}

func attr(e sdk.Event, key string) string {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// expireAll advances past the slot lifetime.
func (s *testService) expireAll() {
	s.AdvanceBlocks(maxCycles * types.EpochLength)
}
