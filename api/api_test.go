package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/pinservice/api/health"
	"github.com/paw-chain/pinservice/app"
	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

const (
	testChainID = "pinsvc-api-test"
	testCID     = "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy"
)

type account struct {
	key  *secp256k1.PrivKey
	addr sdk.AccAddress
}

func newAccount() account {
	key := secp256k1.GenPrivKey()
	return account{key: key, addr: sdk.AccAddress(key.PubKey().Address())}
}

type APITestSuite struct {
	suite.Suite

	host   *app.App
	server *Server

	admin     account
	publisher account
	pinner    account
	poor      account
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.admin = newAccount()
	s.publisher = newAccount()
	s.pinner = newAccount()
	s.poor = newAccount()

	host, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), app.Options{ChainID: testChainID})
	s.Require().NoError(err)

	genesis := app.NewDefaultGenesisDoc(testChainID, s.admin.addr)
	fund := func(a account, amount int64) {
		s.Require().NoError(genesis.AddAccount(a.addr, sdk.NewCoins(sdk.NewInt64Coin(app.PayDenom, amount))))
	}
	fund(s.admin, 1_000)
	fund(s.publisher, 10_000)
	fund(s.pinner, 1_000)
	fund(s.poor, 5)
	s.Require().NoError(host.InitChain(genesis))

	config := DefaultConfig()
	config.JWTSecret = []byte("test-secret")
	config.RateLimitRPS = 0

	server, err := NewServer(log.NewNopLogger(), host, config)
	s.Require().NoError(err)

	s.host = host
	s.server = server
}

func (s *APITestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(bz)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APITestSuite) login(a account) string {
	w := s.do(http.MethodGet, "/api/v1/auth/challenge?address="+a.addr.String(), "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var ch ChallengeResponse
	s.decode(w, &ch)
	s.Require().Equal(string(ChallengeMessage(testChainID, a.addr.String(), ch.Nonce)), ch.Message)

	sig, err := a.key.Sign([]byte(ch.Message))
	s.Require().NoError(err)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Address:   a.addr.String(),
		PubKey:    a.key.PubKey().Bytes(),
		Nonce:     ch.Nonce,
		Signature: sig,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var auth AuthResponse
	s.decode(w, &auth)
	s.Require().Equal(a.addr.String(), auth.Address)
	s.Require().Positive(auth.ExpiresIn)
	return auth.Token
}

func (s *APITestSuite) createPin(token string, qty uint32) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/v1/pins", token, CreatePinRequest{
		ContentID:  testCID,
		Filename:   "dataset.tar",
		Gateway:    "https://ipfs.example.org",
		OfferPrice: 50,
		PinQty:     qty,
	})
}

func (s *APITestSuite) TestHealth() {
	for _, path := range []string{"/health", "/api/v1/health"} {
		w := s.do(http.MethodGet, path, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		var resp map[string]interface{}
		s.decode(w, &resp)
		s.Require().Equal("healthy", resp["status"])
		s.Require().Contains(resp["checks"], "store")
		s.Require().Contains(resp["checks"], "blocks")
	}

	w := s.do(http.MethodGet, "/health/ready", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestHealthComponents() {
	s.server.RegisterOptionalHealthCheck("indexer", health.DatabaseCheck(func(context.Context) error {
		return errors.New("connection refused")
	}))
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp health.HealthResponse
	s.decode(w, &resp)
	s.Require().Equal(health.StatusDegraded, resp.Status)

	s.server.RegisterHealthCheck("replica", health.StoreCheck(func(context.Context) error {
		return errors.New("unreachable")
	}))
	w = s.do(http.MethodGet, "/health/ready", "", nil)
	s.Require().Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *APITestSuite) TestLoginRejections() {
	w := s.do(http.MethodGet, "/api/v1/auth/challenge?address=nope", "", nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/auth/challenge?address="+s.publisher.addr.String(), "", nil)
	var ch ChallengeResponse
	s.decode(w, &ch)

	// Signed by the wrong key.
	sig, err := s.pinner.key.Sign([]byte(ch.Message))
	s.Require().NoError(err)
	w = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Address:   s.publisher.addr.String(),
		PubKey:    s.pinner.key.PubKey().Bytes(),
		Nonce:     ch.Nonce,
		Signature: sig,
	})
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	// The nonce was consumed by the failed attempt.
	sig, err = s.publisher.key.Sign([]byte(ch.Message))
	s.Require().NoError(err)
	w = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Address:   s.publisher.addr.String(),
		PubKey:    s.publisher.key.PubKey().Bytes(),
		Nonce:     ch.Nonce,
		Signature: sig,
	})
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"address": s.publisher.addr.String()})
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestAuthRequired() {
	w := s.createPin("", 1)
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	w = s.createPin("not-a-token", 1)
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/fees/withdraw", "", nil)
	s.Require().Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestPinLifecycle() {
	publisher := s.login(s.publisher)
	pinner := s.login(s.pinner)

	w := s.createPin(publisher, 2)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tx TxResponse
	s.decode(w, &tx)
	s.Require().Len(tx.Events, 1)
	s.Require().Equal(pintypes.EventTypePin, tx.Events[0].Type)
	s.Require().Equal("0", tx.Events[0].Attributes[pintypes.AttributeKeySlotID])

	w = s.do(http.MethodGet, "/api/v1/pins", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var slots SlotsResponse
	s.decode(w, &slots)
	s.Require().Len(slots.Slots, 1)
	s.Require().Equal(s.publisher.addr.String(), slots.Slots[0].Slot.Publisher)

	w = s.do(http.MethodPost, "/api/v1/pinners", pinner, JoinPinnerRequest{
		NodeID:    "node-1",
		Multiaddr: "/ip4/127.0.0.1/tcp/4001",
		MinPrice:  10,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/pins/0/collect", pinner, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &tx)
	s.Require().Equal(pintypes.EventTypePinned, tx.Events[0].Type)

	w = s.do(http.MethodPost, "/api/v1/pins/0/collect", pinner, nil)
	s.Require().Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/pins/0", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var info pintypes.SlotInfo
	s.decode(w, &info)
	s.Require().Equal(uint32(1), info.Slot.PinsRemaining)

	w = s.do(http.MethodGet, "/api/v1/pinners/"+s.pinner.addr.String(), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var pr PinnerResponse
	s.decode(w, &pr)
	s.Require().Equal(uint64(1), pr.Pinner.PinsCompleted)

	w = s.do(http.MethodGet, "/api/v1/pinners/count", "", nil)
	var count CountResponse
	s.decode(w, &count)
	s.Require().Equal(uint64(1), count.Count)

	w = s.do(http.MethodDelete, "/api/v1/pins/0", publisher, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/pins/0", "", nil)
	s.Require().Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/balance?address="+s.pinner.addr.String(), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var bal BalanceResponse
	s.decode(w, &bal)
	// 1000 - join fee 10 - stake 100 + payout 50
	s.Require().Equal("940", bal.Amount)
}

func (s *APITestSuite) TestErrorStatuses() {
	publisher := s.login(s.publisher)
	poor := s.login(s.poor)
	pinner := s.login(s.pinner)

	w := s.do(http.MethodPost, "/api/v1/pins", publisher, CreatePinRequest{
		ContentID:  testCID,
		Filename:   "f",
		Gateway:    "g",
		OfferPrice: 1,
		PinQty:     1,
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	s.decode(w, &errResp)
	s.Require().Equal(string(pintypes.ClassValidation), errResp.Code)
	s.Require().NotEmpty(errResp.Details)

	w = s.createPin(poor, 1)
	s.Require().Equal(http.StatusPaymentRequired, w.Code)

	s.Require().Equal(http.StatusOK, s.createPin(publisher, 1).Code)
	w = s.createPin(publisher, 1)
	s.Require().Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/pins/0", pinner, nil)
	s.Require().Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/pins/0/clear", "", nil)
	s.Require().Equal(http.StatusGone, w.Code)

	w = s.do(http.MethodPost, "/api/v1/pins/abc/collect", pinner, nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/pins/12", "", nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/fees/withdraw", pinner, nil)
	s.Require().Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/pinners/"+s.poor.addr.String(), "", nil)
	s.Require().Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestAdminOperations() {
	admin := s.login(s.admin)
	publisher := s.login(s.publisher)

	pinFee := uint64(25)
	w := s.do(http.MethodPut, "/api/v1/admin/config", admin, ConfigUpdateRequest{PinFee: &pinFee})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/config", "", nil)
	var config pintypes.ServiceConfig
	s.decode(w, &config)
	s.Require().Equal(pinFee, config.PinFee)

	s.Require().Equal(http.StatusOK, s.createPin(publisher, 1).Code)

	w = s.do(http.MethodPost, "/api/v1/admin/admins", admin, AddressRequest{Address: s.publisher.addr.String()})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/admins", "", nil)
	var admins AdminsResponse
	s.decode(w, &admins)
	s.Require().Equal([]string{s.admin.addr.String(), s.publisher.addr.String()}, admins.Admins)

	w = s.do(http.MethodDelete, "/api/v1/admin/admins/"+s.admin.addr.String(), publisher, nil)
	s.Require().Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/pins/0/force-clear", publisher, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/admin/fees/withdraw", admin, WithdrawFeesRequest{})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tx TxResponse
	s.decode(w, &tx)
	s.Require().Equal(pintypes.EventTypeWithdrawFees, tx.Events[0].Type)
	s.Require().Equal(fmt.Sprint(pinFee), tx.Events[0].Attributes[pintypes.AttributeKeyAmount])

	w = s.do(http.MethodGet, "/api/v1/slots/available", "", nil)
	var avail AvailabilityResponse
	s.decode(w, &avail)
	s.Require().True(avail.Available)

	w = s.do(http.MethodGet, "/api/v1/epoch", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pins", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)

	s.Require().Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *APITestSuite) TestRequestID() {
	w := s.do(http.MethodGet, "/api/v1/config", "", nil)
	s.Require().NotEmpty(w.Header().Get("X-Request-ID"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pintypes.ErrUnauthorized, http.StatusUnauthorized},
		{pintypes.ErrNotAdmin.Wrap("x"), http.StatusForbidden},
		{pintypes.ErrInvalidCid, http.StatusBadRequest},
		{pintypes.ErrAlreadyClaimed, http.StatusConflict},
		{pintypes.ErrSlotExpired, http.StatusGone},
		{pintypes.ErrInsufficientFunds, http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, statusForError(tc.err), tc.err.Error())
	}
}

func TestAuthServiceTokens(t *testing.T) {
	svc, err := NewAuthService([]byte("secret"), testChainID, time.Hour, time.Minute)
	require.NoError(t, err)

	addr := newAccount().addr.String()
	token, _, err := svc.GenerateToken(addr)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, addr, claims.Address)

	other, err := NewAuthService([]byte("secret"), "other-chain", time.Hour, time.Minute)
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	require.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestAuthServiceChallengeExpiry(t *testing.T) {
	svc, err := NewAuthService([]byte("secret"), testChainID, time.Hour, time.Minute)
	require.NoError(t, err)

	acct := newAccount()
	nonce, _ := svc.IssueChallenge(acct.addr.String())
	sig, err := acct.key.Sign(ChallengeMessage(testChainID, acct.addr.String(), nonce))
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	err = svc.VerifyLogin(acct.addr.String(), nonce, acct.key.PubKey().Bytes(), sig)
	require.ErrorIs(t, err, ErrChallengeNotFound)

	svc.now = time.Now
	nonce, _ = svc.IssueChallenge(acct.addr.String())
	err = svc.VerifyLogin(newAccount().addr.String(), nonce, acct.key.PubKey().Bytes(), sig)
	require.ErrorIs(t, err, ErrChallengeMismatch)
}
