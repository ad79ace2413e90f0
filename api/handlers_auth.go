package api

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrChallengeNotFound = errors.New("unknown or expired challenge")
	ErrChallengeMismatch = errors.New("challenge was issued to a different address")
	ErrInvalidPubKey     = errors.New("invalid secp256k1 public key")
	ErrPubKeyMismatch    = errors.New("public key does not match address")
	ErrInvalidSignature  = errors.New("signature verification failed")
)

// AuthService issues login challenges and session tokens. A session is granted
// to whoever signs a fresh challenge with the key behind an address.
type AuthService struct {
	signingKey   []byte
	chainID      string
	tokenTTL     time.Duration
	challengeTTL time.Duration
	now          func() time.Time

	mu         sync.Mutex
	challenges map[string]challenge
}

type challenge struct {
	address string
	expires time.Time
}

// Claims represents JWT claims
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// NewAuthService derives the token signing key from secret
func NewAuthService(secret []byte, chainID string, tokenTTL, challengeTTL time.Duration) (*AuthService, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, secret, []byte("pinsvc-api"), []byte(chainID))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	return &AuthService{
		signingKey:   key,
		chainID:      chainID,
		tokenTTL:     tokenTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
		challenges:   make(map[string]challenge),
	}, nil
}

// ChallengeMessage is the exact byte string a client signs to log in
func ChallengeMessage(chainID, address, nonce string) []byte {
	return []byte(fmt.Sprintf("pinsvc login\nchain: %s\naddress: %s\nnonce: %s", chainID, address, nonce))
}

// IssueChallenge creates a single-use nonce for address
func (as *AuthService) IssueChallenge(address string) (string, time.Time) {
	now := as.now()
	nonce := uuid.NewString()
	expires := now.Add(as.challengeTTL)

	as.mu.Lock()
	defer as.mu.Unlock()
	for n, ch := range as.challenges {
		if now.After(ch.expires) {
			delete(as.challenges, n)
		}
	}
	as.challenges[nonce] = challenge{address: address, expires: expires}
	return nonce, expires
}

// VerifyLogin consumes the challenge and checks that signature was made over
// it by pubKey, and that pubKey controls address.
func (as *AuthService) VerifyLogin(address, nonce string, pubKey, signature []byte) error {
	as.mu.Lock()
	ch, ok := as.challenges[nonce]
	delete(as.challenges, nonce)
	as.mu.Unlock()

	if !ok || as.now().After(ch.expires) {
		return ErrChallengeNotFound
	}
	if ch.address != address {
		return ErrChallengeMismatch
	}
	if len(pubKey) != secp256k1.PubKeySize {
		return ErrInvalidPubKey
	}
	pk := &secp256k1.PubKey{Key: pubKey}
	if sdk.AccAddress(pk.Address()).String() != address {
		return ErrPubKeyMismatch
	}
	if !pk.VerifySignature(ChallengeMessage(as.chainID, address, nonce), signature) {
		return ErrInvalidSignature
	}
	return nil
}

// GenerateToken generates a JWT token for address
func (as *AuthService) GenerateToken(address string) (string, time.Time, error) {
	now := as.now()
	expirationTime := now.Add(as.tokenTTL)

	claims := &Claims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "pinsvc-api",
			Audience:  jwt.ClaimStrings{as.chainID},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(as.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token and returns the claims
func (as *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return as.signingKey, nil
	}, jwt.WithAudience(as.chainID), jwt.WithIssuer("pinsvc-api"), jwt.WithTimeFunc(as.now))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if _, err := sdk.AccAddressFromBech32(claims.Address); err != nil {
		return nil, fmt.Errorf("invalid token address: %w", err)
	}
	return claims, nil
}

// handleChallenge issues a login nonce for the address query parameter
func (s *Server) handleChallenge(c *gin.Context) {
	address, ok := addressQuery(c, "address")
	if !ok {
		return
	}

	nonce, expires := s.authService.IssueChallenge(address.String())
	c.JSON(http.StatusOK, ChallengeResponse{
		Address:   address.String(),
		Nonce:     nonce,
		Message:   string(ChallengeMessage(s.host.ChainID(), address.String(), nonce)),
		ExpiresAt: expires.Unix(),
	})
}

// handleLogin exchanges a signed challenge for a session token
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.authService.VerifyLogin(req.Address, req.Nonce, req.PubKey, req.Signature); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Invalid credentials",
			Code:    "UNAUTHORIZED",
			Details: err.Error(),
		})
		return
	}

	token, expires, err := s.authService.GenerateToken(req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate token",
			Code:    "INTERNAL_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresIn: int64(expires.Sub(s.authService.now()).Seconds()),
		Address:   req.Address,
	})
}
