package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

// MaxRequestSize bounds request bodies.
const MaxRequestSize = 1 << 20 // 1 MB

// statusForError maps a pinservice error class onto an HTTP status
func statusForError(err error) int {
	if errors.Is(err, pintypes.ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	switch pintypes.Classify(err) {
	case pintypes.ClassAuthorization:
		return http.StatusForbidden
	case pintypes.ClassValidation:
		return http.StatusBadRequest
	case pintypes.ClassStateConflict:
		return http.StatusConflict
	case pintypes.ClassExpiration:
		return http.StatusGone
	case pintypes.ClassFunding:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its class and a recovery hint
func writeError(c *gin.Context, err error) {
	status := statusForError(err)
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  string(pintypes.Classify(err)),
	}
	if status == http.StatusInternalServerError {
		resp.Error = "Internal server error"
		resp.Code = "INTERNAL_ERROR"
	} else {
		resp.Details = pintypes.GetRecoverySuggestion(err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Error: msg, Code: string(pintypes.ClassValidation)}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// bindJSON binds the request body, answering 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		badRequest(c, "Invalid request", err)
		return false
	}
	return true
}

// slotIDParam parses the :slot_id path parameter
func slotIDParam(c *gin.Context) (uint32, bool) {
	raw := c.Param("slot_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, "Invalid slot id", fmt.Errorf("%q is not a slot index", raw))
		return 0, false
	}
	if err := pintypes.ValidateSlotID(uint32(id)); err != nil {
		writeError(c, err)
		return 0, false
	}
	return uint32(id), true
}

func parseAddress(c *gin.Context, field, raw string) (sdk.AccAddress, bool) {
	addr, err := pintypes.ValidateAddress(field, raw)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return addr, true
}

// addressParam parses a bech32 address path parameter
func addressParam(c *gin.Context, name string) (sdk.AccAddress, bool) {
	return parseAddress(c, name, c.Param(name))
}

// addressQuery parses a bech32 address query parameter
func addressQuery(c *gin.Context, name string) (sdk.AccAddress, bool) {
	return parseAddress(c, name, c.Query(name))
}

// callerFromContext returns the session address set by AuthMiddleware
func callerFromContext(c *gin.Context) (sdk.AccAddress, bool) {
	return parseAddress(c, "caller", c.GetString(contextKeyAddress))
}
