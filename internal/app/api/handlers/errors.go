package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/gymcore/internal/app/service/access"
	"github.com/fatflowers/gymcore/pkg/apperr"
	"github.com/fatflowers/gymcore/pkg/logctx"
	"github.com/fatflowers/gymcore/pkg/response"
)

var nopLogger = zap.NewNop().Sugar()

// codeFor maps core error kinds onto envelope codes. Anything unrecognised is a server error.
func codeFor(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, apperr.ErrConflict):
		return response.APIResponseCodeConflict
	case errors.Is(err, apperr.ErrMembershipInvalid):
		return response.APIResponseCodeMembershipInvalid
	case errors.Is(err, apperr.ErrSessionAlreadyOpen):
		return response.APIResponseCodeSessionAlreadyOpen
	default:
		return response.APIResponseCodeError
	}
}

// respondError replies with the envelope code for err. Server errors carry no detail; it is
// logged instead. An open-session conflict carries the blocking check-in.
func respondError(c *gin.Context, err error) {
	code := codeFor(err)
	if code == response.APIResponseCodeError {
		logctx.FromGin(c, nopLogger).Errorw("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusOK, response.ErrorT[any](code, nil))
		return
	}
	var open *access.SessionOpenError
	if errors.As(err, &open) {
		c.JSON(http.StatusOK, response.ErrorT(code, open))
		return
	}
	c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
}
