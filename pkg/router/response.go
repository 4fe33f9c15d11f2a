package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loyaltap/backend/pkg/errorx"
)

type response struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func writeResponse(gctx *gin.Context, data any, err error) {
	if err == nil {
		gctx.JSON(http.StatusOK, response{Code: 0, Data: data})
		return
	}

	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	gctx.JSON(statusOf(errx.Code), response{Code: int(errx.Code), Error: errx.Message})
}

func statusOf(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists:
		return http.StatusConflict
	case errorx.TooManyRequests, errorx.CooldownActive:
		return http.StatusTooManyRequests
	case errorx.Unavailable, errorx.Expired, errorx.SoldOut:
		return http.StatusUnprocessableEntity
	case errorx.InsufficientPoints, errorx.OutOfRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
