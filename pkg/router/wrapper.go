package router

import (
	"github.com/gin-gonic/gin"
	"github.com/loyaltap/backend/pkg/errorx"
)

type bindFunc func(gctx *gin.Context, req any) error

func bindQuery(gctx *gin.Context, req any) error {
	return gctx.ShouldBindQuery(req)
}

func bindJSON(gctx *gin.Context, req any) error {
	return gctx.ShouldBindJSON(req)
}

func wrapHandler[Request, Response any](
	bind bindFunc,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req Request
		if err := bind(gctx, &req); err != nil {
			writeResponse(gctx, nil, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		resp, err := handler(getContext(gctx), &req)
		writeResponse(gctx, resp, err)
	}
}
