package middleware

import (
	"context"

	"github.com/loyaltap/backend/pkg/router"
	"github.com/loyaltap/backend/pkg/xcontext"
)

func Logger() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req != nil {
			xcontext.Logger(ctx).Infof("%s | %s", req.Method, req.URL.Path)
		}

		return ctx, nil
	}
}
