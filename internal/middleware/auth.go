package middleware

import (
	"context"
	"strings"

	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/router"
	"github.com/loyaltap/backend/pkg/xcontext"
)

// WithAuthentication resolves the access token of the request, if any, and
// attaches the actor to the context. Requests without a token pass through
// anonymously; endpoints that need an actor pair this with Authenticate or
// AuthenticateTenant.
func WithAuthentication() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return ctx, nil
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		switch info.Type {
		case model.ActorUser:
			return xcontext.WithRequestUserID(ctx, info.ID), nil
		case model.ActorTenant:
			return xcontext.WithRequestTenantID(ctx, info.ID), nil
		default:
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func AuthenticateTenant() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestTenantID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
