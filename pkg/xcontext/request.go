package xcontext

import (
	"context"
	"net"
	"net/http"
)

type (
	requestUserIDKey   struct{}
	requestTenantIDKey struct{}
	remoteIPKey        struct{}
	httpRequestKey     struct{}
	httpWriterKey      struct{}
)

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(requestUserIDKey{}).(string); ok {
		return id
	}

	return ""
}

func WithRequestTenantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestTenantIDKey{}, id)
}

func RequestTenantID(ctx context.Context) string {
	if id, ok := ctx.Value(requestTenantIDKey{}).(string); ok {
		return id
	}

	return ""
}

func WithRemoteIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, remoteIPKey{}, ip)
}

// RemoteIP returns the client address recorded by the HTTP layer. It falls
// back to the raw request address when no middleware recorded one.
func RemoteIP(ctx context.Context) string {
	if ip, ok := ctx.Value(remoteIPKey{}).(string); ok {
		return ip
	}

	if r := HTTPRequest(ctx); r != nil {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return ""
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(httpRequestKey{}).(*http.Request); ok {
		return r
	}

	return nil
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	if w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter); ok {
		return w
	}

	return nil
}
