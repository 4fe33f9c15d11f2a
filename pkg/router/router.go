package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loyaltap/backend/pkg/xcontext"
)

// HandlerFunc is an endpoint handler. The context carries everything the
// handler needs: configs, logger, database, and whatever the middlewares of
// its group attached.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handlers of its group. It returns an
// enriched context, or an error that aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	inner gin.IRouter
	root  *gin.Engine
}

// New creates a router whose requests start from baseCtx. The base context is
// expected to carry configs, logger, database, and token engine.
func New(baseCtx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(func(gctx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(baseCtx, gctx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, gctx.Writer)
		ctx = xcontext.WithRemoteIP(ctx, gctx.ClientIP())
		setContext(gctx, ctx)
	})

	return &Router{inner: engine, root: engine}
}

func (r *Router) Branch(pattern string) *Router {
	return &Router{inner: r.inner.Group(pattern), root: r.root}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.inner.Use(func(gctx *gin.Context) {
		ctx, err := middleware(getContext(gctx))
		if err != nil {
			writeResponse(gctx, nil, err)
			gctx.Abort()
			return
		}

		setContext(gctx, ctx)
	})
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(bindQuery, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(bindJSON, handler))
}

func (r *Router) Handler() http.Handler {
	return r.root
}

const contextKey = "loyaltap_context"

func setContext(gctx *gin.Context, ctx context.Context) {
	gctx.Set(contextKey, ctx)
}

func getContext(gctx *gin.Context) context.Context {
	return gctx.MustGet(contextKey).(context.Context)
}
