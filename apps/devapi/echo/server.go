// Package echoapi serves the REST convention the dashboards consume: a
// collection/item endpoint pair per school resource, bearer-token auth, and
// the (deliberately) inconsistent response envelopes observed in the wild so
// clients exercise their envelope tolerance.
package echoapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
		Repo           resource.Repository
		Logger         core.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.Recover())
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)
	s.app.POST("/api/login", login)

	g := s.app.Group("/api", authMiddleware())
	for i, schema := range school.All() {
		api := &resourceAPI{
			repo:       s.opts.Repo,
			schema:     schema,
			collection: collectionName(schema),
			// rotate envelope shapes across resources
			envelope: envelopeKind(i % len(envelopeKinds)),
		}
		p := "/" + api.collection
		g.GET(p, api.query)
		g.POST(p, api.create)
		g.PUT(p+"/:id", api.update)
		g.DELETE(p+"/:id", api.destroy)
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"app": core.Conf.AppName, "status": "ok"})
}

func collectionName(s resource.Schema) string {
	return strings.TrimPrefix(s.Endpoint, "/api/")
}
