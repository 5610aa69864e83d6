package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/handler/health"
	"github.com/mager/soundprint/handler/similar"
	spotHandler "github.com/mager/soundprint/handler/spotify"
	trackHandler "github.com/mager/soundprint/handler/track"
	"github.com/mager/soundprint/logger"
	"github.com/mager/soundprint/musicbrainz"
	"github.com/mager/soundprint/musixmatch"
	"github.com/mager/soundprint/pipeline"
	"github.com/mager/soundprint/sentiment"
	"github.com/mager/soundprint/soundnet"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Soundprint
//	@version		1.0
//	@description	Feature vectors and similarity search for Spotify tracks

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(
			fx.Annotate(NewHTTPServer, fx.ParamTags(``, ``, ``, `group:"routes"`)),
			config.Options,
			logger.Options,
			spotify.Options,
			soundnet.Options,
			musixmatch.Options,
			musicbrainz.Options,
			sentiment.Options,
			database.Options,
			pipeline.Options,

			AsRoute(health.NewHealthHandler),
			AsRoute(trackHandler.NewGetTrackHandler),
			AsRoute(trackHandler.NewTracksHandler),
			AsRoute(similar.NewSimilarHandler),
			AsRoute(spotHandler.NewSearchHandler),
		),
		fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		fx.Invoke(func(log *zap.SugaredLogger) { zap.ReplaceGlobals(log.Desugar()) }),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg config.Config,
	logger *zap.SugaredLogger,
	routes []Route,
) *http.Server {
	router := mux.NewRouter()
	for _, route := range routes {
		router.Handle(route.Pattern(), route)
	}
	router.Use(jsonMiddleware)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Infow("Starting HTTP server", "addr", srv.Addr, "routes", len(routes))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
