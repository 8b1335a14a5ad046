package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/venuedesk/tableops/api"
	"github.com/venuedesk/tableops/config"
	"github.com/venuedesk/tableops/internal/mw"
)

type Handlers struct {
	Tables       *api.TableHandler
	Reservations *api.ReservationHandler
	Floor        *api.FloorHandler
	Dashboard    *api.DashboardHandler
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	router := newRouter(cfg, h)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	apiGroup := router.Group("/api")
	apiGroup.Use(mw.RateLimiter(rate.Limit(cfg.HTTP.RateLimitPerSec), cfg.HTTP.RateLimitBurst))

	venues := apiGroup.Group("/venues/:venue_id")
	h.Tables.Register(venues.Group("/tables"))
	h.Reservations.Register(venues.Group("/reservations"))
	h.Floor.Register(venues)

	// Dashboard counters tolerate a few seconds of staleness, so they get a
	// short response cache to absorb wallboard polling.
	dashboardTTL := time.Duration(cfg.HTTP.DashboardCacheTTLSeconds) * time.Second
	store := gocache.New(dashboardTTL, 2*dashboardTTL)
	cached := venues.Group("")
	cached.Use(mw.Cache(store, dashboardTTL))
	h.Dashboard.Register(cached)

	return router
}
