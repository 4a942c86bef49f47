package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/catalog"
	"github.com/rogerio-castellano/devstore-web/internal/config"
	api "github.com/rogerio-castellano/devstore-web/internal/http"
	"github.com/rogerio-castellano/devstore-web/internal/http/ban"
	"github.com/rogerio-castellano/devstore-web/internal/http/handlers"
	mw "github.com/rogerio-castellano/devstore-web/internal/http/middleware"
	rl "github.com/rogerio-castellano/devstore-web/internal/http/rate_limiter"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
	"github.com/rogerio-castellano/devstore-web/internal/redissvc"
	"github.com/rogerio-castellano/devstore-web/internal/views"
)

// @title devstore web
// @version 1.0
// @description Server-rendered storefront over the devstore catalog API.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rl.SetLimits(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop(ctx, 3*time.Minute)

	var store cache.Store = cache.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheRetention)
	if cfg.RedisAddr != "" {
		redisService := redissvc.NewRedisService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisService.Ping(ctx); err != nil {
			obs.Logger.Error("redis_connect_failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisService.Close()

		store = cache.NewRedisStore(redisService.Rdb(), cfg.CachePrefix, cfg.CacheRetention)
		handlers.SetRedisService(redisService)
		mw.SetBanTracker(ban.NewTracker(redisService.Rdb(), cfg.BanStrikes, cfg.BanWindow, cfg.BanDuration))
	} else {
		mw.SetBanTracker(ban.NewTracker(nil, cfg.BanStrikes, cfg.BanWindow, cfg.BanDuration))
	}

	responseCache := cache.New(store)
	client, err := catalog.NewClient(cfg.CatalogURL, &http.Client{Timeout: cfg.CatalogTimeout}, responseCache, cfg.CatalogRevalidate)
	if err != nil {
		obs.Logger.Error("catalog_client_failed", "error", err)
		os.Exit(1)
	}

	pages := prerender.NewPageStore()
	handlers.SetProductCatalog(client)
	handlers.SetPageStore(pages)
	handlers.SetResponseCache(responseCache)
	handlers.SetPageRevalidate(cfg.CatalogRevalidate)
	views.SetImageProxy(cfg.ImageProxyURL)

	prerenderer := prerender.NewPrerenderer(client, pages)
	if cfg.PrerenderOnStart {
		if n, err := prerenderer.Run(ctx); err != nil {
			// The pages still render on demand.
			obs.Logger.Warn("prerender_failed", "error", err)
		} else {
			obs.Logger.Info("prerender_done", "pages", n)
		}
	}
	go prerenderer.StartRefreshLoop(ctx, cfg.PrerenderInterval)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		obs.Logger.Info("server_started", "addr", cfg.HTTPAddr, "catalog_url", cfg.CatalogURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	obs.Logger.Info("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("server_shutdown_failed", "error", err)
	}
	responseCache.Wait()
	obs.Logger.Info("server_stopped")
}
