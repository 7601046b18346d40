// Package cmd wires configuration, the etiquette transport, caches,
// and the aggregation factory into the chemscout CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"chemscout/config"
	"chemscout/internal/aggregate"
	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/polite"
	"chemscout/internal/supplier"

	// Register the storefront families.
	_ "chemscout/internal/shopify"
	_ "chemscout/internal/webstore"
	_ "chemscout/internal/wix"
	_ "chemscout/internal/wooc"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chemscout",
	Short: "Chemscout - chemical supplier product search",
	Long:  "Search chemical reagent suppliers concurrently and aggregate their offers into one stream.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSlice("suppliers", nil, "Suppliers to query (default: all)")
	rootCmd.PersistentFlags().String("cache-backend", "", "Cache backend: file, redis, memory")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for the file cache backend")
	rootCmd.PersistentFlags().String("pace-profile", "", "Pacing profile: cautious, normal, fast")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	if v, _ := rootCmd.PersistentFlags().GetStringSlice("suppliers"); len(v) > 0 {
		cfg.Suppliers = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("cache-backend"); v != "" {
		cfg.CacheBackend = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("cache-dir"); v != "" {
		cfg.CacheDir = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("pace-profile"); v != "" {
		cfg.PaceProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
}

// buildHTTPClient assembles the etiquette-wrapped client every
// strategy shares.
func buildHTTPClient() (*http.Client, error) {
	base := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	var rotator *polite.ProxyRotator
	if cfg.ProxyFile != "" {
		providers, err := polite.LoadProxyFile(cfg.ProxyFile)
		if err != nil {
			return nil, err
		}
		rotator = polite.NewProxyRotator(providers)
	}

	robots := polite.NewRobotsGate(&http.Client{}, cfg.RespectRobots)

	transport := &polite.Transport{
		Base:         base,
		Robots:       robots,
		Identities:   polite.NewIdentityPool(),
		Proxies:      rotator,
		Pacer:        polite.NewPacer(polite.PaceProfile(cfg.PaceProfile)),
		PerHostRate:  rate.Limit(cfg.RatePerSecond),
		PerHostBurst: cfg.RateBurst,
	}
	return httputil.NewHTTPClient(transport), nil
}

// buildStore picks the cache persistence backend from config.
func buildStore(name string) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "redis":
		return cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), nil
	case "memory":
		return cache.NewMemoryStore(), nil
	case "file", "":
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		return cache.NewFileStore(filepath.Join(cfg.CacheDir, name+".json")), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// buildFactory assembles the dependency bundle and the aggregation
// factory over the enabled suppliers.
func buildFactory() (*aggregate.Factory, error) {
	client, err := buildHTTPClient()
	if err != nil {
		return nil, err
	}

	queryStore, err := buildStore("queries")
	if err != nil {
		return nil, err
	}
	detailStore, err := buildStore("details")
	if err != nil {
		return nil, err
	}

	deps := supplier.Deps{
		Client:      client,
		Decorator:   httputil.NewDecorator(client, 2),
		QueryCache:  cache.New("queries", cfg.CacheCapacity, queryStore, cache.WithMaxAge(cfg.CacheMaxAge)),
		DetailCache: cache.New("details", cfg.CacheCapacity, detailStore, cache.WithMaxAge(cfg.CacheMaxAge)),
		Limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		FuzzyCutoff: float64(cfg.FuzzyCutoff),
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return aggregate.New(cfg.Suppliers, deps, cfg.MaxConcurrent, log)
}
