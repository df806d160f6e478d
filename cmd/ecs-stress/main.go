package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/keystone/ecs"
)

func main() {
	configPath := flag.String("config", "", "Optional yaml file with the run configuration.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	worlds := flag.Int("worlds", 1, "The number of independent worlds run in parallel.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities per world.")
	churn := flag.Float64("churn", 0.25, "Fraction of entities that expire and respawn.")
	seed := flag.Int64("seed", 1, "Random seed; world i uses seed+i.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile: cpu, mem, block, mutex or trace.")
	logLevel := flag.String("log-level", "info", "Log level.")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}

	// Flags given explicitly win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "worlds":
			cfg.Worlds = *worlds
		case "entities":
			cfg.Entities = *entityCount
		case "churn":
			cfg.ChurnRate = *churn
		case "seed":
			cfg.Seed = *seed
		case "gc-pause-metrics":
			cfg.GCPauseMetrics = *gcPauseMetrics
		case "profile":
			cfg.Profile = *profileMode
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	report, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")

	logger.Info("stress test complete")
}

func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomicLevel
	return cfg.Build()
}

func startProfile(mode string) func() {
	var option func(*profile.Profile)
	switch mode {
	case "cpu":
		option = profile.CPUProfile
	case "mem":
		option = profile.MemProfile
	case "block":
		option = profile.BlockProfile
	case "mutex":
		option = profile.MutexProfile
	case "trace":
		option = profile.TraceProfile
	default:
		return nil
	}
	return profile.Start(option, profile.ProfilePath("."), profile.NoShutdownHook).Stop
}

// run drives cfg.Worlds independent worlds in parallel for cfg.Duration and
// collects their results.
func run(ctx context.Context, cfg Config, logger *zap.Logger) (*Report, error) {
	report := &Report{
		Config:   cfg,
		Entities: cfg.Entities,
		Worlds:   make([]WorldReport, cfg.Worlds),
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	logger.Info("running simulation",
		zap.Int("worlds", cfg.Worlds),
		zap.Int("entities", cfg.Entities),
		zap.Duration("duration", cfg.Duration),
	)

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Worlds; i++ {
		g.Go(func() error {
			wr, err := runWorld(ctx, i, cfg, logger)
			if err != nil {
				return fmt.Errorf("world %d: %w", i, err)
			}
			report.Worlds[i] = wr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Finalize()

	logger.Info("simulation finished", zap.Int64("updates", report.TotalUpdates))
	return report, nil
}

func runWorld(ctx context.Context, index int, cfg Config, logger *zap.Logger) (WorldReport, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(index)))
	w := ecs.NewWorld(ecs.WithConfig(cfg.ECS), ecs.WithLogger(logger.Named("world")))
	worldLog := w.Logger()

	templates := defineTemplates()
	counters := &Counters{}
	w.AddSystem(NewMovementSystem())
	w.AddSystem(NewHealthSystem())
	w.AddSystem(NewLifetimeSystem())
	w.AddSystem(NewRespawnSystem(templates, rng, max(cfg.MaxLifetime, 1)))
	w.AddSystem(counters)

	if err := w.Init(); err != nil {
		return WorldReport{}, err
	}

	em := w.EntityManager()
	worldLog.Debug("populating world", zap.Int("entities", cfg.Entities))
	if err := populate(em, templates, rng, cfg); err != nil {
		return WorldReport{}, err
	}

	wr := WorldReport{ID: w.ID()}
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			w.Update(deltaTime.Seconds())
			wr.UpdateTime.Samples = append(wr.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	wr.TotalUpdates = int64(len(wr.UpdateTime.Samples))
	wr.UpdateTime.Finalize()
	wr.Manager = em.CollectStats()
	wr.Systems = w.Stats().Systems
	wr.Created = counters.Created
	wr.Deleted = counters.Deleted
	wr.ComponentsAdded = counters.ComponentsAdded
	wr.ComponentsRemoved = counters.ComponentsRemoved

	if err := w.Close(); err != nil {
		return wr, err
	}
	worldLog.Debug("world finished", zap.Int64("updates", wr.TotalUpdates))
	return wr, nil
}
