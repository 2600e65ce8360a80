// Package main provides the psiforge simulation server binary: it loads
// ability content, restores persisted effect state, and runs the fixed
// timestep simulation loop.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/calder-games/psiforge/internal/config"
	"github.com/calder-games/psiforge/internal/game/ability"
	"github.com/calder-games/psiforge/internal/game/pawn"
	"github.com/calder-games/psiforge/internal/game/psi"
	"github.com/calder-games/psiforge/internal/game/stat"
	"github.com/calder-games/psiforge/internal/observability"
	"github.com/calder-games/psiforge/internal/scripting"
	"github.com/calder-games/psiforge/internal/server"
	"github.com/calder-games/psiforge/internal/sim"
	"github.com/calder-games/psiforge/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	noDB := flag.Bool("no-db", false, "run without PostgreSQL persistence")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting simulation server",
		zap.Duration("tick_interval", cfg.Sim.TickInterval),
	)

	registry, err := ability.LoadDirectory(cfg.Content.AbilitiesDir)
	if err != nil {
		logger.Fatal("loading ability definitions", zap.Error(err))
	}
	logger.Info("abilities loaded", zap.Int("count", len(registry.All())))

	var hooks psi.HookRunner
	scriptMgr := scripting.NewManager(logger)
	if cfg.Content.ScriptsDir != "" {
		if err := scriptMgr.LoadDirectory(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading ability scripts", zap.Error(err))
		}
		scriptMgr.Notify = func(pawnID, msg string) {
			logger.Info("pawn notification",
				zap.String("pawn", pawnID),
				zap.String("msg", msg),
			)
		}
		hooks = scriptMgr
	}
	defer scriptMgr.Close()

	roster := pawn.NewRoster()
	if cfg.Content.PawnsFile != "" {
		roster, err = pawn.LoadRoster(cfg.Content.PawnsFile)
		if err != nil {
			logger.Fatal("loading pawn content", zap.Error(err))
		}
		logger.Info("pawns loaded", zap.Int("count", roster.Len()))
	}
	manager := psi.NewManager(roster, roster, hooks, logger)

	pipeline := stat.NewPipeline()
	for _, def := range registry.All() {
		pipeline.Register(psi.NewInterceptor(def, manager, roster))
	}

	var repo *postgres.EffectRepository
	if !*noDB {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = postgres.NewEffectRepository(pool.DB())

		snaps, err := repo.LoadAll(ctx)
		if err != nil {
			logger.Fatal("loading effect snapshots", zap.Error(err))
		}
		manager.Restore(registry, snaps)
		logger.Info("effect snapshots restored", zap.Int("count", len(snaps)))
	}

	loop := sim.NewLoop(cfg.Sim.TickInterval)
	loop.Register("effects", func(tick int64) {
		expired := manager.Tick()
		if repo == nil || len(expired) == 0 {
			return
		}
		if err := repo.DeleteExpired(ctx, expired); err != nil {
			logger.Error("deleting expired effect rows", zap.Error(err))
		}
	})
	if repo != nil && cfg.Sim.SnapshotIntervalTicks > 0 {
		interval := cfg.Sim.SnapshotIntervalTicks
		loop.Register("snapshots", func(tick int64) {
			if tick%interval != 0 {
				return
			}
			if err := repo.Save(ctx, manager.Snapshot()); err != nil {
				logger.Error("saving effect snapshots", zap.Error(err))
			}
		})
	}

	lifecycle := server.NewLifecycle(logger)

	loopCtx, loopCancel := context.WithCancel(ctx)
	lifecycle.Add("sim-loop", &server.FuncService{
		StartFn: func() error {
			loop.Start(loopCtx)
			<-loopCtx.Done()
			return nil
		},
		StopFn: loopCancel,
	})

	logger.Info("simulation server ready", zap.Duration("startup", time.Since(start)))
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
