package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veilsong/npccore/internal/behavior"
	"github.com/veilsong/npccore/internal/config"
	"github.com/veilsong/npccore/internal/models"
	"github.com/veilsong/npccore/internal/repository"
	"github.com/veilsong/npccore/internal/sim"
	"github.com/veilsong/npccore/internal/types"
)

var runFlags struct {
	population int
	dayLength  time.Duration
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo population on an accelerated day cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		feed := newDemoFeed(runFlags.dayLength)
		sink := &logSink{logger: logger}
		components := types.NewComponentTable()
		scheduler := sim.NewScheduler(feed, sink,
			sim.WithTick(cfg.TickInterval),
			sim.WithWorkers(cfg.Workers),
			sim.WithComponents(components),
			sim.WithLogger(logger),
		)

		var persister *sim.Persister
		if cfg.PersistenceEnabled() {
			store, err := repository.NewStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open persistence: %w", err)
			}
			defer store.Close()

			var embedder models.Embedder
			if cfg.EmbeddingEnabled() {
				embedder, err = models.NewGenAIEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
				if err != nil {
					return fmt.Errorf("failed to build embedder: %w", err)
				}
			}
			persister = sim.NewPersister(store, embedder, logger)
		}

		spawnPopulation(scheduler, runFlags.population)
		if persister != nil {
			for i := 1; i <= runFlags.population; i++ {
				if npc, ok := scheduler.Get(types.Entity(i)); ok {
					if err := persister.RestoreNPC(ctx, npc, scheduler.Graph()); err != nil {
						logger.Warn("restore failed, starting fresh",
							"entity", i, "error", err.Error())
					}
				}
			}
		}
		logger.Info("simulation started",
			"population", scheduler.Len(), "tick", cfg.TickInterval.String())

		err = scheduler.Run(ctx)
		if persister != nil {
			saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if saveErr := persister.SaveAll(saveCtx, scheduler); saveErr != nil {
				logger.Error("final save incomplete", "error", saveErr.Error())
			}
		}
		if errors.Is(err, context.Canceled) {
			logger.Info("simulation stopped")
			return nil
		}
		return err
	},
}

func init() {
	runCmd.Flags().IntVar(&runFlags.population, "population", 12, "number of NPCs to spawn")
	runCmd.Flags().DurationVar(&runFlags.dayLength, "day-length", 10*time.Minute, "wall time of one in-game day")
	rootCmd.AddCommand(runCmd)
}

// spawnPopulation seeds a small mixed settlement.
func spawnPopulation(s *sim.Scheduler, n int) {
	archetypes := types.Archetypes()
	names := []string{"Maren", "Toval", "Ilsa", "Brenn", "Sora", "Kellen", "Yara", "Dovan"}
	for i := 0; i < n; i++ {
		s.Spawn(sim.SpawnConfig{
			Entity:    types.Entity(i + 1),
			Name:      fmt.Sprintf("%s-%d", names[i%len(names)], i+1),
			Archetype: archetypes[i%len(archetypes)],
		})
	}
}

// demoFeed synthesizes a world slice from wall time: an accelerated day cycle
// with a harmony swell around dusk.
type demoFeed struct {
	start     time.Time
	dayLength time.Duration
}

func newDemoFeed(dayLength time.Duration) *demoFeed {
	return &demoFeed{start: time.Now(), dayLength: dayLength}
}

func (f *demoFeed) WorldFor(types.Entity) *types.WorldContext {
	elapsed := time.Since(f.start)
	frac := float64(elapsed%f.dayLength) / float64(f.dayLength)
	hour := frac * 24

	harmony := 0.3
	var events []string
	if hour > 17 && hour < 20 {
		harmony = 0.9
		events = []string{"festival"}
	}
	return &types.WorldContext{
		TimeOfDay:    hour,
		Weather:      "clear",
		Location:     "veilsong_vale",
		GlobalEvents: events,
		Harmony:      harmony,
	}
}

// logSink logs dispatched actions instead of forwarding them to a world
// server.
type logSink struct {
	logger interface {
		Info(msg string, args ...any)
	}
}

func (l *logSink) Dispatch(e types.Entity, actions []behavior.Action) {
	for _, a := range actions {
		l.logger.Info("action", "entity", uint64(e), "kind", a.Kind,
			"target", uint64(a.Target), "detail", a.Detail)
	}
}
