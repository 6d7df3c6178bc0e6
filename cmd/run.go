package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/app"
	"github.com/abhisek/scholarprep/internal/config"
	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/llm"
	"github.com/abhisek/scholarprep/internal/logger"
	"github.com/abhisek/scholarprep/internal/metrics"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/store"
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"db":           "db",
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
	"provider":     "llm.provider",
}

func newLoader(cmd *cobra.Command) *config.Loader {
	file, _ := cmd.Flags().GetString("config")
	loader := config.NewLoader(file)
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			loader.Set(key, f.Value.String())
		}
	}
	return loader
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := newLoader(cmd).Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// env holds everything a study session needs. Close releases it in
// reverse order of construction.
type env struct {
	cfg     config.Config
	log     *logger.Logger
	store   *store.Store
	metrics *metrics.Metrics
	machine *session.Machine
}

// bootstrap loads configuration and builds the session machine with its
// collaborators. Headless commands also log to stderr.
func bootstrap(cmd *cobra.Command, headless bool) (*env, error) {
	ctx := cmd.Context()

	loader := newLoader(cmd)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		home, err := store.DataHome()
		if err != nil {
			return nil, err
		}
		logFile = filepath.Join(home, "scholarprep.log")
	}
	if err := store.EnsureDir(logFile); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       logFile,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    headless,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	rt := &env{cfg: cfg, log: log, metrics: metrics.New()}

	loader.OnChange(func(next config.Config) {
		if !log.SetLevel(next.Log.Level) {
			log.Warn("ignoring unknown log level", zap.String("level", next.Log.Level))
			return
		}
		log.Info("config reloaded", zap.String("file", loader.File()), zap.String("log_level", next.Log.Level))
	})
	if f := loader.File(); f != "" {
		log.Debug("using config file", zap.String("file", f))
	}

	if addr := cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, addr, log.Logger); err != nil {
				log.Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	rt.store, err = openStoreAt(cmd, cfg.DB)
	if err != nil {
		rt.Close()
		return nil, err
	}

	if err := cfg.LLM.Validate(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w\n\n"+
			"Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY, "+
			"or add an llm section to scholarprep.yaml", err)
	}
	events := rt.store.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLM, llm.Deps{
		Events:  events,
		Logger:  log.Logger,
		Metrics: rt.metrics,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	copts := content.DefaultOptions()
	copts.RoadmapWeeks = cfg.Study.RoadmapWeeks
	generator := content.NewLLMProvider(provider, nil, copts, log.Logger)

	rt.machine = session.New(generator, session.Options{
		QuestionCount:      cfg.Study.QuestionCount,
		QuestionDifficulty: cfg.Study.QuestionDifficulty,
		SnapshotsKept:      cfg.Study.SnapshotsKept,
	},
		session.WithEvents(events),
		session.WithSnapshots(rt.store.SnapshotRepo()),
		session.WithMetrics(rt.metrics),
		session.WithLogger(log.Logger),
	)

	log.Info("session ready",
		zap.String("session_id", rt.machine.SessionID()),
		zap.String("provider", cfg.LLM.Provider),
	)
	return rt, nil
}

func (rt *env) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.log.Warn("close store", zap.Error(err))
		}
	}
	rt.log.Close()
}

// runApp launches the TUI, resuming the latest saved session unless fresh
// is set.
func runApp(cmd *cobra.Command, fresh bool) error {
	rt, err := bootstrap(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	if !fresh {
		resumed, err := rt.machine.Resume(ctx)
		if err != nil {
			// A corrupt snapshot should not lock the learner out.
			rt.log.Warn("could not resume session, starting fresh", zap.Error(err))
		} else if resumed {
			rt.log.Info("resumed saved session", zap.Stringer("state", rt.machine.State()))
		}
	}

	return app.Run(ctx, app.Options{
		Machine: rt.machine,
		Logger:  rt.log.Logger,
	})
}
