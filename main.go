package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/weirdsynths/ideasd/internal/app"
	"github.com/weirdsynths/ideasd/internal/config"
	"github.com/weirdsynths/ideasd/internal/persistence"
)

func loadConfig(cfgPath string, storage string, at string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)

	if err != nil {
		return nil, err
	}

	if v := os.Getenv("IDEAS_STORAGE_PATH"); v != "" {
		cfg.StoragePath = v
	}
	if v := os.Getenv("AI_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LLM_SERVER_URL"); v != "" {
		cfg.LLMServerUrl = v
	}
	if v := os.Getenv("IDEAS_TIME"); v != "" {
		cfg.GenerateAt = v
	}
	if v := os.Getenv("GOPORT"); v != "" {
		cfg.Port = v
	}

	// Flags beat env beats file.
	if storage != "" {
		cfg.StoragePath = storage
	}
	if at != "" {
		cfg.GenerateAt = at
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func backends(cfg *config.Config) []app.GenerationBackend {
	timeout := cfg.CallTimeoutDuration()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" && cfg.Backend != "local" {
		slog.Error("CLAUDE_API_KEY environment variable not set")
	}

	local := persistence.LocalLLMRepo{BaseUrl: cfg.LLMServerUrl, Timeout: timeout}
	cloud := persistence.ClaudeRepo{ApiKey: apiKey, Model: cfg.Model, Timeout: timeout}

	switch cfg.Backend {
	case "hybrid":
		return []app.GenerationBackend{local, cloud}
	case "cloud":
		return []app.GenerationBackend{cloud}
	default:
		return []app.GenerationBackend{local}
	}
}

func main() {
	runNow := flag.Bool("now", false, "generate immediately, don't wait for the scheduled time")
	dryRun := flag.Bool("dry-run", false, "print generated ideas without saving")
	noApi := flag.Bool("no-api", false, "don't start the approval api")
	cfgPath := flag.String("config", "", "path to yaml config file")
	storage := flag.String("storage", "", "override storage path")
	at := flag.String("time", "", "generation time HH:MM")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *storage, *at)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}

	store := persistence.IdeaStore{Root: cfg.StoragePath}
	if err = store.EnsureDirs(); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}
	slog.Info(fmt.Sprintf("storage: %s", cfg.StoragePath))

	prefs := app.NewPreferenceModel(persistence.PrefsRepo{Path: filepath.Join(cfg.StoragePath, "preferences.json")})
	slog.Info(fmt.Sprintf("preferences: %s", prefs.Summary()))

	gen := app.Generator{
		Store:    store,
		Backends: backends(cfg),
		PerDay:   cfg.IdeasPerDay,
		Now:      time.Now,
	}

	approval := app.NewApprovalService(store, prefs, gen)

	ctx := context.Background()

	if *dryRun {
		ideas, err := gen.GenerateDaily(ctx, prefs.Summary(), true)
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
			os.Exit(1)
		}
		out, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	if !*noApi {
		a := app.App{
			Approval: approval,
			Prefs:    prefs,
			Config:   app.Config{Port: cfg.Port},
		}
		go func() {
			if err := a.Start(); err != nil {
				slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
				os.Exit(1)
			}
		}()
	}

	scheduler, err := app.NewScheduler(cfg.GenerateAt, func(ctx context.Context) error {
		_, err := gen.GenerateDaily(ctx, prefs.Summary(), false)
		return err
	}, store.BatchExists)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}

	scheduler.Run(ctx, *runNow)
}
