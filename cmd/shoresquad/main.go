package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoresquad/internal/app"
	"shoresquad/internal/config"
	appLog "shoresquad/internal/log"
	"shoresquad/internal/textview"
	"shoresquad/internal/web"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	envFile    string
	listen     string
	once       bool
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("shoresquad starting", "version", version)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if err := conf.ApplyEnv(flags.envFile); err != nil {
		appLog.Error("failed to apply environment overrides", err, "env_file", flags.envFile)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if !flags.debug {
		appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"lat", conf.Weather.Latitude,
		"lon", conf.Weather.Longitude,
		"refresh", conf.Weather.Refresh,
		"events", len(conf.Events),
		"preview", conf.Preview.Enabled,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(conf)
	if err != nil {
		appLog.Error("failed to initialize app", err)
		os.Exit(1)
	}

	if flags.once {
		a.RefreshWeather(ctx)
		a.RenderEvents()
		a.RenderCrew()
		if err := textview.Render(os.Stdout, a.Surface(), a.Crew()); err != nil {
			appLog.Error("failed to write summary", err)
			os.Exit(1)
		}
		return
	}

	if err := a.Start(ctx); err != nil {
		appLog.Error("failed to start app", err)
		os.Exit(1)
	}

	if err := web.StartServer(ctx, a); err != nil {
		appLog.Error("http server failed", err)
		cancel()
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	a.Stop(stopCtx)
	appLog.Info("shoresquad exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file (created with defaults on first run)")
	flag.StringVar(&cfg.envFile, "env", ".env", "Optional dotenv file with SHORESQUAD_* overrides")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Fetch weather once, print a text summary and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
