package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jotunheim-weather/internal/agent"
	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/server"
	"jotunheim-weather/internal/version"
	"jotunheim-weather/pkg/logger"
	"jotunheim-weather/pkg/random"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()
	var rangeMode string
	var watch bool

	flag.StringVar(&cfg.Seed, "seed", "", "Default world seed (numeric or text, empty = 0)")
	flag.Int64Var(&cfg.EpochOffset, "epoch-offset", 0, "Seconds added to the tick before period division")
	flag.StringVar(&cfg.IntroWeather, "intro-weather", cfg.IntroWeather, "Weather of every biome during the intro (Clear or ThunderStorm)")
	flag.StringVar(&rangeMode, "range", "reference", "Roll mapping: reference (game client) or linear")
	flag.StringVar(&cfg.TablePath, "table", "", "Path to a JSON weather table (empty = built-in)")
	flag.Int64Var(&cfg.StartDay, "start-day", cfg.StartDay, "Game day the live clock starts at")
	flag.Float64Var(&cfg.TimeScale, "time-scale", cfg.TimeScale, "Game seconds per real second for the live clock")
	flag.BoolVar(&watch, "watch", false, "Log weather changes of the default world")
	flag.Parse()

	logger.Log.Info("Starting Jotunheim weather server...")
	logger.Log.Info(version.String())

	mode, err := random.ParseRangeMode(rangeMode)
	if err != nil {
		logger.Log.Fatal("Bad -range flag: ", err)
	}
	cfg.RangeMode = mode

	port := os.Getenv("WW_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	weatherService, err := engine.NewService(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to init weather service: ", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"seed":       weatherService.DefaultSeed(),
		"start_day":  cfg.StartDay,
		"time_scale": cfg.TimeScale,
	}).Info("🎲 World configured")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	weatherService.Start(ctx)

	if watch {
		go agent.NewWatcher("watcher", weatherService, weatherService.DefaultSeed()).Run()
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(weatherService, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown did not complete")
	}
	weatherService.Hub.Close()

	logger.Log.Info("Done.")
}
