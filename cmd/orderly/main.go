package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	html "github.com/gofiber/template/html/v2"

	"orderly/internal/config"
	"orderly/internal/http/handlers"
	applog "orderly/internal/log"
	"orderly/internal/metrics"
	"orderly/internal/notify"
	"orderly/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, store.Options{PostgresDSN: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath})
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	// orderly backup <path> copies the embedded database and exits.
	if len(os.Args) > 2 && os.Args[1] == "backup" {
		if err := st.Backup(ctx, os.Args[2]); err != nil {
			log.Fatal(err)
		}
		applog.Info(nil, "store.backup", map[string]any{"path": os.Args[2], "backend": string(st.Kind())})
		return
	}

	m := metrics.NewRegistry()
	m.Backend.WithLabelValues(string(st.Kind())).Set(1)

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.KafkaBrokers != "" {
		kn := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kn.Close()
		notifiers = append(notifiers, kn)
		applog.Info(nil, "notify.kafka.enabled", map[string]any{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic})
	}

	deps, err := handlers.NewDeps(st, cfg, m, notifiers)
	if err != nil {
		log.Fatal(err)
	}
	go deps.Drafts.Run(ctx, time.Minute, func(n int) {
		m.DraftsExpired.Add(float64(n))
		applog.Info(nil, "bot.drafts.expired", map[string]any{"count": n})
	})

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	app := handlers.NewApp(engine, deps,
		logger.New(),
		limiter.New(limiter.Config{
			Max:        120,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/health" || p == "/metrics" || strings.HasPrefix(p, "/bot/")
			},
		}),
	)

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()
	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "backend": string(st.Kind())})

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		shutdown(app)
		// let in-flight admin notifications finish before the writer closes
		deps.BotHandler.Machine.Wait()
	}
}

func shutdown(app *fiber.App) {
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		applog.Error(nil, "server.shutdown", err, nil)
		return
	}
	applog.Info(nil, "server.stop", map[string]any{"at": time.Now().UTC().Format(time.RFC3339)})
}
