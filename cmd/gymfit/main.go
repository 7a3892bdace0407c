package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymfit/internal/config"
	"gymfit/internal/events"
	"gymfit/internal/http/handlers"
	"gymfit/internal/kv"
	"gymfit/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Sessions, guest carts and the catalog cache
	var store kv.Store = kv.NewSQLStore(db)
	if cfg.KVBackend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := kv.DialRedis(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			log.Fatalf("[kv] redis %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		store = kv.NewRedisStore(rdb, "gymfit:", 24*time.Hour)
		log.Printf("[kv] redis at %s", cfg.RedisAddr)
	}

	pub, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Fatalf("[events] %v", err)
	}
	defer pub.Close()

	deps := handlers.NewDeps(db, cfg, store, pub)
	app := handlers.NewApp(deps, handlers.Options{CSRF: cfg.CSRF})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("[server] shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("[server] listening on :%s (backend=%s)", cfg.Port, cfg.Backend)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
