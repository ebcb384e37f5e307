// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mtreilly/memorydeck/internal/cmd"
	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/kv"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "memorydeck: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "memorydeck: cannot create data dir: %v\n", err)
		os.Exit(1)
	}

	// Backend selection happens exactly once, here. Default: "sql"
	// (relational schema). Options: "sql", "kv" (bbolt), "memory"
	// (in-memory only, no persistence).
	var backend vocab.Backend

	switch cfg.Storage {
	case "sql":
		// If SQLite fails (missing, corrupted, permissions), fall back to
		// an in-memory store so the tool remains operational (statelessly)
		// without persistence.
		db, err := vocab.OpenDB(cfg.DBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot open SQLite database: %v\n", err)
			fmt.Fprintln(os.Stderr, "         falling back to in-memory store (no persistence)")
			backend, err = vocab.NewKVStore(context.Background(), kv.NewMemoryStore())
			if err != nil {
				fmt.Fprintf(os.Stderr, "memorydeck: failed to init memory store: %v\n", err)
				os.Exit(1)
			}
			break
		}
		sqlStore, err := vocab.NewSQLStore(db, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "memorydeck: failed to init SQL store: %v\n", err)
			os.Exit(1)
		}
		backend = sqlStore

	case "kv":
		// bbolt key-value file, all rows JSON.
		bolt, err := kv.OpenBolt(cfg.KVPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "memorydeck: failed to open bbolt store: %v\n", err)
			os.Exit(1)
		}
		kvStore, err := vocab.NewKVStore(context.Background(), bolt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "memorydeck: failed to init KV store: %v\n", err)
			os.Exit(1)
		}
		backend = kvStore

	case "memory":
		// In-memory only - degrades gracefully, no persistence.
		kvStore, err := vocab.NewKVStore(context.Background(), kv.NewMemoryStore())
		if err != nil {
			fmt.Fprintf(os.Stderr, "memorydeck: failed to init memory store: %v\n", err)
			os.Exit(1)
		}
		backend = kvStore

	default:
		fmt.Fprintf(os.Stderr, "memorydeck: unknown storage backend %q (choose sql, kv, or memory)\n", cfg.Storage)
		os.Exit(1)
	}

	store, err := vocab.Open(context.Background(), backend, vocab.Options{
		Notifier:   cmd.NewTerminalNotifier(),
		Logger:     log,
		UndoWindow: cfg.UndoWindow,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "memorydeck: failed to load data: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	root := cmd.NewRootCmd(cfg, store)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
