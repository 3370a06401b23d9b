package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/regsync/fedreg"
	"github.com/regsync/fedreg/chat"
	"github.com/regsync/fedreg/pipeline"
	"github.com/regsync/fedreg/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Documents fedreg.DocumentService
	Metadata  *fedreg.MetadataCache
	Router    *chat.Router
	Pipeline  *pipeline.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Sync   SyncCmd   `cmd:"" help:"Fetch recent Federal Register documents into the local database"`
	Search SearchCmd `cmd:"" help:"Search the synced corpus"`
	Recent RecentCmd `cmd:"" help:"Show the N most recent documents"`
	Chat   ChatCmd   `cmd:"" help:"Answer a single chat-style message"`
	Stats  StatsCmd  `cmd:"" help:"Show corpus statistics"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Days        int `default:"30" help:"Lookback window in days"`
	PerPage     int `default:"100" help:"Listing page size"`
	MaxPages    int `help:"Stop after this many pages (0 = no cap)"`
	MaxRetries  int `default:"3" help:"Retry budget per failing page"`
	Concurrency int `short:"c" default:"8" help:"Concurrent detail fetches"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  []string `arg:"" optional:"" help:"Search terms"`
	Agency string   `help:"Filter by exact agency name"`
	Limit  int      `default:"25" help:"Maximum results"`
}

// RecentCmd is the "recent" subcommand.
type RecentCmd struct {
	N int `arg:"" help:"Number of documents"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Message []string `arg:"" help:"Message text"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
