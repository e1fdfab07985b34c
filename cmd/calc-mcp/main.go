package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/mcptools"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

const version = "0.1.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	observability.Logger = logger
	defer observability.SyncLogger()

	sessions, err := config.LoadSessions()
	if err != nil {
		observability.Logger.Fatal("load config", zap.Error(err))
	}

	if err := calculator.InitMetrics(); err != nil {
		observability.Logger.Fatal("init metrics", zap.Error(err))
	}

	svc := calculator.NewService(session.NewStore(sessions.TTL))
	go svc.RunJanitor(ctx, sessions.SweepInterval)

	s := server.NewMCPServer("calculator", version, server.WithToolCapabilities(false))
	mcptools.New(svc).Register(s)

	observability.Logger.Info("calculator MCP server started",
		zap.Duration("session_ttl", sessions.TTL),
		zap.Duration("sweep_interval", sessions.SweepInterval),
	)
	if err := server.ServeStdio(s); err != nil {
		observability.Logger.Fatal("serve stdio", zap.Error(err))
	}
}
