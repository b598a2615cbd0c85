package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/gitreport/internal/config"
	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:   "gitreport-mcp",
		Short: "MCP server exposing git history reports",
		RunE:  run,
	}

	root.PersistentFlags().String("repo", ".", "Path of the local git repository")
	root.PersistentFlags().String("source", "local", "History source: local or github")
	root.PersistentFlags().String("github-repo", "", "GitHub repository URL for --source github")
	root.PersistentFlags().String("provider", "gemini", "Default model provider")
	root.PersistentFlags().String("postgres-url", "", "Postgres connection URL of the report archive")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().Int("port", 8000, "HTTP port")
	root.PersistentFlags().String("host", "0.0.0.0", "HTTP host")

	config.Init(root)

	if err := root.Execute(); err != nil {
		logging.New(logging.DefaultLogger()).Error(err, "command failed")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.LoggerForLevel(config.LogLevel()))

	cfg, err := mcp.DefaultConfig(cmd.Context(), log)
	if err != nil {
		return err
	}
	srv := mcp.New(cfg)
	defer srv.Close()

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	addr := host + ":" + strconv.Itoa(port)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP server listening", "addr", addr, "path", mcp.EndpointPath, "tools", srv.Tools)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
