package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patentfig/internal/mcp"
	"github.com/matzehuels/patentfig/internal/server"
	"github.com/matzehuels/patentfig/pkg/observability"
	"github.com/matzehuels/patentfig/pkg/store"
)

// storeCloseTimeout bounds disconnecting from the store on shutdown.
const storeCloseTimeout = 5 * time.Second

// loadEnv loads a .env file from the working directory when one exists.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Diagrams are kept in MongoDB when server.mongo_uri (or
PATENTFIG_MONGO_URI) is set, and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scene and artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	if err := loadEnv(); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	st, backend, err := openStore(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	observability.NewLogHooks(c.Logger).Install()
	defer observability.Reset()

	srv := server.New(runner, st, c.Logger, server.Config{
		Addr:         cfg.Server.Addr,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Style:        cfg.Render.Style,
	})

	listen := cfg.Server.Addr
	if listen == "" {
		listen = server.DefaultAddr
	}
	printInfo("Serving on %s", listen)
	printKeyValue("store", backend)
	printKeyValue("cache", cacheLabel(cfg.Cache, noCache))
	if backend == "memory" {
		printWarning("Diagrams are kept in memory and lost on exit")
	}
	if _, port, err := net.SplitHostPort(listen); err == nil {
		printNextStep("Check it", "curl http://localhost:"+port+"/health")
	}

	return srv.Run(ctx)
}

// openStore connects the configured diagram store.
func openStore(ctx context.Context, cfg ServerConfig) (store.Store, string, error) {
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), "memory", nil
	}
	st, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, "", fmt.Errorf("connect to mongo: %w", err)
	}
	return st, "mongo (" + cfg.MongoDatabase + ")", nil
}

func cacheLabel(cfg CacheConfig, noCache bool) string {
	if noCache {
		return cacheNone
	}
	return cfg.Backend
}

// mcpCommand creates the mcp command, which serves the diagram tools over
// stdio. Stdout carries the protocol, so all logging goes to stderr.
func (c *CLI) mcpCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
generate_block_diagram and generate_flow_chart tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer runner.Close()

			observability.NewLogHooks(c.Logger).Install()
			defer observability.Reset()

			c.Logger.Info("mcp server ready", "transport", "stdio", "cache", cacheLabel(cfg.Cache, noCache))
			return mcp.NewServer(mcp.ServerDeps{
				Runner: runner,
				Logger: c.Logger,
				Style:  cfg.Render.Style,
			}).Serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scene and artifact cache")
	return cmd
}
