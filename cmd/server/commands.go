package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sql-converter/internal/config"
	"sql-converter/internal/controller"
	"sql-converter/internal/logging"
	"sql-converter/internal/router"
	"sql-converter/internal/service"
	"sql-converter/internal/utils/sql_translator"
)

type serveOptions struct {
	configPath string
	port       string
}

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}

	root := &cobra.Command{
		Use:           "sql-converter",
		Short:         "Convert MySQL SQL to Oracle SQL",
		Long:          "sql-converter serves an HTTP API that converts MySQL SQL to Oracle SQL and reports statement structure.",
		Version:       controller.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml (default: ./configs/config.yaml or ./config.yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().StringVar(&opts.port, "port", "", "listen port, overrides server.port")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newConvertCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert MySQL SQL from a file or stdin and print the Oracle SQL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runConvert(in, cmd.OutOrStdout(), pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", true, "format the output over several lines")
	return cmd
}

func runConvert(in io.Reader, out io.Writer, pretty bool) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	manager := sql_translator.NewSQLTranslationManager(sql_translator.NewOracleTranslator())
	oracleSQL, err := manager.TranslateMySQLToOracle(string(data), pretty)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, strings.TrimRight(oracleSQL, "\n"))
	return err
}

func runServe(parent context.Context, opts *serveOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.port != "" {
		cfg.Server.Port = opts.port
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	oracle := sql_translator.NewOracleTranslator()
	svc := service.NewConversionService(
		sql_translator.NewSQLTranslationManager(oracle),
		oracle,
		service.Options{
			MaxBatchSize:  cfg.Converter.MaxBatchSize,
			MaxSQLLength:  cfg.Converter.MaxSQLLength,
			BatchWorkers:  cfg.Converter.BatchWorkers,
			DefaultPretty: cfg.Converter.DefaultPretty,
		},
		logger,
	)

	r := router.New(cfg, svc, logger)
	defer r.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := graceful.New(r.Engine, graceful.WithAddr(cfg.Server.Addr()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer server.Close()

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Int("batch_workers", cfg.Converter.BatchWorkers).
		Bool("rate_limit", cfg.Security.EnableRateLimit).
		Msg("starting sql-converter")

	if err := server.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}

	logger.Info().Msg("sql-converter stopped")
	return nil
}
