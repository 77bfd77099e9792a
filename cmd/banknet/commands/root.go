package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/go-pkgz/lgr"
	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

type rootOptions struct {
	configPath string
	baseURL    string
	token      string
	verbosity  string
	headers    dto.ExtraHeaders
	logFile    string
	dbg        bool
}

var (
	opts   = rootOptions{headers: dto.ExtraHeaders{}}
	netCfg config.NetSvcConfig
)

func Execute() error {
	root := &cobra.Command{
		Use:           "banknet",
		Short:         "Banking API client with a pluggable request pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.WithRelay(relays.NewLgrRelay(setupLog(opts.dbg, opts.logFile)))
			netCfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "yaml config file")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("BANKNET_TOKEN"), "bearer token (env BANKNET_TOKEN)")
	root.PersistentFlags().StringVar(&opts.verbosity, "verbosity", "", "request logging: none, basic, headers or body")
	root.PersistentFlags().Var(&opts.headers, "header", "extra headers as key=value, comma separated")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	root.PersistentFlags().BoolVar(&opts.dbg, "dbg", false, "debug mode")

	root.AddCommand(sendCmd(), watchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "banknet: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads the config file, if any, and lets flags set on the
// command line override it.
func loadConfig(cmd *cobra.Command) (config.NetSvcConfig, error) {
	cfg := config.DefaultNetSvcConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadNetSvcConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.WithBaseURL(opts.baseURL)
	}
	if flags.Changed("verbosity") {
		cfg.WithLogVerbosity(opts.verbosity)
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = dto.ExtraHeaders{}
	}
	for k, v := range opts.headers {
		cfg.ExtraHeaders[k] = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLog(dbg bool, logFile string) log.L {
	var out io.Writer = os.Stderr
	if logFile != "" {
		out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
	}

	logOpts := []log.Option{log.Out(out), log.Err(out), log.Msec, log.LevelBraces}
	if dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFunc)
	}
	return log.New(logOpts...)
}
