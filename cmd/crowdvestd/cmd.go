package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/crowdvest"
	crowdvestd "github.com/iov-one/crowdvest/cmd/crowdvestd/app"
	"github.com/iov-one/crowdvest/commands"
	"github.com/iov-one/crowdvest/commands/server"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// cli holds the state shared by all subcommands.
type cli struct {
	out    io.Writer
	file   string
	cfg    config.Config
	logger log.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, cfg: config.Default()}

	root := &cobra.Command{
		Use:           "crowdvestd",
		Short:         "Crowd investment ledger node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.file, "config", "", "YAML configuration file")
	flags.String("home", c.cfg.Home, "directory to store files under")
	flags.String("log-level", c.cfg.LogLevel, "log level: debug, info, error or none")
	flags.Bool("debug", c.cfg.Debug, "return the call stack on error")

	root.AddCommand(
		c.initCmd(),
		c.startCmd(),
		c.validateCmd(),
		c.keygenCmd(),
		c.testgenCmd(),
		c.versionCmd(),
	)
	return root
}

// load reads the configuration and overlays it with the flags that were
// set on the command line.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.file)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Home, _ = flags.GetString("home")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Lookup("bind") != nil && flags.Changed("bind") {
		cfg.Bind, _ = flags.GetString("bind")
	}
	if flags.Lookup("metrics") != nil && flags.Changed("metrics") {
		cfg.MetricsAddr, _ = flags.GetString("metrics")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Logger(c.out)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger.With("module", "crowdvest")
	return nil
}

func (c *cli) initCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init [owner]",
		Short: "Initialize app_state in the genesis file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite {
				args = append([]string{"-o"}, args...)
			}
			return server.InitCmd(crowdvestd.GenInitOptions, c.logger, c.cfg.Home, args)
		},
	}
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "o", false, "overwrite an existing app_state")
	return cmd
}

func (c *cli) startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.start(ctx)
		},
	}
	cmd.Flags().String("bind", c.cfg.Bind, "address server listens on")
	cmd.Flags().String("metrics", c.cfg.MetricsAddr, "address prometheus metrics are served on")
	return cmd
}

// start runs the application and the metrics endpoint until the context is
// cancelled or either of them fails.
func (c *cli) start(ctx context.Context) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	application, err := crowdvestd.GenerateApp(&server.Options{
		Home:     c.cfg.Home,
		Logger:   c.logger,
		Debug:    c.cfg.Debug,
		Registry: registry,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() {
		errc <- server.Start(ctx, application, c.cfg.Bind, c.logger)
	}()
	go func() {
		errc <- server.ServeMetrics(ctx, c.cfg.MetricsAddr, registry, c.logger)
	}()

	// the first failure stops both servers
	err = <-errc
	cancel()
	if err2 := <-errc; err == nil {
		err = err2
	}
	return err
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis.json...]",
		Short: "Validate the app_state of genesis files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{server.GenesisPath(c.cfg.Home)}
			}
			if err := server.ValidateGenesis(crowdvestd.Initializers(), args); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "genesis is valid")
			return nil
		},
	}
}

func (c *cli) keygenCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "keygen <hex seed>",
		Short: "Derive a key from a seed and print its address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
			}
			key, err := crypto.DeriveEd25519(seed, path)
			if err != nil {
				return err
			}
			addr := key.PublicKey().Address()
			b32, err := addr.Bech32("cv")
			if err != nil {
				return errors.Wrap(err, "bech32")
			}
			fmt.Fprintf(c.out, "address: %s\nbech32:  %s\n", addr, b32)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", crypto.DefaultDerivationPath, "derivation path")
	return cmd
}

func (c *cli) testgenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testgen [dir]",
		Short: "Write example encodings of all messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.TestGenCmd(crowdvestd.Examples(), args)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.out, crowdvest.Version())
		},
	}
}
