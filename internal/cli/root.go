package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Konsultn-Engineering/enorm-shards/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "shards.yaml"

type globalOptions struct {
	envFile   string
	logLevel  string
	logFormat string
	config    string
}

// Execute runs the shardq command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "shardq",
		Short: "Run one parameterised query across PostgreSQL shards",
		Long: `shardq binds parameters once, replays them onto a query for every
selected shard and prints the combined result.

Shards are read from a YAML file (--config, default shards.yaml). ${VAR}
references in it are expanded from the environment, after loading --env-file.

Parameters are given as <selector>=<kind>:<value>, where the selector is a
zero-based position ($1 is 0) or a name, for example:

  shardq query --param 0=decimal:3.14 --param owner=uuid:6f1c... \
    'SELECT * FROM accounts WHERE balance > $1 AND owner = :owner'`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load; missing files are ignored")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (console, plain, json)")
	flags.StringVarP(&opts.config, "config", "c", "", "shard configuration file (default $SHARDQ_CONFIG or shards.yaml)")

	root.AddCommand(
		newExplainCmd(opts),
		newQueryCmd(opts),
		newExecCmd(opts),
		newPingCmd(opts),
	)
	return root
}

func (o *globalOptions) setup() error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(o.logFormat)
	if err != nil {
		return err
	}
	logging.SetOutput(format, os.Stderr)
	logging.SetLevel("", level)
	return nil
}

func (o *globalOptions) configPath() string {
	if o.config != "" {
		return o.config
	}
	if env := os.Getenv("SHARDQ_CONFIG"); env != "" {
		return env
	}
	return defaultConfigPath
}
