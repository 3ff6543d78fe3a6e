package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/connector"
	"github.com/Konsultn-Engineering/enorm-shards/database"
	"github.com/Konsultn-Engineering/enorm-shards/dialect"
	"github.com/Konsultn-Engineering/enorm-shards/logging"
	"github.com/Konsultn-Engineering/enorm-shards/query"
	"github.com/Konsultn-Engineering/enorm-shards/shard"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var errOffline = errors.New("explain does not execute statements")

type queryOptions struct {
	*globalOptions

	shards      []string
	params      []string
	maxResults  int
	firstResult int
	timeout     time.Duration
	comment     string
	output      string
}

func (o *queryOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&o.shards, "shard", "s", nil, "run on these shards only (default all)")
	flags.StringArrayVarP(&o.params, "param", "p", nil, "parameter as <selector>=<kind>:<value>, repeatable")
	flags.IntVar(&o.maxResults, "max-results", -1, "limit rows per shard and in total")
	flags.IntVar(&o.firstResult, "first-result", 0, "skip rows on each shard")
	flags.DurationVar(&o.timeout, "timeout", 0, "statement timeout per shard")
	flags.StringVar(&o.comment, "comment", "", "comment prefixed to the statement")
	flags.StringVarP(&o.output, "output", "o", outputYAML, "output format (yaml, json)")
}

// build records every flag on a new sharded query.
func (o *queryOptions) build(reg *shard.Registry, sql string) (*shard.Query, error) {
	q := reg.Query(sql)

	if len(o.shards) > 0 {
		ids := make([]shard.ID, len(o.shards))
		for i, s := range o.shards {
			ids[i] = shard.ID(s)
		}
		q.WithResolver(shard.Fixed(ids...))
	}

	for _, spec := range o.params {
		p, err := parseParam(spec)
		if err != nil {
			return nil, err
		}
		p.bind(q)
	}

	if o.maxResults != -1 {
		q.SetMaxResults(o.maxResults)
	}
	if o.firstResult != 0 {
		q.SetFirstResult(o.firstResult)
	}
	if o.timeout != 0 {
		q.SetTimeout(o.timeout)
	}
	if o.comment != "" {
		q.SetComment(o.comment)
	}
	return q, nil
}

func openCluster(ctx context.Context, opts *globalOptions) (*connector.Cluster, error) {
	cfg, err := connector.LoadConfig(opts.configPath())
	if err != nil {
		return nil, err
	}
	return connector.OpenShards(ctx, cfg, shard.WithLogger(logging.GetLogger("shardq")))
}

// offlineDatabase stands in for shards that are never queried.
type offlineDatabase struct{}

func (offlineDatabase) QueryContext(context.Context, string, ...any) (database.Rows, error) {
	return nil, errOffline
}

func (offlineDatabase) ExecContext(context.Context, string, ...any) (database.Result, error) {
	return nil, errOffline
}

func (offlineDatabase) PingContext(context.Context) error { return errOffline }

func (offlineDatabase) Close() error { return nil }

// offlineRegistry registers the configured shards without connecting.
func offlineRegistry(opts *globalOptions, dialectName string) (*shard.Registry, error) {
	cfg, err := connector.LoadConfig(opts.configPath())
	if err != nil {
		return nil, err
	}
	d, err := dialect.ByName(dialectName)
	if err != nil {
		return nil, err
	}
	reg := shard.NewRegistry(
		shard.WithLogger(logging.GetLogger("shardq")),
		shard.WithDialect(d),
	)
	for _, s := range cfg.Shards {
		if err := reg.Add(shard.ID(s.ID), offlineDatabase{}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func newExplainCmd(global *globalOptions) *cobra.Command {
	opts := &queryOptions{globalOptions: global}
	var dialectName string
	cmd := &cobra.Command{
		Use:   "explain [flags] SQL",
		Short: "Print the statement and arguments each shard would receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := offlineRegistry(global, dialectName)
			if err != nil {
				return err
			}
			q, err := opts.build(reg, args[0])
			if err != nil {
				return err
			}
			plans, err := q.Explain(cmd.Context())
			if err != nil {
				return err
			}
			for i := range plans {
				plans[i].Args = displayValues(plans[i].Args)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, plans)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&dialectName, "dialect", "postgres", "placeholder style to render (postgres, mysql)")
	return cmd
}

func newQueryCmd(global *globalOptions) *cobra.Command {
	opts := &queryOptions{globalOptions: global}
	cmd := &cobra.Command{
		Use:   "query [flags] SQL",
		Short: "Run a query on the shards and print the combined rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cluster, err := openCluster(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, cluster.Close()) }()

			q, err := opts.build(cluster.Registry, args[0])
			if err != nil {
				return err
			}
			rows, err := q.List(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]map[string]any, len(rows))
			for i, row := range rows {
				out[i] = displayRow(row)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, out)
		},
	}
	opts.register(cmd)
	return cmd
}

func displayRow(row query.Row) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = displayValue(v)
	}
	return out
}

func newExecCmd(global *globalOptions) *cobra.Command {
	opts := &queryOptions{globalOptions: global}
	cmd := &cobra.Command{
		Use:   "exec [flags] SQL",
		Short: "Run a statement on the shards and print the affected row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cluster, err := openCluster(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, cluster.Close()) }()

			q, err := opts.build(cluster.Registry, args[0])
			if err != nil {
				return err
			}
			n, err := q.Exec(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	opts.register(cmd)
	return cmd
}

type pingResult struct {
	Shard string                    `json:"shard" yaml:"shard"`
	OK    bool                      `json:"ok" yaml:"ok"`
	Error string                    `json:"error,omitempty" yaml:"error,omitempty"`
	Pool  connector.ConnectionStats `json:"pool" yaml:"pool"`
}

func newPingCmd(global *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Connect to every shard and report its pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cluster, err := openCluster(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, cluster.Close()) }()

			failed := make(map[shard.ID]error)
			pingErr := cluster.Ping(cmd.Context())
			for _, e := range multierr.Errors(pingErr) {
				var se *shard.ShardError
				if errors.As(e, &se) {
					failed[se.Shard] = se.Err
				}
			}

			stats := cluster.Stats()
			var results []pingResult
			for _, id := range cluster.IDs() {
				r := pingResult{Shard: string(id), OK: true, Pool: stats[id]}
				if e, ok := failed[id]; ok {
					r.OK, r.Error = false, e.Error()
				}
				results = append(results, r)
			}
			if err := writeOutput(cmd.OutOrStdout(), output, results); err != nil {
				return err
			}
			return pingErr
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format (yaml, json)")
	return cmd
}
