package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/praxos/vaults/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

type generateOptions struct {
	tokensPath string
	strategies []string
	outPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vaultgen",
		Short: "Generate RWA vault strategies offline",
		Long: `vaultgen runs the vault generation pipeline in-process: each token is
risk-simulated, then every strategy template is matched against the pool.

Token files are YAML or JSON, either a list of tokens or an object with a
"tokens" list.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newTemplatesCmd())
	return root
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate strategies from a token file",
		Long: `Generate vault strategies from a token file and print them as JSON.

Examples:
  vaultgen generate --tokens tokens.yaml
  vaultgen generate --tokens tokens.json --strategy balanced-diversified --out vaults.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{
				Level:  root.logLevel,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			})
			return runGenerate(cmd.Context(), opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVar(&opts.tokensPath, "tokens", "", "Path to a YAML or JSON token file")
	cmd.Flags().StringSliceVar(&opts.strategies, "strategy", nil, "Template id to generate (repeatable, default all)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "Write JSON to this file instead of stdout")
	_ = cmd.MarkFlagRequired("tokens")

	return cmd
}

func runGenerate(ctx context.Context, opts *generateOptions, stdout io.Writer, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tokens, err := loadTokens(opts.tokensPath)
	if err != nil {
		return err
	}

	sim := risk.NewHeuristicSimulator(log)
	engine := allocation.NewEngine(allocation.DefaultCatalog(), log)
	service := allocation.NewService(engine, sim, nil, nil, log)

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	strategies, err := service.GenerateFromTokens(ctx, tokens, opts.strategies)
	if err != nil {
		return fmt.Errorf("failed to generate strategies: %w", err)
	}

	out := stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.outPath, err)
		}
		defer f.Close()
		out = f
	}

	if _, err := service.ExportJSON(out); err != nil {
		return err
	}

	log.Info().
		Int("tokens", len(tokens)).
		Int("strategies", len(strategies)).
		Msg("Generation complete")
	return nil
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in strategy templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTemplates(cmd.OutOrStdout(), allocation.DefaultCatalog())
		},
	}
}

func printTemplates(w io.Writer, catalog *allocation.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIER\tDURATION\tMAX ASSETS")
	for _, id := range catalog.IDs() {
		tmpl, _ := catalog.Get(id)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			id, catalog.DisplayName(id), tmpl.RiskTier, tmpl.TargetDuration, tmpl.MaxAssets)
	}
	return tw.Flush()
}
