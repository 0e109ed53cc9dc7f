// Command stratum merges layered configuration files and prints values or
// the merged tree.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stratum"
)

var (
	flagFiles     []string
	flagEnvPrefix string
	flagSkip      bool
	flagFormat    string
)

func main() {
	root := &cobra.Command{
		Use:           "stratum",
		Short:         "Inspect layered configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringArrayVar(&flagFiles, "file", nil, "configuration file layer (repeatable, later wins)")
	root.PersistentFlags().StringVar(&flagEnvPrefix, "env-prefix", "", "merge environment variables with this prefix as the top layer")
	root.PersistentFlags().BoolVar(&flagSkip, "skip-unavailable", false, "skip layers that cannot be read instead of failing")

	getCmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the merged value at a dotted path and its origin",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Print the fully merged tree",
		Args:  cobra.NoArgs,
		RunE:  runMerge,
	}
	mergeCmd.Flags().StringVar(&flagFormat, "format", "toml", "output format: toml, yaml or json")

	root.AddCommand(getCmd, mergeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildConfig() (*stratum.MergedConfig, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	b := stratum.NewBuilder().WithLogger(&logger)
	for _, path := range flagFiles {
		b.WithFile(path)
	}
	if flagEnvPrefix != "" {
		b.WithEnv(flagEnvPrefix)
	}
	if flagSkip {
		b.WithPolicy(stratum.SkipUnavailable)
	}

	return b.Merge()
}

func runGet(cmd *cobra.Command, args []string) error {
	path, err := stratum.ParsePath(args[0])
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	value, err := cfg.Get(path)
	if err != nil {
		return err
	}

	fmt.Printf("%v\n", value.Interface())
	if origin, ok := cfg.Origin(path); ok {
		fmt.Printf("origin: %s\n", origin)
	}
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	return cfg.EncodeTo(os.Stdout, flagFormat)
}
