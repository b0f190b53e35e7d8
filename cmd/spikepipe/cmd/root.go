// Package cmd provides the command-line interface for spikepipe.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spikepipe",
	Short: "Spikepipe simulates the spike-delivery pipeline of a core.",
	Long: `Spikepipe simulates the event-driven spike-delivery pipeline of ` +
		`one neuromorphic core: spikes are buffered, synaptic rows are ` +
		`fetched from bulk memory through a single transfer slot, and the ` +
		`decoded synapses feed the neuron input accumulators.`,
}

// A .env file can preset the flags' environment defaults, so it has to be
// loaded before the flags are declared.
func init() {
	_ = godotenv.Load()
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// envOr returns the value of the environment variable or the fallback when
// the variable is unset.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}
