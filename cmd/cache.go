package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/connectors"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache of downloaded dataset rows",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached dataset download",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return clearCache(cmd.OutOrStdout(), cfg.Cache.Dir)
	},
}

func clearCache(w io.Writer, dir string) error {
	cache, err := connectors.OpenRowCache(dir, 0)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Cleared row cache in %s\n", cache.Dir())
	return nil
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
