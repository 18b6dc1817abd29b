/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/perekladach/internal/language"
	"github.com/valpere/perekladach/internal/store"
)

var historyDBPath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the translation history",
	Long: `List, inspect, and clear the SQLite translation history.

History is only written when "history.enabled" is set in the config.`,
}

// openHistoryDB opens the journal at --db, or the configured path. The
// history commands never create it: ok is false when the file is absent.
func openHistoryDB() (db *store.Store, ok bool, err error) {
	path := historyDBPath
	if path == "" {
		path = cfg.History.DB
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open history: %w", err)
	}
	db, err = store.New(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open history: %w", err)
	}
	return db, true, nil
}

var (
	historyListSource string
	historyListTarget string
	historyListLimit  int
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		filter := store.Filter{Limit: historyListLimit}
		var err error
		if historyListSource != "" {
			if filter.SourceLang, err = language.Normalize(historyListSource); err != nil {
				return err
			}
		}
		if historyListTarget != "" {
			if filter.TargetLang, err = language.Normalize(historyListTarget); err != nil {
				return err
			}
		}

		db, ok, err := openHistoryDB()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "History is empty.")
			return nil
		}
		defer db.Close()

		entries, err := db.List(context.Background(), filter)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "History is empty.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPAIR\tSERVICE\tLATENCY\tWHEN\tTEXT\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s|%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.SourceLang, e.TargetLang, e.Service, e.Latency,
				e.Timestamp.Format("2006-01-02 15:04"),
				snippet(e.SourceText), snippet(e.TranslatedText))
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		db, ok, err := openHistoryDB()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "History is empty.")
			return nil
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Fprintf(out, "Total entries:   %d\n", stats.TotalEntries)
		fmt.Fprintf(out, "Average latency: %s\n", stats.AvgLatency)
		for _, p := range stats.Pairs {
			fmt.Fprintf(out, "  %s|%s: %d\n", p.SourceLang, p.TargetLang, p.Count)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a history entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		db, ok, err := openHistoryDB()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to delete entry: history is empty")
		}
		defer db.Close()

		if err := db.Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Fprintf(out, "Deleted entry: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		db, ok, err := openHistoryDB()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cleared 0 entries from history.")
			return nil
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(out, "Cleared %d entries from history.\n", n)
		return nil
	},
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "", "Database path (default from config)")

	historyListCmd.Flags().StringVarP(&historyListSource, "source", "s", "", "Filter by source language code (e.g. ru)")
	historyListCmd.Flags().StringVarP(&historyListTarget, "target", "t", "", "Filter by target language code (e.g. en)")
	historyListCmd.Flags().IntVarP(&historyListLimit, "limit", "n", 50, "Maximum number of entries (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
