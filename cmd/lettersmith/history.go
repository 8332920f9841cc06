package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lettersmith/internal/config"
	"lettersmith/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated cover letters",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No cover letters generated yet.")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  %s  %s  %s\n",
				color.HiBlackString(entry.ID[:8]),
				entry.CreatedAt.Local().Format("2006-01-02 15:04"),
				color.CyanString(entry.Model),
				entry.JobSource)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored cover letter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := findEntry(store, args[0])
		if err != nil {
			return err
		}
		fmt.Println(entry.Letter)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored cover letter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := findEntry(store, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(entry.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", entry.ID[:8])
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func openHistory() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := history.Open(history.DBPath(cfg.ResolveDataDir()))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

// findEntry resolves an entry by full ID or unique prefix.
func findEntry(store *history.Store, id string) (*history.Entry, error) {
	if entry, err := store.Get(id); err == nil {
		return entry, nil
	}

	entries, err := store.List(0)
	if err != nil {
		return nil, err
	}
	var match *history.Entry
	for _, entry := range entries {
		if strings.HasPrefix(entry.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous id prefix %q", id)
			}
			match = entry
		}
	}
	if match == nil {
		return nil, fmt.Errorf("letter %s not found", id)
	}
	return match, nil
}
