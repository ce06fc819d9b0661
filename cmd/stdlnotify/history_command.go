package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stdlnotify/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		vidName    string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled completion notices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(cmd, func(store *journal.Store) error {
				entries, err := store.List(cmd.Context(), journal.Filter{VidName: vidName, Limit: limit})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput || !isTerminal(out) {
					if entries == nil {
						entries = []journal.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No deliveries recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistory(entries))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&vidName, "vidname", "", "Only show notices for this video name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON even on a terminal")

	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must be >= 0, got %d", keep)
			}
			return ctx.withJournal(cmd, func(store *journal.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries (kept up to %d)\n", removed, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 100, "Number of newest entries to keep")
	return cmd
}

// withJournal opens the configured journal for reading. The database must
// already exist; reading never creates one.
func (c *commandContext) withJournal(cmd *cobra.Command, fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	path := cfg.Journal.Path
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !cfg.Journal.Enabled {
				return fmt.Errorf("no journal at %s; set [journal] enabled = true to record deliveries", path)
			}
			return fmt.Errorf("no journal at %s yet; it is created on the next notify", path)
		}
		return fmt.Errorf("inspect journal: %w", err)
	}

	store, err := journal.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func renderHistory(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		code := ""
		if entry.StatusCode != 0 {
			code = strconv.Itoa(entry.StatusCode)
		}
		rows = append(rows, []string{
			entry.CreatedAt.Local().Format(time.DateTime),
			valueOrDash(entry.Status),
			valueOrDash(entry.PType),
			valueOrDash(entry.UID),
			valueOrDash(entry.VidName),
			entry.Outcome,
			code,
			entry.Endpoint,
		})
	}
	return renderTable(
		[]string{"Time", "Status", "PType", "UID", "Video", "Outcome", "HTTP", "Endpoint"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func valueOrDash(value *string) string {
	if value == nil {
		return "-"
	}
	if *value == "" {
		return `""`
	}
	return *value
}
