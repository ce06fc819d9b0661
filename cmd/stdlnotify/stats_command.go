package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stdlnotify/internal/stdl"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats <endpoint>",
		Short: "Show the stdl server listener state and pending done messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			reqCtx, _ := ctx.invocation(cmd, args[0])
			stats, err := ctx.client(logger).Stats(reqCtx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput || !isTerminal(out) {
				return writeJSON(cmd, stats)
			}
			fmt.Fprintln(out, renderStats(stats, true))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON even on a terminal")
	return cmd
}

func renderStats(stats *stdl.Stats, colorize bool) string {
	listening := statusWarn
	if stats.Listening {
		listening = statusOK
	}
	out := renderStatusLine("Listening", listening, yesNo(stats.Listening), colorize) + "\n"
	out += renderStatusLine("Queue size", statusInfo, strconv.Itoa(stats.QueueSize), colorize)
	if len(stats.QueueItems) == 0 {
		return out + "\nQueue is empty"
	}

	rows := make([][]string, 0, len(stats.QueueItems))
	for i, item := range stats.QueueItems {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Status,
			item.Platform,
			item.UID,
			item.VideoName,
			item.FSName,
		})
	}
	table := renderTable(
		[]string{"#", "Status", "Platform", "UID", "Video", "FS"},
		rows,
		[]columnAlignment{alignRight},
	)
	return out + "\n" + table
}
