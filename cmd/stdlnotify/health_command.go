package main

import (
	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health <endpoint>",
		Short: "Print the stdl server health response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			reqCtx, _ := ctx.invocation(cmd, args[0])
			resp, err := ctx.client(logger).Health(reqCtx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, resp.Value)
		},
	}
}
