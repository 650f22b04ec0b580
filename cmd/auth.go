package main

import (
	"context"
	"fmt"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate and print a bearer token",
	Long: `Authenticate with the iRODS username and password and print a bearer token.
The token can be given to other subcommands with --token.`,
	Args: cobra.NoArgs,
	RunE: processAuthCommand,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print server information",
	Args:  cobra.NoArgs,
	RunE:  processInfoCommand,
}

func processAuthCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		fmt.Println(client.GetToken())
		return nil
	})
}

func processInfoCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		return cmd_commons.PrintResponseOrError(client.Info(ctx))
	})
}
