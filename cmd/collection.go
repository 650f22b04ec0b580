package main

import (
	"context"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:     "collection [subcommand]",
	Aliases: []string{"coll"},
	Short:   "Manage collections",
}

var collectionStatCmd = &cobra.Command{
	Use:   "stat [collection]",
	Short: "Print information of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  processCollectionStatCommand,
}

var collectionListCmd = &cobra.Command{
	Use:   "list [collection]",
	Short: "List entries of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  processCollectionListCommand,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [collection]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  processCollectionCreateCommand,
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove [collection]",
	Short: "Remove a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  processCollectionRemoveCommand,
}

func init() {
	collectionStatCmd.Flags().String("ticket", "", "Set ticket used for access")

	collectionListCmd.Flags().BoolP("recurse", "r", false, "List recursively")
	collectionListCmd.Flags().String("ticket", "", "Set ticket used for access")

	collectionCreateCmd.Flags().Bool("parents", false, "Create intermediate collections")

	collectionRemoveCmd.Flags().BoolP("recurse", "r", false, "Remove recursively")
	collectionRemoveCmd.Flags().BoolP("force", "f", false, "Remove without moving to trash")

	collectionCmd.AddCommand(collectionStatCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
}

func processCollectionStatCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.TicketOptions{
			Ticket: cmd_commons.GetStringFlag(command, "ticket"),
		}

		return cmd_commons.PrintResponseOrError(client.Collections.Stat(ctx, lpath, options))
	})
}

func processCollectionListCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.CollectionListOptions{
			Recurse: cmd_commons.GetOptionalFlag(command, "recurse"),
			Ticket:  cmd_commons.GetStringFlag(command, "ticket"),
		}

		return cmd_commons.PrintResponseOrError(client.Collections.List(ctx, lpath, options))
	})
}

func processCollectionCreateCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.CollectionCreateOptions{
			CreateIntermediates: cmd_commons.GetOptionalFlag(command, "parents"),
		}

		return cmd_commons.PrintResponseOrError(client.Collections.Create(ctx, lpath, options))
	})
}

func processCollectionRemoveCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.CollectionRemoveOptions{
			Recurse: cmd_commons.GetOptionalFlag(command, "recurse"),
			NoTrash: cmd_commons.GetOptionalFlag(command, "force"),
		}

		return cmd_commons.PrintResponseOrError(client.Collections.Remove(ctx, lpath, options))
	})
}
