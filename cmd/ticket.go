package main

import (
	"context"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/spf13/cobra"
)

var ticketCmd = &cobra.Command{
	Use:   "ticket [subcommand]",
	Short: "Manage tickets",
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create [collection or data object]",
	Short: "Create a ticket and print its name",
	Args:  cobra.ExactArgs(1),
	RunE:  processTicketCreateCommand,
}

var ticketRemoveCmd = &cobra.Command{
	Use:   "remove [ticket name]",
	Short: "Remove a ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  processTicketRemoveCommand,
}

func init() {
	ticketCreateCmd.Flags().String("type", string(irodshttp.TicketTypeRead), "Set ticket type (read or write)")
	ticketCreateCmd.Flags().Int("use_count", -1, "Set max number of uses")
	ticketCreateCmd.Flags().Int("write_data_object_count", -1, "Set max number of data object writes")
	ticketCreateCmd.Flags().Int("write_byte_count", -1, "Set max number of bytes written")
	ticketCreateCmd.Flags().Int("seconds_until_expiration", -1, "Set seconds until the ticket expires")
	ticketCreateCmd.Flags().String("users", "", "Set comma-separated users allowed to use the ticket")
	ticketCreateCmd.Flags().String("groups", "", "Set comma-separated groups allowed to use the ticket")
	ticketCreateCmd.Flags().String("hosts", "", "Set comma-separated hosts allowed to use the ticket")

	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketRemoveCmd)
}

func processTicketCreateCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])

		options := &irodshttp.TicketCreateOptions{
			Type:   irodshttp.TicketType(cmd_commons.GetStringFlag(command, "type")),
			Users:  cmd_commons.GetStringFlag(command, "users"),
			Groups: cmd_commons.GetStringFlag(command, "groups"),
			Hosts:  cmd_commons.GetStringFlag(command, "hosts"),
		}

		counts := []struct {
			name   string
			target **int
		}{
			{"use_count", &options.UseCount},
			{"write_data_object_count", &options.WriteDataObjectCount},
			{"write_byte_count", &options.WriteByteCount},
			{"seconds_until_expiration", &options.SecondsUntilExpiration},
		}

		for _, count := range counts {
			value, err := cmd_commons.GetOptionalInt(command, count.name)
			if err != nil {
				return err
			}

			*count.target = value
		}

		return cmd_commons.PrintResponseOrError(client.Tickets.Create(ctx, lpath, options))
	})
}

func processTicketRemoveCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		return cmd_commons.PrintResponseOrError(client.Tickets.Remove(ctx, args[0]))
	})
}
