package main

import (
	"os"
	"strconv"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   commons.ClientProgramName + " [subcommand]",
	Short: "Access iRODS through the iRODS HTTP API",
	Long: `Access iRODS through the iRODS HTTP API.
Every subcommand prints the response envelope ({"status_code": ..., "data": ...}) in JSON.`,
	RunE:          processCommand,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		FullTimestamp:   true,
	})

	logger := log.WithFields(log.Fields{
		"package":  "main",
		"function": "main",
	})

	// attach common flags
	cmd_commons.SetCommonFlags(rootCmd)

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(dataObjectCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(ticketCmd)

	err := Execute()
	if err != nil {
		logger.Errorf("%+v", err)
		os.Exit(1)
	}
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func processCommand(command *cobra.Command, args []string) error {
	versionFlag := command.Flags().Lookup("version")
	if versionFlag != nil {
		version, _ := strconv.ParseBool(versionFlag.Value.String())
		if version {
			return cmd_commons.PrintVersion(command)
		}
	}

	// no subcommand is given
	return cmd_commons.PrintHelp(command)
}
