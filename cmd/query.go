package main

import (
	"context"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [subcommand]",
	Short: "Run catalog queries",
}

var queryGenQueryCmd = &cobra.Command{
	Use:   "genquery [query]",
	Short: "Run a GenQuery",
	Long: `Run a GenQuery, e.g.,
  irodshttp query genquery "select COLL_NAME where COLL_NAME like '/tempZone/home/%'"`,
	Args: cobra.ExactArgs(1),
	RunE: processQueryGenQueryCommand,
}

func init() {
	queryGenQueryCmd.Flags().String("parser", string(irodshttp.QueryParserGenQuery1), "Set query parser (genquery1 or genquery2)")
	queryGenQueryCmd.Flags().Int("offset", 0, "Set number of rows to skip")
	queryGenQueryCmd.Flags().Int("count", -1, "Set max number of rows, -1 uses the server default")
	queryGenQueryCmd.Flags().Bool("case_sensitive", true, "Match case sensitively (genquery1)")
	queryGenQueryCmd.Flags().Bool("distinct", true, "Return distinct rows (genquery1)")
	queryGenQueryCmd.Flags().Bool("sql_only", false, "Print generated SQL without running it (genquery2)")
	queryGenQueryCmd.Flags().String("query_zone", "", "Set zone to query")

	queryCmd.AddCommand(queryGenQueryCmd)
}

func processQueryGenQueryCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		offset, err := cmd_commons.GetOptionalInt(command, "offset")
		if err != nil {
			return err
		}

		count, err := cmd_commons.GetOptionalInt(command, "count")
		if err != nil {
			return err
		}

		options := &irodshttp.GenQueryOptions{
			Offset:        offset,
			Count:         count,
			CaseSensitive: cmd_commons.GetOptionalFlag(command, "case_sensitive"),
			Distinct:      cmd_commons.GetOptionalFlag(command, "distinct"),
			Parser:        irodshttp.QueryParser(cmd_commons.GetStringFlag(command, "parser")),
			SQLOnly:       cmd_commons.GetOptionalFlag(command, "sql_only"),
			Zone:          cmd_commons.GetStringFlag(command, "query_zone"),
		}

		return cmd_commons.PrintResponseOrError(client.Queries.ExecuteGenQuery(ctx, args[0], options))
	})
}
