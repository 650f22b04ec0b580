package main

import (
	"context"
	"io"
	"os"

	cmd_commons "github.com/cyverse/irodshttp/cmd/commons"
	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var dataObjectCmd = &cobra.Command{
	Use:     "dataobject [subcommand]",
	Aliases: []string{"do"},
	Short:   "Manage data objects",
}

var dataObjectStatCmd = &cobra.Command{
	Use:   "stat [data object]",
	Short: "Print information of a data object",
	Args:  cobra.ExactArgs(1),
	RunE:  processDataObjectStatCommand,
}

var dataObjectGetCmd = &cobra.Command{
	Use:   "get [data object] [local file]",
	Short: "Download a data object, to stdout if no local file is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  processDataObjectGetCommand,
}

var dataObjectPutCmd = &cobra.Command{
	Use:   "put [local file] [data object]",
	Short: "Upload a local file to a data object",
	Args:  cobra.ExactArgs(2),
	RunE:  processDataObjectPutCommand,
}

var dataObjectRemoveCmd = &cobra.Command{
	Use:   "remove [data object]",
	Short: "Remove a data object",
	Args:  cobra.ExactArgs(1),
	RunE:  processDataObjectRemoveCommand,
}

var dataObjectChecksumCmd = &cobra.Command{
	Use:   "checksum [data object]",
	Short: "Calculate or verify checksum of a data object",
	Args:  cobra.ExactArgs(1),
	RunE:  processDataObjectChecksumCommand,
}

func init() {
	dataObjectStatCmd.Flags().String("ticket", "", "Set ticket used for access")

	dataObjectGetCmd.Flags().Int("offset", 0, "Set offset to read from")
	dataObjectGetCmd.Flags().Int("count", -1, "Set number of bytes to read, -1 reads to the end")
	dataObjectGetCmd.Flags().String("ticket", "", "Set ticket used for access")

	dataObjectPutCmd.Flags().Int("streams", 0, "Set number of parallel write streams, 1 writes in a single request (default from config)")
	dataObjectPutCmd.Flags().Int64("chunk_size", 0, "Set max size of a write request in parallel writes (default from config)")
	dataObjectPutCmd.Flags().String("resource", "", "Set target resource, only valid with --streams 1")
	dataObjectPutCmd.Flags().String("ticket", "", "Set ticket used for access")

	dataObjectRemoveCmd.Flags().BoolP("force", "f", false, "Remove without moving to trash")
	dataObjectRemoveCmd.Flags().Bool("catalog_only", false, "Unregister without deleting replicas")

	dataObjectChecksumCmd.Flags().Bool("verify", false, "Verify checksums instead of calculating")
	dataObjectChecksumCmd.Flags().String("resource", "", "Set resource holding the replica")
	dataObjectChecksumCmd.Flags().Int("replica", -1, "Set replica number")
	dataObjectChecksumCmd.Flags().BoolP("force", "f", false, "Recalculate existing checksums")
	dataObjectChecksumCmd.Flags().BoolP("all", "a", false, "Calculate checksums of all replicas")

	dataObjectCmd.AddCommand(dataObjectStatCmd)
	dataObjectCmd.AddCommand(dataObjectGetCmd)
	dataObjectCmd.AddCommand(dataObjectPutCmd)
	dataObjectCmd.AddCommand(dataObjectRemoveCmd)
	dataObjectCmd.AddCommand(dataObjectChecksumCmd)
}

func processDataObjectStatCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.TicketOptions{
			Ticket: cmd_commons.GetStringFlag(command, "ticket"),
		}

		return cmd_commons.PrintResponseOrError(client.DataObjects.Stat(ctx, lpath, options))
	})
}

func processDataObjectGetCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		logger := log.WithFields(log.Fields{
			"package":  "main",
			"function": "processDataObjectGetCommand",
		})

		lpath := cmd_commons.MakeIRODSPath(config, args[0])

		offset, err := cmd_commons.GetOptionalInt(command, "offset")
		if err != nil {
			return err
		}

		count, err := cmd_commons.GetOptionalInt(command, "count")
		if err != nil {
			return err
		}

		response, err := client.DataObjects.Read(ctx, lpath, &irodshttp.ReadOptions{
			Offset: offset,
			Count:  count,
			Ticket: cmd_commons.GetStringFlag(command, "ticket"),
		})
		if err != nil {
			return err
		}

		var writer io.Writer = os.Stdout
		if len(args) == 2 {
			localFile, err := os.Create(args[1])
			if err != nil {
				return xerrors.Errorf("failed to create local file %q: %w", args[1], err)
			}
			defer localFile.Close()

			writer = localFile
		}

		_, err = writer.Write(response.Body)
		if err != nil {
			return xerrors.Errorf("failed to write %d bytes: %w", len(response.Body), err)
		}

		logger.Debugf("downloaded %q (%d bytes)", lpath, len(response.Body))
		return nil
	})
}

func processDataObjectPutCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		logger := log.WithFields(log.Fields{
			"package":  "main",
			"function": "processDataObjectPutCommand",
		})

		localPath := args[0]
		lpath := cmd_commons.MakeIRODSPath(config, args[1])
		ticket := cmd_commons.GetStringFlag(command, "ticket")

		localFile, err := os.Open(localPath)
		if err != nil {
			return xerrors.Errorf("failed to open local file %q: %w", localPath, err)
		}
		defer localFile.Close()

		st, err := localFile.Stat()
		if err != nil {
			return xerrors.Errorf("failed to stat local file %q: %w", localPath, err)
		}

		uploadOptions := config.GetParallelUploadOptions()
		uploadOptions.Ticket = ticket

		streams, err := cmd_commons.GetOptionalInt(command, "streams")
		if err != nil {
			return err
		}

		if streams != nil {
			uploadOptions.StreamCount = *streams
		}

		chunkSizeFlag := command.Flags().Lookup("chunk_size")
		if chunkSizeFlag != nil && chunkSizeFlag.Changed {
			chunkSize, err := command.Flags().GetInt64("chunk_size")
			if err != nil {
				return xerrors.Errorf("failed to get chunk size: %w", err)
			}

			uploadOptions.ChunkSize = chunkSize
		}

		resource := cmd_commons.GetStringFlag(command, "resource")

		err = checkPutOptions(resource, uploadOptions.StreamCount)
		if err != nil {
			return err
		}

		if uploadOptions.StreamCount > 1 {
			logger.Debugf("uploading %q to %q over %d streams", localPath, lpath, uploadOptions.StreamCount)

			err = client.DataObjects.ParallelUpload(ctx, lpath, localFile, st.Size(), uploadOptions)
			if err != nil {
				return err
			}

			return cmd_commons.PrintResponseOrError(client.DataObjects.Stat(ctx, lpath, &irodshttp.TicketOptions{Ticket: ticket}))
		}

		data, err := io.ReadAll(localFile)
		if err != nil {
			return xerrors.Errorf("failed to read local file %q: %w", localPath, err)
		}

		logger.Debugf("uploading %q to %q in a single request", localPath, lpath)

		return cmd_commons.PrintResponseOrError(client.DataObjects.Write(ctx, data, &irodshttp.WriteOptions{
			LPath:    lpath,
			Resource: resource,
			Truncate: irodshttp.Int(1),
		}))
	})
}

// checkPutOptions rejects flags that parallel writes cannot honor
func checkPutOptions(resource string, streams int) error {
	if streams > 1 && len(resource) > 0 {
		return xerrors.Errorf("resource %q cannot be used with %d streams, parallel writes go to the default resource, use --streams 1", resource, streams)
	}
	return nil
}

func processDataObjectRemoveCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		options := &irodshttp.DataObjectRemoveOptions{
			CatalogOnly: cmd_commons.GetOptionalFlag(command, "catalog_only"),
			NoTrash:     cmd_commons.GetOptionalFlag(command, "force"),
		}

		return cmd_commons.PrintResponseOrError(client.DataObjects.Remove(ctx, lpath, options))
	})
}

func processDataObjectChecksumCommand(command *cobra.Command, args []string) error {
	return cmd_commons.RunWithClient(command, args, func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
		lpath := cmd_commons.MakeIRODSPath(config, args[0])
		resource := cmd_commons.GetStringFlag(command, "resource")

		replicaNumber, err := cmd_commons.GetOptionalInt(command, "replica")
		if err != nil {
			return err
		}

		if cmd_commons.GetBoolFlag(command, "verify") {
			return cmd_commons.PrintResponseOrError(client.DataObjects.VerifyChecksum(ctx, lpath, &irodshttp.VerifyChecksumOptions{
				Resource:      resource,
				ReplicaNumber: replicaNumber,
			}))
		}

		return cmd_commons.PrintResponseOrError(client.DataObjects.CalculateChecksum(ctx, lpath, &irodshttp.CalculateChecksumOptions{
			Resource:      resource,
			ReplicaNumber: replicaNumber,
			Force:         cmd_commons.GetOptionalFlag(command, "force"),
			All:           cmd_commons.GetOptionalFlag(command, "all"),
		}))
	})
}
