package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/cyverse/irodshttp/commons"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/cyverse/irodshttp/pkg/metrics"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// ClientFunc runs a subcommand with an authenticated client
type ClientFunc func(ctx context.Context, client *irodshttp.Client, config *commons.Config) error

// RunWithClient processes common flags, creates an authenticated client and calls clientFunc.
// Request metrics are written to the metrics file after clientFunc returns.
func RunWithClient(command *cobra.Command, args []string, clientFunc ClientFunc) error {
	logger := log.WithFields(log.Fields{
		"package":  "commons",
		"function": "RunWithClient",
	})

	config, logWriter, cont, err := ProcessCommonFlags(command, args)
	if err != nil {
		return xerrors.Errorf("failed to process common flags: %w", err)
	}

	if logWriter != nil {
		defer logWriter.Close()
	}

	if !cont {
		return nil
	}

	if config.Profile {
		profileDirPath := config.GetProfileDirPath()
		logger.Infof("Writing CPU profile to %q", profileDirPath)
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDirPath), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	options := config.GetClientOptions()

	var collector *metrics.Collector
	if len(config.MetricsFile) > 0 {
		collector, err = metrics.NewCollector(metrics.NamespaceDefault)
		if err != nil {
			return xerrors.Errorf("failed to create metrics collector: %w", err)
		}

		options.Observer = collector
	}

	client, err := irodshttp.NewClient(config.GetAPIURL(), options)
	if err != nil {
		return xerrors.Errorf("failed to create client: %w", err)
	}

	ctx := command.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = authenticate(ctx, client, config)
	if err == nil {
		err = clientFunc(ctx, client, config)
	}

	if collector != nil {
		metricsErr := collector.WriteToTextfile(config.MetricsFile)
		if metricsErr != nil {
			logger.Errorf("%+v", metricsErr)
		}
	}

	return err
}

func authenticate(ctx context.Context, client *irodshttp.Client, config *commons.Config) error {
	if len(config.Token) > 0 {
		client.SetToken(config.Token)
		return nil
	}

	_, err := client.Authenticate(ctx, config.Username, config.Password)
	if err != nil {
		return xerrors.Errorf("failed to authenticate user %q: %w", config.Username, err)
	}

	return nil
}

// PrintResponse prints the response envelope in JSON
func PrintResponse(response *irodshttp.Response) error {
	return WriteResponse(os.Stdout, response)
}

// WriteResponse writes the response envelope in JSON
func WriteResponse(w io.Writer, response *irodshttp.Response) error {
	if response == nil {
		return nil
	}

	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to marshal response to JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))
	if err != nil {
		return xerrors.Errorf("failed to write response: %w", err)
	}
	return nil
}

// PrintResponseOrError prints the response envelope, also when the operation failed, and returns err
func PrintResponseOrError(response *irodshttp.Response, err error) error {
	printErr := PrintResponse(response)
	if err != nil {
		return err
	}
	return printErr
}

// MakeIRODSPath makes an absolute logical path, relative paths are resolved against the home collection
func MakeIRODSPath(config *commons.Config, irodsPath string) string {
	if strings.HasPrefix(irodsPath, "/") {
		return path.Clean(irodsPath)
	}

	if len(config.ZoneName) == 0 || len(config.Username) == 0 {
		return irodsPath
	}

	return path.Join(config.GetHomePath(), irodsPath)
}
