package commons

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/cyverse/irodshttp/commons"
	"golang.org/x/term"
	"golang.org/x/xerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// SetCommonFlags sets flags shared by all subcommands
func SetCommonFlags(command *cobra.Command) {
	flags := command.PersistentFlags()

	flags.BoolP("version", "v", false, "Print version")
	flags.BoolP("help", "h", false, "Print help")
	flags.BoolP("debug", "d", false, "Enable debug mode")
	flags.String("log_level", "", "Set log level (default is INFO)")
	flags.String("log_path", "", "Set log file path, '-' logs to stderr only")
	flags.Bool("profile", false, "Enable CPU profiling")

	flags.StringP("config", "c", "", "Set config file (yaml or json), iCommands environment dir, or '-' for yaml from stdin")
	flags.String("instance_id", "", "Set instance ID")
	flags.String("data_root", "", "Set data root dir path")

	flags.String("api_url", "", "Set API URL (http[s]://user:password@host:port/irods-http-api/0.3.0)")
	flags.String("scheme", "", "Set API scheme (http or https)")
	flags.String("host", "", "Set API host")
	flags.Int("port", 0, "Set API port")
	flags.String("url_base", "", "Set API URL base")
	flags.StringP("user", "u", "", "Set iRODS user")
	flags.StringP("password", "p", "", "Set iRODS password")
	flags.String("zone", "", "Set iRODS zone")
	flags.String("token", "", "Set bearer token, skips authentication")

	flags.Duration("timeout", 0, "Set request timeout (0 for no timeout)")
	flags.Int("retry_max", 0, "Set max attempts for requests failing at network level")
	flags.Bool("insecure", false, "Skip TLS certificate verification")
	flags.String("metrics_file", "", "Write request metrics to the file in Prometheus text format")
}

// ProcessCommonFlags builds a config from the config file and flags.
// It returns false when the command must stop without an error (e.g., help or version).
func ProcessCommonFlags(command *cobra.Command, args []string) (*commons.Config, io.WriteCloser, bool, error) {
	logger := log.WithFields(log.Fields{
		"package":  "commons",
		"function": "ProcessCommonFlags",
	})

	logLevel := ""
	logLevelFlag := command.Flags().Lookup("log_level")
	if logLevelFlag != nil {
		logLevel = logLevelFlag.Value.String()
	}

	debug := false
	debugFlag := command.Flags().Lookup("debug")
	if debugFlag != nil {
		debug, _ = strconv.ParseBool(debugFlag.Value.String())
	}

	profile := false
	profileFlag := command.Flags().Lookup("profile")
	if profileFlag != nil {
		profile, _ = strconv.ParseBool(profileFlag.Value.String())
	}

	if len(logLevel) > 0 {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			lvl = log.InfoLevel
		}

		log.SetLevel(lvl)
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	helpFlag := command.Flags().Lookup("help")
	if helpFlag != nil {
		help, _ := strconv.ParseBool(helpFlag.Value.String())
		if help {
			PrintHelp(command)
			return nil, nil, false, nil // stop here
		}
	}

	versionFlag := command.Flags().Lookup("version")
	if versionFlag != nil {
		version, _ := strconv.ParseBool(versionFlag.Value.String())
		if version {
			PrintVersion(command)
			return nil, nil, false, nil // stop here
		}
	}

	config, stdinClosed, err := readConfig(command)
	if err != nil {
		logger.Errorf("%+v", err)
		return nil, nil, false, err // stop here
	}

	if len(config.LogLevel) > 0 && len(logLevel) == 0 {
		lvl, err := log.ParseLevel(config.LogLevel)
		if err != nil {
			lvl = log.InfoLevel
		}

		log.SetLevel(lvl)
	}

	if debug {
		config.Debug = true
	}

	if config.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if profile {
		config.Profile = true
	}

	instanceIDFlag := command.Flags().Lookup("instance_id")
	if instanceIDFlag != nil {
		instanceID := instanceIDFlag.Value.String()
		if len(instanceID) > 0 {
			config.InstanceID = instanceID
		}
	}

	logPathFlag := command.Flags().Lookup("log_path")
	if logPathFlag != nil {
		logPath := logPathFlag.Value.String()
		if len(logPath) > 0 {
			config.LogPath = logPath
		}
	}

	dataRootFlag := command.Flags().Lookup("data_root")
	if dataRootFlag != nil {
		dataRoot := dataRootFlag.Value.String()
		if len(dataRoot) > 0 {
			config.DataRootPath = dataRoot
		}
	}

	var logWriter io.WriteCloser
	if len(config.LogPath) == 0 || config.LogPath == "-" {
		// a cli tool logs to stderr unless a log file is requested
		log.SetOutput(os.Stderr)
	} else {
		err = config.MakeLogDir()
		if err != nil {
			logger.Errorf("%+v", err)
			return nil, nil, false, err // stop here
		}

		logFilePath := config.GetLogFilePath()
		logWriter = getLogWriter(logFilePath)

		// use multi output - to output to file and stderr
		mw := io.MultiWriter(os.Stderr, logWriter)
		log.SetOutput(mw)

		logger.Debugf("Logging to %q", logFilePath)
	}

	err = updateConfigFromFlags(command, config)
	if err != nil {
		logger.Errorf("%+v", err)
		return nil, logWriter, false, err // stop here
	}

	if !stdinClosed {
		err = inputMissingParams(config)
		if err != nil {
			logger.Errorf("%+v", err)
			return nil, logWriter, false, err // stop here
		}
	}

	err = config.Validate()
	if err != nil {
		logger.Errorf("%+v", err)
		return nil, logWriter, false, err // stop here
	}

	return config, logWriter, true, nil // continue
}

// readConfig reads config from the config flag, the iCommands environment given by env, or defaults
func readConfig(command *cobra.Command) (*commons.Config, bool, error) {
	configPath := ""
	configFlag := command.Flags().Lookup("config")
	if configFlag != nil {
		configPath = configFlag.Value.String()
	}

	if configPath == "-" {
		// read from stdin
		stdinReader := bufio.NewReader(os.Stdin)
		yamlBytes, err := io.ReadAll(stdinReader)
		if err != nil {
			return nil, false, xerrors.Errorf("failed to read config from stdin: %w", err)
		}

		config, err := commons.NewConfigFromYAML(commons.NewDefaultConfig(), yamlBytes)
		if err != nil {
			return nil, false, err
		}

		return config, true, nil
	}

	if len(configPath) > 0 {
		configPath, err := commons.ExpandHomeDir(configPath)
		if err != nil {
			return nil, false, err
		}

		config, err := commons.NewConfigFromFile(commons.NewDefaultConfig(), configPath)
		if err != nil {
			return nil, false, err
		}

		return config, false, nil
	}

	envFilePath := os.Getenv(commons.IRODSEnvironmentFileEnvKey)
	if len(envFilePath) > 0 {
		config, err := commons.NewConfigFromICommandsEnvDir(commons.NewDefaultConfig(), filepath.Dir(envFilePath))
		if err != nil {
			return nil, false, err
		}

		return config, false, nil
	}

	return commons.NewDefaultConfig(), false, nil
}

func updateConfigFromFlags(command *cobra.Command, config *commons.Config) error {
	apiURLFlag := command.Flags().Lookup("api_url")
	if apiURLFlag != nil {
		apiURL := apiURLFlag.Value.String()
		if len(apiURL) > 0 {
			err := config.FromAPIURL(apiURL)
			if err != nil {
				return err
			}
		}
	}

	stringFlags := []struct {
		name   string
		target *string
	}{
		{"scheme", &config.Scheme},
		{"host", &config.Host},
		{"url_base", &config.URLBase},
		{"user", &config.Username},
		{"password", &config.Password},
		{"zone", &config.ZoneName},
		{"token", &config.Token},
		{"metrics_file", &config.MetricsFile},
	}

	for _, stringFlag := range stringFlags {
		flag := command.Flags().Lookup(stringFlag.name)
		if flag != nil {
			value := flag.Value.String()
			if len(value) > 0 {
				*stringFlag.target = value
			}
		}
	}

	portFlag := command.Flags().Lookup("port")
	if portFlag != nil {
		port, err := strconv.ParseInt(portFlag.Value.String(), 10, 32)
		if err != nil {
			return xerrors.Errorf("failed to convert input %q to int: %w", portFlag.Value.String(), err)
		}

		if port > 0 {
			config.Port = int(port)
		}
	}

	retryMaxFlag := command.Flags().Lookup("retry_max")
	if retryMaxFlag != nil {
		retryMax, err := strconv.ParseInt(retryMaxFlag.Value.String(), 10, 32)
		if err != nil {
			return xerrors.Errorf("failed to convert input %q to int: %w", retryMaxFlag.Value.String(), err)
		}

		if retryMax > 0 {
			config.RetryMax = int(retryMax)
		}
	}

	timeoutFlag := command.Flags().Lookup("timeout")
	if timeoutFlag != nil && timeoutFlag.Changed {
		timeout, err := time.ParseDuration(timeoutFlag.Value.String())
		if err != nil {
			return xerrors.Errorf("failed to convert input %q to duration: %w", timeoutFlag.Value.String(), err)
		}

		config.RequestTimeout = commons.Duration(timeout)
	}

	insecureFlag := command.Flags().Lookup("insecure")
	if insecureFlag != nil {
		insecure, _ := strconv.ParseBool(insecureFlag.Value.String())
		if insecure {
			config.InsecureSkipVerify = true
		}
	}

	return nil
}

// PrintVersion prints version info in JSON
func PrintVersion(command *cobra.Command) error {
	info, err := commons.GetVersionJSON()
	if err != nil {
		return err
	}

	fmt.Println(info)
	return nil
}

// PrintHelp prints usage of the command
func PrintHelp(command *cobra.Command) error {
	return command.Usage()
}

func getLogWriter(logPath string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // 50MB
		MaxBackups: 5,
		MaxAge:     30, // 30 days
		Compress:   false,
	}
}

// inputMissingParams gets user inputs for parameters missing, such as username and password
func inputMissingParams(config *commons.Config) error {
	if len(config.Token) > 0 {
		// authentication is not needed
		return nil
	}

	if len(config.Username) == 0 {
		fmt.Fprint(os.Stderr, "Username: ")
		fmt.Scanln(&config.Username)
	}

	if len(config.Password) == 0 {
		fmt.Fprint(os.Stderr, "Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprint(os.Stderr, "\n")
		if err != nil {
			return xerrors.Errorf("failed to read password: %w", err)
		}

		config.Password = string(bytePassword)
	}

	return nil
}
