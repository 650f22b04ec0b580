package commons

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	irodsclient_config "github.com/cyverse/go-irodsclient/config"
	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/rs/xid"
	"golang.org/x/xerrors"
	yaml "gopkg.in/yaml.v2"
)

// GetDefaultInstanceID returns default instance id
func GetDefaultInstanceID() string {
	return xid.New().String()
}

// GetDefaultDataRootDirPath returns default data root path
func GetDefaultDataRootDirPath() string {
	dirPath, err := os.Getwd()
	if err != nil {
		return "/var/lib/irodshttp"
	}
	return dirPath
}

// GetDefaultIRODSConfigPath returns default config path
func GetDefaultIRODSConfigPath() string {
	irodsConfigPath, err := ExpandHomeDir("~/.irods")
	if err != nil {
		return ""
	}

	return irodsConfigPath
}

// Config holds the parameters list which can be configured
type Config struct {
	Scheme   string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	URLBase  string `json:"url_base,omitempty" yaml:"url_base,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	ZoneName string `json:"zone_name,omitempty" yaml:"zone_name,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`

	RequestTimeout     Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	RetryMax           int      `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`

	ParallelWriteStreams   int   `json:"parallel_write_streams,omitempty" yaml:"parallel_write_streams,omitempty"`
	ParallelWriteChunkSize int64 `json:"parallel_write_chunk_size,omitempty" yaml:"parallel_write_chunk_size,omitempty"`

	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`

	DataRootPath string `json:"data_root_path,omitempty" yaml:"data_root_path,omitempty"`
	LogPath      string `json:"log_path,omitempty" yaml:"log_path,omitempty"`

	Profile bool `json:"profile,omitempty" yaml:"profile,omitempty"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Debug    bool   `json:"debug,omitempty" yaml:"debug,omitempty"`

	InstanceID string `json:"instanceid,omitempty" yaml:"instanceid,omitempty"`
}

// NewDefaultConfig returns a default config
func NewDefaultConfig() *Config {
	return &Config{
		Scheme:   SchemeDefault,
		Host:     HostDefault,
		Port:     PortDefault,
		URLBase:  URLBaseDefault,
		Username: "",
		Password: "",
		ZoneName: "",
		Token:    "",

		RequestTimeout:     Duration(RequestTimeoutDefault),
		RetryMax:           RetryMaxDefault,
		InsecureSkipVerify: false,

		ParallelWriteStreams:   ParallelWriteStreamsDefault,
		ParallelWriteChunkSize: ParallelWriteChunkSizeDefault,

		MetricsFile: "",

		DataRootPath: GetDefaultDataRootDirPath(),
		LogPath:      "", // use default

		Profile: false,

		LogLevel: "",
		Debug:    false,

		InstanceID: GetDefaultInstanceID(),
	}
}

// NewConfigFromFile creates Config from file, a directory is read as an iCommands environment dir
func NewConfigFromFile(config *Config, filePath string) (*Config, error) {
	st, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("file %q does not exist: %w", filePath, err)
		}

		return nil, xerrors.Errorf("failed to stat file %q: %w", filePath, err)
	}

	if st.IsDir() {
		return NewConfigFromICommandsEnvDir(config, filePath)
	}

	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		return NewConfigFromYAMLFile(config, filePath)
	}

	return NewConfigFromJSONFile(config, filePath)
}

// NewConfigFromYAMLFile creates Config from YAML file
func NewConfigFromYAMLFile(config *Config, yamlPath string) (*Config, error) {
	yamlBytes, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read YAML file %q: %w", yamlPath, err)
	}

	cfg, err := NewConfigFromYAML(config, yamlBytes)
	if err != nil {
		return nil, xerrors.Errorf("failed to load YAML file %q: %w", yamlPath, err)
	}
	return cfg, nil
}

// NewConfigFromJSONFile creates Config from JSON file
func NewConfigFromJSONFile(config *Config, jsonPath string) (*Config, error) {
	jsonBytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read JSON file %q: %w", jsonPath, err)
	}

	cfg, err := NewConfigFromJSON(config, jsonBytes)
	if err != nil {
		return nil, xerrors.Errorf("failed to load JSON file %q: %w", jsonPath, err)
	}
	return cfg, nil
}

// NewConfigFromYAML creates Config from YAML, values not in YAML are taken from the given config
func NewConfigFromYAML(config *Config, yamlBytes []byte) (*Config, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	err := yaml.Unmarshal(yamlBytes, &cfg)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal YAML to config: %w", err)
	}

	return &cfg, nil
}

// NewConfigFromJSON creates Config from JSON, values not in JSON are taken from the given config
func NewConfigFromJSON(config *Config, jsonBytes []byte) (*Config, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	err := json.Unmarshal(jsonBytes, &cfg)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal JSON to config: %w", err)
	}

	return &cfg, nil
}

// NewConfigFromICommandsEnvDir creates Config from icommands environment dir (e.g., ~/.irods).
// Host, user, zone and password are taken from the environment.
// The port of the environment is the iRODS port, so the HTTP API port is kept.
func NewConfigFromICommandsEnvDir(config *Config, dirPath string) (*Config, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	// load icommands environment
	iCommandsEnvMgr, err := irodsclient_config.NewICommandsEnvironmentManager()
	if err != nil {
		return nil, xerrors.Errorf("failed to create iCommands environment manager: %w", err)
	}

	err = iCommandsEnvMgr.SetEnvironmentDirPath(dirPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to set iCommands environment dir %q: %w", dirPath, err)
	}

	err = iCommandsEnvMgr.Load()
	if err != nil {
		return nil, xerrors.Errorf("failed to load iCommands environment dir %q: %w", dirPath, err)
	}

	env := iCommandsEnvMgr.Environment
	if env == nil {
		return nil, xerrors.Errorf("no iCommands environment found in %q", dirPath)
	}

	if len(env.Host) > 0 {
		cfg.Host = env.Host
	}

	if len(env.Username) > 0 {
		cfg.Username = env.Username
	}

	if len(env.ZoneName) > 0 {
		cfg.ZoneName = env.ZoneName
	}

	if len(env.Password) > 0 {
		cfg.Password = env.Password
	}

	return &cfg, nil
}

// GetAPIURL returns the URL base of the iRODS HTTP API (e.g., http://localhost:9001/irods-http-api/0.3.0)
func (config *Config) GetAPIURL() string {
	scheme := config.Scheme
	if len(scheme) == 0 {
		scheme = SchemeDefault
	}

	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   config.URLBase,
	}
	return u.String()
}

// GetClientOptions returns options for creating an iRODS HTTP API client
func (config *Config) GetClientOptions() *irodshttp.ClientOptions {
	options := irodshttp.NewDefaultClientOptions()
	options.Timeout = time.Duration(config.RequestTimeout)
	options.RetryMax = config.RetryMax
	options.InsecureSkipVerify = config.InsecureSkipVerify
	return options
}

// GetParallelUploadOptions returns options for parallel uploads
func (config *Config) GetParallelUploadOptions() *irodshttp.ParallelUploadOptions {
	options := irodshttp.NewDefaultParallelUploadOptions()
	options.StreamCount = config.ParallelWriteStreams
	options.ChunkSize = config.ParallelWriteChunkSize
	return options
}

// GetHomePath returns the home collection of the user
func (config *Config) GetHomePath() string {
	return fmt.Sprintf("/%s/home/%s", config.ZoneName, config.Username)
}

// GetLogFilePath returns log file path
func (config *Config) GetLogFilePath() string {
	if len(config.LogPath) > 0 {
		return config.LogPath
	}

	// default
	logFilename := fmt.Sprintf("%s.log", config.InstanceID)
	return path.Join(config.DataRootPath, logFilename)
}

// GetProfileDirPath returns the dir path where profiling results are written
func (config *Config) GetProfileDirPath() string {
	return path.Join(config.DataRootPath, fmt.Sprintf("%s.profile", config.InstanceID))
}

// MakeLogDir makes a log dir required
func (config *Config) MakeLogDir() error {
	logFilePath := config.GetLogFilePath()
	if logFilePath == "-" {
		// skip
		return nil
	}

	logDirPath := filepath.Dir(logFilePath)
	err := config.makeDir(logDirPath)
	if err != nil {
		return err
	}

	return nil
}

// makeDir makes a dir for use
func (config *Config) makeDir(path string) error {
	if len(path) == 0 {
		return xerrors.Errorf("failed to create a dir with empty path")
	}

	dirInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// make
			mkdirErr := os.MkdirAll(path, 0775)
			if mkdirErr != nil {
				return xerrors.Errorf("making a dir %q error: %w", path, mkdirErr)
			}

			return nil
		}

		return xerrors.Errorf("stating a dir %q error: %w", path, err)
	}

	if !dirInfo.IsDir() {
		return xerrors.Errorf("a file %q exist, not a directory", path)
	}

	dirPerm := dirInfo.Mode().Perm()
	if dirPerm&0200 != 0200 {
		return xerrors.Errorf("a dir %q exist, but does not have the write permission", path)
	}

	return nil
}

// Validate validates configuration
func (config *Config) Validate() error {
	if config.Scheme != "http" && config.Scheme != "https" {
		return xerrors.Errorf("scheme must be http or https, got %q", config.Scheme)
	}

	if len(config.Host) == 0 {
		return xerrors.Errorf("hostname must be given")
	}

	if config.Port <= 0 {
		return xerrors.Errorf("port must be given")
	}

	if config.RequestTimeout < 0 {
		return xerrors.Errorf("request timeout must be equal or greater than 0")
	}

	if config.RetryMax < 1 {
		return xerrors.Errorf("retry max must be equal or greater than 1")
	}

	if config.ParallelWriteStreams < 1 {
		return xerrors.Errorf("parallel write streams must be equal or greater than 1")
	}

	if config.ParallelWriteChunkSize < 1 {
		return xerrors.Errorf("parallel write chunk size must be equal or greater than 1")
	}

	if len(config.DataRootPath) == 0 {
		return xerrors.Errorf("data root dir must be given")
	}

	err := ValidateConfigSchema(config)
	if err != nil {
		return err
	}

	return nil
}

// FromAPIURL reads info from inputURL and updates config
func (config *Config) FromAPIURL(inputURL string) error {
	// the inputURL contains http(s)://USER:PASSWORD@HOST:PORT/URL_BASE
	access, err := ParseAPIURL(inputURL)
	if err != nil {
		return err
	}

	config.Scheme = access.Scheme
	config.Host = access.Host
	config.Port = access.Port

	if len(access.User) > 0 {
		config.Username = access.User
	}

	if len(access.Password) > 0 {
		config.Password = access.Password
	}

	if len(access.URLBase) > 0 {
		config.URLBase = access.URLBase
	}

	return nil
}
