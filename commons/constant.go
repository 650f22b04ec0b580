package commons

import "time"

const (
	ClientProgramName string = "irodshttp"

	IRODSEnvironmentFileEnvKey string = "IRODS_ENVIRONMENT_FILE"

	SchemeDefault                 string        = "http"
	HostDefault                   string        = "localhost"
	PortDefault                   int           = 9001
	URLBaseDefault                string        = "/irods-http-api/0.3.0"
	RequestTimeoutDefault         time.Duration = 0 // no timeout
	RetryMaxDefault               int           = 1
	ParallelWriteStreamsDefault   int           = 3
	ParallelWriteChunkSizeDefault int64         = 4 * 1024 * 1024 // 4MB
)
