package irodshttp

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cyverse/irodshttp/pkg/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	ParallelUploadStreamCountDefault int   = 3
	ParallelUploadChunkSizeDefault   int64 = 4 * 1024 * 1024 // 4MB
)

// ParallelUploadOptions holds optional parameters for ParallelUpload
type ParallelUploadOptions struct {
	// StreamCount is the maximum number of streams, small content uses fewer
	StreamCount int
	// ChunkSize is the maximum size of a single write request
	ChunkSize int64
	Truncate  *int
	Ticket    string
}

// NewDefaultParallelUploadOptions returns default options
func NewDefaultParallelUploadOptions() *ParallelUploadOptions {
	return &ParallelUploadOptions{
		StreamCount: ParallelUploadStreamCountDefault,
		ChunkSize:   ParallelUploadChunkSizeDefault,
		Truncate:    Int(1),
		Ticket:      "",
	}
}

// parallelUploadTask collects errors of concurrent stream writers
type parallelUploadTask struct {
	waitGroup sync.WaitGroup

	pendingErrors []error
	mutex         sync.Mutex
}

func (task *parallelUploadTask) addAsyncError(err error) {
	task.mutex.Lock()
	defer task.mutex.Unlock()

	task.pendingErrors = append(task.pendingErrors, err)
}

// getPendingError returns the first error
func (task *parallelUploadTask) getPendingError() error {
	task.mutex.Lock()
	defer task.mutex.Unlock()

	if len(task.pendingErrors) > 0 {
		return task.pendingErrors[0]
	}
	return nil
}

// ParallelUploadBytes uploads data to lpath over parallel write streams
func (client *DataObjectsClient) ParallelUploadBytes(ctx context.Context, lpath string, data []byte, options *ParallelUploadOptions) error {
	return client.ParallelUpload(ctx, lpath, bytes.NewReader(data), int64(len(data)), options)
}

// ParallelUpload uploads size bytes read from data to lpath over parallel write streams.
// The content is split into disjoint ranges, one per stream, written concurrently.
// The parallel write is always shut down once it was opened, the first write error is returned.
func (client *DataObjectsClient) ParallelUpload(ctx context.Context, lpath string, data io.ReaderAt, size int64, options *ParallelUploadOptions) error {
	logger := log.WithFields(log.Fields{
		"package":  "irodshttp",
		"struct":   "DataObjectsClient",
		"function": "ParallelUpload",
		"lpath":    lpath,
	})

	if options == nil {
		options = NewDefaultParallelUploadOptions()
	}

	if size < 0 {
		return newValidationError(dataObjectParallelWriteInitSpec, ErrInvalidValue, "size must be >= 0, got %d", size)
	}

	chunkSize := options.ChunkSize
	if chunkSize <= 0 {
		chunkSize = ParallelUploadChunkSizeDefault
	}

	blockHelper := utils.NewFileBlockHelperForStreams(size, options.StreamCount)
	ranges := blockHelper.GetBlockRanges()
	if len(ranges) == 0 {
		// empty content still needs a stream to create the data object
		ranges = []utils.ByteRange{{ID: 0, Offset: 0, Length: 0}}
	}

	truncate := options.Truncate
	if truncate == nil {
		truncate = Int(1)
	}

	initResponse, err := client.ParallelWriteInit(ctx, lpath, len(ranges), &ParallelWriteInitOptions{
		Truncate: truncate,
		Ticket:   options.Ticket,
	})
	if err != nil {
		return xerrors.Errorf("failed to init parallel write for %q: %w", lpath, err)
	}

	handle := initResponse.Get("parallel_write_handle").String()
	if len(handle) == 0 {
		return newTransportError(dataObjectParallelWriteInitSpec, initResponse.StatusCode, "no parallel write handle in response", nil)
	}

	logger.Debugf("uploading %d bytes over %d streams (handle %q)", size, len(ranges), handle)

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := &parallelUploadTask{}
	for _, byteRange := range ranges {
		task.waitGroup.Add(1)

		go func(byteRange utils.ByteRange) {
			defer task.waitGroup.Done()

			logger.Debugf("writing %s", byteRange.ToString())

			for _, chunk := range utils.SplitByteRange(byteRange, chunkSize) {
				if writeCtx.Err() != nil {
					return
				}

				buffer := make([]byte, chunk.Length)
				readLen, readErr := data.ReadAt(buffer, chunk.Offset)
				if readErr != nil && !(readErr == io.EOF && int64(readLen) == chunk.Length) {
					task.addAsyncError(xerrors.Errorf("failed to read block %d of source at offset %d: %w", blockHelper.GetBlockIDForOffset(chunk.Offset), chunk.Offset, readErr))
					cancel()
					return
				}

				_, writeErr := client.Write(writeCtx, buffer, &WriteOptions{
					ParallelWriteHandle: handle,
					Offset:              Int(int(chunk.Offset)),
					Truncate:            Int(0),
					StreamIndex:         Int(int(chunk.ID)),
				})
				if writeErr != nil {
					task.addAsyncError(xerrors.Errorf("failed to write stream %d at offset %d: %w", chunk.ID, chunk.Offset, writeErr))
					cancel()
					return
				}
			}
		}(byteRange)
	}

	task.waitGroup.Wait()

	// shutdown must happen even if the caller's context was cancelled
	_, shutdownErr := client.ParallelWriteShutdown(context.WithoutCancel(ctx), handle)

	writeErr := task.getPendingError()
	if writeErr != nil {
		if shutdownErr != nil {
			logger.Errorf("%+v", shutdownErr)
		}
		logger.Errorf("%+v", writeErr)
		return writeErr
	}

	if shutdownErr != nil {
		return xerrors.Errorf("failed to shutdown parallel write for %q: %w", lpath, shutdownErr)
	}

	logger.Debugf("uploaded %d bytes", size)
	return nil
}
