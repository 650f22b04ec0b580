package irodshttp

import (
	"context"
	"net/http"

	"golang.org/x/xerrors"
)

var modifyReplicaNewDataKeys = []string{
	"new-data-checksum",
	"new-data-comments",
	"new-data-create-time",
	"new-data-expiry",
	"new-data-mode",
	"new-data-modify-time",
	"new-data-path",
	"new-data-replica-number",
	"new-data-replica-status",
	"new-data-resource-id",
	"new-data-size",
	"new-data-status",
	"new-data-type-name",
	"new-data-version",
}

var (
	dataObjectTouchSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "touch", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			flagParam("no-create", 0),
			countParam("replica-number"),
			optionalString("leaf-resources"),
			countParam("seconds-since-epoch"),
			optionalString("reference"),
		},
	}
	dataObjectRemoveSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "remove", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			flagParam("catalog-only", 0),
			flagParam("no-trash", 0),
			flagParam("admin", 0),
		},
	}
	dataObjectCalculateChecksumSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "calculate_checksum", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("resource"),
			countParam("replica-number"),
			flagParam("force", 0),
			flagParam("all", 0),
			flagParam("admin", 0),
		},
	}
	dataObjectVerifyChecksumSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "verify_checksum", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("resource"),
			countParam("replica-number"),
			flagParam("compute-checksums", 0),
			flagParam("admin", 0),
		},
	}
	dataObjectStatSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "stat", method: http.MethodGet,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("ticket"),
		},
	}
	dataObjectRenameSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "rename", method: http.MethodPost,
		params: []paramSpec{
			requiredString("old-lpath"),
			requiredString("new-lpath"),
		},
	}
	dataObjectCopySpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "copy", method: http.MethodPost,
		params: []paramSpec{
			requiredString("src-lpath"),
			requiredString("dst-lpath"),
			optionalString("src-resource"),
			optionalString("dst-resource"),
			flagParam("overwrite", 0),
		},
	}
	dataObjectReplicateSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "replicate", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("src-resource"),
			optionalString("dst-resource"),
			flagParam("admin", 0),
		},
	}
	dataObjectTrimSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "trim", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredNonNegativeParam("replica-number"),
			flagParam("catalog-only", 0),
			flagParam("admin", 0),
		},
	}
	dataObjectRegisterSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "register", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredString("ppath"),
			requiredString("resource"),
			flagParam("as-additional-replica", 0),
			countParam("data-size"),
			optionalString("checksum"),
		},
	}
	dataObjectReadSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "read", method: http.MethodGet,
		params: []paramSpec{
			requiredString("lpath"),
			nonNegativeParam("offset", 0),
			countParam("count"),
			optionalString("ticket"),
		},
		rawResponse: true,
	}
	dataObjectWriteSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "write", method: http.MethodPost,
		params: []paramSpec{
			optionalString("lpath"),
			optionalString("resource"),
			nonNegativeParam("offset", 0),
			flagParam("truncate", 1),
			flagParam("append", 0),
			requiredBytesParam("bytes"),
			optionalString("parallel-write-handle"),
			countParam("stream-index"),
		},
		check: checkWriteTarget,
	}
	dataObjectParallelWriteInitSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "parallel_write_init", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredPositiveParam("stream-count"),
			flagParam("truncate", 1),
			flagParam("append", 0),
			optionalString("ticket"),
		},
	}
	dataObjectParallelWriteShutdownSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "parallel_write_shutdown", method: http.MethodPost,
		params: []paramSpec{
			requiredString("parallel-write-handle"),
		},
	}
	dataObjectModifyMetadataSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "modify_metadata", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredJSONParam("operations"),
			flagParam("admin", 0),
		},
	}
	dataObjectSetPermissionSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "set_permission", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredString("entity-name"),
			requiredString("permission"),
			flagParam("admin", 0),
		},
	}
	dataObjectModifyPermissionsSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "modify_permissions", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredJSONParam("operations"),
			flagParam("admin", 0),
		},
	}
	dataObjectModifyReplicaSpec = &operationSpec{
		endpoint: dataObjectsEndpoint, op: "modify_replica", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("resource-hierarchy"),
			countParam("replica-number"),
			flagParam("admin", 0),
			optionalString("new-data-checksum"),
			optionalString("new-data-comments"),
			countParam("new-data-create-time"),
			countParam("new-data-expiry"),
			optionalString("new-data-mode"),
			optionalString("new-data-modify-time"),
			optionalString("new-data-path"),
			countParam("new-data-replica-number"),
			countParam("new-data-replica-status"),
			countParam("new-data-resource-id"),
			countParam("new-data-size"),
			optionalString("new-data-status"),
			optionalString("new-data-type-name"),
			countParam("new-data-version"),
		},
		check: checkModifyReplica,
	}
)

// checkWriteTarget requires either an lpath or a parallel write handle
func checkWriteTarget(args operationArgs) error {
	lpath, _ := args["lpath"].(string)
	handle, _ := args["parallel-write-handle"].(string)

	if len(lpath) == 0 && len(handle) == 0 {
		return xerrors.Errorf("either \"lpath\" or \"parallel-write-handle\" must be given: %w", ErrMissingParameter)
	}
	return nil
}

// isSetArg returns true if the arg would be sent on the wire
func isSetArg(args operationArgs, key string) bool {
	value, ok := args[key]
	if !ok {
		return false
	}

	switch v := value.(type) {
	case string:
		return len(v) > 0
	case int:
		return v != -1
	default:
		return true
	}
}

func checkModifyReplica(args operationArgs) error {
	if isSetArg(args, "resource-hierarchy") && isSetArg(args, "replica-number") {
		return xerrors.Errorf("\"resource-hierarchy\" and \"replica-number\" are mutually exclusive: %w", ErrInvalidValue)
	}

	if !isSetArg(args, "resource-hierarchy") && !isSetArg(args, "replica-number") {
		return xerrors.Errorf("either \"resource-hierarchy\" or \"replica-number\" must be given: %w", ErrMissingParameter)
	}

	for _, key := range modifyReplicaNewDataKeys {
		if isSetArg(args, key) {
			return nil
		}
	}

	return xerrors.Errorf("at least one new-data parameter must be given: %w", ErrMissingParameter)
}

// DataObjectsClient operates on data objects
type DataObjectsClient struct {
	session *session
}

// Touch updates mtime of a data object, creating it unless no-create is set
func (client *DataObjectsClient) Touch(ctx context.Context, lpath string, options *DataObjectTouchOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("no-create", options.NoCreate)
		args.setInt("replica-number", options.ReplicaNumber)
		args["leaf-resources"] = options.LeafResources
		args.setInt("seconds-since-epoch", options.SecondsSinceEpoch)
		args["reference"] = options.Reference
	}
	return client.session.execute(ctx, dataObjectTouchSpec, args)
}

// Remove removes a data object
func (client *DataObjectsClient) Remove(ctx context.Context, lpath string, options *DataObjectRemoveOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("catalog-only", options.CatalogOnly)
		args.setInt("no-trash", options.NoTrash)
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectRemoveSpec, args)
}

// CalculateChecksum calculates a checksum of a data object
func (client *DataObjectsClient) CalculateChecksum(ctx context.Context, lpath string, options *CalculateChecksumOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["resource"] = options.Resource
		args.setInt("replica-number", options.ReplicaNumber)
		args.setInt("force", options.Force)
		args.setInt("all", options.All)
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectCalculateChecksumSpec, args)
}

// VerifyChecksum verifies a checksum of a data object
func (client *DataObjectsClient) VerifyChecksum(ctx context.Context, lpath string, options *VerifyChecksumOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["resource"] = options.Resource
		args.setInt("replica-number", options.ReplicaNumber)
		args.setInt("compute-checksums", options.ComputeChecksums)
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectVerifyChecksumSpec, args)
}

// Stat returns information about a data object
func (client *DataObjectsClient) Stat(ctx context.Context, lpath string, options *TicketOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["ticket"] = options.Ticket
	}
	return client.session.execute(ctx, dataObjectStatSpec, args)
}

// Rename renames or moves a data object
func (client *DataObjectsClient) Rename(ctx context.Context, oldLPath string, newLPath string) (*Response, error) {
	args := operationArgs{
		"old-lpath": oldLPath,
		"new-lpath": newLPath,
	}
	return client.session.execute(ctx, dataObjectRenameSpec, args)
}

// Copy copies a data object
func (client *DataObjectsClient) Copy(ctx context.Context, srcLPath string, dstLPath string, options *CopyOptions) (*Response, error) {
	args := operationArgs{
		"src-lpath": srcLPath,
		"dst-lpath": dstLPath,
	}
	if options != nil {
		args["src-resource"] = options.SrcResource
		args["dst-resource"] = options.DstResource
		args.setInt("overwrite", options.Overwrite)
	}
	return client.session.execute(ctx, dataObjectCopySpec, args)
}

// Replicate replicates a data object to another resource
func (client *DataObjectsClient) Replicate(ctx context.Context, lpath string, options *ReplicateOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["src-resource"] = options.SrcResource
		args["dst-resource"] = options.DstResource
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectReplicateSpec, args)
}

// Trim trims a replica of a data object
func (client *DataObjectsClient) Trim(ctx context.Context, lpath string, replicaNumber int, options *TrimOptions) (*Response, error) {
	args := operationArgs{
		"lpath":          lpath,
		"replica-number": replicaNumber,
	}
	if options != nil {
		args.setInt("catalog-only", options.CatalogOnly)
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectTrimSpec, args)
}

// Register registers a physical file as a data object
func (client *DataObjectsClient) Register(ctx context.Context, lpath string, ppath string, resource string, options *RegisterOptions) (*Response, error) {
	args := operationArgs{
		"lpath":    lpath,
		"ppath":    ppath,
		"resource": resource,
	}
	if options != nil {
		args.setInt("as-additional-replica", options.AsAdditionalReplica)
		args.setInt("data-size", options.DataSize)
		args["checksum"] = options.Checksum
	}
	return client.session.execute(ctx, dataObjectRegisterSpec, args)
}

// Read reads content of a data object, the content is in the response's Body
func (client *DataObjectsClient) Read(ctx context.Context, lpath string, options *ReadOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("offset", options.Offset)
		args.setInt("count", options.Count)
		args["ticket"] = options.Ticket
	}
	return client.session.execute(ctx, dataObjectReadSpec, args)
}

// Write writes data to a data object, or to a stream of a parallel write when a handle is given
func (client *DataObjectsClient) Write(ctx context.Context, data []byte, options *WriteOptions) (*Response, error) {
	if data == nil {
		data = []byte{}
	}

	args := operationArgs{"bytes": data}
	if options != nil {
		if len(options.ParallelWriteHandle) > 0 {
			// the handle identifies the target
			args["parallel-write-handle"] = options.ParallelWriteHandle
		} else {
			args["lpath"] = options.LPath
		}

		args["resource"] = options.Resource
		args.setInt("offset", options.Offset)
		args.setInt("truncate", options.Truncate)
		args.setInt("append", options.Append)
		args.setInt("stream-index", options.StreamIndex)
	}
	return client.session.execute(ctx, dataObjectWriteSpec, args)
}

// ParallelWriteInit opens a parallel write and returns a handle in "parallel_write_handle"
func (client *DataObjectsClient) ParallelWriteInit(ctx context.Context, lpath string, streamCount int, options *ParallelWriteInitOptions) (*Response, error) {
	args := operationArgs{
		"lpath":        lpath,
		"stream-count": streamCount,
	}
	if options != nil {
		args.setInt("truncate", options.Truncate)
		args.setInt("append", options.Append)
		args["ticket"] = options.Ticket
	}
	return client.session.execute(ctx, dataObjectParallelWriteInitSpec, args)
}

// ParallelWriteShutdown closes a parallel write
func (client *DataObjectsClient) ParallelWriteShutdown(ctx context.Context, parallelWriteHandle string) (*Response, error) {
	args := operationArgs{"parallel-write-handle": parallelWriteHandle}
	return client.session.execute(ctx, dataObjectParallelWriteShutdownSpec, args)
}

// ModifyMetadata applies metadata operations atomically
func (client *DataObjectsClient) ModifyMetadata(ctx context.Context, lpath string, operations []MetadataOperation, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":      lpath,
		"operations": operations,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectModifyMetadataSpec, args)
}

// SetPermission sets a permission of a user or group on a data object
func (client *DataObjectsClient) SetPermission(ctx context.Context, lpath string, entityName string, permission string, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":       lpath,
		"entity-name": entityName,
		"permission":  permission,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectSetPermissionSpec, args)
}

// ModifyPermissions applies permission operations atomically
func (client *DataObjectsClient) ModifyPermissions(ctx context.Context, lpath string, operations []PermissionOperation, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":      lpath,
		"operations": operations,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, dataObjectModifyPermissionsSpec, args)
}

// ModifyReplica modifies catalog information of a replica, requires rodsadmin
func (client *DataObjectsClient) ModifyReplica(ctx context.Context, lpath string, options *ModifyReplicaOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["resource-hierarchy"] = options.ResourceHierarchy
		args.setInt("replica-number", options.ReplicaNumber)
		args.setInt("admin", options.Admin)

		args["new-data-checksum"] = options.NewDataChecksum
		args["new-data-comments"] = options.NewDataComments
		args.setInt("new-data-create-time", options.NewDataCreateTime)
		args.setInt("new-data-expiry", options.NewDataExpiry)
		args["new-data-mode"] = options.NewDataMode
		args["new-data-modify-time"] = options.NewDataModifyTime
		args["new-data-path"] = options.NewDataPath
		args.setInt("new-data-replica-number", options.NewDataReplicaNumber)
		args.setInt("new-data-replica-status", options.NewDataReplicaStatus)
		args.setInt("new-data-resource-id", options.NewDataResourceID)
		args.setInt("new-data-size", options.NewDataSize)
		args["new-data-status"] = options.NewDataStatus
		args["new-data-type-name"] = options.NewDataTypeName
		args.setInt("new-data-version", options.NewDataVersion)
	}
	return client.session.execute(ctx, dataObjectModifyReplicaSpec, args)
}
