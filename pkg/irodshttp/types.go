package irodshttp

// Int returns a pointer to the given int, for optional parameters
func Int(v int) *int {
	return &v
}

// Bool converts a bool to a flag value (0 or 1)
func Bool(v bool) *int {
	if v {
		return Int(1)
	}
	return Int(0)
}

// PermissionOperation is an entry of modify_permissions operations
type PermissionOperation struct {
	EntityName string `json:"entity_name"`
	ACL        string `json:"acl"`
}

// MetadataOperationType is a type of metadata operation
type MetadataOperationType string

const (
	// MetadataOperationAdd adds an AVU
	MetadataOperationAdd MetadataOperationType = "add"
	// MetadataOperationRemove removes an AVU
	MetadataOperationRemove MetadataOperationType = "remove"
)

// MetadataOperation is an entry of modify_metadata operations
type MetadataOperation struct {
	Operation MetadataOperationType `json:"operation"`
	Attribute string                `json:"attribute"`
	Value     string                `json:"value"`
	Units     string                `json:"units,omitempty"`
}

// UserType is a type of iRODS user
type UserType string

const (
	// UserTypeRodsUser is for a regular user
	UserTypeRodsUser UserType = "rodsuser"
	// UserTypeGroupAdmin is for a group admin
	UserTypeGroupAdmin UserType = "groupadmin"
	// UserTypeRodsAdmin is for an admin user
	UserTypeRodsAdmin UserType = "rodsadmin"
)

// TicketType is a type of ticket
type TicketType string

const (
	TicketTypeRead  TicketType = "read"
	TicketTypeWrite TicketType = "write"
)

// QueryParser selects the GenQuery parser
type QueryParser string

const (
	QueryParserGenQuery1 QueryParser = "genquery1"
	QueryParserGenQuery2 QueryParser = "genquery2"
)

// AdminOptions holds the admin flag shared by permission and metadata operations
type AdminOptions struct {
	Admin *int
}

// TicketOptions holds a ticket used for access
type TicketOptions struct {
	Ticket string
}

// CollectionCreateOptions holds optional parameters for collections create
type CollectionCreateOptions struct {
	CreateIntermediates *int
}

// CollectionRemoveOptions holds optional parameters for collections remove
type CollectionRemoveOptions struct {
	Recurse *int
	NoTrash *int
}

// CollectionListOptions holds optional parameters for collections list
type CollectionListOptions struct {
	Recurse *int
	Ticket  string
}

// CollectionTouchOptions holds optional parameters for collections touch
type CollectionTouchOptions struct {
	// SecondsSinceEpoch is the new mtime, nil or -1 uses the current time
	SecondsSinceEpoch *int
	// Reference is a path whose mtime is used
	Reference string
}

// DataObjectTouchOptions holds optional parameters for data-objects touch
type DataObjectTouchOptions struct {
	NoCreate          *int
	ReplicaNumber     *int
	LeafResources     string
	SecondsSinceEpoch *int
	Reference         string
}

// DataObjectRemoveOptions holds optional parameters for data-objects remove
type DataObjectRemoveOptions struct {
	CatalogOnly *int
	NoTrash     *int
	Admin       *int
}

// CalculateChecksumOptions holds optional parameters for calculate_checksum
type CalculateChecksumOptions struct {
	Resource      string
	ReplicaNumber *int
	Force         *int
	All           *int
	Admin         *int
}

// VerifyChecksumOptions holds optional parameters for verify_checksum
type VerifyChecksumOptions struct {
	Resource         string
	ReplicaNumber    *int
	ComputeChecksums *int
	Admin            *int
}

// CopyOptions holds optional parameters for data-objects copy
type CopyOptions struct {
	SrcResource string
	DstResource string
	Overwrite   *int
}

// ReplicateOptions holds optional parameters for data-objects replicate
type ReplicateOptions struct {
	SrcResource string
	DstResource string
	Admin       *int
}

// TrimOptions holds optional parameters for data-objects trim
type TrimOptions struct {
	CatalogOnly *int
	Admin       *int
}

// RegisterOptions holds optional parameters for data-objects register
type RegisterOptions struct {
	AsAdditionalReplica *int
	DataSize            *int
	Checksum            string
}

// ReadOptions holds optional parameters for data-objects read
type ReadOptions struct {
	Offset *int
	// Count is the number of bytes to read, nil or -1 reads to the end
	Count  *int
	Ticket string
}

// WriteOptions holds parameters for data-objects write.
// LPath is required unless ParallelWriteHandle is given.
type WriteOptions struct {
	LPath               string
	Resource            string
	Offset              *int
	Truncate            *int
	Append              *int
	ParallelWriteHandle string
	StreamIndex         *int
}

// ParallelWriteInitOptions holds optional parameters for parallel_write_init
type ParallelWriteInitOptions struct {
	Truncate *int
	Append   *int
	Ticket   string
}

// ModifyReplicaOptions selects a replica and holds new catalog values for modify_replica.
// ResourceHierarchy and ReplicaNumber are mutually exclusive, at least one New* field must be set.
type ModifyReplicaOptions struct {
	ResourceHierarchy string
	ReplicaNumber     *int
	Admin             *int

	NewDataChecksum      string
	NewDataComments      string
	NewDataCreateTime    *int
	NewDataExpiry        *int
	NewDataMode          string
	NewDataModifyTime    string
	NewDataPath          string
	NewDataReplicaNumber *int
	NewDataReplicaStatus *int
	NewDataResourceID    *int
	NewDataSize          *int
	NewDataStatus        string
	NewDataTypeName      string
	NewDataVersion       *int
}

// TicketCreateOptions holds optional parameters for tickets create
type TicketCreateOptions struct {
	Type                   TicketType
	UseCount               *int
	WriteDataObjectCount   *int
	WriteByteCount         *int
	SecondsUntilExpiration *int
	// Users, Groups and Hosts are comma-separated lists
	Users  string
	Groups string
	Hosts  string
}

// GenQueryOptions holds optional parameters for execute_genquery
type GenQueryOptions struct {
	Offset *int
	Count  *int
	// CaseSensitive and Distinct are sent for genquery1 only
	CaseSensitive *int
	Distinct      *int
	Parser        QueryParser
	// SQLOnly is sent for genquery2 only
	SQLOnly *int
	Zone    string
}

// SpecificQueryOptions holds optional parameters for execute_specific_query
type SpecificQueryOptions struct {
	Args          string
	ArgsDelimiter string
	Offset        *int
	Count         *int
}
