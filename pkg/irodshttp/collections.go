package irodshttp

import (
	"context"
	"net/http"
)

var (
	collectionCreateSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "create", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			flagParam("create-intermediates", 0),
		},
	}
	collectionRemoveSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "remove", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			flagParam("recurse", 0),
			flagParam("no-trash", 0),
		},
	}
	collectionStatSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "stat", method: http.MethodGet,
		params: []paramSpec{
			requiredString("lpath"),
			optionalString("ticket"),
		},
	}
	collectionListSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "list", method: http.MethodGet,
		params: []paramSpec{
			requiredString("lpath"),
			flagParam("recurse", 0),
			optionalString("ticket"),
		},
	}
	collectionSetPermissionSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "set_permission", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredString("entity-name"),
			requiredString("permission"),
			flagParam("admin", 0),
		},
	}
	collectionSetInheritanceSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "set_inheritance", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			{key: "enable", kind: paramFlag, required: true},
			flagParam("admin", 0),
		},
	}
	collectionModifyPermissionsSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "modify_permissions", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredJSONParam("operations"),
			flagParam("admin", 0),
		},
	}
	collectionModifyMetadataSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "modify_metadata", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			requiredJSONParam("operations"),
			flagParam("admin", 0),
		},
	}
	collectionRenameSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "rename", method: http.MethodPost,
		params: []paramSpec{
			requiredString("old-lpath"),
			requiredString("new-lpath"),
		},
	}
	collectionTouchSpec = &operationSpec{
		endpoint: collectionsEndpoint, op: "touch", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			countParam("seconds-since-epoch"),
			optionalString("reference"),
		},
	}
)

// CollectionsClient operates on collections
type CollectionsClient struct {
	session *session
}

// Create creates a collection, the response's "created" tells if it did not exist
func (client *CollectionsClient) Create(ctx context.Context, lpath string, options *CollectionCreateOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("create-intermediates", options.CreateIntermediates)
	}
	return client.session.execute(ctx, collectionCreateSpec, args)
}

// Remove removes a collection
func (client *CollectionsClient) Remove(ctx context.Context, lpath string, options *CollectionRemoveOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("recurse", options.Recurse)
		args.setInt("no-trash", options.NoTrash)
	}
	return client.session.execute(ctx, collectionRemoveSpec, args)
}

// Stat returns information about a collection
func (client *CollectionsClient) Stat(ctx context.Context, lpath string, options *TicketOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["ticket"] = options.Ticket
	}
	return client.session.execute(ctx, collectionStatSpec, args)
}

// List lists entries of a collection
func (client *CollectionsClient) List(ctx context.Context, lpath string, options *CollectionListOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("recurse", options.Recurse)
		args["ticket"] = options.Ticket
	}
	return client.session.execute(ctx, collectionListSpec, args)
}

// SetPermission sets a permission of a user or group on a collection
func (client *CollectionsClient) SetPermission(ctx context.Context, lpath string, entityName string, permission string, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":       lpath,
		"entity-name": entityName,
		"permission":  permission,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, collectionSetPermissionSpec, args)
}

// SetInheritance enables (1) or disables (0) permission inheritance
func (client *CollectionsClient) SetInheritance(ctx context.Context, lpath string, enable int, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":  lpath,
		"enable": enable,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, collectionSetInheritanceSpec, args)
}

// ModifyPermissions applies permission operations atomically
func (client *CollectionsClient) ModifyPermissions(ctx context.Context, lpath string, operations []PermissionOperation, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":      lpath,
		"operations": operations,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, collectionModifyPermissionsSpec, args)
}

// ModifyMetadata applies metadata operations atomically
func (client *CollectionsClient) ModifyMetadata(ctx context.Context, lpath string, operations []MetadataOperation, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"lpath":      lpath,
		"operations": operations,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, collectionModifyMetadataSpec, args)
}

// Rename renames or moves a collection
func (client *CollectionsClient) Rename(ctx context.Context, oldLPath string, newLPath string) (*Response, error) {
	args := operationArgs{
		"old-lpath": oldLPath,
		"new-lpath": newLPath,
	}
	return client.session.execute(ctx, collectionRenameSpec, args)
}

// Touch updates mtime of a collection
func (client *CollectionsClient) Touch(ctx context.Context, lpath string, options *CollectionTouchOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args.setInt("seconds-since-epoch", options.SecondsSinceEpoch)
		args["reference"] = options.Reference
	}
	return client.session.execute(ctx, collectionTouchSpec, args)
}
