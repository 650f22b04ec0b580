package irodshttp

import (
	"context"
	"net/http"

	"golang.org/x/xerrors"
)

// ResourceProperty is a modifiable resource property
type ResourceProperty string

const (
	ResourcePropertyName        ResourceProperty = "name"
	ResourcePropertyType        ResourceProperty = "type"
	ResourcePropertyHost        ResourceProperty = "host"
	ResourcePropertyVaultPath   ResourceProperty = "vault_path"
	ResourcePropertyContext     ResourceProperty = "context"
	ResourcePropertyStatus      ResourceProperty = "status"
	ResourcePropertyFreeSpace   ResourceProperty = "free_space"
	ResourcePropertyComments    ResourceProperty = "comments"
	ResourcePropertyInformation ResourceProperty = "information"
)

var (
	resourceCreateSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "create", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("type"),
			optionalString("host"),
			optionalString("vault-path"),
			optionalString("context"),
		},
	}
	resourceRemoveSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "remove", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	resourceModifySpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "modify", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredEnumParam("property",
				string(ResourcePropertyName), string(ResourcePropertyType), string(ResourcePropertyHost),
				string(ResourcePropertyVaultPath), string(ResourcePropertyContext), string(ResourcePropertyStatus),
				string(ResourcePropertyFreeSpace), string(ResourcePropertyComments), string(ResourcePropertyInformation),
			),
			requiredString("value"),
		},
		check: checkResourceModify,
	}
	resourceAddChildSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "add_child", method: http.MethodPost,
		params: []paramSpec{
			requiredString("parent-name"),
			requiredString("child-name"),
			optionalString("context"),
		},
	}
	resourceRemoveChildSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "remove_child", method: http.MethodPost,
		params: []paramSpec{
			requiredString("parent-name"),
			requiredString("child-name"),
		},
	}
	resourceRebalanceSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "rebalance", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	resourceStatSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "stat", method: http.MethodGet,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	resourceModifyMetadataSpec = &operationSpec{
		endpoint: resourcesEndpoint, op: "modify_metadata", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredJSONParam("operations"),
			flagParam("admin", 0),
		},
	}
)

// checkResourceModify restricts status values to up or down
func checkResourceModify(args operationArgs) error {
	property, _ := args["property"].(string)
	if property != string(ResourcePropertyStatus) {
		return nil
	}

	value, _ := args["value"].(string)
	if value != "up" && value != "down" {
		return xerrors.Errorf("status must be \"up\" or \"down\", got %q: %w", value, ErrInvalidValue)
	}
	return nil
}

// ResourcesClient operates on resources
type ResourcesClient struct {
	session *session
}

// Create creates a resource, host, vaultPath and resourceContext are omitted when empty
func (client *ResourcesClient) Create(ctx context.Context, name string, resourceType string, host string, vaultPath string, resourceContext string) (*Response, error) {
	args := operationArgs{
		"name":       name,
		"type":       resourceType,
		"host":       host,
		"vault-path": vaultPath,
		"context":    resourceContext,
	}
	return client.session.execute(ctx, resourceCreateSpec, args)
}

// Remove removes a resource
func (client *ResourcesClient) Remove(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, resourceRemoveSpec, operationArgs{"name": name})
}

// Modify modifies a property of a resource
func (client *ResourcesClient) Modify(ctx context.Context, name string, property ResourceProperty, value string) (*Response, error) {
	args := operationArgs{
		"name":     name,
		"property": string(property),
		"value":    value,
	}
	return client.session.execute(ctx, resourceModifySpec, args)
}

// AddChild adds a child resource to a parent resource
func (client *ResourcesClient) AddChild(ctx context.Context, parentName string, childName string, resourceContext string) (*Response, error) {
	args := operationArgs{
		"parent-name": parentName,
		"child-name":  childName,
		"context":     resourceContext,
	}
	return client.session.execute(ctx, resourceAddChildSpec, args)
}

// RemoveChild removes a child resource from a parent resource
func (client *ResourcesClient) RemoveChild(ctx context.Context, parentName string, childName string) (*Response, error) {
	args := operationArgs{
		"parent-name": parentName,
		"child-name":  childName,
	}
	return client.session.execute(ctx, resourceRemoveChildSpec, args)
}

// Rebalance rebalances a resource hierarchy
func (client *ResourcesClient) Rebalance(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, resourceRebalanceSpec, operationArgs{"name": name})
}

// Stat returns information about a resource
func (client *ResourcesClient) Stat(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, resourceStatSpec, operationArgs{"name": name})
}

// ModifyMetadata applies metadata operations atomically
func (client *ResourcesClient) ModifyMetadata(ctx context.Context, name string, operations []MetadataOperation, options *AdminOptions) (*Response, error) {
	args := operationArgs{
		"name":       name,
		"operations": operations,
	}
	if options != nil {
		args.setInt("admin", options.Admin)
	}
	return client.session.execute(ctx, resourceModifyMetadataSpec, args)
}
