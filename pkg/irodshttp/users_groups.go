package irodshttp

import (
	"context"
	"net/http"
)

var userTypes = []string{string(UserTypeRodsUser), string(UserTypeGroupAdmin), string(UserTypeRodsAdmin)}

var (
	userCreateSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "create_user", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("zone"),
			enumParam("user-type", string(UserTypeRodsUser), userTypes...),
		},
	}
	userRemoveSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "remove_user", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("zone"),
		},
	}
	userSetPasswordSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "set_password", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("zone"),
			requiredString("new-password"),
		},
	}
	userSetUserTypeSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "set_user_type", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("zone"),
			requiredEnumParam("new-user-type", userTypes...),
		},
	}
	groupCreateSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "create_group", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	groupRemoveSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "remove_group", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	groupAddMemberSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "add_to_group", method: http.MethodPost,
		params: []paramSpec{
			requiredString("user"),
			requiredString("zone"),
			requiredString("group"),
		},
	}
	groupRemoveMemberSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "remove_from_group", method: http.MethodPost,
		params: []paramSpec{
			requiredString("user"),
			requiredString("zone"),
			requiredString("group"),
		},
	}
	usersListSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "users", method: http.MethodGet,
	}
	groupsListSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "groups", method: http.MethodGet,
	}
	groupIsMemberSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "is_member_of_group", method: http.MethodGet,
		params: []paramSpec{
			requiredString("group"),
			requiredString("user"),
			requiredString("zone"),
		},
	}
	userGroupStatSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "stat", method: http.MethodGet,
		params: []paramSpec{
			requiredString("name"),
			optionalString("zone"),
		},
	}
	userGroupModifyMetadataSpec = &operationSpec{
		endpoint: usersGroupsEndpoint, op: "modify_metadata", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredJSONParam("operations"),
		},
	}
)

// UsersGroupsClient operates on users and groups
type UsersGroupsClient struct {
	session *session
}

// CreateUser creates a user, an empty userType creates a rodsuser
func (client *UsersGroupsClient) CreateUser(ctx context.Context, name string, zone string, userType UserType) (*Response, error) {
	args := operationArgs{
		"name":      name,
		"zone":      zone,
		"user-type": string(userType),
	}
	return client.session.execute(ctx, userCreateSpec, args)
}

// RemoveUser removes a user
func (client *UsersGroupsClient) RemoveUser(ctx context.Context, name string, zone string) (*Response, error) {
	args := operationArgs{
		"name": name,
		"zone": zone,
	}
	return client.session.execute(ctx, userRemoveSpec, args)
}

// SetPassword changes the password of a user
func (client *UsersGroupsClient) SetPassword(ctx context.Context, name string, zone string, newPassword string) (*Response, error) {
	args := operationArgs{
		"name":         name,
		"zone":         zone,
		"new-password": newPassword,
	}
	return client.session.execute(ctx, userSetPasswordSpec, args)
}

// SetUserType changes the type of a user
func (client *UsersGroupsClient) SetUserType(ctx context.Context, name string, zone string, userType UserType) (*Response, error) {
	args := operationArgs{
		"name":          name,
		"zone":          zone,
		"new-user-type": string(userType),
	}
	return client.session.execute(ctx, userSetUserTypeSpec, args)
}

// CreateGroup creates a group
func (client *UsersGroupsClient) CreateGroup(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, groupCreateSpec, operationArgs{"name": name})
}

// RemoveGroup removes a group
func (client *UsersGroupsClient) RemoveGroup(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, groupRemoveSpec, operationArgs{"name": name})
}

// AddToGroup adds a user to a group
func (client *UsersGroupsClient) AddToGroup(ctx context.Context, user string, zone string, group string) (*Response, error) {
	args := operationArgs{
		"user":  user,
		"zone":  zone,
		"group": group,
	}
	return client.session.execute(ctx, groupAddMemberSpec, args)
}

// RemoveFromGroup removes a user from a group
func (client *UsersGroupsClient) RemoveFromGroup(ctx context.Context, user string, zone string, group string) (*Response, error) {
	args := operationArgs{
		"user":  user,
		"zone":  zone,
		"group": group,
	}
	return client.session.execute(ctx, groupRemoveMemberSpec, args)
}

// Users lists users
func (client *UsersGroupsClient) Users(ctx context.Context) (*Response, error) {
	return client.session.execute(ctx, usersListSpec, operationArgs{})
}

// Groups lists groups
func (client *UsersGroupsClient) Groups(ctx context.Context) (*Response, error) {
	return client.session.execute(ctx, groupsListSpec, operationArgs{})
}

// IsMemberOfGroup checks group membership, the answer is in the response's "is_member"
func (client *UsersGroupsClient) IsMemberOfGroup(ctx context.Context, group string, user string, zone string) (*Response, error) {
	args := operationArgs{
		"group": group,
		"user":  user,
		"zone":  zone,
	}
	return client.session.execute(ctx, groupIsMemberSpec, args)
}

// Stat returns information about a user or group
func (client *UsersGroupsClient) Stat(ctx context.Context, name string, zone string) (*Response, error) {
	args := operationArgs{
		"name": name,
		"zone": zone,
	}
	return client.session.execute(ctx, userGroupStatSpec, args)
}

// ModifyMetadata applies metadata operations to a user or group atomically
func (client *UsersGroupsClient) ModifyMetadata(ctx context.Context, name string, operations []MetadataOperation) (*Response, error) {
	args := operationArgs{
		"name":       name,
		"operations": operations,
	}
	return client.session.execute(ctx, userGroupModifyMetadataSpec, args)
}
