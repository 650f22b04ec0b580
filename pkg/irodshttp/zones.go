package irodshttp

import (
	"context"
	"net/http"
)

// ZoneProperty is a modifiable zone property
type ZoneProperty string

const (
	ZonePropertyName           ZoneProperty = "name"
	ZonePropertyConnectionInfo ZoneProperty = "connection_info"
	ZonePropertyComment        ZoneProperty = "comment"
)

var (
	zoneAddSpec = &operationSpec{
		endpoint: zonesEndpoint, op: "add", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			optionalString("connection-info"),
			optionalString("comment"),
		},
	}
	zoneRemoveSpec = &operationSpec{
		endpoint: zonesEndpoint, op: "remove", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
	zoneModifySpec = &operationSpec{
		endpoint: zonesEndpoint, op: "modify", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredEnumParam("property", string(ZonePropertyName), string(ZonePropertyConnectionInfo), string(ZonePropertyComment)),
			requiredString("value"),
		},
	}
	zoneReportSpec = &operationSpec{
		endpoint: zonesEndpoint, op: "report", method: http.MethodGet,
	}
)

// ZonesClient operates on zones, all operations require rodsadmin.
// Requests go to the /zones endpoint of the HTTP API, not to /users-groups.
type ZonesClient struct {
	session *session
}

// Add adds a remote zone, connectionInfo is host:port
func (client *ZonesClient) Add(ctx context.Context, name string, connectionInfo string, comment string) (*Response, error) {
	args := operationArgs{
		"name":            name,
		"connection-info": connectionInfo,
		"comment":         comment,
	}
	return client.session.execute(ctx, zoneAddSpec, args)
}

// Remove removes a remote zone
func (client *ZonesClient) Remove(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, zoneRemoveSpec, operationArgs{"name": name})
}

// Modify modifies a property of a zone
func (client *ZonesClient) Modify(ctx context.Context, name string, property ZoneProperty, value string) (*Response, error) {
	args := operationArgs{
		"name":     name,
		"property": string(property),
		"value":    value,
	}
	return client.session.execute(ctx, zoneModifySpec, args)
}

// Report returns the zone report
func (client *ZonesClient) Report(ctx context.Context) (*Response, error) {
	return client.session.execute(ctx, zoneReportSpec, operationArgs{})
}
