package irodshttp

import (
	"context"
	"net/http"
)

var (
	ticketCreateSpec = &operationSpec{
		endpoint: ticketsEndpoint, op: "create", method: http.MethodPost,
		params: []paramSpec{
			requiredString("lpath"),
			enumParam("type", string(TicketTypeRead), string(TicketTypeRead), string(TicketTypeWrite)),
			countParam("use-count"),
			countParam("write-data-object-count"),
			countParam("write-byte-count"),
			countParam("seconds-until-expiration"),
			optionalString("users"),
			optionalString("groups"),
			optionalString("hosts"),
		},
	}
	ticketRemoveSpec = &operationSpec{
		endpoint: ticketsEndpoint, op: "remove", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
)

// TicketsClient operates on tickets
type TicketsClient struct {
	session *session
}

// Create creates a ticket for a path, the ticket string is in the response's "ticket"
func (client *TicketsClient) Create(ctx context.Context, lpath string, options *TicketCreateOptions) (*Response, error) {
	args := operationArgs{"lpath": lpath}
	if options != nil {
		args["type"] = string(options.Type)
		args.setInt("use-count", options.UseCount)
		args.setInt("write-data-object-count", options.WriteDataObjectCount)
		args.setInt("write-byte-count", options.WriteByteCount)
		args.setInt("seconds-until-expiration", options.SecondsUntilExpiration)
		args["users"] = options.Users
		args["groups"] = options.Groups
		args["hosts"] = options.Hosts
	}
	return client.session.execute(ctx, ticketCreateSpec, args)
}

// Remove removes a ticket
func (client *TicketsClient) Remove(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, ticketRemoveSpec, operationArgs{"name": name})
}
