package irodshttp

import (
	"context"
	"net/http"

	"golang.org/x/xerrors"
)

var (
	queryExecuteGenQuerySpec = &operationSpec{
		endpoint: queryEndpoint, op: "execute_genquery", method: http.MethodGet,
		params: []paramSpec{
			requiredString("query"),
			nonNegativeParam("offset", 0),
			countParam("count"),
			optionalFlagParam("case-sensitive"),
			optionalFlagParam("distinct"),
			enumParam("parser", string(QueryParserGenQuery1), string(QueryParserGenQuery1), string(QueryParserGenQuery2)),
			optionalFlagParam("sql-only"),
			optionalString("zone"),
		},
		check: checkGenQueryParserOptions,
	}
	queryExecuteSpecificQuerySpec = &operationSpec{
		endpoint: queryEndpoint, op: "execute_specific_query", method: http.MethodGet,
		params: []paramSpec{
			requiredString("name"),
			optionalString("args"),
			{key: "args-delimiter", kind: paramString, def: ","},
			nonNegativeParam("offset", 0),
			countParam("count"),
		},
	}
	queryAddSpecificQuerySpec = &operationSpec{
		endpoint: queryEndpoint, op: "add_specific_query", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
			requiredString("sql"),
		},
	}
	queryRemoveSpecificQuerySpec = &operationSpec{
		endpoint: queryEndpoint, op: "remove_specific_query", method: http.MethodPost,
		params: []paramSpec{
			requiredString("name"),
		},
	}
)

// checkGenQueryParserOptions rejects options that the selected parser does not take
func checkGenQueryParserOptions(args operationArgs) error {
	parser, _ := args["parser"].(string)
	if len(parser) == 0 {
		parser = string(QueryParserGenQuery1)
	}

	if parser == string(QueryParserGenQuery1) && args.has("sql-only") {
		return xerrors.Errorf("\"sql-only\" is only for %s: %w", QueryParserGenQuery2, ErrInvalidValue)
	}

	if parser == string(QueryParserGenQuery2) && (args.has("case-sensitive") || args.has("distinct")) {
		return xerrors.Errorf("\"case-sensitive\" and \"distinct\" are only for %s: %w", QueryParserGenQuery1, ErrInvalidValue)
	}
	return nil
}

// QueriesClient executes queries
type QueriesClient struct {
	session *session
}

// ExecuteGenQuery executes a GenQuery, rows are in the response's "rows"
func (client *QueriesClient) ExecuteGenQuery(ctx context.Context, query string, options *GenQueryOptions) (*Response, error) {
	if options == nil {
		options = &GenQueryOptions{}
	}

	args := operationArgs{
		"query":  query,
		"parser": string(options.Parser),
		"zone":   options.Zone,
	}
	args.setInt("offset", options.Offset)
	args.setInt("count", options.Count)

	// options of the other parser are passed through so that they are rejected
	args.setInt("case-sensitive", options.CaseSensitive)
	args.setInt("distinct", options.Distinct)
	args.setInt("sql-only", options.SQLOnly)

	switch options.Parser {
	case QueryParserGenQuery2:
		if options.SQLOnly == nil {
			args["sql-only"] = 0
		}
	default:
		if options.CaseSensitive == nil {
			args["case-sensitive"] = 1
		}
		if options.Distinct == nil {
			args["distinct"] = 1
		}
	}

	return client.session.execute(ctx, queryExecuteGenQuerySpec, args)
}

// ExecuteSpecificQuery executes a specific query, args are joined with the delimiter (default ",")
func (client *QueriesClient) ExecuteSpecificQuery(ctx context.Context, name string, options *SpecificQueryOptions) (*Response, error) {
	args := operationArgs{"name": name}
	if options != nil {
		args["args"] = options.Args
		if len(options.ArgsDelimiter) > 0 {
			args["args-delimiter"] = options.ArgsDelimiter
		}
		args.setInt("offset", options.Offset)
		args.setInt("count", options.Count)
	}
	return client.session.execute(ctx, queryExecuteSpecificQuerySpec, args)
}

// AddSpecificQuery adds a specific query, requires rodsadmin
func (client *QueriesClient) AddSpecificQuery(ctx context.Context, name string, sql string) (*Response, error) {
	args := operationArgs{
		"name": name,
		"sql":  sql,
	}
	return client.session.execute(ctx, queryAddSpecificQuerySpec, args)
}

// RemoveSpecificQuery removes a specific query, requires rodsadmin
func (client *QueriesClient) RemoveSpecificQuery(ctx context.Context, name string) (*Response, error) {
	return client.session.execute(ctx, queryRemoveSpecificQuerySpec, operationArgs{"name": name})
}
