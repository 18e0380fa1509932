package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"dune-mcp/internal/dune"
)

func (r *Registry) registerQueryTools(client *dune.Client) {
	r.add(mcp.NewTool("create_query",
		mcp.WithDescription("Create a new Dune query. Not idempotent: repeated calls create separate queries."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name for the query")),
		mcp.WithString("query_sql", mcp.Required(), mcp.Description("The DuneSQL query text")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithBoolean("is_private", mcp.Description("Whether the query is private (default true)")),
		mcp.WithString("parameters", mcp.Description(`Optional JSON array of parameters, e.g. [{"key": "param1", "type": "text", "value": "default"}]`)),
		mcp.WithString("tags", mcp.Description("Comma-separated list of tags")),
	), func(ctx context.Context, args Arguments) (string, error) {
		name, err := args.String("name")
		if err != nil {
			return "", err
		}
		sql, err := args.String("query_sql")
		if err != nil {
			return "", err
		}
		params, err := args.queryParameters("parameters")
		if err != nil {
			return "", err
		}
		res, err := client.CreateQuery(ctx, dune.CreateQueryRequest{
			Name:        name,
			SQL:         sql,
			Description: args.StringOr("description", ""),
			IsPrivate:   args.BoolOr("is_private", true),
			Parameters:  params,
			Tags:        args.tags("tags"),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("read_query",
		mcp.WithDescription("Read a query's details including SQL, parameters, and metadata."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The Dune query ID")),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		res, err := client.ReadQuery(ctx, queryID)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("update_query",
		mcp.WithDescription("Update an existing query. Only the provided fields change; at least one is required."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to update")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("query_sql", mcp.Description("New SQL text")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("parameters", mcp.Description("JSON array of new parameters")),
		mcp.WithString("tags", mcp.Description("Comma-separated list of new tags")),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		params, err := args.queryParameters("parameters")
		if err != nil {
			return "", err
		}
		res, err := client.UpdateQuery(ctx, dune.UpdateQueryRequest{
			QueryID:     queryID,
			Name:        args.StringOr("name", ""),
			SQL:         args.StringOr("query_sql", ""),
			Description: args.StringOr("description", ""),
			Parameters:  params,
			Tags:        args.tags("tags"),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	queryAction := func(call func(context.Context, int64) (*dune.QueryRef, error)) Handler {
		return func(ctx context.Context, args Arguments) (string, error) {
			queryID, err := args.Int("query_id")
			if err != nil {
				return "", err
			}
			res, err := call(ctx, queryID)
			if err != nil {
				return "", err
			}
			return formatJSON(res)
		}
	}

	r.add(mcp.NewTool("archive_query",
		mcp.WithDescription("Archive a query. Archived queries cannot be executed but are not deleted."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to archive")),
	), queryAction(client.ArchiveQuery))

	r.add(mcp.NewTool("unarchive_query",
		mcp.WithDescription("Unarchive a previously archived query."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to unarchive")),
	), queryAction(client.UnarchiveQuery))

	r.add(mcp.NewTool("private_query",
		mcp.WithDescription("Make a query private (visible only to its owner)."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to make private")),
	), queryAction(client.PrivateQuery))

	r.add(mcp.NewTool("unprivate_query",
		mcp.WithDescription("Make a query public (visible to everyone)."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to make public")),
	), queryAction(client.UnprivateQuery))

	r.add(mcp.NewTool("list_queries",
		mcp.WithDescription("List the queries owned by the API key's account."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("limit", mcp.Description("Maximum number of queries to return")),
		mcp.WithNumber("offset", mcp.Description("Number of queries to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		res, err := client.ListQueries(ctx, dune.ListOptions{Limit: limit, Offset: offset})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_query_pipeline",
		mcp.WithDescription("Get a query's pipeline definition: the materialized views it depends on and their edges."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID")),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		res, err := client.GetQueryPipeline(ctx, queryID)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}
