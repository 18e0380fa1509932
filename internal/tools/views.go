package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"dune-mcp/internal/dune"
)

func (r *Registry) registerMaterializedViewTools(client *dune.Client) {
	r.add(mcp.NewTool("get_materialized_view",
		mcp.WithDescription("Get a materialized view by full name (e.g. dune.team.result_daily_volume)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name of the materialized view")),
	), func(ctx context.Context, args Arguments) (string, error) {
		name, err := args.String("name")
		if err != nil {
			return "", err
		}
		res, err := client.GetMaterializedView(ctx, name)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("upsert_materialized_view",
		mcp.WithDescription("Create or update a materialized view. The final name segment must start with result_."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name, e.g. dune.team.result_daily_volume")),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("Source query ID")),
		mcp.WithString("cron_expression", mcp.Description(`Refresh schedule, e.g. "0 */1 * * *" for hourly`)),
		performanceOption(),
	), func(ctx context.Context, args Arguments) (string, error) {
		name, err := args.String("name")
		if err != nil {
			return "", err
		}
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		res, err := client.UpsertMaterializedView(ctx, dune.UpsertMaterializedViewRequest{
			Name:           name,
			QueryID:        queryID,
			CronExpression: args.StringOr("cron_expression", ""),
			Performance:    args.StringOr("performance", ""),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("delete_materialized_view",
		mcp.WithDescription("Delete a materialized view."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name of the view to delete")),
	), func(ctx context.Context, args Arguments) (string, error) {
		name, err := args.String("name")
		if err != nil {
			return "", err
		}
		res, err := client.DeleteMaterializedView(ctx, name)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("list_materialized_views",
		mcp.WithDescription("List the materialized views owned by the account."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("limit", mcp.Description("Maximum number to return")),
		mcp.WithNumber("offset", mcp.Description("Number to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		res, err := client.ListMaterializedViews(ctx, dune.ListOptions{Limit: limit, Offset: offset})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("refresh_materialized_view",
		mcp.WithDescription("Trigger an immediate refresh of a materialized view. Returns the execution performing the refresh."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name of the view to refresh")),
		performanceOption(),
	), func(ctx context.Context, args Arguments) (string, error) {
		name, err := args.String("name")
		if err != nil {
			return "", err
		}
		res, err := client.RefreshMaterializedView(ctx, name, args.StringOr("performance", ""))
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}
