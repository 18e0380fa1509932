package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"dune-mcp/internal/dune"
)

func (r *Registry) registerDatasetTools(client *dune.Client) {
	r.add(mcp.NewTool("get_dataset",
		mcp.WithDescription("Get a dataset's columns and metadata."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("namespace", mcp.Required(), mcp.Description(`Dataset namespace, e.g. "ethereum" or "dex"`)),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description(`Dataset name, e.g. "transactions" or "trades"`)),
	), func(ctx context.Context, args Arguments) (string, error) {
		namespace, err := args.String("namespace")
		if err != nil {
			return "", err
		}
		datasetName, err := args.String("dataset_name")
		if err != nil {
			return "", err
		}
		res, err := client.GetDataset(ctx, namespace, datasetName)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("list_datasets",
		mcp.WithDescription("List available datasets."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("owner", mcp.Description("Filter by owner")),
		mcp.WithNumber("limit", mcp.Description("Maximum number to return")),
		mcp.WithNumber("offset", mcp.Description("Number to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		res, err := client.ListDatasets(ctx, dune.DatasetListOptions{
			Owner:       args.StringOr("owner", ""),
			ListOptions: dune.ListOptions{Limit: limit, Offset: offset},
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}

func (r *Registry) registerPipelineTools(client *dune.Client) {
	r.add(mcp.NewTool("execute_pipeline",
		mcp.WithDescription("Execute a pipeline by slug. The service resolves the dependency graph and runs it; poll with get_pipeline_status."),
		mcp.WithString("pipeline_slug", mcp.Required(), mcp.Description(`The pipeline slug, e.g. "team/pipeline-name"`)),
		performanceOption(),
	), func(ctx context.Context, args Arguments) (string, error) {
		slug, err := args.String("pipeline_slug")
		if err != nil {
			return "", err
		}
		res, err := client.ExecutePipeline(ctx, slug, args.StringOr("performance", ""))
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_pipeline_status",
		mcp.WithDescription("Get the status and progress of a pipeline execution."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The pipeline execution ID")),
	), func(ctx context.Context, args Arguments) (string, error) {
		executionID, err := args.String("execution_id")
		if err != nil {
			return "", err
		}
		res, err := client.GetPipelineStatus(ctx, executionID)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}

func (r *Registry) registerUsageTools(client *dune.Client) {
	r.add(mcp.NewTool("get_usage",
		mcp.WithDescription("Get billing usage for the account: credits used, queries, and storage."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("start_date", mcp.Description("Optional start date in YYYY-MM-DD format")),
		mcp.WithString("end_date", mcp.Description("Optional end date in YYYY-MM-DD format")),
	), func(ctx context.Context, args Arguments) (string, error) {
		res, err := client.GetUsage(ctx, dune.UsagePeriod{
			StartDate: args.StringOr("start_date", ""),
			EndDate:   args.StringOr("end_date", ""),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}
