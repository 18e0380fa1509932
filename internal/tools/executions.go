package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"dune-mcp/internal/dune"
)

func performanceOption() mcp.ToolOption {
	return mcp.WithString("performance",
		mcp.Description(`Performance tier: "medium" (default) or "large" for heavier queries`),
		mcp.Enum(dune.PerformanceMedium, dune.PerformanceLarge),
	)
}

func (r *Registry) registerExecutionTools(client *dune.Client) {
	r.add(mcp.NewTool("execute_query",
		mcp.WithDescription("Execute a Dune query by ID. Returns execution_id and state; fetch rows with get_execution_result. Polling for completion is the caller's job: repeat get_execution_status until the state is terminal."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The Dune query ID to execute")),
		performanceOption(),
		mcp.WithString("query_parameters", mcp.Description(`Optional JSON object of parameter bindings, e.g. {"param1": "value1"}`)),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		params, err := args.JSONObject("query_parameters")
		if err != nil {
			return "", err
		}
		res, err := client.ExecuteQuery(ctx, dune.ExecuteQueryRequest{
			QueryID:     queryID,
			Performance: args.StringOr("performance", ""),
			Parameters:  params,
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("execute_sql",
		mcp.WithDescription("Execute raw DuneSQL directly without saving a query. Returns execution_id and state."),
		mcp.WithString("query_sql", mcp.Required(), mcp.Description("The DuneSQL query text to execute")),
		performanceOption(),
		mcp.WithString("query_parameters", mcp.Description("Optional JSON object of parameter bindings")),
	), func(ctx context.Context, args Arguments) (string, error) {
		sql, err := args.String("query_sql")
		if err != nil {
			return "", err
		}
		params, err := args.JSONObject("query_parameters")
		if err != nil {
			return "", err
		}
		res, err := client.ExecuteSQL(ctx, dune.ExecuteSQLRequest{
			SQL:         sql,
			Performance: args.StringOr("performance", ""),
			Parameters:  params,
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("execute_query_pipeline",
		mcp.WithDescription("Execute a query as a pipeline, refreshing all materialized views it depends on first."),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The query ID to execute as a pipeline")),
		performanceOption(),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		res, err := client.ExecuteQueryPipeline(ctx, queryID, args.StringOr("performance", ""))
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_execution_result",
		mcp.WithDescription("Get the results of a query execution as JSON rows with metadata."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution ID from execute_query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows to return")),
		mcp.WithNumber("offset", mcp.Description("Number of rows to skip (pagination)")),
		mcp.WithString("filters", mcp.Description(`SQL-like WHERE clause, e.g. "column > 100"`)),
		mcp.WithString("sort_by", mcp.Description("Column to sort results by")),
	), func(ctx context.Context, args Arguments) (string, error) {
		executionID, err := args.String("execution_id")
		if err != nil {
			return "", err
		}
		opts, err := resultOptions(args)
		if err != nil {
			return "", err
		}
		res, err := client.GetExecutionResult(ctx, executionID, opts)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_execution_result_csv",
		mcp.WithDescription("Get execution results as CSV text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution ID")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows")),
		mcp.WithNumber("offset", mcp.Description("Number of rows to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		executionID, err := args.String("execution_id")
		if err != nil {
			return "", err
		}
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		return client.GetExecutionResultCSV(ctx, executionID, limit, offset)
	})

	r.add(mcp.NewTool("get_execution_status",
		mcp.WithDescription("Check the current status of a query execution (PENDING, EXECUTING, COMPLETED, FAILED, ...). Stateless read; call repeatedly to poll."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution ID to check")),
	), func(ctx context.Context, args Arguments) (string, error) {
		executionID, err := args.String("execution_id")
		if err != nil {
			return "", err
		}
		res, err := client.GetExecutionStatus(ctx, executionID)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_latest_result",
		mcp.WithDescription("Get the latest cached result of a query without re-executing it."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The Dune query ID")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows")),
		mcp.WithNumber("offset", mcp.Description("Number of rows to skip")),
		mcp.WithString("filters", mcp.Description("SQL-like WHERE clause")),
		mcp.WithString("sort_by", mcp.Description("Column to sort by")),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		opts, err := resultOptions(args)
		if err != nil {
			return "", err
		}
		res, err := client.GetLatestResult(ctx, queryID, opts)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("get_latest_result_csv",
		mcp.WithDescription("Get the latest cached result of a query as CSV text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("query_id", mcp.Required(), mcp.Description("The Dune query ID")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows")),
		mcp.WithNumber("offset", mcp.Description("Number of rows to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		queryID, err := args.Int("query_id")
		if err != nil {
			return "", err
		}
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		return client.GetLatestResultCSV(ctx, queryID, limit, offset)
	})

	r.add(mcp.NewTool("cancel_execution",
		mcp.WithDescription("Cancel a running query execution."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution ID to cancel")),
	), func(ctx context.Context, args Arguments) (string, error) {
		executionID, err := args.String("execution_id")
		if err != nil {
			return "", err
		}
		res, err := client.CancelExecution(ctx, executionID)
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}

func pageArgs(args Arguments) (limit, offset int64, err error) {
	if limit, err = args.IntOr("limit", 0); err != nil {
		return 0, 0, err
	}
	if offset, err = args.IntOr("offset", 0); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func resultOptions(args Arguments) (dune.ResultOptions, error) {
	limit, offset, err := pageArgs(args)
	if err != nil {
		return dune.ResultOptions{}, err
	}
	return dune.ResultOptions{
		Limit:   limit,
		Offset:  offset,
		Filters: args.StringOr("filters", ""),
		SortBy:  args.StringOr("sort_by", ""),
	}, nil
}
