package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"dune-mcp/internal/dune"
)

func (r *Registry) registerTableTools(client *dune.Client) {
	r.add(mcp.NewTool("create_table",
		mcp.WithDescription("Create an empty table for data uploads with an explicit schema."),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Namespace for the table")),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table")),
		mcp.WithString("schema", mcp.Required(), mcp.Description(`JSON array of columns, e.g. [{"name": "col1", "type": "varchar"}]`)),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithBoolean("is_private", mcp.Description("Whether the table is private (default true)")),
	), func(ctx context.Context, args Arguments) (string, error) {
		namespace, err := args.String("namespace")
		if err != nil {
			return "", err
		}
		tableName, err := args.String("table_name")
		if err != nil {
			return "", err
		}
		schema, err := args.tableSchema("schema")
		if err != nil {
			return "", err
		}
		res, err := client.CreateTable(ctx, dune.CreateTableRequest{
			Namespace:   namespace,
			TableName:   tableName,
			Schema:      schema,
			Description: args.StringOr("description", ""),
			IsPrivate:   args.BoolOr("is_private", true),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("upload_csv",
		mcp.WithDescription("Upload CSV data to create a new table with automatic schema inference."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name for the new table")),
		mcp.WithString("csv_data", mcp.Required(), mcp.Description("CSV content as a string, including a header row")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithBoolean("is_private", mcp.Description("Whether the table is private (default true)")),
	), func(ctx context.Context, args Arguments) (string, error) {
		tableName, err := args.String("table_name")
		if err != nil {
			return "", err
		}
		csvData, err := args.String("csv_data")
		if err != nil {
			return "", err
		}
		res, err := client.UploadCSV(ctx, dune.UploadCSVRequest{
			TableName:   tableName,
			CSVData:     csvData,
			Description: args.StringOr("description", ""),
			IsPrivate:   args.BoolOr("is_private", true),
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("insert_data",
		mcp.WithDescription("Insert rows into an existing table. Not idempotent: repeated calls append duplicate rows."),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Table namespace")),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Table name")),
		mcp.WithString("data", mcp.Required(), mcp.Description(`JSON array of row objects, e.g. [{"col1": "val1", "col2": 123}]`)),
	), func(ctx context.Context, args Arguments) (string, error) {
		namespace, err := args.String("namespace")
		if err != nil {
			return "", err
		}
		tableName, err := args.String("table_name")
		if err != nil {
			return "", err
		}
		rows, err := args.rows("data")
		if err != nil {
			return "", err
		}
		res, err := client.InsertData(ctx, dune.InsertDataRequest{
			Namespace: namespace,
			TableName: tableName,
			Rows:      rows,
		})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})

	r.add(mcp.NewTool("clear_table",
		mcp.WithDescription("Clear all data from a table while preserving its schema."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Table namespace")),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Table name")),
	), func(ctx context.Context, args Arguments) (string, error) {
		return tableAction(ctx, args, client.ClearTable)
	})

	r.add(mcp.NewTool("delete_table",
		mcp.WithDescription("Permanently delete a table and all its data."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Table namespace")),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Table name")),
	), func(ctx context.Context, args Arguments) (string, error) {
		return tableAction(ctx, args, client.DeleteTable)
	})

	r.add(mcp.NewTool("list_tables",
		mcp.WithDescription("List uploaded tables."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("limit", mcp.Description("Maximum number to return")),
		mcp.WithNumber("offset", mcp.Description("Number to skip")),
	), func(ctx context.Context, args Arguments) (string, error) {
		limit, offset, err := pageArgs(args)
		if err != nil {
			return "", err
		}
		res, err := client.ListTables(ctx, dune.ListOptions{Limit: limit, Offset: offset})
		if err != nil {
			return "", err
		}
		return formatJSON(res)
	})
}

func tableAction(ctx context.Context, args Arguments, call func(context.Context, string, string) (*dune.OperationResult, error)) (string, error) {
	namespace, err := args.String("namespace")
	if err != nil {
		return "", err
	}
	tableName, err := args.String("table_name")
	if err != nil {
		return "", err
	}
	res, err := call(ctx, namespace, tableName)
	if err != nil {
		return "", err
	}
	return formatJSON(res)
}
