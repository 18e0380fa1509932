package dune

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Performance tiers accepted by the execution endpoints. An empty tier means
// the service default (medium).
const (
	PerformanceMedium = "medium"
	PerformanceLarge  = "large"
)

func validPerformance(p string) bool {
	return p == "" || p == PerformanceMedium || p == PerformanceLarge
}

func defaultPerformance(p string) string {
	if p == "" {
		return PerformanceMedium
	}
	return p
}

// QueryParameter binds a value to a named parameter of a saved query.
type QueryParameter struct {
	Key         string   `json:"key"`
	Value       string   `json:"value"`
	Type        string   `json:"type,omitempty"`
	EnumOptions []string `json:"enumOptions,omitempty"`
}

// =============================================================================
// Requests
// =============================================================================

// ExecuteQueryRequest starts a run of a saved query.
type ExecuteQueryRequest struct {
	QueryID     int64
	Performance string
	Parameters  map[string]any
}

func (r ExecuteQueryRequest) Validate() error {
	if r.QueryID <= 0 {
		return NewValidationError("query_id must be a positive integer, got %d", r.QueryID)
	}
	if !validPerformance(r.Performance) {
		return NewValidationError("performance must be %q or %q, got %q", PerformanceMedium, PerformanceLarge, r.Performance)
	}
	return nil
}

// ExecuteSQLRequest runs raw SQL without saving a query first.
type ExecuteSQLRequest struct {
	SQL         string
	Performance string
	Parameters  map[string]any
}

func (r ExecuteSQLRequest) Validate() error {
	if strings.TrimSpace(r.SQL) == "" {
		return NewValidationError("query_sql is required")
	}
	if !validPerformance(r.Performance) {
		return NewValidationError("performance must be %q or %q, got %q", PerformanceMedium, PerformanceLarge, r.Performance)
	}
	return nil
}

// ResultOptions narrows a result fetch. Zero values are omitted from the
// request; Filters is an SQL-like WHERE clause evaluated by the service.
type ResultOptions struct {
	Limit   int64
	Offset  int64
	Filters string
	SortBy  string
}

func (o ResultOptions) Validate() error {
	if o.Limit < 0 {
		return NewValidationError("limit must not be negative, got %d", o.Limit)
	}
	if o.Offset < 0 {
		return NewValidationError("offset must not be negative, got %d", o.Offset)
	}
	return nil
}

// ListOptions paginates a list endpoint.
type ListOptions struct {
	Limit  int64
	Offset int64
}

func (o ListOptions) Validate() error {
	if o.Limit < 0 {
		return NewValidationError("limit must not be negative, got %d", o.Limit)
	}
	if o.Offset < 0 {
		return NewValidationError("offset must not be negative, got %d", o.Offset)
	}
	return nil
}

// DatasetListOptions paginates the dataset listing with an optional owner filter.
type DatasetListOptions struct {
	Owner string
	ListOptions
}

// CreateQueryRequest saves a new query.
type CreateQueryRequest struct {
	Name        string
	SQL         string
	Description string
	IsPrivate   bool
	Parameters  []QueryParameter
	Tags        []string
}

func (r CreateQueryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name is required")
	}
	if strings.TrimSpace(r.SQL) == "" {
		return NewValidationError("query_sql is required")
	}
	return nil
}

// UpdateQueryRequest patches an existing query. Only non-empty fields are
// sent; at least one must be set.
type UpdateQueryRequest struct {
	QueryID     int64
	Name        string
	SQL         string
	Description string
	Parameters  []QueryParameter
	Tags        []string
}

func (r UpdateQueryRequest) Validate() error {
	if r.QueryID <= 0 {
		return NewValidationError("query_id must be a positive integer, got %d", r.QueryID)
	}
	if r.Name == "" && r.SQL == "" && r.Description == "" && r.Parameters == nil && r.Tags == nil {
		return NewValidationError("update_query requires at least one field to change")
	}
	return nil
}

// UpsertMaterializedViewRequest creates or updates a materialized view. The
// view name's final segment must carry the result_ prefix, and the refresh
// schedule must be a valid standard cron expression.
type UpsertMaterializedViewRequest struct {
	Name           string
	QueryID        int64
	CronExpression string
	Performance    string
}

func (r UpsertMaterializedViewRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name is required")
	}
	segments := strings.Split(r.Name, ".")
	if !strings.HasPrefix(segments[len(segments)-1], "result_") {
		return NewValidationError("materialized view name %q must have its final segment prefixed with result_", r.Name)
	}
	if r.QueryID <= 0 {
		return NewValidationError("query_id must be a positive integer, got %d", r.QueryID)
	}
	if r.CronExpression != "" {
		if _, err := cron.ParseStandard(r.CronExpression); err != nil {
			return NewValidationError("invalid cron_expression %q: %v", r.CronExpression, err)
		}
	}
	if !validPerformance(r.Performance) {
		return NewValidationError("performance must be %q or %q, got %q", PerformanceMedium, PerformanceLarge, r.Performance)
	}
	return nil
}

// TableColumn is one column of an uploaded table's schema.
type TableColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateTableRequest creates an empty uploaded table.
type CreateTableRequest struct {
	Namespace   string
	TableName   string
	Schema      []TableColumn
	Description string
	IsPrivate   bool
}

func (r CreateTableRequest) Validate() error {
	if strings.TrimSpace(r.Namespace) == "" {
		return NewValidationError("namespace is required")
	}
	if strings.TrimSpace(r.TableName) == "" {
		return NewValidationError("table_name is required")
	}
	if len(r.Schema) == 0 {
		return NewValidationError("schema must contain at least one column")
	}
	for i, col := range r.Schema {
		if col.Name == "" || col.Type == "" {
			return NewValidationError("schema column %d must have both name and type", i)
		}
	}
	return nil
}

// UploadCSVRequest creates a table from CSV content with inferred schema.
type UploadCSVRequest struct {
	TableName   string
	CSVData     string
	Description string
	IsPrivate   bool
}

func (r UploadCSVRequest) Validate() error {
	if strings.TrimSpace(r.TableName) == "" {
		return NewValidationError("table_name is required")
	}
	if r.CSVData == "" {
		return NewValidationError("csv_data is required")
	}
	return nil
}

// Content types accepted by the insert endpoint.
const (
	ContentTypeNDJSON = "application/x-ndjson"
	ContentTypeCSV    = "text/csv"
)

// InsertDataRequest appends rows to an existing uploaded table.
type InsertDataRequest struct {
	Namespace   string
	TableName   string
	Rows        []map[string]any
	ContentType string
}

func (r InsertDataRequest) Validate() error {
	if strings.TrimSpace(r.Namespace) == "" {
		return NewValidationError("namespace is required")
	}
	if strings.TrimSpace(r.TableName) == "" {
		return NewValidationError("table_name is required")
	}
	if len(r.Rows) == 0 {
		return NewValidationError("data must contain at least one row")
	}
	if r.ContentType != "" && r.ContentType != ContentTypeNDJSON && r.ContentType != ContentTypeCSV {
		return NewValidationError("content type must be %q or %q, got %q", ContentTypeNDJSON, ContentTypeCSV, r.ContentType)
	}
	return nil
}

const usageDateLayout = "2006-01-02"

// UsagePeriod bounds a billing usage report. Dates are YYYY-MM-DD.
type UsagePeriod struct {
	StartDate string
	EndDate   string
}

func (p UsagePeriod) Validate() error {
	for _, d := range []string{p.StartDate, p.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(usageDateLayout, d); err != nil {
			return NewValidationError("date %q must be in YYYY-MM-DD format", d)
		}
	}
	return nil
}

// =============================================================================
// Responses
//
// Response records mirror the service's JSON permissively: unknown fields are
// ignored, identity fields are kept strict. Local values are snapshots; the
// remote service stays the source of truth.
// =============================================================================

// Execution acknowledges a started run.
type Execution struct {
	ExecutionID string `json:"execution_id"`
	State       string `json:"state"`
}

// ExecutionStatus is the current server-side view of a run.
type ExecutionStatus struct {
	ExecutionID        string `json:"execution_id"`
	QueryID            int64  `json:"query_id"`
	State              string `json:"state"`
	SubmittedAt        string `json:"submitted_at,omitempty"`
	StartedAt          string `json:"started_at,omitempty"`
	EndedAt            string `json:"ended_at,omitempty"`
	ExecutionStartedAt string `json:"execution_started_at,omitempty"`
	ExecutionEndedAt   string `json:"execution_ended_at,omitempty"`
	ResultSetBytes     int64  `json:"result_set_bytes,omitempty"`
	TotalRowCount      int64  `json:"total_row_count,omitempty"`
}

// ResultMetadata describes a result set.
type ResultMetadata struct {
	ColumnNames    []string `json:"column_names,omitempty"`
	ColumnTypes    []string `json:"column_types,omitempty"`
	RowCount       int64    `json:"row_count,omitempty"`
	TotalRowCount  int64    `json:"total_row_count,omitempty"`
	ResultSetBytes int64    `json:"result_set_bytes,omitempty"`
	DatapointCount int64    `json:"datapoint_count,omitempty"`
}

// ResultData holds the rows of a completed execution.
type ResultData struct {
	Rows     []map[string]any `json:"rows"`
	Metadata ResultMetadata   `json:"metadata"`
}

// ResultPage is one page of execution results.
type ResultPage struct {
	ExecutionID string      `json:"execution_id,omitempty"`
	QueryID     int64       `json:"query_id,omitempty"`
	State       string      `json:"state,omitempty"`
	Result      *ResultData `json:"result,omitempty"`
	NextOffset  *int64      `json:"next_offset,omitempty"`
}

// QueryRef identifies a query in create/archive/visibility acknowledgements.
type QueryRef struct {
	QueryID int64 `json:"query_id"`
}

// Query is a saved query's full record.
type Query struct {
	QueryID     int64            `json:"query_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	SQL         string           `json:"query_sql,omitempty"`
	IsPrivate   *bool            `json:"is_private,omitempty"`
	IsArchived  *bool            `json:"is_archived,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Parameters  []QueryParameter `json:"parameters,omitempty"`
}

// QueryList is a page of the account's queries.
type QueryList struct {
	Queries    []Query `json:"queries"`
	NextOffset *int64  `json:"next_offset,omitempty"`
}

// MaterializedView is a named, scheduled, server-persisted query result.
type MaterializedView struct {
	Name           string `json:"name"`
	QueryID        int64  `json:"query_id"`
	CronExpression string `json:"cron_expression,omitempty"`
	Performance    string `json:"performance,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
	LastRefreshAt  string `json:"last_refresh_at,omitempty"`
}

// MaterializedViewList is a page of the account's materialized views.
type MaterializedViewList struct {
	MaterializedViews []MaterializedView `json:"materialized_views"`
	NextOffset        *int64             `json:"next_offset,omitempty"`
}

// Table is an uploaded table's record.
type Table struct {
	Namespace string `json:"namespace,omitempty"`
	TableName string `json:"table_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	IsPrivate *bool  `json:"is_private,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TableList is a page of uploaded tables.
type TableList struct {
	Tables     []Table `json:"tables"`
	NextOffset *int64  `json:"next_offset,omitempty"`
}

// CreateTableResponse acknowledges table creation.
type CreateTableResponse struct {
	Namespace    string `json:"namespace,omitempty"`
	TableName    string `json:"table_name,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	ExampleQuery string `json:"example_query,omitempty"`
	Success      bool   `json:"success,omitempty"`
}

// UploadResult acknowledges a CSV upload.
type UploadResult struct {
	TableName string `json:"table_name,omitempty"`
	Success   bool   `json:"success,omitempty"`
}

// InsertResult reports how much data an insert wrote.
type InsertResult struct {
	RowsWritten  int64 `json:"rows_written,omitempty"`
	BytesWritten int64 `json:"bytes_written,omitempty"`
}

// OperationResult is a generic acknowledgement for clear/delete operations.
type OperationResult struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// DatasetColumn describes one column of a dataset.
type DatasetColumn struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Dataset is a read-only catalog entry.
type Dataset struct {
	Namespace   string          `json:"namespace,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Owner       string          `json:"owner,omitempty"`
	Columns     []DatasetColumn `json:"columns,omitempty"`
}

// DatasetList is a page of datasets.
type DatasetList struct {
	Datasets   []Dataset `json:"datasets"`
	NextOffset *int64    `json:"next_offset,omitempty"`
}

// PipelineExecution acknowledges a started pipeline run.
type PipelineExecution struct {
	ExecutionID  string `json:"execution_id"`
	State        string `json:"state,omitempty"`
	PipelineSlug string `json:"pipeline_slug,omitempty"`
}

// PipelineStatus is the server-side view of a pipeline run. Progress and
// per-query detail are passed through untouched; the dependency graph is
// computed and executed entirely by the service.
type PipelineStatus struct {
	ExecutionID string          `json:"execution_id"`
	State       string          `json:"state,omitempty"`
	Progress    json.RawMessage `json:"progress,omitempty"`
	Queries     json.RawMessage `json:"queries,omitempty"`
}

// PipelineDefinition describes a query's pipeline: the queries it depends on
// and their edges, as reported by the service.
type PipelineDefinition struct {
	QueryID int64           `json:"query_id,omitempty"`
	Slug    string          `json:"pipeline_slug,omitempty"`
	Queries json.RawMessage `json:"queries,omitempty"`
}

// Usage is the billing usage report.
type Usage struct {
	CreditsUsed      float64 `json:"credits_used,omitempty"`
	CreditsRemaining float64 `json:"credits_remaining,omitempty"`
	PeriodStart      string  `json:"period_start,omitempty"`
	PeriodEnd        string  `json:"period_end,omitempty"`
}
