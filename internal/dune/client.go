// Package dune provides a typed client for the Dune Analytics API.
package dune

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.dune.com/api/v1"

const apiKeyHeader = "X-Dune-API-Key"

// Config holds the connection settings for a Client. APIKey is required; the
// key is injected explicitly rather than read from ambient process state so
// the client can be substituted in tests.
type Config struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// Client issues one outbound HTTP call per method invocation. It keeps no
// state beyond connection configuration; callers drive any polling by
// re-invoking status methods. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *slog.Logger
}

// New constructs a Client. The API key must be set; base URL and HTTP client
// default to production and a 60s-timeout client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, NewValidationError("api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		log:     logger,
	}, nil
}

type apiRequest struct {
	method      string
	endpoint    string
	query       url.Values
	jsonBody    any
	rawBody     []byte
	contentType string
}

// do issues the request and decodes a JSON response into out (skipped when
// out is nil). Exactly one outbound call; no retries.
func (c *Client) do(ctx context.Context, req apiRequest, out any) error {
	body, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindServer, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// doText issues the request and returns the body verbatim, for CSV endpoints.
func (c *Client) doText(ctx context.Context, req apiRequest) (string, error) {
	body, err := c.doRaw(ctx, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) doRaw(ctx context.Context, req apiRequest) ([]byte, error) {
	u := c.baseURL + req.endpoint
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := "application/json"
	switch {
	case req.jsonBody != nil:
		encoded, err := json.Marshal(req.jsonBody)
		if err != nil {
			return nil, NewValidationError("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	case req.rawBody != nil:
		body = bytes.NewReader(req.rawBody)
		contentType = req.contentType
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, NewValidationError("build request: %v", err)
	}
	httpReq.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, connectionErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionErr(err)
	}
	c.log.Debug("dune api call", "method", req.method, "endpoint", req.endpoint, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return nil, statusErr(resp.StatusCode, upstreamMessage(data))
	}
	return data, nil
}

// upstreamMessage extracts the error field from an error body, falling back
// to the raw text.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(body))
}

func pageQuery(limit, offset int64) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.FormatInt(limit, 10))
	}
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}
	return q
}

func resultQuery(opts ResultOptions) url.Values {
	q := pageQuery(opts.Limit, opts.Offset)
	if opts.Filters != "" {
		q.Set("filters", opts.Filters)
	}
	if opts.SortBy != "" {
		q.Set("sort_by", opts.SortBy)
	}
	return q
}

func requireQueryID(id int64) error {
	if id <= 0 {
		return NewValidationError("query_id must be a positive integer, got %d", id)
	}
	return nil
}

func requireExecutionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("execution_id is required")
	}
	return nil
}

func requirePerformance(p string) error {
	if !validPerformance(p) {
		return NewValidationError("performance must be %q or %q, got %q", PerformanceMedium, PerformanceLarge, p)
	}
	return nil
}

type executePayload struct {
	Performance string         `json:"performance"`
	QuerySQL    string         `json:"query_sql,omitempty"`
	Parameters  map[string]any `json:"query_parameters,omitempty"`
}

// =============================================================================
// Executions
// =============================================================================

// ExecuteQuery starts a run of a saved query. Poll GetExecutionStatus with
// the returned execution id; the client schedules nothing itself.
func (c *Client) ExecuteQuery(ctx context.Context, req ExecuteQueryRequest) (*Execution, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Execution
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: fmt.Sprintf("/query/%d/execute", req.QueryID),
		jsonBody: executePayload{Performance: defaultPerformance(req.Performance), Parameters: req.Parameters},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteSQL runs raw SQL without saving a query.
func (c *Client) ExecuteSQL(ctx context.Context, req ExecuteSQLRequest) (*Execution, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Execution
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/query/execute",
		jsonBody: executePayload{Performance: defaultPerformance(req.Performance), QuerySQL: req.SQL, Parameters: req.Parameters},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteQueryPipeline runs a query together with its dependent materialized
// views.
func (c *Client) ExecuteQueryPipeline(ctx context.Context, queryID int64, performance string) (*PipelineExecution, error) {
	if err := requireQueryID(queryID); err != nil {
		return nil, err
	}
	if err := requirePerformance(performance); err != nil {
		return nil, err
	}
	var out PipelineExecution
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: fmt.Sprintf("/query/%d/execute/pipeline", queryID),
		jsonBody: executePayload{Performance: defaultPerformance(performance)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExecutionResult fetches one page of an execution's results.
func (c *Client) GetExecutionResult(ctx context.Context, executionID string, opts ResultOptions) (*ResultPage, error) {
	if err := requireExecutionID(executionID); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out ResultPage
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/execution/%s/results", executionID),
		query:    resultQuery(opts),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExecutionResultCSV fetches an execution's results as CSV text.
func (c *Client) GetExecutionResultCSV(ctx context.Context, executionID string, limit, offset int64) (string, error) {
	if err := requireExecutionID(executionID); err != nil {
		return "", err
	}
	if err := (ListOptions{Limit: limit, Offset: offset}).Validate(); err != nil {
		return "", err
	}
	return c.doText(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/execution/%s/results/csv", executionID),
		query:    pageQuery(limit, offset),
	})
}

// GetExecutionStatus asks the service what it currently reports for a run.
// Stateless: repeated calls with the same id are independent reads.
func (c *Client) GetExecutionStatus(ctx context.Context, executionID string) (*ExecutionStatus, error) {
	if err := requireExecutionID(executionID); err != nil {
		return nil, err
	}
	var out ExecutionStatus
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/execution/%s/status", executionID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestResult fetches the most recent result of a query without
// re-executing it.
func (c *Client) GetLatestResult(ctx context.Context, queryID int64, opts ResultOptions) (*ResultPage, error) {
	if err := requireQueryID(queryID); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out ResultPage
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/query/%d/results", queryID),
		query:    resultQuery(opts),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestResultCSV fetches the most recent result of a query as CSV text.
func (c *Client) GetLatestResultCSV(ctx context.Context, queryID int64, limit, offset int64) (string, error) {
	if err := requireQueryID(queryID); err != nil {
		return "", err
	}
	if err := (ListOptions{Limit: limit, Offset: offset}).Validate(); err != nil {
		return "", err
	}
	return c.doText(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/query/%d/results/csv", queryID),
		query:    pageQuery(limit, offset),
	})
}

// CancelExecution asks the service to stop a running execution.
func (c *Client) CancelExecution(ctx context.Context, executionID string) (*OperationResult, error) {
	if err := requireExecutionID(executionID); err != nil {
		return nil, err
	}
	var out OperationResult
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: fmt.Sprintf("/execution/%s/cancel", executionID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Query management
// =============================================================================

type queryPayload struct {
	Name        string           `json:"name,omitempty"`
	QuerySQL    string           `json:"query_sql,omitempty"`
	Description string           `json:"description,omitempty"`
	IsPrivate   *bool            `json:"is_private,omitempty"`
	Parameters  []QueryParameter `json:"parameters,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

// CreateQuery saves a new query and returns its id.
func (c *Client) CreateQuery(ctx context.Context, req CreateQueryRequest) (*QueryRef, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	isPrivate := req.IsPrivate
	var out QueryRef
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/query",
		jsonBody: queryPayload{
			Name:        req.Name,
			QuerySQL:    req.SQL,
			Description: req.Description,
			IsPrivate:   &isPrivate,
			Parameters:  req.Parameters,
			Tags:        req.Tags,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadQuery fetches a query's full record.
func (c *Client) ReadQuery(ctx context.Context, queryID int64) (*Query, error) {
	if err := requireQueryID(queryID); err != nil {
		return nil, err
	}
	var out Query
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/query/%d", queryID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuery patches the non-empty fields of an existing query.
func (c *Client) UpdateQuery(ctx context.Context, req UpdateQueryRequest) (*QueryRef, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out QueryRef
	err := c.do(ctx, apiRequest{
		method:   http.MethodPatch,
		endpoint: fmt.Sprintf("/query/%d", req.QueryID),
		jsonBody: queryPayload{
			Name:        req.Name,
			QuerySQL:    req.SQL,
			Description: req.Description,
			Parameters:  req.Parameters,
			Tags:        req.Tags,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) queryAction(ctx context.Context, queryID int64, action string) (*QueryRef, error) {
	if err := requireQueryID(queryID); err != nil {
		return nil, err
	}
	var out QueryRef
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: fmt.Sprintf("/query/%d/%s", queryID, action),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ArchiveQuery archives a query; archived queries cannot execute.
func (c *Client) ArchiveQuery(ctx context.Context, queryID int64) (*QueryRef, error) {
	return c.queryAction(ctx, queryID, "archive")
}

// UnarchiveQuery restores an archived query.
func (c *Client) UnarchiveQuery(ctx context.Context, queryID int64) (*QueryRef, error) {
	return c.queryAction(ctx, queryID, "unarchive")
}

// PrivateQuery makes a query visible only to its owner.
func (c *Client) PrivateQuery(ctx context.Context, queryID int64) (*QueryRef, error) {
	return c.queryAction(ctx, queryID, "private")
}

// UnprivateQuery makes a query publicly visible.
func (c *Client) UnprivateQuery(ctx context.Context, queryID int64) (*QueryRef, error) {
	return c.queryAction(ctx, queryID, "unprivate")
}

// ListQueries pages through the account's queries.
func (c *Client) ListQueries(ctx context.Context, opts ListOptions) (*QueryList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out QueryList
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/queries",
		query:    pageQuery(opts.Limit, opts.Offset),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQueryPipeline fetches the pipeline definition derived from a query's
// materialized view dependencies.
func (c *Client) GetQueryPipeline(ctx context.Context, queryID int64) (*PipelineDefinition, error) {
	if err := requireQueryID(queryID); err != nil {
		return nil, err
	}
	var out PipelineDefinition
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/query/%d/pipeline", queryID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Materialized views
// =============================================================================

// GetMaterializedView fetches a materialized view by full name
// (e.g. dune.team.result_daily_volume).
func (c *Client) GetMaterializedView(ctx context.Context, name string) (*MaterializedView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("name is required")
	}
	var out MaterializedView
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/materialized-views/" + name,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type upsertViewPayload struct {
	Name           string `json:"name"`
	QueryID        int64  `json:"query_id"`
	CronExpression string `json:"cron_expression,omitempty"`
	Performance    string `json:"performance"`
}

// UpsertMaterializedView creates or updates a materialized view.
func (c *Client) UpsertMaterializedView(ctx context.Context, req UpsertMaterializedViewRequest) (*MaterializedView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out MaterializedView
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/materialized-views",
		jsonBody: upsertViewPayload{
			Name:           req.Name,
			QueryID:        req.QueryID,
			CronExpression: req.CronExpression,
			Performance:    defaultPerformance(req.Performance),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMaterializedView removes a materialized view.
func (c *Client) DeleteMaterializedView(ctx context.Context, name string) (*OperationResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("name is required")
	}
	var out OperationResult
	err := c.do(ctx, apiRequest{
		method:   http.MethodDelete,
		endpoint: "/materialized-views/" + name,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMaterializedViews pages through the account's materialized views.
func (c *Client) ListMaterializedViews(ctx context.Context, opts ListOptions) (*MaterializedViewList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out MaterializedViewList
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/materialized-views",
		query:    pageQuery(opts.Limit, opts.Offset),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshMaterializedView triggers an immediate refresh and returns the
// execution performing it.
func (c *Client) RefreshMaterializedView(ctx context.Context, name, performance string) (*Execution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("name is required")
	}
	if err := requirePerformance(performance); err != nil {
		return nil, err
	}
	var out Execution
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/materialized-views/" + name + "/refresh",
		jsonBody: executePayload{Performance: defaultPerformance(performance)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Tables / uploads
// =============================================================================

type createTablePayload struct {
	Namespace   string        `json:"namespace"`
	TableName   string        `json:"table_name"`
	Schema      []TableColumn `json:"schema"`
	Description string        `json:"description,omitempty"`
	IsPrivate   bool          `json:"is_private"`
}

// CreateTable creates an empty uploaded table with an explicit schema.
func (c *Client) CreateTable(ctx context.Context, req CreateTableRequest) (*CreateTableResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out CreateTableResponse
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/uploads/create",
		jsonBody: createTablePayload{
			Namespace:   req.Namespace,
			TableName:   req.TableName,
			Schema:      req.Schema,
			Description: req.Description,
			IsPrivate:   req.IsPrivate,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCSV creates a table from CSV content; the service infers the schema.
// The endpoint takes multipart form data rather than JSON.
func (c *Client) UploadCSV(ctx context.Context, req UploadCSVRequest) (*UploadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="data"; filename="data.csv"`)
	header.Set("Content-Type", "text/csv")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, NewValidationError("build multipart body: %v", err)
	}
	if _, err := part.Write([]byte(req.CSVData)); err != nil {
		return nil, NewValidationError("build multipart body: %v", err)
	}
	if err := w.WriteField("table_name", req.TableName); err != nil {
		return nil, NewValidationError("build multipart body: %v", err)
	}
	if err := w.WriteField("is_private", strconv.FormatBool(req.IsPrivate)); err != nil {
		return nil, NewValidationError("build multipart body: %v", err)
	}
	if req.Description != "" {
		if err := w.WriteField("description", req.Description); err != nil {
			return nil, NewValidationError("build multipart body: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, NewValidationError("build multipart body: %v", err)
	}

	var out UploadResult
	err = c.do(ctx, apiRequest{
		method:      http.MethodPost,
		endpoint:    "/uploads/csv",
		rawBody:     buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// InsertData appends rows to an existing table. Rows are encoded as NDJSON by
// default, or as CSV when the request asks for it.
func (c *Client) InsertData(ctx context.Context, req InsertDataRequest) (*InsertResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = ContentTypeNDJSON
	}

	var body []byte
	var err error
	if contentType == ContentTypeNDJSON {
		body, err = encodeNDJSON(req.Rows)
	} else {
		body, err = encodeCSV(req.Rows)
	}
	if err != nil {
		return nil, err
	}

	var out InsertResult
	err = c.do(ctx, apiRequest{
		method:      http.MethodPost,
		endpoint:    fmt.Sprintf("/uploads/%s/%s/insert", req.Namespace, req.TableName),
		rawBody:     body,
		contentType: contentType,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeNDJSON(rows []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return nil, NewValidationError("encode row: %v", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// encodeCSV renders rows as CSV with a header derived from the first row's
// keys, sorted for a stable column order.
func encodeCSV(rows []map[string]any) ([]byte, error) {
	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, NewValidationError("encode csv: %v", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, name := range columns {
			record[i] = fmt.Sprint(row[name])
		}
		if err := w.Write(record); err != nil {
			return nil, NewValidationError("encode csv: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, NewValidationError("encode csv: %v", err)
	}
	return buf.Bytes(), nil
}

func (c *Client) tableAction(ctx context.Context, method, namespace, tableName, action string) (*OperationResult, error) {
	if strings.TrimSpace(namespace) == "" {
		return nil, NewValidationError("namespace is required")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, NewValidationError("table_name is required")
	}
	endpoint := fmt.Sprintf("/uploads/%s/%s", namespace, tableName)
	if action != "" {
		endpoint += "/" + action
	}
	var out OperationResult
	err := c.do(ctx, apiRequest{method: method, endpoint: endpoint}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearTable removes all rows from a table, keeping its schema.
func (c *Client) ClearTable(ctx context.Context, namespace, tableName string) (*OperationResult, error) {
	return c.tableAction(ctx, http.MethodPost, namespace, tableName, "clear")
}

// DeleteTable permanently deletes a table and its data.
func (c *Client) DeleteTable(ctx context.Context, namespace, tableName string) (*OperationResult, error) {
	return c.tableAction(ctx, http.MethodDelete, namespace, tableName, "")
}

// ListTables pages through uploaded tables.
func (c *Client) ListTables(ctx context.Context, opts ListOptions) (*TableList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out TableList
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/uploads",
		query:    pageQuery(opts.Limit, opts.Offset),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Datasets
// =============================================================================

// GetDataset fetches a dataset's columns and metadata.
func (c *Client) GetDataset(ctx context.Context, namespace, datasetName string) (*Dataset, error) {
	if strings.TrimSpace(namespace) == "" {
		return nil, NewValidationError("namespace is required")
	}
	if strings.TrimSpace(datasetName) == "" {
		return nil, NewValidationError("dataset_name is required")
	}
	var out Dataset
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("/datasets/%s/%s", namespace, datasetName),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDatasets pages through available datasets.
func (c *Client) ListDatasets(ctx context.Context, opts DatasetListOptions) (*DatasetList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	q := pageQuery(opts.Limit, opts.Offset)
	if opts.Owner != "" {
		q.Set("owner", opts.Owner)
	}
	var out DatasetList
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/datasets",
		query:    q,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Pipelines
// =============================================================================

// ExecutePipeline starts a pipeline run by slug (e.g. "team/pipeline-name").
// The dependency graph is resolved and executed entirely by the service.
func (c *Client) ExecutePipeline(ctx context.Context, pipelineSlug, performance string) (*PipelineExecution, error) {
	if strings.TrimSpace(pipelineSlug) == "" {
		return nil, NewValidationError("pipeline_slug is required")
	}
	if err := requirePerformance(performance); err != nil {
		return nil, err
	}
	var out PipelineExecution
	err := c.do(ctx, apiRequest{
		method:   http.MethodPost,
		endpoint: "/pipelines/" + pipelineSlug + "/execute",
		jsonBody: executePayload{Performance: defaultPerformance(performance)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPipelineStatus asks the service for the current state of a pipeline run.
func (c *Client) GetPipelineStatus(ctx context.Context, executionID string) (*PipelineStatus, error) {
	if err := requireExecutionID(executionID); err != nil {
		return nil, err
	}
	var out PipelineStatus
	err := c.do(ctx, apiRequest{
		method:   http.MethodGet,
		endpoint: "/pipelines/" + executionID + "/status",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Usage
// =============================================================================

type usagePayload struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// GetUsage fetches the billing usage report for an optional date range.
func (c *Client) GetUsage(ctx context.Context, period UsagePeriod) (*Usage, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	req := apiRequest{method: http.MethodPost, endpoint: "/usage"}
	if period.StartDate != "" || period.EndDate != "" {
		req.jsonBody = usagePayload{StartDate: period.StartDate, EndDate: period.EndDate}
	}
	var out Usage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
