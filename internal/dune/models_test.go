package dune

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteQueryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ExecuteQueryRequest
		wantErr bool
	}{
		{"valid", ExecuteQueryRequest{QueryID: 1215383}, false},
		{"valid large tier", ExecuteQueryRequest{QueryID: 1, Performance: PerformanceLarge}, false},
		{"negative id", ExecuteQueryRequest{QueryID: -1}, true},
		{"zero id", ExecuteQueryRequest{QueryID: 0}, true},
		{"bad performance", ExecuteQueryRequest{QueryID: 1, Performance: "turbo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindValidation, KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecuteSQLRequestValidate(t *testing.T) {
	assert.NoError(t, ExecuteSQLRequest{SQL: "select 1"}.Validate())
	err := ExecuteSQLRequest{SQL: "   "}.Validate()
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestResultOptionsValidate(t *testing.T) {
	assert.NoError(t, ResultOptions{Limit: 10, Offset: 5}.Validate())
	assert.Error(t, ResultOptions{Limit: -1}.Validate())
	assert.Error(t, ResultOptions{Offset: -1}.Validate())
}

func TestCreateQueryRequestValidate(t *testing.T) {
	assert.NoError(t, CreateQueryRequest{Name: "daily volume", SQL: "select 1"}.Validate())
	assert.Error(t, CreateQueryRequest{SQL: "select 1"}.Validate())
	assert.Error(t, CreateQueryRequest{Name: "daily volume"}.Validate())
}

func TestUpdateQueryRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateQueryRequest{QueryID: 7, Name: "renamed"}.Validate())
	assert.Error(t, UpdateQueryRequest{QueryID: 0, Name: "renamed"}.Validate())

	err := UpdateQueryRequest{QueryID: 7}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field")
}

func TestUpsertMaterializedViewRequestValidate(t *testing.T) {
	valid := UpsertMaterializedViewRequest{
		Name:           "dune.team.result_daily_volume",
		QueryID:        42,
		CronExpression: "0 */1 * * *",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  UpsertMaterializedViewRequest
	}{
		{"missing name", UpsertMaterializedViewRequest{QueryID: 42}},
		{"missing result_ prefix", UpsertMaterializedViewRequest{Name: "dune.team.daily_volume", QueryID: 42}},
		{"bad query id", UpsertMaterializedViewRequest{Name: "dune.team.result_x", QueryID: 0}},
		{"bad cron", UpsertMaterializedViewRequest{Name: "dune.team.result_x", QueryID: 42, CronExpression: "not a cron"}},
		{"six-field cron", UpsertMaterializedViewRequest{Name: "dune.team.result_x", QueryID: 42, CronExpression: "0 0 * * * *"}},
		{"bad performance", UpsertMaterializedViewRequest{Name: "dune.team.result_x", QueryID: 42, Performance: "huge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestCreateTableRequestValidate(t *testing.T) {
	valid := CreateTableRequest{
		Namespace: "my_team",
		TableName: "metrics",
		Schema:    []TableColumn{{Name: "day", Type: "date"}, {Name: "count", Type: "integer"}},
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, CreateTableRequest{TableName: "metrics", Schema: valid.Schema}.Validate())
	assert.Error(t, CreateTableRequest{Namespace: "my_team", TableName: "metrics"}.Validate())

	err := CreateTableRequest{
		Namespace: "my_team",
		TableName: "metrics",
		Schema:    []TableColumn{{Name: "day"}},
	}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 0")
}

func TestInsertDataRequestValidate(t *testing.T) {
	rows := []map[string]any{{"a": 1}}
	assert.NoError(t, InsertDataRequest{Namespace: "ns", TableName: "t", Rows: rows}.Validate())
	assert.NoError(t, InsertDataRequest{Namespace: "ns", TableName: "t", Rows: rows, ContentType: ContentTypeCSV}.Validate())
	assert.Error(t, InsertDataRequest{Namespace: "ns", TableName: "t"}.Validate())
	assert.Error(t, InsertDataRequest{Namespace: "ns", TableName: "t", Rows: rows, ContentType: "application/xml"}.Validate())
}

func TestUsagePeriodValidate(t *testing.T) {
	assert.NoError(t, UsagePeriod{}.Validate())
	assert.NoError(t, UsagePeriod{StartDate: "2026-01-01", EndDate: "2026-01-31"}.Validate())
	assert.Error(t, UsagePeriod{StartDate: "01/01/2026"}.Validate())
	assert.Error(t, UsagePeriod{EndDate: "2026-13-40"}.Validate())
}

func TestExecutionStatusRoundTrip(t *testing.T) {
	in := ExecutionStatus{
		ExecutionID:        "01HV8Q",
		QueryID:            1215383,
		State:              "QUERY_STATE_COMPLETED",
		SubmittedAt:        "2026-08-01T10:00:00Z",
		ExecutionStartedAt: "2026-08-01T10:00:01Z",
		ExecutionEndedAt:   "2026-08-01T10:00:05Z",
		ResultSetBytes:     2048,
		TotalRowCount:      17,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ExecutionStatus
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestResultPageRoundTrip(t *testing.T) {
	offset := int64(100)
	in := ResultPage{
		ExecutionID: "abc",
		QueryID:     7,
		State:       "QUERY_STATE_COMPLETED",
		Result: &ResultData{
			Rows: []map[string]any{{"day": "2026-08-01", "volume": 12.5}},
			Metadata: ResultMetadata{
				ColumnNames:   []string{"day", "volume"},
				TotalRowCount: 1,
			},
		},
		NextOffset: &offset,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ResultPage
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMaterializedViewIgnoresUnknownFields(t *testing.T) {
	raw := `{"name": "dune.team.result_x", "query_id": 42, "cron_expression": "0 */1 * * *", "brand_new_field": true}`
	var view MaterializedView
	require.NoError(t, json.Unmarshal([]byte(raw), &view))
	assert.Equal(t, "dune.team.result_x", view.Name)
	assert.Equal(t, int64(42), view.QueryID)
	assert.Equal(t, "0 */1 * * *", view.CronExpression)
}
