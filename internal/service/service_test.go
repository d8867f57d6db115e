package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubforce/stubforce/internal/adapter"
	"github.com/stubforce/stubforce/internal/exec"
	"github.com/stubforce/stubforce/internal/seed"
	"github.com/stubforce/stubforce/internal/service"
)

// newTestService stands up a service over a seeded in-memory sqlite store.
func newTestService(t *testing.T) *service.Service {
	t.Helper()
	ctx := context.Background()

	cfg := adapter.Config{Type: "sqlite", Path: ":memory:"}
	a, err := adapter.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx, cfg))
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, seed.Apply(ctx, a, nil))

	svc, err := service.New(ctx, a, exec.Options{}, "59.0", nil)
	require.NoError(t, err)
	return svc
}

func TestQueryExplicitFields(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id, FirstName, LastName FROM Lead ORDER BY FirstName")
	require.Nil(t, apiErr)

	assert.Equal(t, 5, result.TotalSize)
	assert.True(t, result.Done)
	require.Len(t, result.Records, 5)

	rec := result.Records[0]
	assert.Equal(t, "Lead", rec.Attributes.Type)
	require.Len(t, rec.Fields, 3)
	assert.Equal(t, "Id", rec.Fields[0].Name)
	assert.Equal(t, "FirstName", rec.Fields[1].Name)
	assert.Equal(t, "LastName", rec.Fields[2].Name)
	assert.Equal(t, "Ada", rec.Fields[1].Value)
}

func TestQueryWildcardExpandsAllColumns(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(), "SELECT * FROM Lead LIMIT 1")
	require.Nil(t, apiErr)
	require.Len(t, result.Records, 1)

	fields := result.Records[0].Fields
	require.Len(t, fields, 10)
	assert.Equal(t, "Id", fields[0].Name)
	assert.Equal(t, "FirstName", fields[1].Name)
	assert.Equal(t, "CreatedDate", fields[9].Name)
}

func TestQueryConjunctionFilter(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id, FirstName FROM Lead WHERE Status = 'Open' AND NumberOfEmployees > 100")
	require.Nil(t, apiErr)

	require.Equal(t, 1, result.TotalSize)
	assert.Equal(t, "Katherine", result.Records[0].Fields[1].Value)
}

func TestQueryDateRangeFilter(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id FROM Lead WHERE CreatedDate > 2024-03-01 AND CreatedDate < 2024-04-01")
	require.Nil(t, apiErr)
	assert.Equal(t, 2, result.TotalSize)
}

func TestQueryLimitZero(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(), "SELECT Id FROM Lead LIMIT 0")
	require.Nil(t, apiErr)
	assert.Equal(t, 0, result.TotalSize)
	assert.True(t, result.Done)
	assert.Empty(t, result.Records)
}

func TestQueryLimitSubset(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id FROM Lead ORDER BY Id LIMIT 2")
	require.Nil(t, apiErr)
	assert.Equal(t, 2, result.TotalSize)
}

func TestQueryRecordURL(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id FROM Lead WHERE FirstName = 'Ada'")
	require.Nil(t, apiErr)
	require.Equal(t, 1, result.TotalSize)
	assert.Equal(t,
		"/services/data/v59.0/sobjects/Lead/00Q5f000001ZaApEAK",
		result.Records[0].Attributes.URL)
}

func TestQueryRecordURLWithoutIDSelected(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT FirstName FROM Lead WHERE FirstName = 'Ada'")
	require.Nil(t, apiErr)
	require.Equal(t, 1, result.TotalSize)

	rec := result.Records[0]
	assert.Equal(t,
		"/services/data/v59.0/sobjects/Lead/00Q5f000001ZaApEAK",
		rec.Attributes.URL)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, "FirstName", rec.Fields[0].Name)
}

func TestQueryErrorMapping(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name       string
		text       string
		wantCode   string
		wantStatus int
	}{
		{"syntax error", "SELECT FROM Lead", service.CodeInvalidQuery, http.StatusBadRequest},
		{"unknown object", "SELECT Id FROM Opportunity", service.CodeNotFound, http.StatusNotFound},
		{"unknown field", "SELECT Id, Firstname FROM Lead", service.CodeInvalidField, http.StatusBadRequest},
		{"type mismatch", "SELECT Id FROM Lead WHERE NumberOfEmployees = 'many'", service.CodeInvalidQuery, http.StatusBadRequest},
		{"malformed date", "SELECT Id FROM Lead WHERE CreatedDate > 'someday'", service.CodeInvalidQuery, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apiErr := svc.Query(context.Background(), tt.text)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
		})
	}
}

func TestQueryUnknownObjectNamesExactObject(t *testing.T) {
	svc := newTestService(t)

	_, apiErr := svc.Query(context.Background(), "SELECT Id FROM Leads")
	require.NotNil(t, apiErr)
	assert.Contains(t, apiErr.Message, `"Leads"`)
	assert.Contains(t, apiErr.Message, `"Lead"`)
}

func TestQueryInjectionAttemptFailsClosed(t *testing.T) {
	svc := newTestService(t)

	// The semicolon never reaches the store: the lexer rejects it.
	_, apiErr := svc.Query(context.Background(),
		"SELECT Id FROM Lead; DROP TABLE lead")
	require.NotNil(t, apiErr)
	assert.Equal(t, service.CodeInvalidQuery, apiErr.ErrorCode)

	// The store is intact afterwards.
	result, apiErr := svc.Query(context.Background(), "SELECT Id FROM Lead")
	require.Nil(t, apiErr)
	assert.Equal(t, 5, result.TotalSize)
}

func TestQueryQuotedStringStaysData(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id FROM Lead WHERE LastName = 'x'' OR ''1''=''1'")
	require.Nil(t, apiErr)
	assert.Equal(t, 0, result.TotalSize, "the payload matches no row as data")
}

func TestDescribe(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Describe("Lead")
	require.Nil(t, apiErr)

	assert.Equal(t, "Lead", result.Name)
	assert.True(t, result.Queryable)
	require.Len(t, result.Fields, 10)

	byName := map[string]service.FieldDescribe{}
	for _, f := range result.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, "id", byName["Id"].Type)
	assert.False(t, byName["Id"].Createable)
	assert.Equal(t, "string", byName["FirstName"].Type)
	assert.Equal(t, "First Name", byName["FirstName"].Label)
	assert.Equal(t, "double", byName["AnnualRevenue"].Type)
	assert.Equal(t, "int", byName["NumberOfEmployees"].Type)
	assert.Equal(t, "boolean", byName["IsConverted"].Type)
	assert.Equal(t, "datetime", byName["CreatedDate"].Type)
	assert.False(t, byName["CreatedDate"].Createable)
	assert.False(t, byName["Id"].Nullable)
	assert.True(t, byName["FirstName"].Nullable)
}

func TestDescribeSerializesWireShape(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Describe("Lead")
	require.Nil(t, apiErr)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"name":"Lead"`)
	assert.Contains(t, s, `"queryable":true`)
	for _, key := range []string{`"name"`, `"label"`, `"type"`, `"nullable"`, `"createable"`, `"updateable"`} {
		assert.Contains(t, s, key)
	}
	assert.Contains(t, s, `"nullable":false`)
	assert.Contains(t, s, `"nullable":true`)
}

func TestDescribeUnknownObject(t *testing.T) {
	svc := newTestService(t)

	_, apiErr := svc.Describe("Opportunity")
	require.NotNil(t, apiErr)
	assert.Equal(t, service.CodeNotFound, apiErr.ErrorCode)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestObjects(t *testing.T) {
	svc := newTestService(t)

	list := svc.Objects()
	require.Len(t, list.SObjects, 3)

	names := make([]string, len(list.SObjects))
	for i, o := range list.SObjects {
		names[i] = o.Name
	}
	assert.ElementsMatch(t, []string{"Lead", "Account", "Contact"}, names)
}

func TestReloadPicksUpNewTable(t *testing.T) {
	ctx := context.Background()

	cfg := adapter.Config{Type: "sqlite", Path: ":memory:"}
	a, err := adapter.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx, cfg))
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, seed.Apply(ctx, a, nil))

	svc, err := service.New(ctx, a, exec.Options{}, "59.0", nil)
	require.NoError(t, err)

	_, apiErr := svc.Describe("Opportunity")
	require.NotNil(t, apiErr)

	require.NoError(t, a.Exec(ctx, "CREATE TABLE opportunity (id VARCHAR(18) PRIMARY KEY, stage_name VARCHAR(40))"))
	require.Nil(t, svc.Reload(ctx))

	result, apiErr := svc.Describe("Opportunity")
	require.Nil(t, apiErr)
	assert.Equal(t, "Opportunity", result.Name)

	found := false
	for _, f := range result.Fields {
		if f.Name == "StageName" {
			found = true
			assert.Equal(t, "string", f.Type)
		}
	}
	assert.True(t, found)
}

func TestQueryResultSerializesWireShape(t *testing.T) {
	svc := newTestService(t)

	result, apiErr := svc.Query(context.Background(),
		"SELECT Id, FirstName FROM Lead WHERE FirstName = 'Ada'")
	require.Nil(t, apiErr)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"totalSize":1`)
	assert.Contains(t, s, `"done":true`)
	assert.Contains(t, s, `"attributes":{"type":"Lead"`)
}
