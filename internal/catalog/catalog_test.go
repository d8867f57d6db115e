package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubforce/stubforce/internal/adapter"
)

func leadMetadata() *adapter.TableMetadata {
	return &adapter.TableMetadata{
		Name: "lead",
		Columns: []adapter.Column{
			{Name: "id", Type: "VARCHAR(18)", Nullable: false, Position: 1},
			{Name: "first_name", Type: "VARCHAR(80)", Nullable: true, Position: 2},
			{Name: "last_name", Type: "VARCHAR(80)", Nullable: true, Position: 3},
			{Name: "status", Type: "VARCHAR(40)", Nullable: true, Position: 4},
			{Name: "annual_revenue", Type: "DOUBLE", Nullable: true, Position: 5},
			{Name: "number_of_employees", Type: "INTEGER", Nullable: true, Position: 6},
			{Name: "is_converted", Type: "BOOLEAN", Nullable: true, Position: 7},
			{Name: "birthdate", Type: "DATE", Nullable: true, Position: 8},
			{Name: "created_date", Type: "TIMESTAMP", Nullable: true, Position: 9},
		},
	}
}

func testCatalog() *Catalog {
	entry := buildEntry(leadMetadata())
	return &Catalog{
		entries: []*Entry{entry},
		index:   map[string]*Entry{entry.Name: entry},
	}
}

func TestCamelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lead", "Lead"},
		{"id", "Id"},
		{"first_name", "FirstName"},
		{"number_of_employees", "NumberOfEmployees"},
		{"created_date", "CreatedDate"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, camelName(tt.in))
	}
}

func TestSplitCamel(t *testing.T) {
	assert.Equal(t, "First Name", splitCamel("FirstName"))
	assert.Equal(t, "Id", splitCamel("Id"))
	assert.Equal(t, "Number Of Employees", splitCamel("NumberOfEmployees"))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "VARCHAR", normalizeType("VARCHAR(80)"))
	assert.Equal(t, "VARCHAR", normalizeType("varchar"))
	assert.Equal(t, "DOUBLE PRECISION", normalizeType(" double precision "))
	assert.Equal(t, "DECIMAL", normalizeType("DECimal(10, 2)"))
}

func TestLogicalTypeMapping(t *testing.T) {
	tests := []struct {
		column  string
		backend string
		want    string
	}{
		{"id", "VARCHAR(18)", TypeID},
		{"first_name", "VARCHAR(80)", TypeString},
		{"status", "TEXT", TypeString},
		{"count", "INTEGER", TypeInt},
		{"count", "BIGINT", TypeInt},
		{"revenue", "DOUBLE", TypeDouble},
		{"revenue", "DOUBLE PRECISION", TypeDouble},
		{"flag", "BOOLEAN", TypeBoolean},
		{"birthdate", "DATE", TypeDate},
		{"created", "TIMESTAMP", TypeDatetime},
		{"payload", "BLOB", TypeAny},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logicalType(tt.column, tt.backend), "%s %s", tt.column, tt.backend)
	}
}

func TestBuildEntry(t *testing.T) {
	entry := buildEntry(leadMetadata())

	assert.Equal(t, "Lead", entry.Name)
	assert.Equal(t, "lead", entry.Table)
	assert.Equal(t, "Lead", entry.Label())

	names := entry.FieldNames()
	require.Len(t, names, 9)
	assert.Equal(t, []string{
		"Id", "FirstName", "LastName", "Status", "AnnualRevenue",
		"NumberOfEmployees", "IsConverted", "Birthdate", "CreatedDate",
	}, names)

	id, ok := entry.Field("Id")
	require.True(t, ok)
	assert.Equal(t, TypeID, id.LogicalType)
	assert.False(t, id.Createable)
	assert.False(t, id.Updateable)

	status, ok := entry.Field("Status")
	require.True(t, ok)
	assert.Equal(t, "status", status.Column)
	assert.True(t, status.Createable)
	assert.True(t, status.Updateable)

	created, ok := entry.Field("CreatedDate")
	require.True(t, ok)
	assert.False(t, created.Createable)
}

func TestFieldLookupCaseSensitive(t *testing.T) {
	entry := buildEntry(leadMetadata())

	_, ok := entry.Field("FirstName")
	assert.True(t, ok)
	_, ok = entry.Field("firstname")
	assert.False(t, ok)
	_, ok = entry.Field("FIRSTNAME")
	assert.False(t, ok)
}

func TestNearest(t *testing.T) {
	candidates := []string{"Lead", "Account", "Contact"}
	assert.Equal(t, "Lead", Nearest("lead", candidates))
	assert.Equal(t, "Account", Nearest("ACCOUNT", candidates))
	assert.Equal(t, "Contact", Nearest("Cont", candidates))
	assert.Equal(t, "", Nearest("Opportunity", candidates))
}
