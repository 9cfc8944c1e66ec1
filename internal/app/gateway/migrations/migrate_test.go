package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDDLStatements(t *testing.T) {
	sql := `
-- leading comment
CREATE TABLE a (
  id STRING(64) NOT NULL, -- key
) PRIMARY KEY (id);

CREATE INDEX a_by_x ON a(x);
CREATE TABLE b (id INT64) PRIMARY KEY (id)
`
	got := parseDDLStatements(sql)

	assert.Equal(t, []string{
		"CREATE TABLE a ( id STRING(64) NOT NULL, ) PRIMARY KEY (id)",
		"CREATE INDEX a_by_x ON a(x)",
		"CREATE TABLE b (id INT64) PRIMARY KEY (id)",
	}, got)
}

func TestSchemaStatements(t *testing.T) {
	statements, err := SchemaStatements()
	require.NoError(t, err)
	require.Len(t, statements, 4)
	assert.Contains(t, statements[0], "CREATE TABLE payments")
	assert.Contains(t, statements[2], "CREATE TABLE payment_methods")
	for _, stmt := range statements {
		assert.NotContains(t, stmt, ";")
		assert.NotContains(t, stmt, "--")
	}
}

func TestPendingStatements(t *testing.T) {
	statements, err := SchemaStatements()
	require.NoError(t, err)

	assert.Equal(t, statements, PendingStatements(nil, statements))

	current := []string{
		"CREATE TABLE payments (\n  id STRING(64) NOT NULL,\n) PRIMARY KEY(id)",
		"CREATE INDEX payments_by_account ON payments(account_id)",
	}
	assert.Equal(t, statements[2:], PendingStatements(current, statements))
	assert.Empty(t, PendingStatements(statements, statements))
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{"CREATE TABLE payments (id STRING(64)) PRIMARY KEY (id)", "table:payments"},
		{"create table Payments(id STRING(64)) PRIMARY KEY (id)", "table:payments"},
		{"CREATE UNIQUE INDEX by_remote ON payments(remote_id)", "index:by_remote"},
		{"CREATE TABLE `orders` (id INT64) PRIMARY KEY (id)", "table:orders"},
		{"ALTER TABLE payments ADD COLUMN note STRING(MAX)", ""},
		{"CREATE", ""},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			assert.Equal(t, tt.want, objectName(tt.stmt))
		})
	}
}
