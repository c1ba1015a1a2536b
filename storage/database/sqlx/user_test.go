package sqlxrepos

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfs "github.com/devanshuyeole/college-event-hub/fs"
)

var adminLogInsertRegex = regexp.MustCompile(`INSERT INTO admin_logs \(([^)]+)\)`)

// The admin-log insert bypasses struct mapping, so a drift between its column
// list and the migration only surfaces at runtime against a live database.
// Pin the two together here.
func Test_insertAdminLogQuery_matchesMigration(t *testing.T) {
	schema, err := appfs.FS.ReadFile("migrations/0001_initial.sql")
	require.NoError(t, err)

	start := strings.Index(string(schema), "CREATE TABLE admin_logs (")
	require.GreaterOrEqual(t, start, 0, "admin_logs table missing from initial migration")
	table := string(schema)[start:]
	end := strings.Index(table, ");")
	require.GreaterOrEqual(t, end, 0)
	table = table[:end]

	match := adminLogInsertRegex.FindStringSubmatch(insertAdminLogQuery)
	require.NotNil(t, match, "admin log insert statement changed shape")

	cols := strings.Split(match[1], ",")
	assert.NotContains(t, cols, "id", "id is assigned by the table's BIGSERIAL")
	for _, col := range cols {
		col = strings.TrimSpace(col)
		assert.Contains(t, table, "\n    "+col+" ", "column %q not defined on admin_logs", col)
	}
}
