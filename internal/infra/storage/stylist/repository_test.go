package stylist

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ddlColumns извлекает имена колонок таблицы из файла миграции
func ddlColumns(t *testing.T, table string) map[string]bool {
	t.Helper()

	ddl, err := os.ReadFile("../../../../migrations/001_init.sql")
	require.NoError(t, err)

	re := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`)
	match := re.FindSubmatch(ddl)
	require.NotNil(t, match, "table %s not found in migration", table)

	columns := make(map[string]bool)
	for _, line := range strings.Split(string(match[1]), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		first := fields[0]
		switch first {
		case "CONSTRAINT", "UNIQUE", "CHECK", "PRIMARY", "FOREIGN", "--":
			continue
		}
		columns[first] = true
	}
	return columns
}

func TestSchema_StylistColumns(t *testing.T) {
	columns := ddlColumns(t, "stylists")

	for _, col := range []string{"id", "business_id", "name", "is_active", "created_at", "updated_at"} {
		require.Contains(t, columns, col, "stylists is missing a column the repository selects")
	}
}

func TestSchema_StylistScheduleColumns(t *testing.T) {
	columns := ddlColumns(t, "stylist_schedules")

	for _, col := range []string{"id", "stylist_id", "day_of_week", "is_working", "start_time", "end_time"} {
		require.Contains(t, columns, col, "stylist_schedules is missing a column the repository selects")
	}
}
