package business

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ddlColumns извлекает имена колонок таблицы из файла миграции
// Репозиторий строит запросы строками, поэтому дрейф колонок между DDL и
// запросами ломается только в рантайме - этот тест ловит его на CI
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

func TestSchema_BusinessColumns(t *testing.T) {
	columns := ddlColumns(t, "businesses")

	for _, col := range []string{
		"id",
		"name",
		"slug",
		"is_active",
		"requires_deposit",
		"deposit_type",
		"deposit_fixed_amount",
		"deposit_percentage",
		"deposit_deadline_hours",
		"payment_instructions",
		"created_at",
		"updated_at",
	} {
		require.Contains(t, columns, col, "businesses is missing a column the repository selects")
	}
}

func TestSchema_BusinessHoursColumns(t *testing.T) {
	columns := ddlColumns(t, "business_hours")

	for _, col := range []string{"business_id", "day_of_week", "is_open", "open_time", "close_time"} {
		require.Contains(t, columns, col, "business_hours is missing a column the repository selects")
	}
}
