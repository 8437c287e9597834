package appointment

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

func TestSchema_AppointmentColumns(t *testing.T) {
	columns := ddlColumns(t, "appointments")

	for _, col := range appointmentColumns {
		require.Contains(t, columns, col, "appointments is missing a column the repository scans")
	}
}

func TestSchema_AppointmentServiceColumns(t *testing.T) {
	columns := ddlColumns(t, "appointment_services")

	for _, col := range []string{"id", "appointment_id", "service_id", "name", "price", "duration_minutes"} {
		require.Contains(t, columns, col, "appointment_services is missing a column the repository scans")
	}
}
