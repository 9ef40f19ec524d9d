package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t.Add(9 * time.Hour)
}

func TestTable(t *testing.T) {
	table, err := NewTable([]Holiday{
		{Date: "2026-01-01", Name: "New Year's Day"},
		{Date: "2026-05-04"},
	}, false)
	require.NoError(t, err)

	name, ok := table.IsHoliday(day("2026-01-01"))
	assert.True(t, ok)
	assert.Equal(t, "New Year's Day", name)

	name, ok = table.IsHoliday(day("2026-05-04"))
	assert.True(t, ok)
	assert.Equal(t, "holiday", name)

	_, ok = table.IsHoliday(day("2026-01-02"))
	assert.False(t, ok)

	// 2026-01-03 is a Saturday
	_, ok = table.IsHoliday(day("2026-01-03"))
	assert.False(t, ok, "weekends are working days unless enabled")

	assert.Equal(t, []string{"2026-01-01", "2026-05-04"}, table.Dates())
}

func TestTable_Weekends(t *testing.T) {
	table, err := NewTable(nil, true)
	require.NoError(t, err)

	name, ok := table.IsHoliday(day("2026-01-03"))
	assert.True(t, ok)
	assert.Equal(t, "Saturday", name)

	_, ok = table.IsHoliday(day("2026-01-04"))
	assert.True(t, ok)

	_, ok = table.IsHoliday(day("2026-01-05"))
	assert.False(t, ok)
}

func TestNewTable_InvalidDate(t *testing.T) {
	_, err := NewTable([]Holiday{{Date: "01/01/2026"}}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holiday 0")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.yaml")
	content := `weekends: true
holidays:
  - date: "2026-11-03"
    name: Culture Day
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := Load(path)
	require.NoError(t, err)

	name, ok := table.IsHoliday(day("2026-11-03"))
	assert.True(t, ok)
	assert.Equal(t, "Culture Day", name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("holidays: [\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestNone(t *testing.T) {
	_, ok := None{}.IsHoliday(day("2026-01-01"))
	assert.False(t, ok)
}

func TestTable_WithWeekends(t *testing.T) {
	table, err := NewTable([]Holiday{{Date: "2026-01-01"}}, false)
	require.NoError(t, err)

	both := table.WithWeekends()
	_, ok := both.IsHoliday(day("2026-01-03"))
	assert.True(t, ok)
	_, ok = both.IsHoliday(day("2026-01-01"))
	assert.True(t, ok)

	_, ok = table.IsHoliday(day("2026-01-03"))
	assert.False(t, ok, "original table is unchanged")
}
