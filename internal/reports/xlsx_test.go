package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderXLSX(t *testing.T) {
	table := BuildTable(sampleSummary(), generated)

	buf, err := RenderXLSX(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	// title, summary lines, blank, header, records
	require.Len(t, rows, 1+len(table.Summary)+1+1+len(table.Rows))
	assert.Equal(t, "Batch WO-1001", rows[0][0])
	assert.Equal(t, []string{"Part Number", "P-9"}, rows[1])

	header := rows[len(table.Summary)+2]
	assert.Equal(t, table.Headers, header)

	first := rows[len(table.Summary)+3]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "1234567", first[1])
	assert.Equal(t, "Passed", first[9])
}
