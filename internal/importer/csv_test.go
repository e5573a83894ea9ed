package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	data := `Customer Name,Timestamp,kW,kWh
acme,2024-01-15T02:00:00,,10
acme,2024-01-20 14:00:00,"1,200.5",20 kWh
globex,1705284000,3,
`

	entries, err := ParseCSV(strings.NewReader(data), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "acme", entries[0].CustomerName)
	assert.Nil(t, entries[0].KW)
	require.NotNil(t, entries[0].KWh)
	assert.Equal(t, 10.0, *entries[0].KWh)
	assert.Equal(t, "2024-01-15T02:00:00", entries[0].Timestamp)

	require.NotNil(t, entries[1].KW)
	assert.Equal(t, 1200.5, *entries[1].KW)
	assert.Equal(t, 20.0, *entries[1].KWh)

	assert.Equal(t, "globex", entries[2].CustomerName)
	assert.Equal(t, int64(1705284000), entries[2].Timestamp)
	assert.Nil(t, entries[2].KWh)
}

func TestParseCSV_DefaultCustomer(t *testing.T) {
	data := "Start Time,Usage\n2024-03-01 23:00,4.5\nnot a time,bad\n"

	entries, err := ParseCSV(strings.NewReader(data), "acme")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "acme", entries[0].CustomerName)
	assert.Equal(t, 4.5, *entries[0].KWh)
	assert.Nil(t, entries[0].KW)
	assert.Equal(t, "not a time", entries[1].Timestamp)
	assert.Nil(t, entries[1].KWh)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("customer,timestamp\nacme,2024-01-01\n"), "")
	assert.ErrorContains(t, err, "could not find kw or kwh")

	_, err = ParseCSV(strings.NewReader("timestamp,kwh\n2024-01-01,1\n"), "")
	assert.ErrorContains(t, err, "no customer column")

	_, err = ParseCSV(strings.NewReader(""), "acme")
	assert.ErrorContains(t, err, "reading CSV header")
}

func TestParseCSV_NonFiniteNumbersAreMissing(t *testing.T) {
	data := `customer,timestamp,kw,kwh
acme,2024-01-15T02:00:00,NaN,inf
acme,2024-01-15T03:00:00,-Infinity,2
`

	entries, err := ParseCSV(strings.NewReader(data), "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Nil(t, entries[0].KW)
	assert.Nil(t, entries[0].KWh)
	assert.Nil(t, entries[1].KW)
	require.NotNil(t, entries[1].KWh)
	assert.Equal(t, 2.0, *entries[1].KWh)
}
