package imports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "waybill_id,waybill_date,delivery_date,project_id,supplier_id,product_code,product_name,quantity,unit,unit_price,total_amount,delivery_address"

func TestReadRows_SimpleFile(t *testing.T) {
	input := csvHeader + "\n" +
		"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Somewhere\n" +
		"WB-2,2026-03-01,2026-03-03,P1,S1,CEM,Cement,5,bag,150.75,753.75,Somewhere\n"

	rows, findings, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, findings)
	require.Len(t, rows, 2)
	assert.Equal(t, "WB-1", rows[0].WaybillID)
	assert.Equal(t, 1, rows[0].RowNumber)
	assert.Equal(t, "WB-2", rows[1].WaybillID)
	assert.Equal(t, 2, rows[1].RowNumber)
}

func TestReadRows_ByteOrderMarkTolerated(t *testing.T) {
	input := "\xEF\xBB\xBF" + csvHeader + "\n" +
		"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Somewhere\n"

	rows, findings, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, findings)
	require.Len(t, rows, 1)
	assert.Equal(t, "WB-1", rows[0].WaybillID, "BOM must not fuse into the first header name")
}

func TestReadRows_HeaderOrderIrrelevant(t *testing.T) {
	input := "quantity,waybill_id,delivery_address\n" +
		"10,WB-9,Depot 4\n"

	rows, _, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "WB-9", rows[0].WaybillID)
	assert.Equal(t, "10", rows[0].Quantity)
	assert.Equal(t, "Depot 4", rows[0].DeliveryAddress)
	assert.Empty(t, rows[0].SupplierID, "absent columns read as empty")
}

func TestReadRows_NonASCIIFieldsPreserved(t *testing.T) {
	input := "waybill_id,product_name,delivery_address\n" +
		"WB-3,מלט פורטלנד,רחוב הרצל 12 תל אביב\n"

	rows, _, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "מלט פורטלנד", rows[0].ProductName)
	assert.Equal(t, "רחוב הרצל 12 תל אביב", rows[0].DeliveryAddress)
}

func TestReadRows_EmptyInput(t *testing.T) {
	rows, findings, err := readRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, findings)
}

func TestReadRows_HeaderOnly(t *testing.T) {
	rows, findings, err := readRows(strings.NewReader(csvHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, findings)
}

func TestReadRows_BlankLinesSkipped(t *testing.T) {
	input := "\n" + csvHeader + "\n" +
		"\n" +
		"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Somewhere\n" +
		"\n"

	rows, findings, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, findings)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].RowNumber)
}

func TestReadRows_MalformedLineBecomesFinding(t *testing.T) {
	input := "waybill_id,product_name\n" +
		"WB-1,good\n" +
		"WB-2,bad\"quote\n" +
		"WB-3,also good\n"

	rows, findings, err := readRows(strings.NewReader(input))
	require.NoError(t, err, "a malformed line never aborts the read")
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError)
	assert.Equal(t, 2, findings[0].RowNumber)
	require.Len(t, rows, 2)
	assert.Equal(t, "WB-1", rows[0].WaybillID)
	assert.Equal(t, "WB-3", rows[1].WaybillID)
	assert.Equal(t, 3, rows[1].RowNumber, "row numbering counts the failed line")
}

func TestReadRows_ShortRecordReadsEmpty(t *testing.T) {
	input := "waybill_id,quantity,unit\n" +
		"WB-1,10\n"

	rows, _, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Unit)
}
