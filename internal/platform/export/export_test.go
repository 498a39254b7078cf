package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Name:    "挂号记录",
		Headers: []string{"编号", "患者", "状态"},
		Rows: [][]string{
			{"1", "张三", "待处理"},
			{"2", "李四, 测试", "已完成"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	want := "编号,患者,状态\n1,张三,待处理\n2,\"李四, 测试\",已完成\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"挂号记录"}, f.GetSheetList())

	rows, err := f.GetRows("挂号记录")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"编号", "患者", "状态"}, rows[0])
	assert.Equal(t, []string{"2", "李四, 测试", "已完成"}, rows[2])
}

func TestWriteXLSX_DefaultSheetName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Table{Headers: []string{"a"}, Rows: [][]string{{"b"}}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
