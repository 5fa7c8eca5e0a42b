package output

import (
	"strconv"

	"github.com/fbiville/markdown-table-formatter/pkg/markdown"

	"github.com/daryltucker/predict-runner/internal/model"
)

// AveragesTable renders the averages as a pretty-printed markdown table.
func AveragesTable(rows []model.Average) (string, error) {
	tableFormatter := markdown.NewTableFormatterBuilder().
		WithPrettyPrint().
		Build(model.AverageHeader...)

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Case, strconv.FormatFloat(row.AvgMs, 'f', 3, 64)})
	}
	return tableFormatter.Format(cells)
}
