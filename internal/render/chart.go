package render

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/John-Robertt/tomatoes/internal/app"
	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/infra/fsx"
)

const (
	chartSheet  = "Ratings"
	chartTitle  = "Critic and Audience Ratings of Various Movies"
	chartXTitle = "Movie Names"
	chartYTitle = "Percent Approval"
)

// ErrNothingToChart 表示没有任何电影同时具备两个数值分数。
var ErrNothingToChart = errors.New("没有同时具备影评人与观众数值分数的电影")

// Chart 把可绘制的电影（两个分数都是数值）写成带成对柱状图的 .xlsx，原子替换到 path。
// 返回实际绘制的电影数量。
func Chart(path string, movies []domain.Movie, nameWidth int) (int, error) {
	rows := app.Chartable(movies)
	if len(rows) == 0 {
		return 0, ErrNothingToChart
	}

	f, err := buildWorkbook(rows, nameWidth)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := fsx.WriteFileFunc(path, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return 0, pkgerrors.Wrapf(err, "写入图表 %q 失败", path)
	}
	return len(rows), nil
}

// buildWorkbook 生成数据表（片名/Critic/Audience）与引用它的簇状柱形图。
func buildWorkbook(rows []domain.Movie, nameWidth int) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", chartSheet); err != nil {
		_ = f.Close()
		return nil, pkgerrors.WithStack(err)
	}

	if err := f.SetSheetRow(chartSheet, "A1", &[]any{"Movie", "Critic", "Audience"}); err != nil {
		_ = f.Close()
		return nil, pkgerrors.WithStack(err)
	}
	for i, m := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, pkgerrors.WithStack(err)
		}
		if err := f.SetSheetRow(chartSheet, cell, &[]any{Shorten(m.Name, nameWidth), m.Critic.Value, m.Audience.Value}); err != nil {
			_ = f.Close()
			return nil, pkgerrors.WithStack(err)
		}
	}

	last := len(rows) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", chartSheet, last)
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", chartSheet),
				Categories: categories,
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", chartSheet, last),
			},
			{
				Name:       fmt.Sprintf("%s!$C$1", chartSheet),
				Categories: categories,
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", chartSheet, last),
			},
		},
		Title:  []excelize.RichTextRun{{Text: chartTitle}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chartXTitle}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chartYTitle}}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	if err := f.AddChart(chartSheet, "E2", chart); err != nil {
		_ = f.Close()
		return nil, pkgerrors.WithStack(err)
	}
	return f, nil
}
