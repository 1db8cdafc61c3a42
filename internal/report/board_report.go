// Package report renders the board as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	CollectionsSheet = "Collections"
	TasksSheet       = "Tasks"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	collectionHeader = []string{"Name", "Color", "Created At", "Tasks", "Done", "Progress %"}
	taskHeader       = []string{"Collection", "Content", "Expires At", "Done", "Created At"}
)

// BoardWriter writes one workbook per call to Write.
type BoardWriter struct {
	// Location is used for every timestamp; defaults to UTC.
	Location *time.Location
}

// WriteBoard writes board to w using UTC timestamps.
func WriteBoard(w io.Writer, board []domain.CollectionWithTasks) error {
	return BoardWriter{}.Write(w, board)
}

func (bw BoardWriter) Write(w io.Writer, board []domain.CollectionWithTasks) error {
	loc := bw.Location
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", CollectionsSheet)
	if _, err := f.NewSheet(TasksSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", TasksSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	})
	if err != nil {
		return err
	}

	if err := writeCollections(f, board, headerStyle, loc); err != nil {
		return err
	}
	if err := writeTasks(f, board, headerStyle, loc); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCollections(f *excelize.File, board []domain.CollectionWithTasks, headerStyle int, loc *time.Location) error {
	sw, err := f.NewStreamWriter(CollectionsSheet)
	if err != nil {
		return err
	}
	_ = sw.SetColWidth(1, 1, 30)
	_ = sw.SetColWidth(2, 6, 14)

	if err := sw.SetRow("A1", headerRow(collectionHeader, headerStyle)); err != nil {
		return err
	}

	colorStyles := map[domain.CollectionColor]int{}
	for i, c := range board {
		sid, ok := colorStyles[c.Color]
		if !ok {
			sid, err = colorStyle(f, c.Color)
			if err != nil {
				return err
			}
			colorStyles[c.Color] = sid
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			c.Name,
			excelize.Cell{Value: string(c.Color), StyleID: sid},
			c.CreatedAt.In(loc).Format(time.DateTime),
			len(c.Tasks),
			c.DoneCount(),
			round2(c.Progress()),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeTasks(f *excelize.File, board []domain.CollectionWithTasks, headerStyle int, loc *time.Location) error {
	sw, err := f.NewStreamWriter(TasksSheet)
	if err != nil {
		return err
	}
	_ = sw.SetColWidth(1, 1, 30)
	_ = sw.SetColWidth(2, 2, 50)
	_ = sw.SetColWidth(3, 5, 20)

	if err := sw.SetRow("A1", headerRow(taskHeader, headerStyle)); err != nil {
		return err
	}

	row := 2
	for _, c := range board {
		for _, t := range c.Tasks {
			expires := ""
			if t.ExpiresAt != nil {
				expires = t.ExpiresAt.In(loc).Format(time.DateTime)
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := sw.SetRow(cell, []interface{}{
				c.Name,
				t.Content,
				expires,
				t.Done,
				t.CreatedAt.In(loc).Format(time.DateTime),
			}); err != nil {
				return err
			}
			row++
		}
	}
	return sw.Flush()
}

func headerRow(titles []string, styleID int) []interface{} {
	row := make([]interface{}, len(titles))
	for i, t := range titles {
		row[i] = excelize.Cell{Value: t, StyleID: styleID}
	}
	return row
}

// colorStyle fills a cell with the first stop of the collection's gradient.
func colorStyle(f *excelize.File, c domain.CollectionColor) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(c.Gradient().From, "#")},
			Pattern: 1,
		},
	})
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
