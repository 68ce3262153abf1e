// Package view turns an item sequence into a description of what to draw.
// It holds no state; the terminal and CLI renderers consume its output.
package view

import (
	"fmt"

	"checklist/internal/item"
)

const (
	EmptyListText     = "No items yet. Add one to get started!"
	EmptyProgressText = "Start by adding your first learning item!"

	ColorSegmentDone    = "#4caf50"
	ColorSegmentPending = "#d0d0d0"

	ColorRowDoneBackground    = "#e8f5e9"
	ColorRowDoneBorder        = "#4caf50"
	ColorRowPendingBackground = "#fff3e0"
	ColorRowPendingBorder     = "#9900ff"
)

// Treatment is how a row's text is drawn.
type Treatment int

const (
	TreatmentNormal Treatment = iota
	// TreatmentStruck is struck through and muted.
	TreatmentStruck
)

type Row struct {
	// ID is what the row's toggle and delete controls act on.
	ID         int64
	Text       string
	Completed  bool
	Treatment  Treatment
	Background string
	Border     string
}

type ListView struct {
	Empty       bool
	Placeholder string
	Rows        []Row
}

type Segment struct {
	ID    int64
	Color string
	// Label is shown when the segment is hovered or selected.
	Label string
}

type ProgressView struct {
	Completed   int
	Total       int
	Text        string
	Segments    []Segment
	Placeholder string
}

// Project builds both views from items.
func Project(items []item.Item) (ListView, ProgressView) {
	return projectList(items), projectProgress(items)
}

func projectList(items []item.Item) ListView {
	if len(items) == 0 {
		return ListView{Empty: true, Placeholder: EmptyListText}
	}
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		r := Row{
			ID:         it.ID,
			Text:       it.Text,
			Completed:  it.Completed,
			Treatment:  TreatmentNormal,
			Background: ColorRowPendingBackground,
			Border:     ColorRowPendingBorder,
		}
		if it.Completed {
			r.Treatment = TreatmentStruck
			r.Background = ColorRowDoneBackground
			r.Border = ColorRowDoneBorder
		}
		rows = append(rows, r)
	}
	return ListView{Rows: rows}
}

func projectProgress(items []item.Item) ProgressView {
	completed, total := item.Counts(items)
	pv := ProgressView{
		Completed: completed,
		Total:     total,
		Text:      ProgressText(completed, total),
	}
	if total == 0 {
		pv.Placeholder = EmptyProgressText
		return pv
	}
	pv.Segments = make([]Segment, 0, total)
	for _, it := range items {
		color := ColorSegmentPending
		if it.Completed {
			color = ColorSegmentDone
		}
		pv.Segments = append(pv.Segments, Segment{ID: it.ID, Color: color, Label: it.Text})
	}
	return pv
}

func ProgressText(completed, total int) string {
	return fmt.Sprintf("%d of %d Completed", completed, total)
}
