// Package checklist derives task progress from free-form markdown checklists.
//
// A tasks deliverable is plain text written by an AI assistant, so the
// parser is tolerant: it recognizes four checkbox notations, optional
// priority markers, and nesting by indentation. Lines that are not
// checklist items are skipped, never rejected. Parsing has no state and
// no failure mode; every call builds a fresh set of items.
package checklist

import (
	"math"
	"strings"
)

// Priority ranks a checklist item. Items without a marker are medium.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Format records which list notation an item was written in.
type Format string

const (
	FormatDash     Format = "dash_checkbox"     // - [ ]
	FormatAsterisk Format = "asterisk_checkbox" // * [ ]
	FormatPlus     Format = "plus_checkbox"     // + [ ]
	FormatNumbered Format = "numbered_checkbox" // 1. [ ]
)

// upcomingLimit is how many incomplete items follow the current one.
const upcomingLimit = 3

// Item is one checklist line. ID is the 1-based position of the item in
// the parse that produced it; it is not stable across parses of edited text.
type Item struct {
	ID        int      `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Completed bool     `json:"completed" yaml:"completed"`
	Line      int      `json:"line" yaml:"line"`
	Indent    int      `json:"indent_level" yaml:"indent_level"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Format    Format   `json:"format" yaml:"format"`
	ParentID  int      `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Children  []int    `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasChildren reports whether any item is nested under this one.
func (it *Item) HasChildren() bool {
	return len(it.Children) > 0
}

// PriorityGroups buckets items by priority, preserving source order.
type PriorityGroups struct {
	High   []*Item `json:"high" yaml:"high"`
	Medium []*Item `json:"medium" yaml:"medium"`
	Low    []*Item `json:"low" yaml:"low"`
}

// Result is the outcome of parsing one document.
type Result struct {
	Items      []*Item        `json:"items" yaml:"items"`
	Total      int            `json:"total" yaml:"total"`
	Completed  int            `json:"completed" yaml:"completed"`
	Percentage int            `json:"percentage" yaml:"percentage"`
	Current    *Item          `json:"current_task,omitempty" yaml:"current_task,omitempty"`
	Upcoming   []*Item        `json:"next_tasks" yaml:"next_tasks"`
	ByPriority PriorityGroups `json:"by_priority" yaml:"by_priority"`
}

// Item returns the item with the given id, or nil.
func (r *Result) Item(id int) *Item {
	if id < 1 || id > len(r.Items) {
		return nil
	}
	return r.Items[id-1]
}

// Parent returns the parent of it, or nil for a top-level item.
func (r *Result) Parent(it *Item) *Item {
	if it == nil || it.ParentID == 0 {
		return nil
	}
	return r.Item(it.ParentID)
}

// Parse scans text for checklist items and computes progress metrics.
func Parse(text string) *Result {
	lines := strings.Split(text, "\n")
	items := make([]*Item, 0, len(lines)/2)

	for i, line := range lines {
		m, ok := matchLine(line)
		if !ok {
			continue
		}
		items = append(items, &Item{
			ID:        len(items) + 1,
			Text:      m.text,
			Completed: m.completed,
			Line:      i + 1,
			Indent:    m.indent / 2,
			Priority:  m.priority,
			Format:    m.format,
		})
	}

	buildHierarchy(items)
	return summarize(items)
}

// buildHierarchy links each item to the nearest preceding item with a
// smaller indent level.
func buildHierarchy(items []*Item) {
	var stack []*Item
	for _, it := range items {
		for len(stack) > 0 && stack[len(stack)-1].Indent >= it.Indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			it.ParentID = parent.ID
			parent.Children = append(parent.Children, it.ID)
		}
		stack = append(stack, it)
	}
}

func summarize(items []*Item) *Result {
	res := &Result{
		Items:    items,
		Total:    len(items),
		Upcoming: []*Item{},
	}

	var incomplete []*Item
	for _, it := range items {
		if it.Completed {
			res.Completed++
		} else {
			incomplete = append(incomplete, it)
		}

		switch it.Priority {
		case PriorityHigh:
			res.ByPriority.High = append(res.ByPriority.High, it)
		case PriorityLow:
			res.ByPriority.Low = append(res.ByPriority.Low, it)
		default:
			res.ByPriority.Medium = append(res.ByPriority.Medium, it)
		}
	}

	res.Percentage = Percentage(res.Completed, res.Total)

	if len(incomplete) > 0 {
		res.Current = incomplete[0]
		rest := incomplete[1:]
		if len(rest) > upcomingLimit {
			rest = rest[:upcomingLimit]
		}
		res.Upcoming = append(res.Upcoming, rest...)
	}

	return res
}

// Percentage returns completed/total as a whole percent, rounded half up.
// A zero total yields 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
