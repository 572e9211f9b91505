package checklist

import (
	"strings"
	"testing"
)

// --- Parse: documented example ---

func TestParse_NestedExample(t *testing.T) {
	text := "- [x] Set up project\n" +
		"  - [ ] Write tests [!]\n" +
		"- [ ] Ship it\n"

	res := Parse(text)

	if res.Total != 3 {
		t.Fatalf("Total = %d, want 3", res.Total)
	}
	if res.Completed != 1 {
		t.Errorf("Completed = %d, want 1", res.Completed)
	}
	if res.Percentage != 33 {
		t.Errorf("Percentage = %d, want 33", res.Percentage)
	}

	if len(res.ByPriority.High) != 1 {
		t.Fatalf("high priority items = %d, want 1", len(res.ByPriority.High))
	}
	high := res.ByPriority.High[0]
	if high.Text != "Write tests" {
		t.Errorf("high priority text = %q, want %q", high.Text, "Write tests")
	}
	parent := res.Parent(high)
	if parent == nil || parent.Text != "Set up project" {
		t.Errorf("parent of %q = %v, want 'Set up project'", high.Text, parent)
	}

	if res.Current == nil || res.Current.Text != "Write tests" {
		t.Errorf("Current = %v, want 'Write tests'", res.Current)
	}
	if len(res.Upcoming) != 1 || res.Upcoming[0].Text != "Ship it" {
		t.Errorf("Upcoming = %v, want [Ship it]", res.Upcoming)
	}
}

// --- Parse: marker styles ---

func TestParse_AllFormats(t *testing.T) {
	tests := []struct {
		line      string
		format    Format
		completed bool
		text      string
	}{
		{"- [ ] dash", FormatDash, false, "dash"},
		{"* [x] star", FormatAsterisk, true, "star"},
		{"+ [X] plus", FormatPlus, true, "plus"},
		{"12. [ ] numbered", FormatNumbered, false, "numbered"},
		{"-[ ]tight", FormatDash, false, "tight"},
		{"1.[x]   spaced out  ", FormatNumbered, true, "spaced out"},
		{"- [ ] windows line\r", FormatDash, false, "windows line"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := Parse(tt.line)
			if res.Total != 1 {
				t.Fatalf("Total = %d, want 1", res.Total)
			}
			it := res.Items[0]
			if it.Format != tt.format {
				t.Errorf("Format = %s, want %s", it.Format, tt.format)
			}
			if it.Completed != tt.completed {
				t.Errorf("Completed = %v, want %v", it.Completed, tt.completed)
			}
			if it.Text != tt.text {
				t.Errorf("Text = %q, want %q", it.Text, tt.text)
			}
		})
	}
}

func TestParse_IgnoresNonTaskLines(t *testing.T) {
	text := strings.Join([]string{
		"# Tasks",
		"",
		"Some prose with - [ ] inline text.",
		"- plain bullet",
		"- [y] unknown mark",
		"- [ ]",
		"1) [ ] wrong numbering",
		"a. [ ] letter numbering",
		"- [ ] real task",
	}, "\n")

	res := Parse(text)
	if res.Total != 1 {
		t.Fatalf("Total = %d, want 1 (only the real task)", res.Total)
	}
	if res.Items[0].Line != 9 {
		t.Errorf("Line = %d, want 9", res.Items[0].Line)
	}
}

// --- Parse: priority markers ---

func TestParse_Priorities(t *testing.T) {
	tests := []struct {
		line string
		want Priority
		text string
	}{
		{"- [ ] [!] bang", PriorityHigh, "bang"},
		{"- [ ] [!!] double bang", PriorityHigh, "double bang"},
		{"- [ ] [H] upper h", PriorityHigh, "upper h"},
		{"- [ ] [h] lower h", PriorityHigh, "lower h"},
		{"- [ ] [M] medium", PriorityMedium, "medium"},
		{"- [ ] [l] low", PriorityLow, "low"},
		{"- [ ] none", PriorityMedium, "none"},
		{"- [ ] trailing [L]", PriorityLow, "trailing"},
		{"- [ ] [!]", PriorityMedium, "[!]"},
		{"- [ ] keep arr[M]", PriorityMedium, "keep arr[M]"},
		{"- [ ] [X] not a priority", PriorityMedium, "[X] not a priority"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := Parse(tt.line)
			if res.Total != 1 {
				t.Fatalf("Total = %d, want 1", res.Total)
			}
			if got := res.Items[0].Priority; got != tt.want {
				t.Errorf("Priority = %s, want %s", got, tt.want)
			}
			if got := res.Items[0].Text; got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
		})
	}
}

// --- Parse: hierarchy ---

func TestParse_DedentedSiblingDetaches(t *testing.T) {
	text := "- [ ] A\n" +
		"    - [ ] A.deep\n" +
		"  - [ ] A.shallow\n" +
		"- [ ] B\n"

	res := Parse(text)
	if res.Total != 4 {
		t.Fatalf("Total = %d, want 4", res.Total)
	}

	a, deep, shallow, b := res.Items[0], res.Items[1], res.Items[2], res.Items[3]

	if deep.Indent != 2 || shallow.Indent != 1 {
		t.Errorf("indent levels = %d/%d, want 2/1", deep.Indent, shallow.Indent)
	}
	if deep.ParentID != a.ID {
		t.Errorf("A.deep parent = %d, want %d", deep.ParentID, a.ID)
	}
	if shallow.ParentID != a.ID {
		t.Errorf("A.shallow parent = %d, want %d (not A.deep)", shallow.ParentID, a.ID)
	}
	if b.ParentID != 0 {
		t.Errorf("B parent = %d, want none", b.ParentID)
	}
	if len(a.Children) != 2 {
		t.Errorf("A children = %v, want 2 entries", a.Children)
	}
	if deep.HasChildren() {
		t.Error("A.deep should have no children")
	}
}

func TestParse_OddIndentFloors(t *testing.T) {
	res := Parse("   - [ ] three spaces")
	if res.Items[0].Indent != 1 {
		t.Errorf("Indent = %d, want 1", res.Items[0].Indent)
	}
}

// --- Parse: aggregates ---

func TestParse_EmptyInput(t *testing.T) {
	res := Parse("")
	if res.Total != 0 || res.Completed != 0 || res.Percentage != 0 {
		t.Errorf("got total=%d completed=%d pct=%d, want zeros", res.Total, res.Completed, res.Percentage)
	}
	if res.Current != nil {
		t.Errorf("Current = %v, want nil", res.Current)
	}
	if res.Upcoming == nil {
		t.Error("Upcoming should be an empty slice, not nil")
	}
}

func TestParse_UpcomingCappedAtThree(t *testing.T) {
	var b strings.Builder
	b.WriteString("- [x] done\n")
	for i := 0; i < 6; i++ {
		b.WriteString("- [ ] todo\n")
	}

	res := Parse(b.String())
	if res.Current == nil || res.Current.ID != 2 {
		t.Fatalf("Current = %v, want item 2", res.Current)
	}
	if len(res.Upcoming) != 3 {
		t.Fatalf("Upcoming = %d items, want 3", len(res.Upcoming))
	}
	for i, it := range res.Upcoming {
		if it.ID != i+3 {
			t.Errorf("Upcoming[%d].ID = %d, want %d", i, it.ID, i+3)
		}
	}
}

func TestParse_AllComplete(t *testing.T) {
	res := Parse("- [x] a\n- [X] b\n")
	if res.Percentage != 100 {
		t.Errorf("Percentage = %d, want 100", res.Percentage)
	}
	if res.Current != nil {
		t.Errorf("Current = %v, want nil", res.Current)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestPercentage_Exhaustive(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for completed := 0; completed <= total; completed++ {
			got := Percentage(completed, total)
			if got < 0 || got > 100 {
				t.Fatalf("Percentage(%d, %d) = %d out of range", completed, total, got)
			}
			// Rounded value is within half a percent of the exact ratio.
			exact := float64(completed) / float64(total) * 100
			if diff := float64(got) - exact; diff > 0.5 || diff < -0.5 {
				t.Fatalf("Percentage(%d, %d) = %d, exact %.3f", completed, total, got, exact)
			}
		}
	}
}

func TestParse_FreshItemsEachCall(t *testing.T) {
	text := "- [ ] a\n  - [ ] b\n"
	first := Parse(text)
	second := Parse(text)

	first.Items[0].Text = "mutated"
	first.Items[0].Children = append(first.Items[0].Children, 99)

	if second.Items[0].Text != "a" {
		t.Error("second parse shares items with the first")
	}
	if len(second.Items[0].Children) != 1 {
		t.Error("second parse shares child slices with the first")
	}
}

// --- Details ---

func TestDetails(t *testing.T) {
	res := Parse("- [x] [!] shipped\n- [ ] [H] next\n  - [ ] sub\n- [ ] [L] later\n")
	d := Details(res)

	if d.RemainingTasks != 3 {
		t.Errorf("RemainingTasks = %d, want 3", d.RemainingTasks)
	}
	if d.HighPriorityRemaining != 1 {
		t.Errorf("HighPriorityRemaining = %d, want 1", d.HighPriorityRemaining)
	}
	if d.CompletionRate != 0.25 {
		t.Errorf("CompletionRate = %v, want 0.25", d.CompletionRate)
	}
	if d.Current == nil {
		t.Fatal("Current details missing")
	}
	if d.Current.Text != "next" || d.Current.Position != 2 || !d.Current.HasSubtasks {
		t.Errorf("Current = %+v, want next/2/has subtasks", *d.Current)
	}
}

func TestDetails_Empty(t *testing.T) {
	d := Details(Parse("no tasks here"))
	if d.CompletionRate != 0 || d.Current != nil {
		t.Errorf("got %+v, want zero details", d)
	}
}
