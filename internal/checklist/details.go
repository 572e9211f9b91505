package checklist

// CurrentTaskDetails describes the first incomplete item.
type CurrentTaskDetails struct {
	Text        string   `json:"text" yaml:"text"`
	Priority    Priority `json:"priority" yaml:"priority"`
	HasSubtasks bool     `json:"has_subtasks" yaml:"has_subtasks"`
	Position    int      `json:"position" yaml:"position"`
}

// ProgressDetails are secondary metrics derived from a Result.
type ProgressDetails struct {
	CompletionRate        float64             `json:"completion_rate" yaml:"completion_rate"`
	RemainingTasks        int                 `json:"remaining_tasks" yaml:"remaining_tasks"`
	HighPriorityRemaining int                 `json:"high_priority_remaining" yaml:"high_priority_remaining"`
	Current               *CurrentTaskDetails `json:"current_task,omitempty" yaml:"current_task,omitempty"`
}

// Details computes ProgressDetails for r.
func Details(r *Result) ProgressDetails {
	d := ProgressDetails{RemainingTasks: r.Total - r.Completed}
	if r.Total > 0 {
		d.CompletionRate = float64(r.Completed) / float64(r.Total)
	}
	for _, it := range r.ByPriority.High {
		if !it.Completed {
			d.HighPriorityRemaining++
		}
	}
	if c := r.Current; c != nil {
		d.Current = &CurrentTaskDetails{
			Text:        c.Text,
			Priority:    c.Priority,
			HasSubtasks: c.HasChildren(),
			Position:    c.ID,
		}
	}
	return d
}
