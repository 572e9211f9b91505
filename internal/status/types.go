// Package status persists and reports the progress of spec projects.
//
// Each project lives in its own directory under the specs root and holds a
// status record (.status.yaml) next to the deliverables written during the
// workflow (requirements.md, design.md, tasks.md). A denormalized index
// (_metadata.yaml) at the root lists one summary per project so callers can
// list and resolve session ids without reading every record.
//
// The package is split the same way as the data:
//   - types.go: stages, statuses and the record/entry documents
//   - store.go: per-project record and deliverable access
//   - index.go: the metadata index
//   - manager.go: the facade that keeps record and index coherent
//   - infer.go: reconstruction of a missing record from deliverables
package status

import (
	"fmt"
	"strings"
)

// --- Stage enum ---

// Stage is a position in the fixed five-stage workflow.
type Stage string

const (
	StageGoal         Stage = "goal"
	StageRequirements Stage = "requirements"
	StageDesign       Stage = "design"
	StageTasks        Stage = "tasks"
	StageExecution    Stage = "execution"
)

// Stages lists every stage in workflow order.
var Stages = []Stage{StageGoal, StageRequirements, StageDesign, StageTasks, StageExecution}

// stageAliases accepts the short names older records and callers use.
var stageAliases = map[string]Stage{
	"req":  StageRequirements,
	"exec": StageExecution,
}

// ParseStage validates a stage name. Matching is case-insensitive and
// accepts the short forms "req" and "exec".
func ParseStage(s string) (Stage, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if a, ok := stageAliases[name]; ok {
		return a, nil
	}
	for _, st := range Stages {
		if string(st) == name {
			return st, nil
		}
	}
	return "", invalidStage(s)
}

// Index returns the 0-based position of s in the workflow, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage after s. The last stage has no successor.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(Stages) {
		return "", false
	}
	return Stages[i+1], true
}

// Deliverable returns the file a stage produces, if any.
func (s Stage) Deliverable() (string, bool) {
	switch s {
	case StageRequirements:
		return RequirementsFile, true
	case StageDesign:
		return DesignFile, true
	case StageTasks:
		return TasksFile, true
	case StageGoal, StageExecution:
		return "", false
	}
	return "", false
}

// --- Overall status enum ---

// OverallStatus is the project-level status, independent of Stage.
type OverallStatus string

const (
	StatusInProgress OverallStatus = "in_progress"
	StatusCompleted  OverallStatus = "completed"
	StatusArchived   OverallStatus = "archived"
	StatusPaused     OverallStatus = "paused"
)

var validStatuses = map[OverallStatus]bool{
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusArchived:   true,
	StatusPaused:     true,
}

// ParseOverallStatus validates an overall status value.
func ParseOverallStatus(s string) (OverallStatus, error) {
	st := OverallStatus(strings.ToLower(strings.TrimSpace(s)))
	if !validStatuses[st] {
		return "", invalidParameters(
			fmt.Sprintf("Invalid status: %s", s),
			"Valid statuses are: in_progress, completed, archived, paused",
		)
	}
	return st, nil
}

// --- Per-stage progress ---

// StageState is the sub-state of a single stage.
type StageState string

const (
	StatePending StageState = "pending"
	StateActive  StageState = "active"
	StateDone    StageState = "done"
)

// SimpleStage is the progress entry for goal, requirements and design.
type SimpleStage struct {
	Status    StageState `yaml:"status" json:"status"`
	Timestamp string     `yaml:"timestamp" json:"timestamp"`
}

// TaskStage is the progress entry for the tasks stage.
type TaskStage struct {
	Status         StageState `yaml:"status" json:"status"`
	Timestamp      string     `yaml:"timestamp" json:"timestamp"`
	TotalTasks     int        `yaml:"total_tasks" json:"total_tasks"`
	CompletedTasks int        `yaml:"completed_tasks" json:"completed_tasks"`
}

// ExecStage is the progress entry for the execution stage.
// CurrentTaskIndex is 1-based; 0 means execution has not started.
type ExecStage struct {
	Status           StageState `yaml:"status" json:"status"`
	Timestamp        string     `yaml:"timestamp" json:"timestamp"`
	CurrentTaskIndex int        `yaml:"current_task_index" json:"current_task_index"`
}

// StageProgress holds one entry per stage. Each stage kind has its own
// shape, so the entries are named fields rather than a map.
type StageProgress struct {
	Goal         SimpleStage `yaml:"goal" json:"goal"`
	Requirements SimpleStage `yaml:"requirements" json:"requirements"`
	Design       SimpleStage `yaml:"design" json:"design"`
	Tasks        TaskStage   `yaml:"tasks" json:"tasks"`
	Execution    ExecStage   `yaml:"execution" json:"execution"`
}

// State returns the sub-state of one stage.
func (p *StageProgress) State(s Stage) StageState {
	switch s {
	case StageGoal:
		return p.Goal.Status
	case StageRequirements:
		return p.Requirements.Status
	case StageDesign:
		return p.Design.Status
	case StageTasks:
		return p.Tasks.Status
	case StageExecution:
		return p.Execution.Status
	}
	return ""
}

// Mark sets the sub-state and timestamp of one stage, keeping its counters.
// A pending stage has an empty timestamp.
func (p *StageProgress) Mark(s Stage, state StageState, ts string) {
	if state == StatePending {
		ts = ""
	}
	switch s {
	case StageGoal:
		p.Goal.Status, p.Goal.Timestamp = state, ts
	case StageRequirements:
		p.Requirements.Status, p.Requirements.Timestamp = state, ts
	case StageDesign:
		p.Design.Status, p.Design.Timestamp = state, ts
	case StageTasks:
		p.Tasks.Status, p.Tasks.Timestamp = state, ts
	case StageExecution:
		p.Execution.Status, p.Execution.Timestamp = state, ts
	}
}

// newProgress returns progress positioned at stage: earlier stages done,
// stage active, later stages pending.
func newProgress(at Stage, ts string) StageProgress {
	var p StageProgress
	for i, s := range Stages {
		switch {
		case i < at.Index():
			p.Mark(s, StateDone, ts)
		case i == at.Index():
			p.Mark(s, StateActive, ts)
		default:
			p.Mark(s, StatePending, "")
		}
	}
	return p
}

// --- Documents ---

// Record is the full status of one project, stored as .status.yaml in the
// project directory.
type Record struct {
	SessionID     string        `yaml:"session_id" json:"session_id"`
	Name          string        `yaml:"name" json:"name"`
	Created       string        `yaml:"created" json:"created"`
	Updated       string        `yaml:"updated" json:"updated"`
	Stage         Stage         `yaml:"stage" json:"stage"`
	OverallStatus OverallStatus `yaml:"overall_status" json:"overall_status"`
	Notes         string        `yaml:"notes,omitempty" json:"notes,omitempty"`
	ArchivedAt    *string       `yaml:"archived_at" json:"archived_at"`
	// PreArchiveStatus is what Restore returns to. Empty outside archive.
	PreArchiveStatus OverallStatus `yaml:"pre_archive_status,omitempty" json:"pre_archive_status,omitempty"`
	StageProgress    StageProgress `yaml:"stage_progress" json:"stage_progress"`
}

// Entry returns the index summary of r.
func (r *Record) Entry() Entry {
	e := Entry{
		SessionID:     r.SessionID,
		Name:          r.Name,
		OverallStatus: r.OverallStatus,
		Updated:       r.Updated,
	}
	if r.ArchivedAt != nil {
		at := *r.ArchivedAt
		e.ArchivedAt = &at
	}
	return e
}

// clone returns a deep copy, so a merge can be discarded on failure.
func (r *Record) clone() *Record {
	c := *r
	if r.ArchivedAt != nil {
		at := *r.ArchivedAt
		c.ArchivedAt = &at
	}
	return &c
}

// Entry is the index summary of one project.
type Entry struct {
	SessionID     string        `yaml:"session_id" json:"session_id"`
	Name          string        `yaml:"name" json:"name"`
	OverallStatus OverallStatus `yaml:"overall_status" json:"overall_status"`
	Updated       string        `yaml:"updated" json:"updated"`
	ArchivedAt    *string       `yaml:"archived_at" json:"archived_at"`
}

// indexDocument is the on-disk shape of _metadata.yaml.
type indexDocument struct {
	Specs []Entry `yaml:"specs"`
}
