package status

import (
	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/logger"
)

const inferredNote = "Status inferred from existing files"

// infer rebuilds a missing record from the deliverables present in the
// project directory and commits it, so the next Load reads it directly.
//
// The stage is the one after the furthest deliverable: requirements.md
// means design, design.md means tasks, tasks.md means execution. A fully
// checked tasks.md marks the project completed. An archived or paused
// status from the index entry is kept.
func (m *Manager) infer(e Entry) (*Record, error) {
	has := make(map[string]bool, len(deliverableOrder))
	for _, file := range deliverableOrder {
		ok, err := m.store.HasDeliverable(e.Name, file)
		if err != nil {
			return nil, err
		}
		has[file] = ok
	}

	ts := now()
	stage := StageRequirements
	overall := StatusInProgress
	var tasks *checklist.Result

	switch {
	case has[TasksFile]:
		stage = StageExecution
		res, err := m.TaskProgress(e.Name)
		if err != nil {
			return nil, err
		}
		tasks = res
		if res.Total > 0 && res.Percentage == 100 {
			overall = StatusCompleted
		}
	case has[DesignFile]:
		stage = StageTasks
	case has[RequirementsFile]:
		stage = StageDesign
	}

	var p StageProgress
	p.Mark(StageGoal, StateDone, ts)
	for _, file := range deliverableOrder {
		s := stageForDeliverable(file)
		switch {
		case has[file]:
			p.Mark(s, StateDone, ts)
		case s == stage:
			p.Mark(s, StateActive, ts)
		default:
			p.Mark(s, StatePending, "")
		}
	}
	if stage == StageExecution {
		p.Mark(StageExecution, StateActive, ts)
		applyChecklist(&p, tasks)
	} else {
		p.Mark(StageExecution, StatePending, "")
	}

	rec := &Record{
		SessionID:     e.SessionID,
		Name:          e.Name,
		Created:       ts,
		Updated:       ts,
		Stage:         stage,
		OverallStatus: overall,
		Notes:         inferredNote,
		StageProgress: p,
	}
	if e.OverallStatus == StatusArchived || e.OverallStatus == StatusPaused {
		setOverallStatus(rec, e.OverallStatus, ts)
		if e.ArchivedAt != nil {
			at := *e.ArchivedAt
			rec.ArchivedAt = &at
		}
	}

	logger.Info("inferring status for %s (%s): stage=%s status=%s", e.Name, e.SessionID, rec.Stage, rec.OverallStatus)

	if err := m.commit(rec, EventInferred, string(stage)); err != nil {
		return nil, err
	}
	return rec, nil
}

func stageForDeliverable(file string) Stage {
	switch file {
	case RequirementsFile:
		return StageRequirements
	case DesignFile:
		return StageDesign
	default:
		return StageTasks
	}
}
