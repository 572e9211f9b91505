package status

import (
	"fmt"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/logger"
)

// ConfirmGoal completes the goal stage and gives the project its final
// name. The rename happens once: after the goal is done, confirming the
// same name again is a no-op and a different name is a mismatch.
//
// The record is written under the new name first, then files are moved,
// then the index is switched, then the old directory is removed. A crash
// at any point leaves the index pointing at a readable record.
func (m *Manager) ConfirmGoal(sessionID, featureName string) (*Record, error) {
	name, err := NormalizeName(featureName)
	if err != nil {
		return nil, err
	}

	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}

	if rec.StageProgress.Goal.Status == StateDone {
		if rec.Name == name {
			return rec, nil
		}
		return nil, featureMismatch(sessionID, rec.Name, name)
	}

	oldName := rec.Name
	if name != oldName {
		if err := m.checkNameFree(name, sessionID); err != nil {
			return nil, err
		}
	}

	next := rec.clone()
	ts := now()
	next.Name = name
	next.StageProgress.Mark(StageGoal, StateDone, ts)
	next.StageProgress.Mark(StageRequirements, StateActive, ts)
	next.Stage = StageRequirements
	next.Updated = ts

	if name == oldName {
		if err := m.commit(next, EventStageAdvanced, string(StageGoal)); err != nil {
			return nil, err
		}
		return next, nil
	}

	if err := m.store.WriteStatus(next); err != nil {
		return nil, err
	}
	if err := m.store.moveProject(oldName, name); err != nil {
		return nil, err
	}
	if err := m.commit(next, EventRenamed, oldName); err != nil {
		return nil, err
	}
	if err := m.store.removeProject(oldName); err != nil {
		logger.Warn("removing old project directory %s: %v", oldName, err)
	}
	return next, nil
}

// Advance confirms the deliverable of requirements, design or tasks: the
// stage is marked done and the next one becomes active. The deliverable
// must exist. Confirming tasks also records the checklist totals.
// Confirming a stage that is already done returns the record unchanged.
func (m *Manager) Advance(sessionID string, stage Stage) (*Record, error) {
	file, ok := stage.Deliverable()
	if !ok {
		return nil, &Error{
			Kind:    KindInvalidStage,
			Message: fmt.Sprintf("Stage %s has no deliverable to confirm", stage),
			Hint:    "Only requirements, design and tasks can be confirmed",
		}
	}

	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if rec.StageProgress.State(stage) == StateDone {
		return rec, nil
	}

	for _, prev := range Stages[:stage.Index()] {
		if rec.StageProgress.State(prev) != StateDone {
			return nil, &Error{
				Kind:    KindInvalidStage,
				Message: fmt.Sprintf("Cannot confirm %s before %s is done", stage, prev),
				Hint:    fmt.Sprintf("Finish the %s stage first", prev),
			}
		}
	}

	ok, err = m.store.HasDeliverable(rec.Name, file)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(
			fmt.Sprintf("%s not found for spec '%s'", file, rec.Name),
			fmt.Sprintf("Write %s before confirming the %s stage", file, stage),
			m.store.DeliverablePath(rec.Name, file),
		)
	}

	next := rec.clone()
	ts := now()
	nextStage, _ := stage.Next()
	next.StageProgress.Mark(stage, StateDone, ts)
	next.StageProgress.Mark(nextStage, StateActive, ts)
	next.Stage = nextStage
	next.Updated = ts

	if stage == StageTasks {
		text, err := m.store.ReadDeliverable(rec.Name, TasksFile)
		if err != nil {
			return nil, err
		}
		applyChecklist(&next.StageProgress, checklist.Parse(text))
	}

	if err := m.commit(next, EventStageAdvanced, string(stage)); err != nil {
		return nil, err
	}
	return next, nil
}

// applyChecklist copies parsed task counts into the tasks and execution
// entries.
func applyChecklist(p *StageProgress, res *checklist.Result) {
	p.Tasks.TotalTasks = res.Total
	p.Tasks.CompletedTasks = res.Completed
	p.Execution.CurrentTaskIndex = res.Completed + 1
}
