package status

import (
	"errors"
	"fmt"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/logger"
)

// Manager is the only writer of status records and the index. Every write
// goes through commit, which persists the record and then the matching
// index entry. All validation happens before commit, so a rejected call
// leaves nothing on disk.
//
// A Manager is not safe for concurrent use; callers serialize operations.
type Manager struct {
	store    *FileStore
	index    *Index
	observer Observer
}

// NewManager creates a manager over store and the index at its root.
func NewManager(store *FileStore) *Manager {
	return &Manager{store: store, index: NewIndex(store)}
}

// SetObserver attaches an observer notified after each committed write.
func (m *Manager) SetObserver(o Observer) {
	m.observer = o
}

// Store returns the underlying record store.
func (m *Manager) Store() *FileStore {
	return m.store
}

// Index returns the metadata index.
func (m *Manager) Index() *Index {
	return m.index
}

// --- Creation ---

// Create starts a new project at the goal stage.
func (m *Manager) Create(sessionID, name string) (*Record, error) {
	return m.Initialize(sessionID, name, StageGoal)
}

// Initialize creates a project positioned at stage: earlier stages are
// marked done and stage is active. It fails if the session id is already
// indexed or the name is held by another project.
func (m *Manager) Initialize(sessionID, name string, at Stage) (*Record, error) {
	if sessionID == "" {
		return nil, invalidParameters("session_id is required", "Call vibedev_specs_workflow_start to obtain a session id")
	}
	if at.Index() < 0 {
		return nil, invalidStage(string(at))
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	if _, found, err := m.index.Find(sessionID); err != nil {
		return nil, err
	} else if found {
		return nil, invalidParameters(
			fmt.Sprintf("Session ID %s already exists", sessionID),
			"Use vibedev_specs_get_status to inspect it, or start a new workflow",
		)
	}
	if err := m.checkNameFree(name, sessionID); err != nil {
		return nil, err
	}

	ts := now()
	rec := &Record{
		SessionID:     sessionID,
		Name:          name,
		Created:       ts,
		Updated:       ts,
		Stage:         at,
		OverallStatus: StatusInProgress,
		StageProgress: newProgress(at, ts),
	}

	if err := m.store.EnsureProjectDir(name); err != nil {
		return nil, err
	}
	if err := m.commit(rec, EventCreated, string(at)); err != nil {
		return nil, err
	}
	return rec, nil
}

// --- Reads ---

// Resolve returns the project name for a session id. The index is the only
// lookup path.
func (m *Manager) Resolve(sessionID string) (string, error) {
	e, err := m.resolve(sessionID)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

func (m *Manager) resolve(sessionID string) (Entry, error) {
	e, found, err := m.index.Find(sessionID)
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, sessionNotFound(sessionID)
	}
	return e, nil
}

// Load returns the record for a session id. When the index knows the
// project but its record file is missing, the record is inferred from the
// deliverables on disk and persisted. Any other read failure propagates.
func (m *Manager) Load(sessionID string) (*Record, error) {
	e, err := m.resolve(sessionID)
	if err != nil {
		return nil, err
	}

	rec, err := m.store.ReadStatus(e.Name)
	switch {
	case err == nil:
		return rec, nil
	case IsKind(err, KindNotFound):
		return m.infer(e)
	default:
		// Corrupt or unreadable records are never replaced by inference.
		return nil, err
	}
}

// LoadChecked is Load plus a guard that the caller's feature name, when
// given, matches the session's project. The name is checked against the
// index before anything is read or inferred.
func (m *Manager) LoadChecked(sessionID, featureName string) (*Record, error) {
	e, err := m.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	if !nameMatches(e.Name, featureName) {
		return nil, featureMismatch(sessionID, e.Name, featureName)
	}
	return m.Load(sessionID)
}

func nameMatches(name, featureName string) bool {
	if featureName == "" || featureName == name {
		return true
	}
	slugged, err := NormalizeName(featureName)
	return err == nil && slugged == name
}

// List returns index entries, newest first, optionally filtered by overall
// status. An empty filter returns everything.
func (m *Manager) List(filter string) ([]Entry, error) {
	var want OverallStatus
	if filter != "" {
		st, err := ParseOverallStatus(filter)
		if err != nil {
			return nil, err
		}
		want = st
	}

	entries, err := m.index.Load()
	if err != nil {
		return nil, err
	}
	if want == "" {
		return entries, nil
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.OverallStatus == want {
			out = append(out, e)
		}
	}
	return out, nil
}

// TaskProgress parses a project's tasks deliverable. It fails with
// KindNotFound when tasks.md does not exist yet; callers should treat that
// as "no progress yet".
func (m *Manager) TaskProgress(name string) (*checklist.Result, error) {
	text, err := m.store.ReadDeliverable(name, TasksFile)
	if err != nil {
		return nil, err
	}
	return checklist.Parse(text), nil
}

// --- Mutations ---

// Update is a shallow partial update. A non-nil StageProgress replaces all
// per-stage entries; callers carry forward the ones they do not change.
type Update struct {
	Stage         *Stage
	OverallStatus *OverallStatus
	Notes         *string
	StageProgress *StageProgress
}

func (u Update) empty() bool {
	return u.Stage == nil && u.OverallStatus == nil && u.Notes == nil && u.StageProgress == nil
}

// Update merges u into the session's record and commits it.
func (m *Manager) Update(sessionID string, u Update) (*Record, error) {
	if u.empty() {
		return nil, noUpdateFields()
	}
	if u.Stage != nil && u.Stage.Index() < 0 {
		return nil, invalidStage(string(*u.Stage))
	}
	if u.OverallStatus != nil && !validStatuses[*u.OverallStatus] {
		return nil, invalidParameters(
			fmt.Sprintf("Invalid status: %s", *u.OverallStatus),
			"Valid statuses are: in_progress, completed, archived, paused",
		)
	}

	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}
	return m.merge(rec, u)
}

// merge applies u to a copy of rec and commits the copy.
func (m *Manager) merge(rec *Record, u Update) (*Record, error) {
	next := rec.clone()
	ts := now()

	if u.Stage != nil {
		next.Stage = *u.Stage
	}
	if u.StageProgress != nil {
		next.StageProgress = *u.StageProgress
	}
	if u.Notes != nil {
		next.Notes = *u.Notes
	}
	if u.OverallStatus != nil {
		setOverallStatus(next, *u.OverallStatus, ts)
	}
	next.Updated = ts

	if err := m.commit(next, EventUpdated, ""); err != nil {
		return nil, err
	}
	return next, nil
}

// Change is a validated mutation request as callers express it: names
// rather than typed values, and a task count rather than stage entries.
type Change struct {
	Status        string
	Stage         string
	TaskCompleted *int
	Notes         *string
}

// Apply validates c against the current record and commits it in a single
// write. A stage change only moves forward: earlier stages become done, the
// target active and later stages pending, with task and execution counters
// kept. Moving onto a done stage fails with KindInvalidStage. A task count
// must lie within the known task total; at the execution stage it also moves
// the current task to the next unfinished one.
func (m *Manager) Apply(sessionID string, c Change) (*Record, error) {
	if c.Status == "" && c.Stage == "" && c.TaskCompleted == nil && c.Notes == nil {
		return nil, noUpdateFields()
	}

	var u Update
	if c.Status != "" {
		st, err := ParseOverallStatus(c.Status)
		if err != nil {
			return nil, err
		}
		u.OverallStatus = &st
	}
	if c.Stage != "" {
		st, err := ParseStage(c.Stage)
		if err != nil {
			return nil, err
		}
		u.Stage = &st
	}
	u.Notes = c.Notes

	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}

	if u.Stage != nil || c.TaskCompleted != nil {
		ts := now()
		progress := rec.StageProgress
		stage := rec.Stage
		if u.Stage != nil {
			stage = *u.Stage
			if err := moveTo(&progress, stage, ts); err != nil {
				return nil, err
			}
		}
		if c.TaskCompleted != nil {
			completed := *c.TaskCompleted
			total := progress.Tasks.TotalTasks
			if completed < 0 || completed > total {
				return nil, invalidTaskCount(completed, total)
			}
			progress.Tasks.CompletedTasks = completed
			if stage == StageExecution {
				progress.Execution.CurrentTaskIndex = completed + 1
			}
		}
		u.StageProgress = &progress
	}

	return m.merge(rec, u)
}

// moveTo positions p at target. Stages already done keep their timestamps.
func moveTo(p *StageProgress, target Stage, ts string) error {
	switch p.State(target) {
	case StateDone:
		return &Error{
			Kind:    KindInvalidStage,
			Message: fmt.Sprintf("Stage %s is already done and cannot be reopened", target),
			Hint:    "Stages only move forward; pass a later stage or omit stage",
		}
	case StateActive:
		return nil
	}
	for i, s := range Stages {
		switch {
		case i < target.Index():
			if p.State(s) != StateDone {
				p.Mark(s, StateDone, ts)
			}
		case i == target.Index():
			p.Mark(s, StateActive, ts)
		default:
			p.Mark(s, StatePending, "")
		}
	}
	return nil
}

// Archive marks a project archived. Stage and stage progress are kept.
func (m *Manager) Archive(sessionID string) (*Record, error) {
	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if rec.OverallStatus == StatusArchived {
		return nil, alreadyArchived(rec.Name)
	}

	next := rec.clone()
	ts := now()
	setOverallStatus(next, StatusArchived, ts)
	next.Updated = ts

	if err := m.commit(next, EventArchived, string(rec.OverallStatus)); err != nil {
		return nil, err
	}
	return next, nil
}

// Restore returns an archived project to the status it had when it was
// archived, or in_progress for records archived without one.
func (m *Manager) Restore(sessionID string) (*Record, error) {
	rec, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if rec.OverallStatus != StatusArchived {
		return nil, notArchived(rec.Name)
	}

	target := rec.PreArchiveStatus
	if target == "" || target == StatusArchived {
		target = StatusInProgress
	}

	next := rec.clone()
	ts := now()
	setOverallStatus(next, target, ts)
	next.Updated = ts

	if err := m.commit(next, EventRestored, string(target)); err != nil {
		return nil, err
	}
	return next, nil
}

// setOverallStatus changes the overall status and keeps archived_at and
// the pre-archive status in step with it.
func setOverallStatus(r *Record, to OverallStatus, ts string) {
	from := r.OverallStatus
	switch {
	case from != StatusArchived && to == StatusArchived:
		r.ArchivedAt = &ts
		r.PreArchiveStatus = from
	case from == StatusArchived && to != StatusArchived:
		r.ArchivedAt = nil
		r.PreArchiveStatus = ""
	}
	r.OverallStatus = to
}

func noUpdateFields() *Error {
	return invalidParameters(
		"At least one field must be provided to update",
		"Provide status, stage, task_completed, or notes to update",
	)
}

// --- Commit ---

// commit writes the record, then its index entry, then notifies the
// observer. A failed index write leaves the record newer than its entry;
// the next successful commit for the session repairs it.
func (m *Manager) commit(rec *Record, kind EventKind, detail string) error {
	if err := m.store.WriteStatus(rec); err != nil {
		return err
	}
	logger.Debug("status write %s (%s) stage=%s status=%s", rec.Name, rec.SessionID, rec.Stage, rec.OverallStatus)

	if err := m.index.upsert(rec.Entry()); err != nil {
		return indexBehind(err)
	}

	notifyObserver(m.observer, Event{
		Kind:          kind,
		SessionID:     rec.SessionID,
		Name:          rec.Name,
		Stage:         rec.Stage,
		OverallStatus: rec.OverallStatus,
		Detail:        detail,
		At:            rec.Updated,
	})
	return nil
}

// indexBehind tells the caller that the record itself was saved when only
// the index write failed.
func indexBehind(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	out := *e
	out.Hint = "The status record was saved; its index entry catches up on the next successful write. " + e.Hint
	return &out
}

// checkNameFree fails when name belongs to a project other than sessionID,
// either in the index or as a record on disk.
func (m *Manager) checkNameFree(name, sessionID string) error {
	entries, err := m.index.Load()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name == name && e.SessionID != sessionID {
			return nameTaken(name)
		}
	}

	ok, err := m.store.HasStatus(name)
	if err != nil {
		return err
	}
	if ok {
		rec, err := m.store.ReadStatus(name)
		if err != nil || rec.SessionID != sessionID {
			return nameTaken(name)
		}
	}
	return nil
}

func nameTaken(name string) *Error {
	return invalidParameters(
		fmt.Sprintf("Feature name '%s' is already used by another spec", name),
		"Choose a different feature_name",
	)
}
