package status

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventCreated       EventKind = "created"
	EventRenamed       EventKind = "renamed"
	EventStageAdvanced EventKind = "stage_advanced"
	EventUpdated       EventKind = "updated"
	EventArchived      EventKind = "archived"
	EventRestored      EventKind = "restored"
	EventInferred      EventKind = "inferred"
)

// Event describes one committed status write: the record and the index
// entry are both on disk when observers see it.
type Event struct {
	Kind          EventKind
	SessionID     string
	Name          string
	Stage         Stage
	OverallStatus OverallStatus
	Detail        string
	At            string
}

// Observer is notified after every committed status write.
// It's an optional dependency: the Manager works fine without one.
// Implementations must not call back into the Manager.
type Observer interface {
	OnStatusChange(ev Event)
}

// notifyObserver is a nil-safe helper called after each commit.
func notifyObserver(obs Observer, ev Event) {
	if obs == nil {
		return
	}
	obs.OnStatusChange(ev)
}
