package status

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yinwm/vibedevtools/internal/fs"
)

// freezeClock makes timeNow tick one second per call from a fixed start.
func freezeClock(t *testing.T) {
	t.Helper()
	cur := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
	t.Cleanup(func() { timeNow = orig })
}

// newTestManager returns a manager over a temp specs root, the fault
// injector beneath it, and the root path.
func newTestManager(t *testing.T) (*Manager, *fs.Faulty, string) {
	t.Helper()
	freezeClock(t)
	root := filepath.Join(t.TempDir(), DefaultSpecsDir)
	faulty := fs.NewFaulty(fs.NewReal())
	return NewManager(NewFileStore(root, faulty)), faulty, root
}

// recorder collects observer events.
type recorder struct {
	events []Event
}

func (r *recorder) OnStatusChange(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func removeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove %s: %v", path, err)
	}
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("error kind = %q, want %q (err: %v)", got, want, err)
	}
	if HintOf(err) == "" {
		t.Errorf("%s error has no hint", want)
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
