package status

import (
	"sort"

	"github.com/yinwm/vibedevtools/internal/logger"
)

// Index is the metadata index: one Entry per project, unique by session id.
// It shares the FileStore's root and durability contract.
type Index struct {
	store *FileStore
}

// NewIndex returns the index stored at the store's root.
func NewIndex(store *FileStore) *Index {
	return &Index{store: store}
}

// Ensure creates an empty index if none exists. An existing index is never
// rewritten.
func (x *Index) Ensure() error {
	path := x.store.IndexPath()
	ok, err := x.store.exists(path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return x.store.writeYAML(path, indexDocument{Specs: []Entry{}})
}

// Load returns all entries, most recently updated first. An absent index
// yields an empty list.
func (x *Index) Load() ([]Entry, error) {
	doc, err := x.read()
	if err != nil {
		if IsKind(err, KindNotFound) {
			return []Entry{}, nil
		}
		return nil, err
	}
	sortByUpdated(doc.Specs)
	return doc.Specs, nil
}

// Find returns the entry for a session id.
func (x *Index) Find(sessionID string) (Entry, bool, error) {
	entries, err := x.Load()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.SessionID == sessionID {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// upsert replaces the entry with the same session id, or appends it.
// Only the Manager calls this, right after a successful record write.
func (x *Index) upsert(e Entry) error {
	if err := x.Ensure(); err != nil {
		return err
	}
	doc, err := x.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Specs {
		if doc.Specs[i].SessionID == e.SessionID {
			doc.Specs[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Specs = append(doc.Specs, e)
	}

	logger.Debug("index upsert %s -> %s (%s)", e.SessionID, e.Name, e.OverallStatus)
	return x.store.writeYAML(x.store.IndexPath(), doc)
}

func (x *Index) read() (*indexDocument, error) {
	var doc indexDocument
	if err := x.store.readYAML(x.store.IndexPath(), &doc); err != nil {
		return nil, err
	}
	if doc.Specs == nil {
		doc.Specs = []Entry{}
	}
	return &doc, nil
}

// sortByUpdated orders entries by updated timestamp, newest first.
// Unparseable timestamps sort last; ties keep their stored order.
func sortByUpdated(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, okI := parseTimestamp(entries[i].Updated)
		tj, okJ := parseTimestamp(entries[j].Updated)
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI != okJ:
			return okI
		}
		return false
	})
}
