package status

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yinwm/vibedevtools/internal/fs"
)

const (
	// DefaultSpecsDir is the storage root relative to the project root.
	DefaultSpecsDir = ".vibedev/specs"
	// StatusFile is the per-project status record.
	StatusFile = ".status.yaml"
	// IndexFile is the metadata index at the storage root.
	IndexFile = "_metadata.yaml"

	RequirementsFile = "requirements.md"
	DesignFile       = "design.md"
	TasksFile        = "tasks.md"

	dirPerm  = 0o755
	filePerm = 0o644
)

// deliverableOrder is the dependency order in which deliverables appear.
var deliverableOrder = []string{RequirementsFile, DesignFile, TasksFile}

// FileStore reads and writes per-project status records and inspects the
// deliverables next to them. It does not touch the index.
type FileStore struct {
	root string
	fs   fs.FS
}

// NewFileStore creates a store rooted at root. A nil fsys uses the real
// filesystem.
func NewFileStore(root string, fsys fs.FS) *FileStore {
	if fsys == nil {
		fsys = fs.NewReal()
	}
	return &FileStore{root: root, fs: fsys}
}

// Root returns the storage root directory.
func (s *FileStore) Root() string {
	return s.root
}

// ProjectDir returns the directory holding a project's files.
func (s *FileStore) ProjectDir(name string) string {
	return filepath.Join(s.root, name)
}

// StatusPath returns the path of a project's status record.
func (s *FileStore) StatusPath(name string) string {
	return filepath.Join(s.ProjectDir(name), StatusFile)
}

// DeliverablePath returns the path of one of a project's deliverables.
func (s *FileStore) DeliverablePath(name, file string) string {
	return filepath.Join(s.ProjectDir(name), file)
}

// IndexPath returns the path of the metadata index.
func (s *FileStore) IndexPath() string {
	return filepath.Join(s.root, IndexFile)
}

// ReadStatus loads a project's record. It fails with KindNotFound when the
// file is absent and KindParseError when the file is present but corrupt.
func (s *FileStore) ReadStatus(name string) (*Record, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	path := s.StatusPath(name)

	var rec Record
	if err := s.readYAML(path, &rec); err != nil {
		return nil, err
	}
	if err := rec.validate(); err != nil {
		return nil, parseError(path, err)
	}
	return &rec, nil
}

// WriteStatus atomically replaces a project's record, creating the project
// directory if needed. On failure the previous record is left unchanged.
func (s *FileStore) WriteStatus(rec *Record) error {
	if err := checkName(rec.Name); err != nil {
		return err
	}
	if err := s.EnsureProjectDir(rec.Name); err != nil {
		return err
	}
	return s.writeYAML(s.StatusPath(rec.Name), rec)
}

// EnsureProjectDir creates the project's directory if it does not exist.
func (s *FileStore) EnsureProjectDir(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := s.ProjectDir(name)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return writeError(dir, err)
	}
	return nil
}

// HasStatus reports whether a project has a status record on disk.
func (s *FileStore) HasStatus(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return s.exists(s.StatusPath(name))
}

// HasDeliverable reports whether a deliverable exists.
func (s *FileStore) HasDeliverable(name, file string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return s.exists(s.DeliverablePath(name, file))
}

// ReadDeliverable returns the raw text of a deliverable. It fails with
// KindNotFound when the file is absent.
func (s *FileStore) ReadDeliverable(name, file string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	path := s.DeliverablePath(name, file)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", readError(path, err, "Check if "+file+" exists for this spec")
	}
	return string(data), nil
}

// DeliverableInfo describes one deliverable on disk.
type DeliverableInfo struct {
	File   string `yaml:"file" json:"file"`
	Exists bool   `yaml:"exists" json:"exists"`
	Size   int64  `yaml:"size,omitempty" json:"size,omitempty"`
}

// Deliverables reports presence and size of each deliverable, in
// dependency order.
func (s *FileStore) Deliverables(name string) ([]DeliverableInfo, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	out := make([]DeliverableInfo, 0, len(deliverableOrder))
	for _, file := range deliverableOrder {
		path := s.DeliverablePath(name, file)
		info, err := s.fs.Stat(path)
		switch {
		case err == nil:
			out = append(out, DeliverableInfo{File: file, Exists: true, Size: info.Size()})
		case errors.Is(err, iofs.ErrNotExist):
			out = append(out, DeliverableInfo{File: file})
		default:
			return nil, permissionDenied(path, err)
		}
	}
	return out, nil
}

// moveProject moves every file of project from into project to, except the
// status record. Files already present in the destination are kept.
func (s *FileStore) moveProject(from, to string) error {
	src := s.ProjectDir(from)
	entries, err := s.fs.ReadDir(src)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return permissionDenied(src, err)
	}
	for _, e := range entries {
		if e.Name() == StatusFile {
			continue
		}
		dst := s.DeliverablePath(to, e.Name())
		exists, err := s.exists(dst)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.fs.Rename(filepath.Join(src, e.Name()), dst); err != nil {
			return writeError(dst, err)
		}
	}
	return nil
}

// removeProject deletes a project's directory.
func (s *FileStore) removeProject(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := s.ProjectDir(name)
	if err := s.fs.RemoveAll(dir); err != nil {
		return writeError(dir, err)
	}
	return nil
}

func (s *FileStore) exists(path string) (bool, error) {
	ok, err := s.fs.Exists(path)
	if err != nil {
		return false, permissionDenied(path, err)
	}
	return ok, nil
}

// --- YAML codec ---

func (s *FileStore) readYAML(path string, v any) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return readError(path, err, "Check if the file exists at: "+path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return parseError(path, errors.New("file is empty"))
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return parseError(path, err)
	}
	return nil
}

func (s *FileStore) writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return writeError(path, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return writeError(path, err)
	}
	if err := s.fs.WriteFileAtomic(path, data, filePerm); err != nil {
		return writeError(path, err)
	}
	return nil
}

// readError maps a read failure to NotFound or PermissionDenied.
func readError(path string, err error, hint string) *Error {
	if errors.Is(err, iofs.ErrNotExist) {
		e := notFound("File not found", hint, path)
		e.Err = err
		return e
	}
	return permissionDenied(path, err)
}

// checkName rejects names that would escape the storage root.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "_") {
		return invalidParameters(
			"Invalid feature name: '"+name+"'",
			"Feature names are single path segments without slashes",
		)
	}
	return nil
}

// validate checks the fields every stored record must carry.
func (r *Record) validate() error {
	switch {
	case r.SessionID == "":
		return errors.New("missing session_id")
	case r.Name == "":
		return errors.New("missing name")
	case r.Stage.Index() < 0:
		return errors.New("unknown stage " + string(r.Stage))
	case !validStatuses[r.OverallStatus]:
		return errors.New("unknown overall_status " + string(r.OverallStatus))
	}
	return nil
}
