package status

import (
	"errors"
	"fmt"
)

// Kind classifies a status failure. Values are stable and appear as the
// machine-readable code in tool responses.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindParseError        Kind = "PARSE_ERROR"
	KindWriteError        Kind = "WRITE_ERROR"
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindInvalidStage      Kind = "INVALID_STAGE"
	KindInvalidTaskCount  Kind = "INVALID_TASK_COUNT"
	KindInvalidParameters Kind = "INVALID_PARAMETERS"
	KindAlreadyArchived   Kind = "ALREADY_ARCHIVED"
	KindNotArchived       Kind = "NOT_ARCHIVED"
	KindFeatureMismatch   Kind = "FEATURE_MISMATCH"
)

// Error is the structured failure returned by every exported operation.
// Hint is a remediation suggestion and is never empty.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a status error, or "" for any other error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is a status error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HintOf returns the remediation hint of a status error, or "".
func HintOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Hint
	}
	return ""
}

// --- Constructors ---

func notFound(msg, hint, path string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Hint: hint, Path: path}
}

func parseError(path string, err error) *Error {
	return &Error{
		Kind:    KindParseError,
		Message: "Invalid YAML format",
		Hint:    "Check YAML syntax in the file, or delete it to let the status be inferred again",
		Path:    path,
		Err:     err,
	}
}

func writeError(path string, err error) *Error {
	return &Error{
		Kind:    KindWriteError,
		Message: "Failed to write YAML file",
		Hint:    "Check file permissions and disk space",
		Path:    path,
		Err:     err,
	}
}

func permissionDenied(path string, err error) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: "Failed to read file",
		Hint:    "Check file permissions",
		Path:    path,
		Err:     err,
	}
}

func invalidStage(name string) *Error {
	return &Error{
		Kind:    KindInvalidStage,
		Message: fmt.Sprintf("Invalid stage: %s", name),
		Hint:    "Valid stages are: goal, requirements, design, tasks, execution",
	}
}

func invalidTaskCount(completed, total int) *Error {
	return &Error{
		Kind:    KindInvalidTaskCount,
		Message: fmt.Sprintf("Invalid task_completed value: %d", completed),
		Hint:    fmt.Sprintf("Value must be between 0 and %d", total),
	}
}

func invalidParameters(msg, hint string) *Error {
	return &Error{Kind: KindInvalidParameters, Message: msg, Hint: hint}
}

func alreadyArchived(name string) *Error {
	return &Error{
		Kind:    KindAlreadyArchived,
		Message: fmt.Sprintf("Spec '%s' is already archived", name),
		Hint:    "Use action 'restore' to bring it back",
	}
}

func notArchived(name string) *Error {
	return &Error{
		Kind:    KindNotArchived,
		Message: fmt.Sprintf("Spec '%s' is not archived", name),
		Hint:    "Only archived specs can be restored",
	}
}

func featureMismatch(sessionID, actual, asked string) *Error {
	return &Error{
		Kind:    KindFeatureMismatch,
		Message: fmt.Sprintf("Session ID %s belongs to feature '%s', not '%s'", sessionID, actual, asked),
		Hint:    fmt.Sprintf("Use the correct feature name '%s' or omit the feature_name parameter", actual),
	}
}

func sessionNotFound(sessionID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Spec not found for session ID %s", sessionID),
		Hint:    "Use 'vibedev_specs_list' to see all available specs",
	}
}
