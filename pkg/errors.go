package analysis

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

// ErrColumnNotFound represents a lookup of a column the frame does not have.
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// ErrLengthMismatch represents columns or matrices of incompatible sizes.
type ErrLengthMismatch struct {
	What string
	Want int
	Got  int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch in %s: want %d, got %d", e.What, e.Want, e.Got)
}

// ErrSingularSystem is returned when the sWeights linear system cannot be
// solved because the class densities are linearly dependent over the sample.
type ErrSingularSystem struct {
	NClasses int
}

func (e *ErrSingularSystem) Error() string {
	return fmt.Sprintf("singular sWeights system for %d classes: class densities are linearly dependent", e.NClasses)
}

// ErrEmptyDensity is returned when every class density vanishes for an event,
// which makes its total mixture density zero.
type ErrEmptyDensity struct {
	Event int
}

func (e *ErrEmptyDensity) Error() string {
	return fmt.Sprintf("total mixture density is zero for event %d", e.Event)
}

// ErrFitFailed represents a yield fit that did not converge.
type ErrFitFailed struct {
	Reason string
	Err    error
}

func (e *ErrFitFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("yield fit failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("yield fit failed: %s", e.Reason)
}

// ErrFetch represents a failure downloading a remote dataset.
type ErrFetch struct {
	URL    string
	Status int
	Err    error
}

func (e *ErrFetch) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error fetching %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("error fetching %q: status %d", e.URL, e.Status)
}
