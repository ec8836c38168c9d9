package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrDataAccess         = errors.New("data access failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDraftInvalid       = errors.New("draft is invalid")
	ErrStockConflict      = errors.New("stock conflict")
	ErrExternalCapability = errors.New("external capability failed")
)

type Stage string

const (
	StageTranscribe     Stage = "transcribe"
	StageResolveCatalog Stage = "resolve_catalog"
	StagePrepare        Stage = "prepare"
	StageExtract        Stage = "extract"
	StageCommit         Stage = "commit"
)

// StageError names the pipeline stage that produced Err.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage reports the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func draftInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDraftInvalid, fmt.Sprintf(format, args...))
}

func stockConflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStockConflict, fmt.Sprintf(format, args...))
}

func dataAccess(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, op, err)
}

func externalCapability(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalCapability, op, err)
}

// isClassified reports whether err already carries a taxonomy kind.
func isClassified(err error) bool {
	for _, kind := range []error{ErrDataAccess, ErrInvalidInput, ErrDraftInvalid, ErrStockConflict, ErrExternalCapability} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
