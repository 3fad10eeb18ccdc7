package scraper

import "fmt"

// Stage is the progress of one profile through a run.
type Stage int

const (
	StagePending Stage = iota
	StageLoaded
	StageExpanded
	StageExtracted
	StageSaved
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageLoaded:
		return "loaded"
	case StageExpanded:
		return "expanded"
	case StageExtracted:
		return "extracted"
	case StageSaved:
		return "saved"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ProfileError reports the stage a profile failed to reach.
type ProfileError struct {
	Link  string
	Stage Stage
	Err   error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s: %s: %v", e.Link, e.Stage, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }
