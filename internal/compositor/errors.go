package compositor

import "fmt"

// Stage names the step of slot processing that failed
type Stage string

const (
	StageDecode Stage = "decode"
	StageResize Stage = "resize"
	StageCopy   Stage = "copy"
)

// SlotError is a failure scoped to one display slot. The slot stays
// unpainted and the remaining slots are still processed.
type SlotError struct {
	Index   int
	Display string
	Source  string
	Stage   Stage
	Err     error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%s on %s): unable to %s image: %v",
		e.Index+1, e.Source, e.Display, e.Stage, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }
