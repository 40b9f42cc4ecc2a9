// internal/pipeline/stage.go
package pipeline

// Stage is the monotonically-advancing marker of a pipeline run.
type Stage int

const (
	StageExtracting Stage = iota
	StageUpscaling
	StageReassembling
	StageCleaning
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageExtracting:   "extracting",
	StageUpscaling:    "upscaling",
	StageReassembling: "reassembling",
	StageCleaning:     "cleaning",
	StageDone:         "done",
	StageFailed:       "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
