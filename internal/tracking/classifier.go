package tracking

import (
	"github.com/MuzPas1/fleety-mobile/pkg/enums"
)

// UnrecognizedStageIndex marks a raw status outside the fixed progression.
const UnrecognizedStageIndex = -1

// Classification places a raw status string within the fixed progression
// accepted -> preparing -> on the way -> delivered. StageIndex is -1 for
// anything outside it ("pending", "refunded", empty, typos), which renders
// as no progress rather than an error.
type Classification struct {
	Stage      enums.OrderStage `json:"stage,omitempty"`
	StageIndex int              `json:"stage_index"`
	IsTerminal bool             `json:"is_terminal"`
}

// Classify maps a raw status onto the progression, case-insensitively.
func Classify(rawStatus string) Classification {
	stage, err := enums.ParseOrderStage(rawStatus)
	if err != nil {
		return Classification{StageIndex: UnrecognizedStageIndex}
	}
	return Classification{
		Stage:      stage,
		StageIndex: stage.Index(),
		IsTerminal: stage.IsTerminal(),
	}
}

// CompletedStages lists every stage up to and including the classified
// one, so a status that skipped stages still renders the earlier steps
// as complete.
func (c Classification) CompletedStages() []enums.OrderStage {
	if c.StageIndex < 0 {
		return nil
	}
	return enums.OrderStages()[:c.StageIndex+1]
}
