package gui

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Stages of the selection workflow. Each stage is entered once the metadata
// it depends on has arrived.
const (
	StageIdle             = "idle"
	StageDatasetChosen    = "dataset-chosen"
	StageVariableChosen   = "variable-chosen"
	StageAxesApplied      = "axes-applied"
	StageCalendarApplied  = "calendar-applied"
	StageTimestepsApplied = "timesteps-applied"
	StageScaleApplied     = "scale-applied"
	StageMapRendered      = "map-rendered"
)

const (
	eventChooseDataset  = "chooseDataset"
	eventChooseVariable = "chooseVariable"
	eventApplyAxes      = "applyAxes"
	eventApplyCalendar  = "applyCalendar"
	eventApplyTimesteps = "applyTimesteps"
	eventApplyScale     = "applyScale"
	eventRender         = "render"
)

var allStages = []string{
	StageIdle, StageDatasetChosen, StageVariableChosen, StageAxesApplied,
	StageCalendarApplied, StageTimestepsApplied, StageScaleApplied, StageMapRendered,
}

// layerStages are the stages in which a layer has been chosen and its
// details are known. A dataset expanded in the menu leaves the displayed
// layer in place, so it can still be redrawn from StageDatasetChosen.
var layerStages = []string{
	StageDatasetChosen, StageAxesApplied, StageCalendarApplied,
	StageTimestepsApplied, StageScaleApplied, StageMapRendered,
}

// newWorkflow returns the stage machine. Choosing a dataset or a variable
// restarts it from any stage; the later stages can be re-entered as the user
// navigates the calendar, picks times or edits the scale. Callers only fire
// the layer events once a layer is set.
func newWorkflow(log logrus.FieldLogger) *fsm.FSM {
	return fsm.NewFSM(
		StageIdle,
		fsm.Events{
			{Name: eventChooseDataset, Src: allStages, Dst: StageDatasetChosen},
			{Name: eventChooseVariable, Src: allStages, Dst: StageVariableChosen},
			{Name: eventApplyAxes, Src: []string{StageVariableChosen}, Dst: StageAxesApplied},
			{Name: eventApplyCalendar, Src: layerStages, Dst: StageCalendarApplied},
			{Name: eventApplyTimesteps, Src: layerStages, Dst: StageTimestepsApplied},
			{Name: eventApplyScale, Src: layerStages, Dst: StageScaleApplied},
			{Name: eventRender, Src: layerStages, Dst: StageMapRendered},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.WithFields(logrus.Fields{"event": e.Event, "from": e.Src}).Debugf("entering stage %s", e.Dst)
			},
		},
	)
}

// advance fires event on the stage machine. Re-entering the current stage is
// not an error.
func (v *Viewer) advance(ctx context.Context, event string) {
	err := v.workflow.Event(ctx, event)
	if err == nil {
		return
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}
	v.Log.WithFields(logrus.Fields{"event": event, "stage": v.workflow.Current()}).Debug(err)
}
