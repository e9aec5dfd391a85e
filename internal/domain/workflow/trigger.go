package workflow

// Trigger is an event that moves a run between states
type Trigger string

const (
	TriggerPlan     Trigger = "PLAN"
	TriggerExecute  Trigger = "EXECUTE"
	TriggerFinalize Trigger = "FINALIZE"
	TriggerComplete Trigger = "COMPLETE"
	TriggerFail     Trigger = "FAIL"
)

func (t Trigger) String() string {
	return string(t)
}
