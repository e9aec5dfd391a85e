package workflow

var runBuilder = newRunBuilder()

func newRunBuilder() *Builder {
	b := NewBuilder()

	b.Configure(StateCreated).
		Permit(TriggerPlan, StatePlanned).
		Permit(TriggerFail, StateFailed)

	b.Configure(StatePlanned).
		Permit(TriggerExecute, StateExecuting).
		Permit(TriggerFail, StateFailed)

	b.Configure(StateExecuting).
		Permit(TriggerFinalize, StateFinalizing).
		Permit(TriggerFail, StateFailed)

	b.Configure(StateFinalizing).
		Permit(TriggerComplete, StateCompleted).
		Permit(TriggerFail, StateFailed)

	return b
}

// NewRun returns a machine for one document run, starting in CREATED.
// The happy path is PLAN, EXECUTE, FINALIZE, COMPLETE; FAIL leaves any
// non-terminal state for FAILED.
func NewRun() *Machine {
	return runBuilder.Build(StateCreated)
}
