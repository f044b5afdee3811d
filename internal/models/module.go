package models

// Workflow states of the replicated canvas.context_modules and
// canvas.context_module_progressions tables, as consumed by the
// module-progress and course-completion queries.
const (
	ModuleStateActive     = "active"
	ModuleProgressionDone = "completed"
)
