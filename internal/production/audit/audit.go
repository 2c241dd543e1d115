// Package audit records every successful mutation as one JSON line in an
// append-only trail next to the persisted state. Recording is synchronous;
// a failed append is logged and never fails the operation it trails.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Action identifies the mutation an event records.
type Action string

const (
	EmployeeCreated  Action = "employee_created"
	EmployeeDeleted  Action = "employee_deleted"
	AircraftCreated  Action = "aircraft_created"
	AircraftDeleted  Action = "aircraft_deleted"
	PartAdded        Action = "part_added"
	PartAdvanced     Action = "part_advanced"
	StageAdded       Action = "stage_added"
	StageStarted     Action = "stage_started"
	StageFinished    Action = "stage_finished"
	EmployeeAssigned Action = "employee_assigned"
	TestAdded        Action = "test_added"
	TestResultSet    Action = "test_result_set"
	ReportGenerated  Action = "report_generated"
)

// Event is one recorded mutation.
type Event struct {
	// Time is the wall-clock moment the mutation completed.
	Time time.Time `json:"time"`
	// Actor is the username of the session's employee, or "anonymous"
	// for the ungated operations.
	Actor  string `json:"actor"`
	Action Action `json:"action"`
	// EntityID identifies the mutated entity: an aircraft code, an
	// employee id, or "code/owned-id" for owned entities.
	EntityID string `json:"entity_id"`
	// Detail carries free-text context, such as the new status.
	Detail string `json:"detail,omitempty"`
}

// Trail appends events to <dir>/audit.log.
type Trail struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewTrail returns a trail writing to dir/audit.log.
func NewTrail(dir string, logger *zap.Logger) *Trail {
	return &Trail{
		path:   filepath.Join(dir, "audit.log"),
		logger: logger.Named("audit"),
		now:    time.Now,
	}
}

// Record appends one event. Failures are logged, not returned: the audit
// trail must never block or fail a domain operation.
func (t *Trail) Record(action Action, actor, entityID, detail string) {
	ev := Event{
		Time:     t.now().UTC(),
		Actor:    actor,
		Action:   action,
		EntityID: entityID,
		Detail:   detail,
	}
	line, err := json.Marshal(ev)
	if err != nil {
		t.logger.Error("failed to serialise audit event", zap.Error(err))
		return
	}
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.logger.Error("failed to open audit trail", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		t.logger.Error("failed to append audit event", zap.Error(err))
	}
}

// NopRecorder discards every event. Used in tests.
type NopRecorder struct{}

// Record implements the controller's Recorder interface as a no-op.
func (NopRecorder) Record(Action, string, string, string) {}
