package models

import (
	"strings"
)

// AircraftType represents the category of an aircraft.
type AircraftType string

const (
	// Commercial represents a passenger or cargo aircraft.
	Commercial AircraftType = "COMMERCIAL"
	Military   AircraftType = "MILITARY"
)

// IsValid reports whether t is a recognised aircraft type.
func (t AircraftType) IsValid() bool {
	return t == Commercial || t == Military
}

// ParseAircraftType coerces free-text input into an AircraftType,
// case-insensitively. Unrecognised input defaults to COMMERCIAL.
func ParseAircraftType(s string) AircraftType {
	if AircraftType(strings.ToUpper(strings.TrimSpace(s))) == Military {
		return Military
	}
	return Commercial
}

// PartType represents the origin of a part.
type PartType string

const (
	National PartType = "NATIONAL"
	Imported PartType = "IMPORTED"
)

// IsValid reports whether t is a recognised part type.
func (t PartType) IsValid() bool {
	return t == National || t == Imported
}

// ParsePartType coerces free-text input into a PartType,
// case-insensitively. Unrecognised input defaults to NATIONAL.
func ParsePartType(s string) PartType {
	if PartType(strings.ToUpper(strings.TrimSpace(s))) == Imported {
		return Imported
	}
	return National
}

// PartStatus tracks a part through its supply chain.
type PartStatus string

const (
	PartInProduction PartStatus = "IN_PRODUCTION"
	PartInTransport  PartStatus = "IN_TRANSPORT"
	PartReady        PartStatus = "READY"
)

// IsValid reports whether s is a recognised part status.
func (s PartStatus) IsValid() bool {
	switch s {
	case PartInProduction, PartInTransport, PartReady:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s in the supply chain.
// The second return value is false when s is already READY.
func (s PartStatus) Next() (PartStatus, bool) {
	switch s {
	case PartInProduction:
		return PartInTransport, true
	case PartInTransport:
		return PartReady, true
	default:
		return PartReady, false
	}
}

// Part is a component owned by exactly one aircraft. Parts are created
// via the add-part operation and never deleted on their own.
type Part struct {
	// ID is unique within the owning aircraft.
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     PartType   `json:"type"`
	Supplier string     `json:"supplier"`
	Status   PartStatus `json:"status"`
}

// TestKind represents the category of an acceptance test.
type TestKind string

const (
	Electrical  TestKind = "ELECTRICAL"
	Hydraulic   TestKind = "HYDRAULIC"
	Aerodynamic TestKind = "AERODYNAMIC"
)

// IsValid reports whether k is a recognised test kind.
func (k TestKind) IsValid() bool {
	switch k {
	case Electrical, Hydraulic, Aerodynamic:
		return true
	default:
		return false
	}
}

// ParseTestKind coerces free-text input into a TestKind,
// case-insensitively. Unrecognised input defaults to ELECTRICAL.
func ParseTestKind(s string) TestKind {
	switch TestKind(strings.ToUpper(strings.TrimSpace(s))) {
	case Hydraulic:
		return Hydraulic
	case Aerodynamic:
		return Aerodynamic
	default:
		return Electrical
	}
}

// TestResult is the recorded outcome of a test.
type TestResult string

const (
	Passed TestResult = "PASSED"
	Failed TestResult = "FAILED"
)

// IsValid reports whether r is a recognised test result.
func (r TestResult) IsValid() bool {
	return r == Passed || r == Failed
}

// ParseTestResult coerces free-text input into a TestResult,
// case-insensitively. "PASSED" and its Portuguese-era equivalent
// "APROVADO" map to PASSED; anything else defaults to FAILED.
func ParseTestResult(s string) TestResult {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Passed), "APROVADO":
		return Passed
	default:
		return Failed
	}
}

// Test is an acceptance test owned by one aircraft. A nil Result
// means the test has not been run yet.
type Test struct {
	// ID is unique within the owning aircraft.
	ID     string      `json:"id"`
	Kind   TestKind    `json:"kind"`
	Result *TestResult `json:"result"`
}

// StageStatus tracks a manufacturing stage through its state machine.
type StageStatus string

const (
	StagePending    StageStatus = "PENDING"
	StageInProgress StageStatus = "IN_PROGRESS"
	StageDone       StageStatus = "DONE"
)

// IsValid reports whether s is a recognised stage status.
func (s StageStatus) IsValid() bool {
	switch s {
	case StagePending, StageInProgress, StageDone:
		return true
	default:
		return false
	}
}

// Stage is an ordered unit of manufacturing work on an aircraft.
// The position of a stage in its aircraft's Stages sequence is its
// dependency order: a stage may only start once its predecessor is DONE.
type Stage struct {
	// ID is unique within the owning aircraft.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Deadline is free text, typically an ISO date.
	Deadline string      `json:"deadline"`
	Status   StageStatus `json:"status"`
	// Assignees holds employee ids in insertion order, uniqued. These are
	// weak references: the ids are validated against the employee registry
	// at assignment time only and may dangle after an employee is deleted.
	Assignees []string `json:"assignees"`
}

// HasAssignee reports whether the employee id is already assigned.
func (s *Stage) HasAssignee(employeeID string) bool {
	for _, id := range s.Assignees {
		if id == employeeID {
			return true
		}
	}
	return false
}

// AddAssignee appends the employee id, preserving insertion order.
// Adding an id that is already present is a no-op.
func (s *Stage) AddAssignee(employeeID string) {
	if s.HasAssignee(employeeID) {
		return
	}
	s.Assignees = append(s.Assignees, employeeID)
}

// Aircraft is the aggregate root of the production tracker. Its code is
// user-supplied and acts as the primary key; parts, stages and tests are
// owned inline and live and die with the aircraft.
type Aircraft struct {
	// Code is unique across the repository, enforced at creation time.
	Code     string       `json:"code"`
	Model    string       `json:"model"`
	Type     AircraftType `json:"type"`
	Capacity int          `json:"capacity"`
	// Range is the maximum flight range in kilometres.
	Range  float64 `json:"range"`
	Parts  []Part  `json:"parts"`
	Stages []Stage `json:"stages"`
	Tests  []Test  `json:"tests"`
	// Client and DeliveryDate are set only by report generation.
	Client       string `json:"client,omitempty"`
	DeliveryDate string `json:"delivery_date,omitempty"`
}

// PartByID returns the owned part with the given id, or nil.
func (a *Aircraft) PartByID(id string) *Part {
	for i := range a.Parts {
		if a.Parts[i].ID == id {
			return &a.Parts[i]
		}
	}
	return nil
}

// StageByID returns the owned stage with the given id, or nil.
func (a *Aircraft) StageByID(id string) *Stage {
	for i := range a.Stages {
		if a.Stages[i].ID == id {
			return &a.Stages[i]
		}
	}
	return nil
}

// StageIndex returns the position of the stage with the given id in the
// ordered stage sequence, or -1 if absent.
func (a *Aircraft) StageIndex(id string) int {
	for i := range a.Stages {
		if a.Stages[i].ID == id {
			return i
		}
	}
	return -1
}

// TestByID returns the owned test with the given id, or nil.
func (a *Aircraft) TestByID(id string) *Test {
	for i := range a.Tests {
		if a.Tests[i].ID == id {
			return &a.Tests[i]
		}
	}
	return nil
}
