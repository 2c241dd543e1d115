// Package controller implements the core business logic (service layer)
// of the production tracker: every domain operation gates on the caller's
// session, validates, mutates the repository, persists, and records an
// audit event.
package controller

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lmonteiro/aerofab/internal/production/audit"
	"github.com/lmonteiro/aerofab/internal/production/auth"
	e "github.com/lmonteiro/aerofab/internal/production/errors"
	"github.com/lmonteiro/aerofab/internal/production/models"
	"github.com/lmonteiro/aerofab/internal/production/report"
	"github.com/lmonteiro/aerofab/internal/pkg/utils"
	"go.uber.org/zap"
)

// Recorder receives one event per successful mutation.
type Recorder interface {
	Record(action audit.Action, actor, entityID, detail string)
}

// Repository defines the storage interface for aircraft and employees.
type Repository interface {
	Aircraft(code string) (*models.Aircraft, error)
	PutAircraft(a *models.Aircraft) error
	RemoveAircraft(code string) error
	ListAircraft() []*models.Aircraft
	Employee(id string) (*models.Employee, error)
	EmployeeByUsername(username string) (*models.Employee, error)
	PutEmployee(emp *models.Employee)
	RemoveEmployee(id string) error
	ListEmployees() []*models.Employee
	Persist() error
}

// Service provides the domain operations over the repository, guarded by
// session permission checks. All errors are raised synchronously on the
// violating call and never retried: they represent user input or
// workflow-ordering mistakes, not transient faults.
type Service struct {
	repo     Repository
	recorder Recorder
	reports  *report.Generator
	logger   *zap.Logger
}

// NewService constructs a Service with a repository, an audit recorder,
// a report generator and a logger.
func NewService(repo Repository, recorder Recorder, reports *report.Generator, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		reports:  reports,
		logger:   logger.Named("service"),
	}
}

// actor returns the audit actor name for the session.
func actor(sess *auth.Session) string {
	if emp := sess.Current(); emp != nil {
		return emp.Username
	}
	return "anonymous"
}

// EmployeeInput carries the fields for employee creation. Level is free
// text; unrecognised values fall back to OPERATOR.
type EmployeeInput struct {
	Name     string
	Phone    string
	Address  string
	Username string
	Password string
	Level    string
}

// CreateEmployee registers a new employee with a fresh id. The operation
// is deliberately ungated: anyone, authenticated or not, may create an
// employee. A documented gap of the tool, preserved as designed.
func (s *Service) CreateEmployee(sess *auth.Session, in EmployeeInput) (*models.Employee, error) {
	if in.Name == "" || in.Username == "" {
		return nil, fmt.Errorf("%w: name and username are required", e.ErrInvalidInput)
	}
	emp := &models.Employee{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Phone:    in.Phone,
		Address:  in.Address,
		Username: in.Username,
		Password: in.Password,
		Level:    models.ParsePermissionLevel(in.Level),
	}
	s.repo.PutEmployee(emp)
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.EmployeeCreated, actor(sess), emp.ID, string(emp.Level))
	return emp, nil
}

// DeleteEmployee removes an employee by id. Admin only. Stage assignments
// referencing the id are not cascaded and are left dangling.
func (s *Service) DeleteEmployee(sess *auth.Session, id string) error {
	if err := sess.Require(models.LevelAdmin); err != nil {
		return err
	}
	if err := s.repo.RemoveEmployee(id); err != nil {
		return err
	}
	if err := s.repo.Persist(); err != nil {
		return err
	}
	s.recorder.Record(audit.EmployeeDeleted, actor(sess), id, "")
	return nil
}

// AircraftInput carries the fields for aircraft creation. Type is free
// text; unrecognised values fall back to COMMERCIAL.
type AircraftInput struct {
	Code     string
	Model    string
	Type     string
	Capacity int
	Range    float64
}

// CreateAircraft registers a new aircraft with empty part, stage and test
// sequences. Fails with ErrDuplicateCode if the code is already taken.
func (s *Service) CreateAircraft(sess *auth.Session, in AircraftInput) (*models.Aircraft, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	if in.Code == "" {
		return nil, fmt.Errorf("%w: code is required", e.ErrInvalidInput)
	}
	a := &models.Aircraft{
		Code:     in.Code,
		Model:    in.Model,
		Type:     models.ParseAircraftType(in.Type),
		Capacity: in.Capacity,
		Range:    in.Range,
		Parts:    []models.Part{},
		Stages:   []models.Stage{},
		Tests:    []models.Test{},
	}
	if err := s.repo.PutAircraft(a); err != nil {
		return nil, err
	}
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.AircraftCreated, actor(sess), a.Code, a.Model)
	return a, nil
}

// DeleteAircraft removes an aircraft by code. Owned parts, stages and
// tests are removed with it.
func (s *Service) DeleteAircraft(sess *auth.Session, code string) error {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return err
	}
	if err := s.repo.RemoveAircraft(code); err != nil {
		return err
	}
	if err := s.repo.Persist(); err != nil {
		return err
	}
	s.recorder.Record(audit.AircraftDeleted, actor(sess), code, "")
	return nil
}

// PartInput carries the fields for adding a part. Type is free text;
// unrecognised values fall back to NATIONAL.
type PartInput struct {
	Name     string
	Type     string
	Supplier string
}

// AddPart appends a new part to the aircraft, status IN_PRODUCTION.
func (s *Service) AddPart(sess *auth.Session, code string, in PartInput) (*models.Part, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return nil, err
	}
	p := models.Part{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Type:     models.ParsePartType(in.Type),
		Supplier: in.Supplier,
		Status:   models.PartInProduction,
	}
	a.Parts = append(a.Parts, p)
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.PartAdded, actor(sess), ownedID(code, p.ID), p.Name)
	return a.PartByID(p.ID), nil
}

// AdvancePartStatus moves a part one step along its supply chain:
// IN_PRODUCTION → IN_TRANSPORT → READY. Advancing a READY part fails
// with ErrPartAlreadyReady.
func (s *Service) AdvancePartStatus(sess *auth.Session, code, partID string) (*models.Part, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return nil, err
	}
	p := a.PartByID(partID)
	if p == nil {
		return nil, e.ErrPartNotFound
	}
	next, ok := p.Status.Next()
	if !ok {
		return nil, e.ErrPartAlreadyReady
	}
	p.Status = next
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.PartAdvanced, actor(sess), ownedID(code, partID), string(next))
	return p, nil
}

// StageInput carries the fields for adding a stage.
type StageInput struct {
	Name     string
	Deadline string
}

// AddStage appends a new stage to the end of the aircraft's ordered stage
// sequence, status PENDING. Insertion order is the dependency order.
func (s *Service) AddStage(sess *auth.Session, code string, in StageInput) (*models.Stage, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return nil, err
	}
	st := models.Stage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Deadline:  in.Deadline,
		Status:    models.StagePending,
		Assignees: []string{},
	}
	a.Stages = append(a.Stages, st)
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.StageAdded, actor(sess), ownedID(code, st.ID), st.Name)
	return a.StageByID(st.ID), nil
}

// StartStage sets a stage to IN_PROGRESS. A stage at index i > 0 may only
// start once stage i-1 is DONE. The stage's own prior status is
// deliberately not checked: restarting a DONE stage is allowed, matching
// the tool's long-standing behavior.
func (s *Service) StartStage(sess *auth.Session, code, stageID string) error {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer, models.LevelOperator); err != nil {
		return err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return err
	}
	idx := a.StageIndex(stageID)
	if idx < 0 {
		return e.ErrStageNotFound
	}
	if idx > 0 && a.Stages[idx-1].Status != models.StageDone {
		return fmt.Errorf("%w: %s", e.ErrPrecedingStageIncomplete, a.Stages[idx-1].Name)
	}
	a.Stages[idx].Status = models.StageInProgress
	if err := s.repo.Persist(); err != nil {
		return err
	}
	s.recorder.Record(audit.StageStarted, actor(sess), ownedID(code, stageID), string(models.StageInProgress))
	return nil
}

// FinishStage sets a stage to DONE. Fails with ErrStageNotInProgress
// unless the stage is currently IN_PROGRESS.
func (s *Service) FinishStage(sess *auth.Session, code, stageID string) error {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return err
	}
	st := a.StageByID(stageID)
	if st == nil {
		return e.ErrStageNotFound
	}
	if st.Status != models.StageInProgress {
		return fmt.Errorf("%w: status %s", e.ErrStageNotInProgress, st.Status)
	}
	st.Status = models.StageDone
	if err := s.repo.Persist(); err != nil {
		return err
	}
	s.recorder.Record(audit.StageFinished, actor(sess), ownedID(code, stageID), string(models.StageDone))
	return nil
}

// AssignEmployee adds an employee id to a stage's assignee set. The id is
// validated against the registry at assignment time only; thereafter it is
// a weak reference that may dangle if the employee is deleted. Assigning
// an already-assigned employee is a persisted no-op.
func (s *Service) AssignEmployee(sess *auth.Session, code, stageID, employeeID string) error {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return err
	}
	st := a.StageByID(stageID)
	if st == nil {
		return e.ErrStageNotFound
	}
	if _, err := s.repo.Employee(employeeID); err != nil {
		return err
	}
	st.AddAssignee(employeeID)
	if err := s.repo.Persist(); err != nil {
		return err
	}
	s.recorder.Record(audit.EmployeeAssigned, actor(sess), ownedID(code, stageID), employeeID)
	return nil
}

// AddTest appends a new test to the aircraft with an unset result. Kind
// is free text; unrecognised values fall back to ELECTRICAL.
func (s *Service) AddTest(sess *auth.Session, code, kind string) (*models.Test, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return nil, err
	}
	t := models.Test{
		ID:   uuid.NewString(),
		Kind: models.ParseTestKind(kind),
	}
	a.Tests = append(a.Tests, t)
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.TestAdded, actor(sess), ownedID(code, t.ID), string(t.Kind))
	return a.TestByID(t.ID), nil
}

// SetTestResult records a test outcome. The raw input is coerced with a
// FAILED fallback; overwriting an already-set result is allowed.
func (s *Service) SetTestResult(sess *auth.Session, code, testID, raw string) (*models.Test, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return nil, err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return nil, err
	}
	t := a.TestByID(testID)
	if t == nil {
		return nil, e.ErrTestNotFound
	}
	t.Result = utils.Ptr(models.ParseTestResult(raw))
	if err := s.repo.Persist(); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.TestResultSet, actor(sess), ownedID(code, testID), string(*t.Result))
	return t, nil
}

// GenerateReport sets the aircraft's client and delivery date, persists,
// renders the delivery report and overwrites <code>_relatorio.txt in the
// data directory. It returns the rendered text and the file path.
func (s *Service) GenerateReport(sess *auth.Session, code, client, deliveryDate string) (string, string, error) {
	if err := sess.Require(models.LevelAdmin, models.LevelEngineer); err != nil {
		return "", "", err
	}
	a, err := s.repo.Aircraft(code)
	if err != nil {
		return "", "", err
	}
	a.Client = client
	a.DeliveryDate = deliveryDate
	if err := s.repo.Persist(); err != nil {
		return "", "", err
	}
	text, path, err := s.reports.Write(a)
	if err != nil {
		return "", "", err
	}
	s.logger.Info("report generated",
		zap.String("code", code),
		zap.String("path", path),
	)
	s.recorder.Record(audit.ReportGenerated, actor(sess), code, path)
	return text, path, nil
}

// Login authenticates the session against the employee registry.
func (s *Service) Login(sess *auth.Session, username, password string) (*models.Employee, error) {
	return sess.Login(s.repo, username, password)
}

// Aircraft returns one aircraft by code. Reads are ungated.
func (s *Service) Aircraft(code string) (*models.Aircraft, error) {
	return s.repo.Aircraft(code)
}

// ListAircraft returns all aircraft ordered by code.
func (s *Service) ListAircraft() []*models.Aircraft {
	return s.repo.ListAircraft()
}

// Employee returns one employee by id.
func (s *Service) Employee(id string) (*models.Employee, error) {
	return s.repo.Employee(id)
}

// ListEmployees returns all employees ordered by id.
func (s *Service) ListEmployees() []*models.Employee {
	return s.repo.ListEmployees()
}

func ownedID(code, id string) string {
	return code + "/" + id
}
