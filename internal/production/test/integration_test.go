package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lmonteiro/aerofab/internal/production/audit"
	"github.com/lmonteiro/aerofab/internal/production/auth"
	"github.com/lmonteiro/aerofab/internal/production/controller"
	e "github.com/lmonteiro/aerofab/internal/production/errors"
	"github.com/lmonteiro/aerofab/internal/production/models"
	"github.com/lmonteiro/aerofab/internal/production/report"
	"github.com/lmonteiro/aerofab/internal/production/store"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// IntegrationTestSuite exercises the full stack over a real data
// directory: store, controller, audit trail and report generation.
type IntegrationTestSuite struct {
	suite.Suite
	dataDir string
	store   *store.Store
	svc     *controller.Service
	admin   *auth.Session
	logger  *zap.Logger
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupTest() {
	s.logger = zap.NewNop()
	s.dataDir = s.T().TempDir()

	var err error
	s.store, err = store.Open(store.Config{DataDir: s.dataDir}, s.logger)
	s.Require().NoError(err)

	trail := audit.NewTrail(s.dataDir, s.logger)
	s.svc = controller.NewService(s.store, trail, report.NewGenerator(s.dataDir), s.logger)

	_, err = s.svc.CreateEmployee(auth.NewSession(s.logger), controller.EmployeeInput{
		Name: "Root", Username: "root", Password: "root", Level: "admin",
	})
	s.Require().NoError(err)

	s.admin = auth.NewSession(s.logger)
	_, err = s.svc.Login(s.admin, "root", "root")
	s.Require().NoError(err)
}

// reopen simulates a process restart against the same data directory.
func (s *IntegrationTestSuite) reopen() *controller.Service {
	st, err := store.Open(store.Config{DataDir: s.dataDir}, s.logger)
	s.Require().NoError(err)
	return controller.NewService(st, audit.NopRecorder{}, report.NewGenerator(s.dataDir), s.logger)
}

func (s *IntegrationTestSuite) TestAircraftLifecycleSurvivesRestart() {
	_, err := s.svc.CreateAircraft(s.admin, controller.AircraftInput{
		Code: "AC-1", Model: "E195", Type: "military", Capacity: 12, Range: 4200,
	})
	s.Require().NoError(err)

	p, err := s.svc.AddPart(s.admin, "AC-1", controller.PartInput{Name: "engine", Type: "imported", Supplier: "RR"})
	s.Require().NoError(err)
	st, err := s.svc.AddStage(s.admin, "AC-1", controller.StageInput{Name: "fuselage", Deadline: "2026-10-01"})
	s.Require().NoError(err)
	tst, err := s.svc.AddTest(s.admin, "AC-1", "hydraulic")
	s.Require().NoError(err)

	svc2 := s.reopen()
	a, err := svc2.Aircraft("AC-1")
	s.Require().NoError(err)
	s.Equal(models.Military, a.Type)
	s.Require().Len(a.Parts, 1)
	s.Equal(p.ID, a.Parts[0].ID)
	s.Require().Len(a.Stages, 1)
	s.Equal(st.ID, a.Stages[0].ID)
	s.Require().Len(a.Tests, 1)
	s.Equal(tst.ID, a.Tests[0].ID)
	s.Nil(a.Tests[0].Result)
}

func (s *IntegrationTestSuite) TestStageOrderingScenario() {
	_, err := s.svc.CreateAircraft(s.admin, controller.AircraftInput{Code: "AC-1", Model: "E195"})
	s.Require().NoError(err)
	s1, err := s.svc.AddStage(s.admin, "AC-1", controller.StageInput{Name: "S1"})
	s.Require().NoError(err)
	s2, err := s.svc.AddStage(s.admin, "AC-1", controller.StageInput{Name: "S2"})
	s.Require().NoError(err)

	s.ErrorIs(s.svc.StartStage(s.admin, "AC-1", s2.ID), e.ErrPrecedingStageIncomplete)
	s.Require().NoError(s.svc.StartStage(s.admin, "AC-1", s1.ID))
	s.Require().NoError(s.svc.FinishStage(s.admin, "AC-1", s1.ID))
	s.Require().NoError(s.svc.StartStage(s.admin, "AC-1", s2.ID))

	// The progression is on disk, not just in memory.
	a, err := s.reopen().Aircraft("AC-1")
	s.Require().NoError(err)
	s.Equal(models.StageDone, a.Stages[0].Status)
	s.Equal(models.StageInProgress, a.Stages[1].Status)
}

func (s *IntegrationTestSuite) TestOperatorPermissions() {
	_, err := s.svc.CreateEmployee(auth.NewSession(s.logger), controller.EmployeeInput{
		Name: "Op", Username: "op", Password: "op", Level: "operator",
	})
	s.Require().NoError(err)

	_, err = s.svc.CreateAircraft(s.admin, controller.AircraftInput{Code: "AC-1"})
	s.Require().NoError(err)
	st, err := s.svc.AddStage(s.admin, "AC-1", controller.StageInput{Name: "S1"})
	s.Require().NoError(err)

	op := auth.NewSession(s.logger)
	_, err = s.svc.Login(op, "op", "op")
	s.Require().NoError(err)

	// Operators may start stages but nothing else that mutates.
	s.Require().NoError(s.svc.StartStage(op, "AC-1", st.ID))
	s.ErrorIs(s.svc.FinishStage(op, "AC-1", st.ID), e.ErrPermissionDenied)
	_, err = s.svc.CreateAircraft(op, controller.AircraftInput{Code: "AC-2"})
	s.ErrorIs(err, e.ErrPermissionDenied)
	s.ErrorIs(s.svc.DeleteEmployee(op, "whatever"), e.ErrPermissionDenied)
}

func (s *IntegrationTestSuite) TestDanglingAssigneeSurvivesEmployeeDeletion() {
	_, err := s.svc.CreateAircraft(s.admin, controller.AircraftInput{Code: "AC-1"})
	s.Require().NoError(err)
	st, err := s.svc.AddStage(s.admin, "AC-1", controller.StageInput{Name: "S1"})
	s.Require().NoError(err)

	emp, err := s.svc.CreateEmployee(auth.NewSession(s.logger), controller.EmployeeInput{
		Name: "Temp", Username: "temp", Password: "t", Level: "operator",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.svc.AssignEmployee(s.admin, "AC-1", st.ID, emp.ID))
	s.Require().NoError(s.svc.DeleteEmployee(s.admin, emp.ID))

	a, err := s.reopen().Aircraft("AC-1")
	s.Require().NoError(err)
	s.Equal([]string{emp.ID}, a.Stages[0].Assignees, "weak reference dangles after deletion")
}

func (s *IntegrationTestSuite) TestReportAndAuditFiles() {
	_, err := s.svc.CreateAircraft(s.admin, controller.AircraftInput{Code: "AC-1", Model: "E195"})
	s.Require().NoError(err)
	tst, err := s.svc.AddTest(s.admin, "AC-1", "electrical")
	s.Require().NoError(err)
	_, err = s.svc.SetTestResult(s.admin, "AC-1", tst.ID, "aprovado")
	s.Require().NoError(err)

	text, path, err := s.svc.GenerateReport(s.admin, "AC-1", "FAB", "2027-01-15")
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.dataDir, "AC-1_relatorio.txt"), path)
	s.Contains(text, "ELECTRICAL | PASSED")

	written, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal(text, string(written))

	trail, err := os.ReadFile(filepath.Join(s.dataDir, "audit.log"))
	s.Require().NoError(err)
	s.Contains(string(trail), string(audit.ReportGenerated))
	s.Contains(string(trail), `"actor":"root"`)
}

func (s *IntegrationTestSuite) TestDuplicateCodeAcrossRestart() {
	_, err := s.svc.CreateAircraft(s.admin, controller.AircraftInput{Code: "AC-1", Model: "E195"})
	s.Require().NoError(err)

	svc2 := s.reopen()
	sess := auth.NewSession(s.logger)
	_, err = svc2.Login(sess, "root", "root")
	s.Require().NoError(err)

	_, err = svc2.CreateAircraft(sess, controller.AircraftInput{Code: "AC-1", Model: "A320"})
	s.ErrorIs(err, e.ErrDuplicateCode)
}
