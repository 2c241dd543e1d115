// Package cli implements the interactive command shell. It reads one
// command at a time, prompts for the ordered field set the corresponding
// domain operation requires, invokes it, and prints the outcome. No
// operation failure terminates the loop.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmonteiro/aerofab/internal/production/auth"
	"github.com/lmonteiro/aerofab/internal/production/controller"
	e "github.com/lmonteiro/aerofab/internal/production/errors"
	"github.com/lmonteiro/aerofab/internal/production/models"
	"go.uber.org/zap"
)

// styles groups the lipgloss styles of the shell.
type styles struct {
	prompt  lipgloss.Style
	success lipgloss.Style
	fail    lipgloss.Style
	title   lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(enabled bool) styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return styles{prompt: plain, success: plain, fail: plain, title: plain, dim: plain}
	}
	return styles{
		prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		title:   lipgloss.NewStyle().Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Shell runs the interactive command loop over a service and a session.
type Shell struct {
	in     *bufio.Reader
	out    io.Writer
	svc    *controller.Service
	sess   *auth.Session
	logger *zap.Logger
	st     styles
}

// NewShell constructs a shell reading commands from in and writing to
// out. Styling is disabled when out is not a terminal.
func NewShell(in io.Reader, out io.Writer, svc *controller.Service, sess *auth.Session, logger *zap.Logger, styled bool) *Shell {
	return &Shell{
		in:     bufio.NewReader(in),
		out:    out,
		svc:    svc,
		sess:   sess,
		logger: logger.Named("shell"),
		st:     newStyles(styled),
	}
}

// Run executes the command loop until "exit" or EOF.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, s.st.title.Render("aerofab - aircraft production tracker"))
	fmt.Fprintln(s.out, s.st.dim.Render(`type "help" for commands`))
	for {
		fmt.Fprint(s.out, s.st.prompt.Render(s.promptText()))
		line, err := s.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		s.dispatch(line)
	}
}

// promptText shows the session's user and level when authenticated.
func (s *Shell) promptText() string {
	if emp := s.sess.Current(); emp != nil {
		return fmt.Sprintf("%s/%s> ", emp.Username, emp.Level)
	}
	return "> "
}

func (s *Shell) dispatch(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]
	sub := ""
	if len(fields) > 1 {
		sub = fields[1]
	}

	var err error
	switch cmd {
	case "help":
		s.printHelp()
	case "login":
		err = s.cmdLogin()
	case "logout":
		s.sess.Logout()
		s.ok("logged out")
	case "whoami":
		if emp := s.sess.Current(); emp != nil {
			fmt.Fprintf(s.out, "%s (%s)\n", emp.Username, emp.Level)
		} else {
			fmt.Fprintln(s.out, "not logged in")
		}
	case "employee":
		err = s.cmdEmployee(sub)
	case "aircraft":
		err = s.cmdAircraft(sub)
	case "part":
		err = s.cmdPart(sub)
	case "stage":
		err = s.cmdStage(sub)
	case "test":
		err = s.cmdTest(sub)
	case "report":
		err = s.cmdReport()
	default:
		err = fmt.Errorf("unknown command %q", line)
	}
	if err != nil {
		s.logger.Info("command failed", zap.String("command", line), zap.Error(err))
		fmt.Fprintln(s.out, s.st.fail.Render("error: "+errorMessage(err)))
	}
}

// errorMessage maps domain error kinds to user-facing messages.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, e.ErrAuthRequired):
		return "log in first"
	case errors.Is(err, e.ErrPermissionDenied):
		return "your permission level does not allow this operation"
	case errors.Is(err, e.ErrInvalidCredentials):
		return "login failed: unknown username or wrong password"
	case errors.Is(err, e.ErrEmployeeNotFound):
		return "no employee with that id"
	case errors.Is(err, e.ErrAircraftNotFound):
		return "no aircraft with that code"
	case errors.Is(err, e.ErrPartNotFound):
		return "no part with that id on this aircraft"
	case errors.Is(err, e.ErrStageNotFound):
		return "no stage with that id on this aircraft"
	case errors.Is(err, e.ErrTestNotFound):
		return "no test with that id on this aircraft"
	case errors.Is(err, e.ErrDuplicateCode):
		return "an aircraft with that code already exists"
	case errors.Is(err, e.ErrPrecedingStageIncomplete):
		return "the preceding stage is not done yet"
	case errors.Is(err, e.ErrStageNotInProgress):
		return "the stage is not in progress"
	case errors.Is(err, e.ErrPartAlreadyReady):
		return "the part is already ready"
	default:
		return err.Error()
	}
}

func (s *Shell) ok(msg string) {
	fmt.Fprintln(s.out, s.st.success.Render(msg))
}

// prompt asks for one field and returns the trimmed answer.
func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, s.st.dim.Render(label+": "))
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *Shell) promptInt(label string) int {
	n, _ := strconv.Atoi(s.prompt(label))
	return n
}

func (s *Shell) promptFloat(label string) float64 {
	f, _ := strconv.ParseFloat(s.prompt(label), 64)
	return f
}

func (s *Shell) cmdLogin() error {
	username := s.prompt("Username")
	password := s.prompt("Password")
	emp, err := s.svc.Login(s.sess, username, password)
	if err != nil {
		return err
	}
	s.ok(fmt.Sprintf("logged in as %s (%s)", emp.Username, emp.Level))
	return nil
}

func (s *Shell) cmdEmployee(sub string) error {
	switch sub {
	case "add":
		emp, err := s.svc.CreateEmployee(s.sess, controller.EmployeeInput{
			Name:     s.prompt("Name"),
			Phone:    s.prompt("Phone"),
			Address:  s.prompt("Address"),
			Username: s.prompt("Username"),
			Password: s.prompt("Password"),
			Level:    s.prompt("Level (ADMIN/ENGINEER/OPERATOR)"),
		})
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("employee %s created with id %s", emp.Name, emp.ID))
	case "rm":
		if err := s.svc.DeleteEmployee(s.sess, s.prompt("Employee id")); err != nil {
			return err
		}
		s.ok("employee deleted")
	case "ls":
		for _, emp := range s.svc.ListEmployees() {
			fmt.Fprintf(s.out, "%s  %s  %s\n", emp.ID, emp.Name, emp.Level)
		}
	default:
		return fmt.Errorf("usage: employee add|rm|ls")
	}
	return nil
}

func (s *Shell) cmdAircraft(sub string) error {
	switch sub {
	case "add":
		a, err := s.svc.CreateAircraft(s.sess, controller.AircraftInput{
			Code:     s.prompt("Code"),
			Model:    s.prompt("Model"),
			Type:     s.prompt("Type (COMMERCIAL/MILITARY)"),
			Capacity: s.promptInt("Capacity"),
			Range:    s.promptFloat("Range (km)"),
		})
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("aircraft %s created", a.Code))
	case "rm":
		if err := s.svc.DeleteAircraft(s.sess, s.prompt("Code")); err != nil {
			return err
		}
		s.ok("aircraft deleted")
	case "ls":
		for _, a := range s.svc.ListAircraft() {
			fmt.Fprintf(s.out, "%s  %s  %s  cap=%d  range=%g\n", a.Code, a.Model, a.Type, a.Capacity, a.Range)
		}
	case "show":
		a, err := s.svc.Aircraft(s.prompt("Code"))
		if err != nil {
			return err
		}
		s.printAircraft(a)
	default:
		return fmt.Errorf("usage: aircraft add|rm|ls|show")
	}
	return nil
}

func (s *Shell) cmdPart(sub string) error {
	switch sub {
	case "add":
		code := s.prompt("Aircraft code")
		p, err := s.svc.AddPart(s.sess, code, controller.PartInput{
			Name:     s.prompt("Name"),
			Type:     s.prompt("Type (NATIONAL/IMPORTED)"),
			Supplier: s.prompt("Supplier"),
		})
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("part %s added with id %s", p.Name, p.ID))
	case "advance":
		code := s.prompt("Aircraft code")
		p, err := s.svc.AdvancePartStatus(s.sess, code, s.prompt("Part id"))
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("part %s is now %s", p.Name, p.Status))
	default:
		return fmt.Errorf("usage: part add|advance")
	}
	return nil
}

func (s *Shell) cmdStage(sub string) error {
	switch sub {
	case "add":
		code := s.prompt("Aircraft code")
		st, err := s.svc.AddStage(s.sess, code, controller.StageInput{
			Name:     s.prompt("Name"),
			Deadline: s.prompt("Deadline"),
		})
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("stage %s added with id %s", st.Name, st.ID))
	case "start":
		code := s.prompt("Aircraft code")
		if err := s.svc.StartStage(s.sess, code, s.prompt("Stage id")); err != nil {
			return err
		}
		s.ok("stage started")
	case "finish":
		code := s.prompt("Aircraft code")
		if err := s.svc.FinishStage(s.sess, code, s.prompt("Stage id")); err != nil {
			return err
		}
		s.ok("stage finished")
	case "assign":
		code := s.prompt("Aircraft code")
		stageID := s.prompt("Stage id")
		if err := s.svc.AssignEmployee(s.sess, code, stageID, s.prompt("Employee id")); err != nil {
			return err
		}
		s.ok("employee assigned")
	default:
		return fmt.Errorf("usage: stage add|start|finish|assign")
	}
	return nil
}

func (s *Shell) cmdTest(sub string) error {
	switch sub {
	case "add":
		code := s.prompt("Aircraft code")
		t, err := s.svc.AddTest(s.sess, code, s.prompt("Kind (ELECTRICAL/HYDRAULIC/AERODYNAMIC)"))
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("test %s added with id %s", t.Kind, t.ID))
	case "result":
		code := s.prompt("Aircraft code")
		testID := s.prompt("Test id")
		t, err := s.svc.SetTestResult(s.sess, code, testID, s.prompt("Result (PASSED/FAILED)"))
		if err != nil {
			return err
		}
		s.ok(fmt.Sprintf("test %s recorded as %s", t.ID, *t.Result))
	default:
		return fmt.Errorf("usage: test add|result")
	}
	return nil
}

func (s *Shell) cmdReport() error {
	code := s.prompt("Aircraft code")
	client := s.prompt("Client")
	deliveryDate := s.prompt("Delivery date")
	text, path, err := s.svc.GenerateReport(s.sess, code, client, deliveryDate)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, text)
	s.ok("report written to " + path)
	return nil
}

func (s *Shell) printAircraft(a *models.Aircraft) {
	fmt.Fprintln(s.out, s.st.title.Render(fmt.Sprintf("%s - %s (%s)", a.Code, a.Model, a.Type)))
	fmt.Fprintf(s.out, "capacity %d, range %g km\n", a.Capacity, a.Range)
	fmt.Fprintln(s.out, "parts:")
	for _, p := range a.Parts {
		fmt.Fprintf(s.out, "  %s  %s  %s  %s\n", p.ID, p.Name, p.Type, p.Status)
	}
	fmt.Fprintln(s.out, "stages:")
	for _, st := range a.Stages {
		fmt.Fprintf(s.out, "  %s  %s  %s  [%s]\n", st.ID, st.Name, st.Status, strings.Join(st.Assignees, ","))
	}
	fmt.Fprintln(s.out, "tests:")
	for _, t := range a.Tests {
		result := "PENDING"
		if t.Result != nil {
			result = string(*t.Result)
		}
		fmt.Fprintf(s.out, "  %s  %s  %s\n", t.ID, t.Kind, result)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  login | logout | whoami
  employee add|rm|ls
  aircraft add|rm|ls|show
  part add|advance
  stage add|start|finish|assign
  test add|result
  report
  exit
`)
}
