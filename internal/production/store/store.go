// Package store implements the persisted repository of aircraft and
// employees: two JSON documents on local disk, fully rewritten after
// every mutating operation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	e "github.com/lmonteiro/aerofab/internal/production/errors"
	"github.com/lmonteiro/aerofab/internal/production/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

const (
	aircraftFile = "aircraft.json"
	employeeFile = "employees.json"
)

// Config carries the store's settings.
type Config struct {
	// DataDir is the directory holding both JSON documents. It is
	// created if absent.
	DataDir string
}

// Store is the sole persisted root: the full mapping from aircraft code
// to Aircraft and from employee id to Employee. It is not safe for
// concurrent use; the tool runs one command at a time and no locking
// guards a second process against the same data directory.
type Store struct {
	dataDir   string
	aircraft  map[string]*models.Aircraft
	employees map[string]*models.Employee
	logger    *zap.Logger
}

// Open loads both collections from cfg.DataDir. A missing file loads as
// an empty collection. A file that is not valid JSON, or whose shape does
// not unmarshal, also loads as empty: the corruption is logged, never
// surfaced to the caller.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{
		dataDir:   cfg.DataDir,
		aircraft:  make(map[string]*models.Aircraft),
		employees: make(map[string]*models.Employee),
		logger:    logger.Named("store"),
	}

	var aircraft []*models.Aircraft
	if s.loadDocument(aircraftFile, &aircraft) {
		for _, a := range aircraft {
			s.aircraft[a.Code] = a
		}
	}
	var employees []*models.Employee
	if s.loadDocument(employeeFile, &employees) {
		for _, emp := range employees {
			s.employees[emp.ID] = emp
		}
	}
	return s, nil
}

// loadDocument reads one JSON document into out. It reports false when
// the file is absent or unreadable as the expected shape, in which case
// the collection stays empty.
func (s *Store) loadDocument(name string, out any) bool {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read state file, starting empty",
				zap.String("file", name), zap.Error(err))
		}
		return false
	}
	if !gjson.ValidBytes(data) {
		s.logger.Warn("state file is not valid JSON, starting empty",
			zap.String("file", name))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("state file has unexpected shape, starting empty",
			zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

// Persist serialises both collections back to their files, pretty-printed
// and deterministically ordered, fully overwriting prior content. There is
// no partial-write protection; a crash mid-write can corrupt state.
func (s *Store) Persist() error {
	if err := s.writeDocument(aircraftFile, s.ListAircraft()); err != nil {
		return err
	}
	return s.writeDocument(employeeFile, s.ListEmployees())
}

func (s *Store) writeDocument(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialise %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	if err := os.WriteFile(path, pretty.Pretty(data), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// DataDir returns the directory holding the persisted documents.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Aircraft returns the aircraft with the given code.
func (s *Store) Aircraft(code string) (*models.Aircraft, error) {
	a, ok := s.aircraft[code]
	if !ok {
		return nil, e.ErrAircraftNotFound
	}
	return a, nil
}

// PutAircraft adds a new aircraft. Code uniqueness is enforced here,
// at creation time only.
func (s *Store) PutAircraft(a *models.Aircraft) error {
	if _, ok := s.aircraft[a.Code]; ok {
		return e.ErrDuplicateCode
	}
	s.aircraft[a.Code] = a
	return nil
}

// RemoveAircraft deletes the aircraft with the given code. Owned parts,
// stages and tests go with it.
func (s *Store) RemoveAircraft(code string) error {
	if _, ok := s.aircraft[code]; !ok {
		return e.ErrAircraftNotFound
	}
	delete(s.aircraft, code)
	return nil
}

// ListAircraft returns all aircraft ordered by code.
func (s *Store) ListAircraft() []*models.Aircraft {
	out := make([]*models.Aircraft, 0, len(s.aircraft))
	for _, a := range s.aircraft {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Employee returns the employee with the given id.
func (s *Store) Employee(id string) (*models.Employee, error) {
	emp, ok := s.employees[id]
	if !ok {
		return nil, e.ErrEmployeeNotFound
	}
	return emp, nil
}

// EmployeeByUsername scans for the employee with the given login
// username. Usernames are not indexed; the registry is small.
func (s *Store) EmployeeByUsername(username string) (*models.Employee, error) {
	for _, emp := range s.ListEmployees() {
		if emp.Username == username {
			return emp, nil
		}
	}
	return nil, e.ErrEmployeeNotFound
}

// PutEmployee adds or replaces an employee record.
func (s *Store) PutEmployee(emp *models.Employee) {
	s.employees[emp.ID] = emp
}

// RemoveEmployee deletes the employee with the given id. Stage assignee
// sets referencing the id are left untouched and may dangle.
func (s *Store) RemoveEmployee(id string) error {
	if _, ok := s.employees[id]; !ok {
		return e.ErrEmployeeNotFound
	}
	delete(s.employees, id)
	return nil
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees() []*models.Employee {
	out := make([]*models.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
