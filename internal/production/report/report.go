// Package report renders an aircraft's full state plus client and
// delivery metadata into a plain-text delivery document and writes it
// next to the persisted state.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmonteiro/aerofab/internal/production/models"
)

// pendingResult labels a test whose result has not been set.
const pendingResult = "PENDING"

// Generator renders and writes delivery reports.
type Generator struct {
	dataDir string
	now     func() time.Time
}

// NewGenerator returns a generator writing into dataDir.
func NewGenerator(dataDir string) *Generator {
	return &Generator{dataDir: dataDir, now: time.Now}
}

// WithClock replaces the wall clock; tests use it for a deterministic
// generation timestamp.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Render produces the report text: a header with the aircraft's fields,
// then one line per part, stage and test in stored order, separated by
// blank lines, then the client, delivery date and generation timestamp.
func (g *Generator) Render(a *models.Aircraft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "DELIVERY REPORT - AIRCRAFT %s\n", a.Code)
	fmt.Fprintf(&b, "Model: %s | Type: %s | Capacity: %d | Range: %g\n", a.Model, a.Type, a.Capacity, a.Range)
	b.WriteString("\n")

	fmt.Fprintf(&b, "PARTS (%d)\n", len(a.Parts))
	for _, p := range a.Parts {
		fmt.Fprintf(&b, "  %s | %s | %s | %s | %s\n", p.ID, p.Name, p.Type, p.Supplier, p.Status)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "STAGES (%d)\n", len(a.Stages))
	for _, s := range a.Stages {
		fmt.Fprintf(&b, "  %s | %s | %s | %s | %s\n",
			s.ID, s.Name, s.Deadline, s.Status, strings.Join(s.Assignees, ","))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "TESTS (%d)\n", len(a.Tests))
	for _, t := range a.Tests {
		result := pendingResult
		if t.Result != nil {
			result = string(*t.Result)
		}
		fmt.Fprintf(&b, "  %s | %s | %s\n", t.ID, t.Kind, result)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Client: %s\n", a.Client)
	fmt.Fprintf(&b, "Delivery date: %s\n", a.DeliveryDate)
	fmt.Fprintf(&b, "Generated at: %s\n", g.now().Format(time.RFC3339))

	return b.String()
}

// Write renders the report and overwrites <code>_relatorio.txt in the
// data directory. It returns the rendered text and the file path.
func (g *Generator) Write(a *models.Aircraft) (string, string, error) {
	text := g.Render(a)
	path := filepath.Join(g.dataDir, fmt.Sprintf("%s_relatorio.txt", a.Code))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}
	return text, path, nil
}
