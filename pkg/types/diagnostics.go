package types

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is one validation finding. Node and Property point at the AST
// location that triggered it, when available.
type Diagnostic struct {
	Severity Severity
	Message  string
	Module   ModuleID
	Node     *Node
	Property string
}

func (d Diagnostic) String() string {
	if d.Module != "" {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Module, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// DiagnosticSink receives validation findings. Resolution and linking report
// every issue through a sink in a single pass instead of stopping at the
// first one.
type DiagnosticSink interface {
	Accept(d Diagnostic)
}

// Collector is a slice-backed DiagnosticSink.
type Collector struct {
	Diagnostics []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Accept(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Errors returns only the error-severity findings.
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity finding was collected.
func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// Reset discards all collected findings.
func (c *Collector) Reset() {
	c.Diagnostics = nil
}

// discard is a sink that drops everything, used when callers pass nil.
type discard struct{}

func (discard) Accept(Diagnostic) {}

// SinkOrDiscard returns the sink unchanged, or a drop-everything sink when
// nil, so components never have to nil-check before reporting.
func SinkOrDiscard(s DiagnosticSink) DiagnosticSink {
	if s == nil {
		return discard{}
	}
	return s
}
