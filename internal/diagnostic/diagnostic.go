package diagnostic

import (
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryUnformattableValue Category = "unformattable-value"
	CategoryMalformedGraph     Category = "malformed-graph"
	CategorySkippedByPolicy    Category = "skipped-by-policy"
	CategoryInput              Category = "input"
)

// Diagnostic is a structured message about one class, field or object.
type Diagnostic struct {
	Severity Severity
	Category Category
	Class    string // generated class being emitted, if any
	Path     string // offending field or object path
	Message  string
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Class != "" {
		sb.WriteString(d.Class)
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)
	if d.Path != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Path)
		sb.WriteString(")")
	}

	return sb.String()
}

// Collector collects diagnostics during one generation session.
type Collector struct {
	class       string
	diagnostics []Diagnostic
}

// NewCollector creates a collector that stamps every diagnostic with class.
func NewCollector(class string) *Collector {
	return &Collector{class: class}
}

func (c *Collector) Warn(category Category, path, message string) {
	c.add(SeverityWarning, category, path, message)
}

func (c *Collector) Error(category Category, path, message string) {
	c.add(SeverityError, category, path, message)
}

func (c *Collector) Info(category Category, path, message string) {
	c.add(SeverityInfo, category, path, message)
}

func (c *Collector) add(sev Severity, category Category, path, message string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: sev,
		Category: category,
		Class:    c.class,
		Path:     path,
		Message:  message,
	})
}

// Diagnostics returns all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0
}

// Count returns the number of diagnostics at sev.
func (c *Collector) Count(sev Severity) int {
	if c == nil {
		return 0
	}
	count := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			count++
		}
	}
	return count
}
