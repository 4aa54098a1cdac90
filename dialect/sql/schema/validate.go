package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/odbcadapter"
)

// ValidationIssue represents a problem found in a migration operation.
type ValidationIssue struct {
	Op      string
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationIssue) Error() string {
	return e.Op + " " + e.detail()
}

func (e *ValidationIssue) detail() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of operation validation.
type ValidationResult struct {
	Errors   []*ValidationIssue
	Warnings []*ValidationIssue
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// Err returns the errors as a single error, or nil.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = odbcadapter.NewValidationError(e.Op, e.detail())
	}
	return odbcadapter.NewAggregateError(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures operation validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strict bool
}

// Strict turns breaking changes into errors.
func Strict() ValidateOption {
	return func(c *validateConfig) {
		c.strict = true
	}
}

// ValidateOps validates a sequence of operations.
//
// Example:
//
//	result := schema.ValidateOps(ops)
//	if result.HasErrors() {
//	    log.Fatal(result)
//	}
func ValidateOps(ops []Op, opts ...ValidateOption) *ValidationResult {
	result := &ValidationResult{}
	for _, op := range ops {
		r := ValidateOp(op, opts...)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
	}
	return result
}

// ValidateOp validates a single operation.
func ValidateOp(op Op, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	v := &validator{cfg: cfg, op: op, result: &ValidationResult{}}
	v.required("", "table", op.TableName())
	switch op := op.(type) {
	case RenameColumn:
		v.required(op.Column, "column", op.Column)
		v.required(op.Column, "new column name", op.NewName)
		if op.Column != "" && strings.EqualFold(op.Column, op.NewName) {
			v.warn(op.Column, "column is renamed to the same name", false)
		}
		v.warn(op.Column, "renaming a column breaks statements that reference it", true)
	case ChangeColumn:
		v.required(op.Column, "column", op.Column)
		v.required(op.Column, "type", op.Type)
		if op.Options.Null != nil && !*op.Options.Null && !op.Options.HasDefault {
			v.warn(op.Column, "column changing to NOT NULL may fail if column has NULL values", true)
		}
		v.warn(op.Column, "column is rebuilt through a temporary column; a failure part way leaves it half migrated", false)
	case ChangeColumnDefault:
		v.required(op.Column, "column", op.Column)
	case RenameIndex:
		v.required("", "index name", op.Name)
		v.required("", "new index name", op.NewName)
		if op.Name != "" && strings.EqualFold(op.Name, op.NewName) {
			v.warn("", fmt.Sprintf("index %q is renamed to the same name", op.Name), false)
		}
	case RemoveIndex:
		v.required("", "index name", op.Name)
		v.warn("", fmt.Sprintf("index %q will be dropped", op.Name), true)
	case RenameTable:
		v.required("", "new table name", op.NewName)
		if op.Table != "" && strings.EqualFold(op.Table, op.NewName) {
			v.warn("", "table is renamed to the same name", false)
		}
		v.warn("", "renaming a table breaks statements that reference it", true)
	}
	return v.result
}

type validator struct {
	cfg    *validateConfig
	op     Op
	result *ValidationResult
}

func (v *validator) issue(column, msg string, breaking bool) *ValidationIssue {
	return &ValidationIssue{
		Op:       v.op.Kind(),
		Table:    v.op.TableName(),
		Column:   column,
		Message:  msg,
		Breaking: breaking,
	}
}

func (v *validator) required(column, what, value string) {
	if strings.TrimSpace(value) == "" {
		v.result.Errors = append(v.result.Errors, v.issue(column, what+" is required", false))
	}
}

func (v *validator) warn(column, msg string, breaking bool) {
	if breaking && v.cfg.strict {
		v.result.Errors = append(v.result.Errors, v.issue(column, msg, true))
		return
	}
	v.result.Warnings = append(v.result.Warnings, v.issue(column, msg, breaking))
}
