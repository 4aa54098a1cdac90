package sql

import (
	"fmt"
	"regexp"
	"strings"
)

// Rewrite rule names.
const (
	RuleForUpdate      = "for-update"
	RuleIdentityInsert = "identity-insert"
	RuleModifyColumn   = "modify-decomposition"
)

// Statements may span lines, so every pattern with a dot sets the s flag.
var (
	forUpdateRe = regexp.MustCompile(`(?is)SELECT.*\sFOR\s+UPDATE`)

	identityInsertRe      = regexp.MustCompile(`(?is)INSERT\s*INTO.*\(\s*"ID"\s*,.*VALUES.*`)
	identityInsertTableRe = regexp.MustCompile(`(?i)INSERT\s*INTO\s*([^\s(]+)`)

	modifyRe       = regexp.MustCompile(`(?is)ALTER\s.*\sMODIFY\s.*\s`)
	modifyTableRe  = regexp.MustCompile(`(?is)ALTER\s+TABLE\s+(.*?)\s+MODIFY`)
	modifyColumnRe = regexp.MustCompile(`(?i)MODIFY\s([^\s]+)`)
	modifyTypeRe   = regexp.MustCompile(`(?i)MODIFY\s[^\s]+\s([^\s]+)`)
	modifyOptsRe   = regexp.MustCompile(`(?is)MODIFY\s[^\s]+\s[^\s]+\s(.*)`)
)

// RewriteFlags selects the rewrite rules applied by a Rewriter.
type RewriteFlags struct {
	ForUpdateCommit bool
	IdentityInsert  bool
	DecomposeModify bool
}

// AllRules enables every rewrite rule.
var AllRules = RewriteFlags{ForUpdateCommit: true, IdentityInsert: true, DecomposeModify: true}

// Rule is a named rewrite of a single statement.
type Rule struct {
	Name    string
	Match   func(query string) bool
	Rewrite func(query string) string
}

// Rewriter rewrites SQL text for DBMS quirks by pattern matching. It does
// not parse SQL; input it cannot make sense of passes through, and a
// malformed MODIFY clause produces malformed statements for the connector
// to reject.
//
// Precedence: a statement matching the MODIFY decomposition is split into
// several statements and no other rule is applied to it. Otherwise the
// for-update rule runs before the identity-insert rule.
type Rewriter struct {
	flags RewriteFlags
	rules []Rule
}

// NewRewriter returns a Rewriter applying the rules enabled in flags.
func NewRewriter(flags RewriteFlags) *Rewriter {
	r := &Rewriter{flags: flags}
	if flags.ForUpdateCommit {
		r.rules = append(r.rules, ForUpdateRule)
	}
	if flags.IdentityInsert {
		r.rules = append(r.rules, IdentityInsertRule)
	}
	return r
}

// Flags returns the enabled rules.
func (r *Rewriter) Flags() RewriteFlags { return r.flags }

// Rewrite returns the statements to execute in place of query, in order.
// Most queries yield a single unchanged statement.
func (r *Rewriter) Rewrite(query string) []string {
	if r.flags.DecomposeModify && IsModifyColumn(query) {
		return DecomposeModify(query)
	}
	return []string{r.Transform(query)}
}

// Transform applies the single-statement rules only. It is used for
// row-returning statements, which are never decomposed.
func (r *Rewriter) Transform(query string) string {
	for _, rule := range r.rules {
		if rule.Match(query) {
			query = rule.Rewrite(query)
		}
	}
	return query
}

// ForUpdateRule appends a commit to SELECT ... FOR UPDATE so that the lock
// is released at once on DBMSs that never unlock implicitly.
var ForUpdateRule = Rule{
	Name: RuleForUpdate,
	Match: func(query string) bool {
		return forUpdateRe.MatchString(query) && !strings.HasSuffix(query, ";commit;")
	},
	Rewrite: func(query string) string {
		return query + ";commit;"
	},
}

// IdentityInsertRule wraps an INSERT with an explicit "ID" value between
// SET IDENTITY_INSERT statements, which identity columns require.
var IdentityInsertRule = Rule{
	Name: RuleIdentityInsert,
	Match: func(query string) bool {
		return identityInsertRe.MatchString(query) &&
			!strings.HasPrefix(strings.ToUpper(query), "SET IDENTITY_INSERT")
	},
	Rewrite: func(query string) string {
		table := submatch(identityInsertTableRe, query)
		return fmt.Sprintf("SET IDENTITY_INSERT %s ON;%s;SET IDENTITY_INSERT %s OFF;", table, query, table)
	},
}

// IsModifyColumn reports whether query is an ALTER TABLE ... MODIFY statement.
func IsModifyColumn(query string) bool {
	return modifyRe.MatchString(query)
}

// DecomposeModify splits ALTER TABLE t MODIFY c type [options] into the
// four statements that emulate it: add a temporary column, copy the data,
// drop the original column and rename the temporary one. A failure part way
// leaves the earlier steps applied.
func DecomposeModify(query string) []string {
	var (
		table  = submatch(modifyTableRe, query)
		column = submatch(modifyColumnRe, query)
		typ    = submatch(modifyTypeRe, query)
		opts   = submatch(modifyOptsRe, query)
		temp   = TempColumnName(column)
	)
	def := strings.TrimSpace(typ + " " + strings.TrimSpace(opts))
	return []string{
		fmt.Sprintf("alter table %s add %s %s;", table, temp, def),
		fmt.Sprintf("update %s set %s=%s;", table, temp, column),
		fmt.Sprintf("alter table %s drop column %s;", table, column),
		fmt.Sprintf("alter table %s rename column %s to %s;", table, temp, column),
	}
}

// TempColumnName returns the collision-avoiding name used while a column
// is rebuilt: "1" is inserted before a trailing double quote, or appended
// to an unquoted name.
func TempColumnName(column string) string {
	if strings.HasSuffix(column, `"`) {
		return strings.TrimSuffix(column, `"`) + `1"`
	}
	return column + "1"
}

// submatch returns the first capture of re in s, or "" when re does not match.
func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
