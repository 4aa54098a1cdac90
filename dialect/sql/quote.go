package sql

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date on which t occurs, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Quoter quotes identifiers, strings and date/time values for a DBMS.
// ODBC date and timestamp escape sequences are never produced, since not
// all drivers accept them.
type Quoter struct {
	// QuoteChar is the identifier quote reported by the driver. Only its
	// first character is used; empty disables identifier quoting.
	QuoteChar string
	// Location is the zone times are converted to before formatting.
	// Nil means UTC.
	Location *time.Location
	// Boolean forms, see dialect.Traits.
	QuotedTrue, QuotedFalse     string
	UnquotedTrue, UnquotedFalse string
}

// QuoteString escapes every single quote in s by doubling it.
func (q *Quoter) QuoteString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteIdentifier returns the quoted form of a column name. The name is
// upper-cased, and each dot-separated segment is quoted on its own so
// that "orders.amount" becomes "ORDERS"."AMOUNT".
//
// Quoted names are case sensitive in the DBMS, hence the upper-casing. It
// does not consult the connection's CaseConvention.
func (q *Quoter) QuoteIdentifier(name string) string {
	name = upper(name)
	qc := q.quoteChar()
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = qc + p + qc
	}
	return strings.Join(parts, ".")
}

// QuoteTableName returns the quoted form of a table name.
func (q *Quoter) QuoteTableName(name string) string {
	return q.QuoteIdentifier(name)
}

func (q *Quoter) quoteChar() string {
	qc := strings.TrimSpace(q.QuoteChar)
	if qc == "" {
		return ""
	}
	return qc[:1]
}

// QuotedDate formats a date or time value for embedding in SQL text.
// Times are converted to the configured location and include the time of
// day; Date values never do.
func (q *Quoter) QuotedDate(v any) string {
	switch v := v.(type) {
	case time.Time:
		return v.In(q.location()).Format(dateTimeLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return q.QuotedDate(*v)
	case Date:
		return v.String()
	case *Date:
		if v == nil {
			return ""
		}
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (q *Quoter) location() *time.Location {
	if q.Location == nil {
		return time.UTC
	}
	return q.Location
}

// Quote renders v as a SQL literal.
func (q *Quoter) Quote(v any) string {
	if vr, ok := v.(driver.Valuer); ok {
		dv, err := vr.Value()
		if err != nil {
			return "NULL"
		}
		v = dv
	}
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + q.QuoteString(v) + "'"
	case []byte:
		return "'" + q.QuoteString(string(v)) + "'"
	case bool:
		if v {
			return q.QuotedTrue
		}
		return q.QuotedFalse
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time, *time.Time, Date, *Date:
		return "'" + q.QuotedDate(v) + "'"
	default:
		return fmt.Sprint(v)
	}
}

// TypeCastBind prepares a bind value for the connector: values wrapped
// in a driver.Valuer are extracted, booleans become the unquoted forms
// and dates become their quoted string representation.
func (q *Quoter) TypeCastBind(v any) (any, error) {
	if vr, ok := v.(driver.Valuer); ok {
		dv, err := vr.Value()
		if err != nil {
			return nil, err
		}
		v = dv
	}
	switch v := v.(type) {
	case bool:
		if v {
			return q.UnquotedTrue, nil
		}
		return q.UnquotedFalse, nil
	case time.Time, *time.Time, Date, *Date:
		return q.QuotedDate(v), nil
	default:
		return v, nil
	}
}
