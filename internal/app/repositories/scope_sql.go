package repositories

import (
	"fmt"

	"github.com/selinay/moraled/internal/app/auth"
)

// scopeColumns maps the constraint fields of a ScopeFilter onto the column
// expressions of a particular query. Leave a field empty when the query has
// no such column; a filter constraining an unmapped column yields no rows.
type scopeColumns struct {
	Class        string
	Subject      string
	SubjectClass string
	Parent       string
	Student      string
}

// appendScope translates a scope filter into a WHERE fragment. It returns the
// extended conditions and args, and ok=false when the filter (or an unmapped
// constraint) selects nothing, in which case the caller should skip the query
// and return an empty result.
func appendScope(conds []string, args []interface{}, f auth.ScopeFilter, cols scopeColumns) ([]string, []interface{}, bool) {
	switch {
	case f.All:
		return conds, args, true
	case f.None:
		return conds, args, false
	case len(f.ClassIDs) > 0:
		if cols.Class == "" {
			return conds, args, false
		}
		args = append(args, f.ClassIDs)
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", cols.Class, len(args)))
		return conds, args, true
	case len(f.SubjectIDs) > 0:
		if cols.Subject == "" {
			return conds, args, false
		}
		args = append(args, f.SubjectIDs)
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", cols.Subject, len(args)))
		return conds, args, true
	case len(f.SubjectClassIDs) > 0:
		if cols.SubjectClass == "" {
			return conds, args, false
		}
		args = append(args, f.SubjectClassIDs)
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", cols.SubjectClass, len(args)))
		return conds, args, true
	case f.ParentID != nil:
		if cols.Parent == "" {
			return conds, args, false
		}
		args = append(args, *f.ParentID)
		conds = append(conds, fmt.Sprintf("%s = $%d", cols.Parent, len(args)))
		return conds, args, true
	case f.StudentID != nil:
		if cols.Student == "" {
			return conds, args, false
		}
		args = append(args, *f.StudentID)
		conds = append(conds, fmt.Sprintf("%s = $%d", cols.Student, len(args)))
		return conds, args, true
	}
	// A zero filter selects nothing.
	return conds, args, false
}
