package sqlstore

import (
	"fmt"
	"strings"

	"github.com/martijn/jobboard/internal/core/repository"
)

// whereBuilder collects predicates joined with AND, numbering $n
// placeholders in the order arguments are added.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends a predicate. Each "?" in clause is replaced by the next
// positional placeholder, consuming one of args.
func (w *whereBuilder) add(clause string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// build returns " WHERE ..." or an empty string when nothing was added.
func (w *whereBuilder) build() (string, []interface{}) {
	if len(w.clauses) == 0 {
		return "", w.args
	}
	return " WHERE " + strings.Join(w.clauses, " AND "), w.args
}

// BuildJobFilter turns the optional job search filters into a WHERE clause.
// Title matches case-insensitively anywhere in the title and is plain text,
// not a LIKE pattern. MinSalary is an inclusive bound and HasEquity=true
// keeps jobs with equity > 0. A false or missing HasEquity adds nothing.
func BuildJobFilter(f repository.JobFilter) (string, []interface{}) {
	var w whereBuilder

	if f.Title != nil && *f.Title != "" {
		w.add(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(*f.Title))+"%")
	}
	if f.MinSalary != nil {
		w.add("salary >= ?", *f.MinSalary)
	}
	if f.HasEquity != nil && *f.HasEquity {
		w.add("equity > 0")
	}

	return w.build()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// BuildUserFilter is the users-listing counterpart of BuildJobFilter.
func BuildUserFilter(f repository.UserFilter) (string, []interface{}) {
	var w whereBuilder

	if f.IsAdmin != nil {
		w.add("is_admin = ?", *f.IsAdmin)
	}

	return w.build()
}
