package filters

import (
	"fmt"
	"strings"
)

// Augment folds the filter snapshot into the outgoing prompt. Each filter
// becomes a predicate clause, single-value filters as an equality and
// multi-value filters as an IN list, all joined by " AND " and appended to
// the prompt after a single space. An empty snapshot passes the prompt
// through unchanged. The augmentation happens once, before the message
// enters the transcript; the unaugmented form is never stored.
func Augment(prompt string, snapshot []Filter) string {
	if len(snapshot) == 0 {
		return prompt
	}

	clauses := make([]string, 0, len(snapshot))
	for _, f := range snapshot {
		if len(f.Values) == 0 {
			continue
		}
		clauses = append(clauses, clause(f))
	}
	if len(clauses) == 0 {
		return prompt
	}

	return prompt + " " + strings.Join(clauses, " AND ")
}

func clause(f Filter) string {
	if len(f.Values) == 1 {
		return fmt.Sprintf("%s = %s", f.Field, quote(f.Values[0]))
	}

	quoted := make([]string, len(f.Values))
	for i, v := range f.Values {
		quoted[i] = quote(v)
	}
	return fmt.Sprintf("%s IN (%s)", f.Field, strings.Join(quoted, ", "))
}

// quote wraps a value in single quotes, doubling embedded quotes so a value
// cannot break out of its literal.
func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
