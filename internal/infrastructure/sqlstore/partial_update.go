package sqlstore

import (
	"fmt"
	"strings"

	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

// PartialUpdate builds the SET clause for an UPDATE touching only the given
// fields. Placeholders are numbered $1..$n in field order and values holds
// the matching arguments. Field names missing from columns are used as the
// column name verbatim.
//
//	PartialUpdate([]repository.UpdateField{{"firstName", "Aliya"}, {"age", 32}},
//	    map[string]string{"firstName": "first_name"})
//	// => `"first_name"=$1, "age"=$2`, ["Aliya", 32]
func PartialUpdate(fields []repository.UpdateField, columns map[string]string) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, service.BadRequest("No data")
	}

	cols := make([]string, len(fields))
	values := make([]interface{}, len(fields))
	for i, f := range fields {
		column, ok := columns[f.Name]
		if !ok {
			column = f.Name
		}
		cols[i] = fmt.Sprintf(`"%s"=$%d`, column, i+1)
		values[i] = f.Value
	}

	return strings.Join(cols, ", "), values, nil
}
