package sqlstore

import (
	"reflect"
	"testing"

	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

func TestPartialUpdate(t *testing.T) {
	tests := []struct {
		name           string
		fields         []repository.UpdateField
		columns        map[string]string
		expectedClause string
		expectedValues []interface{}
	}{
		{
			name: "maps logical names and keeps unknown names verbatim",
			fields: []repository.UpdateField{
				{Name: "firstName", Value: "Aliya"},
				{Name: "age", Value: 32},
			},
			columns:        map[string]string{"firstName": "first_name"},
			expectedClause: `"first_name"=$1, "age"=$2`,
			expectedValues: []interface{}{"Aliya", 32},
		},
		{
			name:           "single field",
			fields:         []repository.UpdateField{{Name: "title", Value: "Engineer"}},
			columns:        jobColumns,
			expectedClause: `"title"=$1`,
			expectedValues: []interface{}{"Engineer"},
		},
		{
			name:           "nil column map",
			fields:         []repository.UpdateField{{Name: "email", Value: "a@b.com"}},
			columns:        nil,
			expectedClause: `"email"=$1`,
			expectedValues: []interface{}{"a@b.com"},
		},
		{
			name: "placeholders follow field order",
			fields: []repository.UpdateField{
				{Name: "lastName", Value: "Smith"},
				{Name: "password", Value: "hash"},
				{Name: "firstName", Value: "Ann"},
			},
			columns:        userColumns,
			expectedClause: `"last_name"=$1, "password"=$2, "first_name"=$3`,
			expectedValues: []interface{}{"Smith", "hash", "Ann"},
		},
		{
			name:           "nil values are kept",
			fields:         []repository.UpdateField{{Name: "salary", Value: nil}},
			columns:        jobColumns,
			expectedClause: `"salary"=$1`,
			expectedValues: []interface{}{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, values, err := PartialUpdate(tt.fields, tt.columns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if clause != tt.expectedClause {
				t.Errorf("expected clause %q, got %q", tt.expectedClause, clause)
			}
			if !reflect.DeepEqual(values, tt.expectedValues) {
				t.Errorf("expected values %v, got %v", tt.expectedValues, values)
			}
		})
	}
}

func TestPartialUpdateEmpty(t *testing.T) {
	for _, fields := range [][]repository.UpdateField{nil, {}} {
		_, _, err := PartialUpdate(fields, userColumns)
		if !service.IsKind(err, service.KindBadRequest) {
			t.Fatalf("expected bad request, got %v", err)
		}
		if err.Error() != "No data" {
			t.Errorf("expected message %q, got %q", "No data", err.Error())
		}
	}
}
