package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedPolicies() []ForeignKeyPolicy {
	var policies []ForeignKeyPolicy
	for column, rule := range ExpectedForeignKeys {
		table, col, _ := strings.Cut(column, ".")
		policies = append(policies, ForeignKeyPolicy{Table: table, Column: col, DeleteRule: rule})
	}
	return policies
}

func TestCompareForeignKeys(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		assert.NoError(t, CompareForeignKeys(expectedPolicies()))
	})

	t.Run("wrong rule", func(t *testing.T) {
		policies := expectedPolicies()
		for i := range policies {
			if policies[i].Table == "colleges" {
				policies[i].DeleteRule = "NO ACTION"
			}
		}
		err := CompareForeignKeys(policies)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colleges.university_id: ON DELETE NO ACTION, want SET NULL")
	})

	t.Run("missing", func(t *testing.T) {
		err := CompareForeignKeys(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "course_syllabus_items.group_id: missing foreign key")
	})
}
