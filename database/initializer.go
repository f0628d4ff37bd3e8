package database

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// ForeignKeyPolicy describes the ON DELETE behaviour of one foreign key column
type ForeignKeyPolicy struct {
	Table      string
	Column     string
	References string
	DeleteRule string
}

func (p ForeignKeyPolicy) key() string {
	return p.Table + "." + p.Column
}

// ExpectedForeignKeys is the delete behaviour every relationship must have
var ExpectedForeignKeys = map[string]string{
	"colleges.university_id":                      "SET NULL",
	"university_courses.university_id":            "CASCADE",
	"university_courses.course_id":                "CASCADE",
	"college_courses.college_id":                  "CASCADE",
	"college_courses.course_id":                   "CASCADE",
	"course_syllabus_groups.university_course_id": "CASCADE",
	"course_syllabus_items.group_id":              "CASCADE",
	"admin_audit_logs.admin_id":                   "CASCADE",
}

// ForeignKeys reads the foreign keys of the current schema from information_schema
func (s *PostgreSQLStore) ForeignKeys() ([]ForeignKeyPolicy, error) {
	rows, err := s.db.Query(`
		SELECT kcu.table_name, kcu.column_name, ccu.table_name, rc.delete_rule
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = rc.constraint_name AND kcu.constraint_schema = rc.constraint_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = rc.constraint_name AND ccu.constraint_schema = rc.constraint_schema
		WHERE rc.constraint_schema = current_schema()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []ForeignKeyPolicy
	for rows.Next() {
		var p ForeignKeyPolicy
		if err := rows.Scan(&p.Table, &p.Column, &p.References, &p.DeleteRule); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// VerifyForeignKeys checks that every expected relationship exists with the expected delete rule
func (s *PostgreSQLStore) VerifyForeignKeys() error {
	policies, err := s.ForeignKeys()
	if err != nil {
		return fmt.Errorf("read foreign keys: %w", err)
	}
	return CompareForeignKeys(policies)
}

// CompareForeignKeys reports every missing or mismatching relationship
func CompareForeignKeys(policies []ForeignKeyPolicy) error {
	found := make(map[string]string, len(policies))
	for _, p := range policies {
		found[p.key()] = p.DeleteRule
	}

	var problems []string
	for column, want := range ExpectedForeignKeys {
		got, ok := found[column]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: missing foreign key", column))
		case got != want:
			problems = append(problems, fmt.Sprintf("%s: ON DELETE %s, want %s", column, got, want))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("foreign key policy mismatch: %s", strings.Join(problems, "; "))
}

// PrintAllRelationships logs the foreign keys of the schema
func (s *PostgreSQLStore) PrintAllRelationships() {
	policies, err := s.ForeignKeys()
	if err != nil {
		log.Println("Unable to read relationships:", err)
		return
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].key() < policies[j].key() })
	for _, p := range policies {
		log.Printf("%-45s -> %-20s ON DELETE %s", p.key(), p.References, p.DeleteRule)
	}
}
