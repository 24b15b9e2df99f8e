package store

import (
	"context"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString, Size: 128, Default: "anonymous"},
		{Name: "domain", Type: field.TypeString, Size: 64},
		{Name: "skill", Type: field.TypeString, Size: 64},
		{Name: "seed", Type: field.TypeInt64},
		{Name: "correct", Type: field.TypeBool},
		{Name: "correct_answer", Type: field.TypeString, Size: 256},
		{Name: "source", Type: field.TypeString, Size: 16, Default: SourceTemplate},
		{Name: "time_ms", Type: field.TypeInt64, Nullable: true},
		{Name: "difficulty", Type: field.TypeString, Size: 16, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	attemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "attempts_user_domain_skill",
				Columns: []*schema.Column{attemptsColumns[1], attemptsColumns[2], attemptsColumns[3]},
			},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString, Size: 64},
		{Name: "model", Type: field.TypeString, Size: 128},
		{Name: "purpose", Type: field.TypeString, Size: 64},
		{Name: "input_tokens", Type: field.TypeInt64, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt64, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "cached", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Size: 2048, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmEventsColumns[4]}},
		},
	}

	tables = []*schema.Table{attemptsTable, llmEventsTable}
)

// migrate creates missing tables and indexes. It never drops anything.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv, schema.WithForeignKeys(false))
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
