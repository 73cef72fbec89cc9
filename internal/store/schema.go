package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// usersColumns holds the columns for the "users" table.
	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       "users",
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	// cardsColumns holds the columns for the "cards" table. The integer id
	// keeps insertion order; uid is the card identity exposed to callers.
	cardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "uid", Type: field.TypeString, Unique: true},
		{Name: "character", Type: field.TypeString},
		{Name: "pinyin", Type: field.TypeString, Default: ""},
		{Name: "zhuyin", Type: field.TypeString, Default: ""},
		{Name: "meaning", Type: field.TypeString},
		{Name: "level", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_count", Type: field.TypeInt, Default: 0},
		{Name: "last_review", Type: field.TypeTime, Nullable: true},
		{Name: "next_review", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeInt},
	}
	cardsTable = &schema.Table{
		Name:       "cards",
		Columns:    cardsColumns,
		PrimaryKey: []*schema.Column{cardsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cards_users_cards",
				Columns:    []*schema.Column{cardsColumns[13]},
				RefColumns: []*schema.Column{usersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "card_user_id_next_review",
				Unique:  false,
				Columns: []*schema.Column{cardsColumns[13], cardsColumns[11]},
			},
		},
	}

	// reviewEventsColumns holds the columns for the "review_events" table.
	reviewEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeInt},
		{Name: "card_uid", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "mode", Type: field.TypeString, Default: ""},
		{Name: "correct", Type: field.TypeBool},
		{Name: "level_before", Type: field.TypeInt},
		{Name: "level_after", Type: field.TypeInt},
	}
	reviewEventsTable = &schema.Table{
		Name:       "review_events",
		Columns:    reviewEventsColumns,
		PrimaryKey: []*schema.Column{reviewEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewevent_user_id_timestamp",
				Unique:  false,
				Columns: []*schema.Column{reviewEventsColumns[3], reviewEventsColumns[2]},
			},
		},
	}

	// llmEventsColumns holds the columns for the "llm_request_events" table.
	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
	}

	// tables holds all the tables in the schema.
	tables = []*schema.Table{
		usersTable,
		cardsTable,
		reviewEventsTable,
		llmEventsTable,
	}
)

func init() {
	cardsTable.ForeignKeys[0].RefTable = usersTable
}

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
