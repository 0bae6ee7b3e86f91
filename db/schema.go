// ABOUTME: Backend database schema definitions
// ABOUTME: Creates the leads table and its activity log
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	service TEXT NOT NULL DEFAULT '',
	property_type TEXT NOT NULL DEFAULT '',
	urgency TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	zip_code TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'new' CHECK(status IN ('new', 'contacted', 'completed')),
	source TEXT NOT NULL DEFAULT 'website',
	photo TEXT NOT NULL DEFAULT '',
	date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_date ON leads(date DESC);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);

CREATE TABLE IF NOT EXISTS lead_activity (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('created', 'status', 'deleted')),
	detail TEXT,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lead_activity_lead ON lead_activity(lead_id);
CREATE INDEX IF NOT EXISTS idx_lead_activity_timestamp ON lead_activity(timestamp DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
