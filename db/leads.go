// ABOUTME: Lead database operations backing the /api endpoints
// ABOUTME: Handles lead CRUD, filtering, stats, and the activity log
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/roofdesk/models"
)

var ErrLeadNotFound = errors.New("lead not found")

const leadColumns = `id, first_name, last_name, email, phone, service, property_type, urgency,
	address, zip_code, message, status, source, photo, date`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row scanner) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID,
		&l.FirstName,
		&l.LastName,
		&l.Email,
		&l.Phone,
		&l.Service,
		&l.PropertyType,
		&l.Urgency,
		&l.Address,
		&l.ZipCode,
		&l.Message,
		&l.Status,
		&l.Source,
		&l.Photo,
		&l.Date,
	)
	return l, err
}

// CreateLead inserts a lead, filling id, status, source and date when empty.
// A caller-supplied id is kept so locally created leads keep their identity.
func CreateLead(db *sql.DB, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = models.StatusNew
	}
	if !models.IsValidStatus(lead.Status) {
		return fmt.Errorf("invalid status %q", lead.Status)
	}
	if lead.Source == "" {
		lead.Source = models.SourceWebsite
	}
	if lead.Date.IsZero() {
		lead.Date = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Service, lead.PropertyType,
		lead.Urgency, lead.Address, lead.ZipCode, lead.Message, lead.Status, lead.Source, lead.Photo, lead.Date.UTC())
	if err != nil {
		return err
	}

	if err := logActivity(tx, lead.ID, models.ActivityCreated, lead.Source); err != nil {
		return err
	}

	return tx.Commit()
}

// GetLead returns nil, nil when the lead does not exist.
func GetLead(db *sql.DB, id string) (*models.Lead, error) {
	lead, err := scanLead(db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// FindLeads returns leads newest first. query matches name, email or phone;
// status "" or "all" matches every status; limit <= 0 means no limit.
func FindLeads(db *sql.DB, query, status string, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = -1
	}

	var where []string
	var args []interface{}

	if q := strings.TrimSpace(query); q != "" {
		searchPattern := "%" + strings.ToLower(q) + "%"
		where = append(where, `(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)`)
		args = append(args, searchPattern, searchPattern, searchPattern, searchPattern)
	}
	if status != "" && status != "all" {
		where = append(where, `status = ?`)
		args = append(args, status)
	}

	sqlQuery := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		sqlQuery += ` WHERE ` + strings.Join(where, " AND ")
	}
	sqlQuery += ` ORDER BY date DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}

	return leads, rows.Err()
}

// UpdateLeadStatus sets a lead's status. Repeating the current status
// changes nothing and logs no activity.
func UpdateLeadStatus(db *sql.DB, id, status string) error {
	if !models.IsValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`UPDATE leads SET status = ? WHERE id = ? AND status != ?`, status, id, status)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRow(`SELECT COUNT(*) FROM leads WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrLeadNotFound
		}
		return nil
	}

	if err := logActivity(tx, id, models.ActivityStatus, status); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteLead removes a lead and reports whether it existed.
func DeleteLead(db *sql.DB, id string) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := logActivity(tx, id, models.ActivityDeleted, ""); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func GetLeadStats(db *sql.DB) (*models.LeadStats, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.LeadStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case models.StatusNew:
			stats.New = count
		case models.StatusContacted:
			stats.Contacted = count
		case models.StatusCompleted:
			stats.Completed = count
		}
	}

	return stats, rows.Err()
}

// GetLeadActivity returns a lead's history, oldest first. Entries outlive the lead.
func GetLeadActivity(db *sql.DB, leadID string) ([]models.LeadActivity, error) {
	rows, err := db.Query(`
		SELECT id, lead_id, action, COALESCE(detail, ''), timestamp
		FROM lead_activity
		WHERE lead_id = ?
		ORDER BY timestamp ASC, rowid ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []models.LeadActivity
	for rows.Next() {
		var a models.LeadActivity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Action, &a.Detail, &a.Timestamp); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}

	return activity, rows.Err()
}

func logActivity(tx *sql.Tx, leadID, action, detail string) error {
	_, err := tx.Exec(`
		INSERT INTO lead_activity (id, lead_id, action, detail, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), leadID, action, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to log %s activity: %w", action, err)
	}
	return nil
}
