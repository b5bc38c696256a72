// Package storage persists reconciliation results to SQLite for audit and
// manual review between pipeline runs.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/indexedakki/vectors-medtech/internal/binder"
	"github.com/indexedakki/vectors-medtech/internal/customer"
	"github.com/indexedakki/vectors-medtech/internal/record"
)

// AuditStore handles SQLite audit storage
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore opens (or creates) the audit database at dbPath.
func NewAuditStore(dbPath string) (*AuditStore, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &AuditStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *AuditStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			content_id TEXT PRIMARY KEY,
			file_name TEXT,
			article_no TEXT NOT NULL,
			title TEXT,
			record_type TEXT,
			contract_type TEXT,
			related_records TEXT,
			ucn TEXT,
			customer_name TEXT,
			policy_number TEXT,
			effective_date TEXT,
			end_date TEXT,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS explosion (
			parent_ucn TEXT NOT NULL,
			parent_name TEXT,
			indiv_ucn TEXT,
			shipto_ucn TEXT,
			member_name TEXT
		);

		CREATE TABLE IF NOT EXISTS binders (
			parent_ucn TEXT,
			ucn TEXT NOT NULL,
			contract_type TEXT NOT NULL,
			policy_number TEXT,
			trim_number TEXT NOT NULL,
			binder_id TEXT,
			parent_content_id TEXT NOT NULL DEFAULT '',
			parent_record_no TEXT,
			child_content_ids TEXT,
			child_record_nos TEXT,
			status INTEGER NOT NULL,
			comment TEXT,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (ucn, contract_type, trim_number, parent_content_id)
		);

		CREATE INDEX IF NOT EXISTS idx_records_article ON records(article_no);
		CREATE INDEX IF NOT EXISTS idx_binders_status ON binders(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *AuditStore) Close() error {
	return s.db.Close()
}

// SaveRecord upserts one normalized record.
func (s *AuditStore) SaveRecord(rec record.Record) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO records
			(content_id, file_name, article_no, title, record_type, contract_type,
			 related_records, ucn, customer_name, policy_number, effective_date, end_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ContentID, rec.FileName, rec.ArticleNo, rec.Title, rec.RecordType, rec.ContractType,
		rec.RelatedRecords, rec.UCN, rec.CustomerName, rec.PolicyNumber, rec.EffectiveDate, rec.EndDate, time.Now().UTC())

	return err
}

// ReplaceExplosion replaces the stored customer explosion rows with the
// given set.
func (s *AuditStore) ReplaceExplosion(rows []customer.ExplosionRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM explosion`); err != nil {
		return err
	}
	for _, row := range rows {
		_, err := tx.Exec(`
			INSERT INTO explosion (parent_ucn, parent_name, indiv_ucn, shipto_ucn, member_name)
			VALUES (?, ?, ?, ?, ?)
		`, row.ParentUCN, row.ParentName, row.IndivUCN, row.ShipToUCN, row.MemberName)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpsertBinder saves one binder, keyed by (ucn, contract_type, trim_number,
// parent_content_id) so repeated runs overwrite rather than duplicate.
func (s *AuditStore) UpsertBinder(b binder.Binder) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO binders
			(parent_ucn, ucn, contract_type, policy_number, trim_number, binder_id,
			 parent_content_id, parent_record_no, child_content_ids, child_record_nos,
			 status, comment, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ParentUCN, b.UCN, b.ContractType, b.PolicyNumber, b.TrimNumber, b.BinderID,
		b.ParentContentID, b.ParentRecordNo,
		strings.Join(b.ChildContentIDs, ","), strings.Join(b.ChildRecordNos, ","),
		b.Status, b.Comment, time.Now().UTC())

	return err
}

// SaveBinders upserts a full binder set in one transaction.
func (s *AuditStore) SaveBinders(binders []binder.Binder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range binders {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO binders
				(parent_ucn, ucn, contract_type, policy_number, trim_number, binder_id,
				 parent_content_id, parent_record_no, child_content_ids, child_record_nos,
				 status, comment, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.ParentUCN, b.UCN, b.ContractType, b.PolicyNumber, b.TrimNumber, b.BinderID,
			b.ParentContentID, b.ParentRecordNo,
			strings.Join(b.ChildContentIDs, ","), strings.Join(b.ChildRecordNos, ","),
			b.Status, b.Comment, time.Now().UTC())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBinders returns stored binders, optionally filtered by status.
// Pass a negative status to list all.
func (s *AuditStore) ListBinders(status int) ([]binder.Binder, error) {
	query := `
		SELECT parent_ucn, ucn, contract_type, policy_number, trim_number, binder_id,
		       parent_content_id, parent_record_no, child_content_ids, child_record_nos,
		       status, comment
		FROM binders
	`
	var args []any
	if status >= 0 {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY contract_type, trim_number`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var binders []binder.Binder
	for rows.Next() {
		var b binder.Binder
		var childIDs, childNos string

		err := rows.Scan(&b.ParentUCN, &b.UCN, &b.ContractType, &b.PolicyNumber, &b.TrimNumber,
			&b.BinderID, &b.ParentContentID, &b.ParentRecordNo, &childIDs, &childNos,
			&b.Status, &b.Comment)
		if err != nil {
			return nil, err
		}

		b.ChildContentIDs = splitJoined(childIDs)
		b.ChildRecordNos = splitJoined(childNos)
		binders = append(binders, b)
	}

	return binders, rows.Err()
}

// PropagateEndDates gives end-date-less product amendments the end date of
// their binder parent. An amendment claimed as a binder child runs with the
// agreement it amends, so in the audit view it expires when the parent does.
// Returns the number of children updated.
func (s *AuditStore) PropagateEndDates() (int, error) {
	binders, err := s.ListBinders(binder.StatusResolved)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, b := range binders {
		parent, err := s.GetRecord(b.ParentContentID)
		if err != nil || parent.EndDate == "" {
			continue
		}

		for _, childID := range b.ChildContentIDs {
			child, err := s.GetRecord(childID)
			if err != nil || !child.IsProduct() || child.EndDate != "" {
				continue
			}
			_, err = s.db.Exec(`UPDATE records SET end_date = ? WHERE content_id = ?`, parent.EndDate, child.ContentID)
			if err != nil {
				return updated, err
			}
			updated++
		}
	}

	return updated, nil
}

// Counts returns summary counts for the status command.
func (s *AuditStore) Counts() (records, binders, unresolved int, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&records); err != nil {
		return
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM binders`).Scan(&binders); err != nil {
		return
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM binders WHERE status = 0`).Scan(&unresolved)
	return
}

// GetRecord retrieves one record by content id.
func (s *AuditStore) GetRecord(contentID string) (record.Record, error) {
	row := s.db.QueryRow(`
		SELECT content_id, file_name, article_no, title, record_type, contract_type,
		       related_records, ucn, customer_name, policy_number, effective_date, end_date
		FROM records WHERE content_id = ?
	`, contentID)

	var rec record.Record
	err := row.Scan(&rec.ContentID, &rec.FileName, &rec.ArticleNo, &rec.Title, &rec.RecordType,
		&rec.ContractType, &rec.RelatedRecords, &rec.UCN, &rec.CustomerName, &rec.PolicyNumber,
		&rec.EffectiveDate, &rec.EndDate)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("record not found: %s", contentID)
	}
	return rec, err
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
