package database

import (
	"database/sql"
	"time"

	"label-matcher/internal/match"
)

// LabelMatch is one persisted page-to-order assignment from a matching run.
// OrderRef is the matched order's row id, nil for unmatched pages held for
// manual review. SourceFile points at the uploaded document the page came
// from (a local path or a Drive link).
type LabelMatch struct {
	ID              int64     `json:"id"`
	PageNumber      int       `json:"page_number"`
	ShippingAddress string    `json:"shipping_address"`
	OrderRef        *int64    `json:"order_ref"`
	Confidence      float64   `json:"confidence_score"`
	Matched         bool      `json:"matched"`
	LabelType       string    `json:"label_type"`
	SourceFile      string    `json:"source_file"`
	CreatedAt       time.Time `json:"created_at"`
}

// LabelStore handles database operations for label match results
type LabelStore struct {
	db *sql.DB
}

func NewLabelStore(db *sql.DB) *LabelStore {
	return &LabelStore{db: db}
}

const labelColumns = `id, page_number, shipping_address, order_ref,
	confidence_score, matched, label_type, source_file, created_at`

// SaveBatch persists one matching run's results in a single transaction.
func (s *LabelStore) SaveBatch(sourceFile string, results []match.MatchResult) ([]LabelMatch, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO label_matches
		(page_number, shipping_address, order_ref, confidence_score, matched, label_type, source_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	// The timestamp is written explicitly so the returned rows carry it
	// without a re-read.
	now := time.Now().UTC()

	saved := make([]LabelMatch, 0, len(results))
	for _, result := range results {
		row, err := stmt.Exec(result.PageNumber, result.ShippingAddress, result.OrderID,
			result.Confidence, result.Matched, result.LabelType.String(), sourceFile, now)
		if err != nil {
			return nil, err
		}

		id, err := row.LastInsertId()
		if err != nil {
			return nil, err
		}
		saved = append(saved, LabelMatch{
			ID:              id,
			PageNumber:      result.PageNumber,
			ShippingAddress: result.ShippingAddress,
			OrderRef:        result.OrderID,
			Confidence:      result.Confidence,
			Matched:         result.Matched,
			LabelType:       result.LabelType.String(),
			SourceFile:      sourceFile,
			CreatedAt:       now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetBySourceFile returns all results recorded for one uploaded document,
// in page order.
func (s *LabelStore) GetBySourceFile(sourceFile string) ([]LabelMatch, error) {
	query := `SELECT ` + labelColumns + ` FROM label_matches
			  WHERE source_file = ? ORDER BY page_number ASC`

	rows, err := s.db.Query(query, sourceFile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLabelMatches(rows)
}

// GetUnmatched returns every page awaiting manual review, newest first.
func (s *LabelStore) GetUnmatched() ([]LabelMatch, error) {
	query := `SELECT ` + labelColumns + ` FROM label_matches
			  WHERE matched = FALSE ORDER BY created_at DESC, page_number ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLabelMatches(rows)
}

// GetByOrder returns all label pages assigned to an order.
func (s *LabelStore) GetByOrder(orderRef int64) ([]LabelMatch, error) {
	query := `SELECT ` + labelColumns + ` FROM label_matches
			  WHERE order_ref = ? ORDER BY created_at DESC, page_number ASC`

	rows, err := s.db.Query(query, orderRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLabelMatches(rows)
}

// AssignOrder manually assigns an unmatched page to an order.
func (s *LabelStore) AssignOrder(id, orderRef int64) error {
	result, err := s.db.Exec(`UPDATE label_matches SET order_ref = ?, matched = TRUE
							  WHERE id = ?`, orderRef, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanLabelMatches(rows *sql.Rows) ([]LabelMatch, error) {
	var matches []LabelMatch
	for rows.Next() {
		var m LabelMatch
		if err := rows.Scan(&m.ID, &m.PageNumber, &m.ShippingAddress, &m.OrderRef,
			&m.Confidence, &m.Matched, &m.LabelType, &m.SourceFile, &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
