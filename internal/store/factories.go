// internal/store/factories.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"factory-match-workers/internal/models"

	"github.com/lib/pq"
)

// DefaultPageSize is the fixed page size both engines fetch the roster with.
// The engines need the complete table in memory before scoring or scanning,
// so pages are only a transport chunk, not a result window.
const DefaultPageSize = 1000

// FactoryStore reads and mutates the factory roster in PostgreSQL.
type FactoryStore struct {
	db *sql.DB
}

func NewFactoryStore(db *sql.DB) *FactoryStore {
	return &FactoryStore{db: db}
}

// FetchPage returns one page of the roster, newest records first. Legacy
// comma-joined industries/materials columns are normalized into lists here so
// nothing downstream has to branch on the field shape.
func (s *FactoryStore) FetchPage(ctx context.Context, filter models.RosterFilter, page, pageSize int) ([]models.FactoryRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset := page * pageSize

	query := `
		SELECT id, name, email, phone, country, city,
		       industries, materials, capabilities, notes, scale,
		       approved, created_at
		FROM factories`
	args := []interface{}{}
	if filter.Approved != nil {
		query += ` WHERE approved = $1`
		args = append(args, *filter.Approved)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch factories page %d: %w", page, err)
	}
	defer rows.Close()

	var out []models.FactoryRecord
	for rows.Next() {
		var (
			f                           models.FactoryRecord
			email, phone, country, city sql.NullString
			industries, materials       sql.NullString
			capabilities, notes, scale  sql.NullString
			createdAt                   time.Time
		)
		if err := rows.Scan(
			&f.ID, &f.Name, &email, &phone, &country, &city,
			&industries, &materials, &capabilities, &notes, &scale,
			&f.Approved, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan factory row: %w", err)
		}
		f.Email = email.String
		f.Phone = phone.String
		f.Country = country.String
		f.City = city.String
		f.Industries = models.NormalizeList(industries.String)
		f.Materials = models.NormalizeList(materials.String)
		f.Capabilities = capabilities.String
		f.Notes = notes.String
		f.Scale = scale.String
		f.CreatedAt = createdAt
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate factory rows: %w", err)
	}

	return out, nil
}

// DeleteByIDs removes factory records in bulk. Used by the merge operation to
// discard duplicate suspects; no data from the discarded records is folded
// into the kept primary.
func (s *FactoryStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	// Ids already gone are fine; the end state is what the caller asked for.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM factories WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete factories: %w", err)
	}
	return nil
}

// InsertInventionResult persists the query plus its ranked shortlist.
func (s *FactoryStore) InsertInventionResult(ctx context.Context, rec models.InventionResult) error {
	resultsJSON, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("marshal ranking results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invention_results
			(id, invention_name, description, production_type, preferred_country, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.InventionName, rec.Description, rec.ProductionType,
		rec.PreferredCountry, resultsJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert invention result: %w", err)
	}
	return nil
}
