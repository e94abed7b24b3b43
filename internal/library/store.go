package library

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ifc_element (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	global_id TEXT,
	name TEXT,
	type TEXT,
	storey TEXT,
	discipline TEXT,
	glb_path TEXT,
	created_at TEXT
);
CREATE TABLE IF NOT EXISTS ifc_property (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	element_id INTEGER,
	name TEXT,
	value TEXT,
	FOREIGN KEY(element_id) REFERENCES ifc_element(id)
);`

// Element is one exported scene object as stored in ifc_element, with its
// ifc_property rows attached.
type Element struct {
	ID         int64
	GlobalID   string
	Name       string
	Type       string
	Storey     string
	Discipline string
	GLBPath    string
	CreatedAt  time.Time
	Properties map[string]string
}

// Store wraps the library's SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the library database and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertBatch writes the elements of one storey batch and their
// properties inside a single transaction.
func (s *Store) InsertBatch(elements []*Element) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("library: begin: %w", err)
	}
	defer tx.Rollback()

	for _, el := range elements {
		res, err := tx.Exec(
			`INSERT INTO ifc_element (global_id, name, type, storey, discipline, glb_path, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			el.GlobalID, el.Name, el.Type, el.Storey, el.Discipline, el.GLBPath,
			el.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("library: insert element %s: %w", el.Name, err)
		}
		el.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("library: element id for %s: %w", el.Name, err)
		}
		for name, value := range el.Properties {
			if _, err := tx.Exec(
				`INSERT INTO ifc_property (element_id, name, value) VALUES (?, ?, ?)`,
				el.ID, name, value,
			); err != nil {
				return fmt.Errorf("library: insert property %s of %s: %w", name, el.Name, err)
			}
		}
	}
	return tx.Commit()
}

// UsageRow is one (name, type) group of a storey usage query.
type UsageRow struct {
	Name  string
	Type  string
	Count int
}

// UsageByStorey counts the elements of one storey grouped by name and
// type, most frequent first.
func (s *Store) UsageByStorey(storey string) ([]UsageRow, error) {
	rows, err := s.db.Query(
		`SELECT name, type, COUNT(*) AS count
		 FROM ifc_element
		 WHERE storey = ?
		 GROUP BY name, type
		 ORDER BY count DESC`,
		storey,
	)
	if err != nil {
		return nil, fmt.Errorf("library: usage query for %s: %w", storey, err)
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var r UsageRow
		if err := rows.Scan(&r.Name, &r.Type, &r.Count); err != nil {
			return nil, fmt.Errorf("library: scan usage row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Storeys lists the distinct storeys present in the database.
func (s *Store) Storeys() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT storey FROM ifc_element ORDER BY storey`)
	if err != nil {
		return nil, fmt.Errorf("library: storeys query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var storey string
		if err := rows.Scan(&storey); err != nil {
			return nil, fmt.Errorf("library: scan storey: %w", err)
		}
		out = append(out, storey)
	}
	return out, rows.Err()
}

// ElementsByStorey loads every element of one storey with its properties.
func (s *Store) ElementsByStorey(storey string) ([]*Element, error) {
	rows, err := s.db.Query(
		`SELECT id, global_id, name, type, storey, discipline, glb_path, created_at
		 FROM ifc_element WHERE storey = ? ORDER BY id`,
		storey,
	)
	if err != nil {
		return nil, fmt.Errorf("library: elements query for %s: %w", storey, err)
	}
	defer rows.Close()

	var out []*Element
	for rows.Next() {
		el := &Element{}
		var createdAt string
		if err := rows.Scan(&el.ID, &el.GlobalID, &el.Name, &el.Type, &el.Storey,
			&el.Discipline, &el.GLBPath, &createdAt); err != nil {
			return nil, fmt.Errorf("library: scan element: %w", err)
		}
		el.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, el)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, el := range out {
		if err := s.loadProperties(el); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadProperties(el *Element) error {
	rows, err := s.db.Query(`SELECT name, value FROM ifc_property WHERE element_id = ?`, el.ID)
	if err != nil {
		return fmt.Errorf("library: properties query for %s: %w", el.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("library: scan property: %w", err)
		}
		if el.Properties == nil {
			el.Properties = make(map[string]string)
		}
		el.Properties[name] = value
	}
	return rows.Err()
}
