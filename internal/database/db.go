package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/gridtariff/pkg/models"
)

var (
	// ErrNotFound is returned when a named entry does not exist
	ErrNotFound = errors.New("entry not found")
	// ErrUnknownDoctype is returned when querying a record type with no table
	ErrUnknownDoctype = errors.New("unknown doctype")
	// ErrUnknownField is returned when a query names a column the table lacks
	ErrUnknownField = errors.New("unknown field")
)

// timeLayout is used for creation and modified columns
const timeLayout = time.RFC3339Nano

// SaveHook runs against an entry before it is written
type SaveHook func(ctx context.Context, doc *models.CalculationEntry, method string) error

// doctypeTables maps record type names to tables
var doctypeTables = map[string]string{
	models.EntryDoctype: "calculation_entry",
}

// entryColumns lists the queryable calculation_entry columns
var entryColumns = map[string]bool{
	"name":            true,
	"customer_name":   true,
	"kw":              true,
	"kwh":             true,
	"timestamp":       true,
	"overall_avg":     true,
	"monthly_tariffs": true,
	"creation":        true,
	"modified":        true,
}

// DB wraps the database connection
type DB struct {
	conn       *sql.DB
	beforeSave []SaveHook
	now        func() time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := wrap(conn)
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func wrap(conn *sql.DB) *DB {
	return &DB{conn: conn, now: time.Now}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	// timestamp has no declared type so ISO text and epoch numbers are
	// stored as given
	schema := `
	CREATE TABLE IF NOT EXISTS calculation_entry (
		name TEXT PRIMARY KEY,
		customer_name TEXT,
		kw REAL,
		kwh REAL,
		"timestamp",
		overall_avg REAL NOT NULL DEFAULT 0,
		monthly_tariffs TEXT,
		creation TEXT NOT NULL,
		modified TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entry_customer ON calculation_entry(customer_name);
	CREATE INDEX IF NOT EXISTS idx_entry_modified ON calculation_entry(modified);
	CREATE TABLE IF NOT EXISTS error_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		creation TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// OnBeforeSave registers a hook that Save runs before writing
func (db *DB) OnBeforeSave(hook SaveHook) {
	db.beforeSave = append(db.beforeSave, hook)
}

// Save runs the before-save hooks and then inserts or updates the entry.
// A hook error aborts the save.
func (db *DB) Save(ctx context.Context, doc *models.CalculationEntry) error {
	if doc.Name == "" {
		doc.Name = uuid.NewString()
	}

	for _, hook := range db.beforeSave {
		if err := hook(ctx, doc, "before_save"); err != nil {
			return fmt.Errorf("before_save %s: %w", doc.Name, err)
		}
	}

	doc.Modified = db.now().UTC()
	modified := doc.Modified.Format(timeLayout)

	query := `
	INSERT INTO calculation_entry (name, customer_name, kw, kwh, "timestamp", overall_avg, monthly_tariffs, creation, modified)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		customer_name = excluded.customer_name,
		kw = excluded.kw,
		kwh = excluded.kwh,
		"timestamp" = excluded."timestamp",
		overall_avg = excluded.overall_avg,
		monthly_tariffs = excluded.monthly_tariffs,
		modified = excluded.modified
	`

	_, err := db.conn.ExecContext(ctx, query,
		doc.Name, doc.CustomerName, nullFloat(doc.KW), nullFloat(doc.KWh), timestampValue(doc.Timestamp),
		doc.OverallAvg, doc.MonthlyTariffs, modified, modified)
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", doc.Name, err)
	}

	return nil
}

// timestampValue converts an entry timestamp into a value SQLite can store
func timestampValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t.Format("2006-01-02T15:04:05.999999999Z07:00")
	case *time.Time:
		if t == nil {
			return nil
		}
		return timestampValue(*t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

// GetAll returns the requested fields of every record of doctype matching
// the equality filters, most recently modified first.
func (db *DB) GetAll(ctx context.Context, doctype string, filters map[string]any, fields []string) ([]models.Record, error) {
	table, ok := doctypeTables[doctype]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDoctype, doctype)
	}
	if len(fields) == 0 {
		fields = []string{"name"}
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		if !entryColumns[f] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		cols = append(cols, `"`+f+`"`)
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if !entryColumns[k] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var where []string
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		where = append(where, `"`+k+`" = ?`)
		args = append(args, filters[k])
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY modified DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", doctype, err)
	}
	defer rows.Close()

	var results []models.Record
	for rows.Next() {
		values := make([]any, len(fields))
		ptrs := make([]any, len(fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec := make(models.Record, len(fields))
		for i, f := range fields {
			rec[f] = values[i]
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

const entrySelect = `
	SELECT name, customer_name, kw, kwh, "timestamp", overall_avg, monthly_tariffs, modified
	FROM calculation_entry
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.CalculationEntry, error) {
	var doc models.CalculationEntry
	var customer, tariffs sql.NullString
	var kw, kwh sql.NullFloat64
	var modified string

	if err := row.Scan(&doc.Name, &customer, &kw, &kwh, &doc.Timestamp, &doc.OverallAvg, &tariffs, &modified); err != nil {
		return nil, err
	}

	doc.CustomerName = customer.String
	doc.MonthlyTariffs = tariffs.String
	if kw.Valid {
		doc.KW = &kw.Float64
	}
	if kwh.Valid {
		doc.KWh = &kwh.Float64
	}

	var err error
	doc.Modified, err = time.Parse(timeLayout, modified)
	if err != nil {
		return nil, fmt.Errorf("parsing modified: %w", err)
	}

	return &doc, nil
}

// GetEntry retrieves an entry by name
func (db *DB) GetEntry(ctx context.Context, name string) (*models.CalculationEntry, error) {
	row := db.conn.QueryRowContext(ctx, entrySelect+`WHERE name = ?`, name)

	doc, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}

	return doc, nil
}

// ListEntries retrieves entries for a customer, or all entries when customer
// is empty, most recently modified first
func (db *DB) ListEntries(ctx context.Context, customer string) ([]models.CalculationEntry, error) {
	query := entrySelect
	var args []any
	if customer != "" {
		query += `WHERE customer_name = ? `
		args = append(args, customer)
	}
	query += `ORDER BY modified DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var results []models.CalculationEntry
	for rows.Next() {
		doc, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *doc)
	}

	return results, rows.Err()
}

// ListCustomers returns the distinct customer names with stored entries
func (db *DB) ListCustomers(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT DISTINCT customer_name FROM calculation_entry
	WHERE customer_name IS NOT NULL AND customer_name != ''
	ORDER BY customer_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		customers = append(customers, name)
	}

	return customers, rows.Err()
}

// LogError records a diagnostic message in the error_log table. Failures to
// write are reported through slog since there is nowhere else to put them.
func (db *DB) LogError(title, message string) {
	_, err := db.conn.Exec(
		`INSERT INTO error_log (title, message, creation) VALUES (?, ?, ?)`,
		title, message, db.now().UTC().Format(timeLayout),
	)
	if err != nil {
		slog.Error("writing error log", "title", title, "message", message, "error", err)
	}
}

// ListErrors retrieves the most recent error log rows
func (db *DB) ListErrors(ctx context.Context, limit int) ([]models.ErrorLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, message, creation FROM error_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying error log: %w", err)
	}
	defer rows.Close()

	var results []models.ErrorLog
	for rows.Next() {
		var entry models.ErrorLog
		var creation string
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Message, &creation); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entry.Creation, err = time.Parse(timeLayout, creation)
		if err != nil {
			return nil, fmt.Errorf("parsing creation: %w", err)
		}
		results = append(results, entry)
	}

	return results, rows.Err()
}
