// Package datarecording stores the presses and pulses of pulsesim sessions in
// SQLite files and reads them back.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Ext is the extension of recording files.
const Ext = ".sqlite3"

// DataRecorder buffers flat records and stores them into tables.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry of the type the table was created with.
	InsertData(tableName string, entry any)

	// ListTables returns the names of the tables created, sorted.
	ListTables() []string

	// Flush writes the buffered entries into the database.
	Flush()
}

// FileName returns the file a recording at path is stored in.
func FileName(path string) string {
	if strings.HasSuffix(path, Ext) {
		return path
	}

	return path + Ext
}

// New creates a DataRecorder writing into a new SQLite file. An empty path
// generates a unique file name. Buffered entries are flushed at exit.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = "pulsesim_recording_" + xid.New().String()
	}

	filename := FileName(path)
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("recording %s: %w", filename, os.ErrExist)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	// A transaction and the prepared inserts share the only connection.
	db.SetMaxOpenConns(1)

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	return NewWithDB(db), nil
}

// NewWithDB creates a DataRecorder over an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(w.Flush)

	return w
}

var columnTypes = map[reflect.Kind]string{
	reflect.Bool:    "INTEGER",
	reflect.Int:     "INTEGER",
	reflect.Int8:    "INTEGER",
	reflect.Int16:   "INTEGER",
	reflect.Int32:   "INTEGER",
	reflect.Int64:   "INTEGER",
	reflect.Uint:    "INTEGER",
	reflect.Uint8:   "INTEGER",
	reflect.Uint16:  "INTEGER",
	reflect.Uint32:  "INTEGER",
	reflect.Uint64:  "INTEGER",
	reflect.Float32: "REAL",
	reflect.Float64: "REAL",
	reflect.String:  "TEXT",
}

type column struct {
	name    string
	sqlType string
}

func columnsOf(entry any) ([]column, error) {
	if !structs.IsStruct(entry) {
		return nil, errors.New("entry must be a struct")
	}

	var columns []column
	for _, f := range structs.Fields(entry) {
		sqlType, ok := columnTypes[f.Kind()]
		if !ok {
			return nil, fmt.Errorf("field %s of kind %s cannot be recorded",
				f.Name(), f.Kind())
		}

		columns = append(columns, column{name: f.Name(), sqlType: sqlType})
	}

	if len(columns) == 0 {
		return nil, errors.New("entry has no exported field")
	}

	return columns, nil
}

type table struct {
	entryType reflect.Type
	insert    *sql.Stmt
	rows      [][]any
}

// sqliteWriter keeps the rows of every table in memory until Flush writes
// them in one transaction.
type sqliteWriter struct {
	db        *sql.DB
	tables    map[string]*table
	batchSize int
	pending   int
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	columns, err := columnsOf(sampleEntry)
	if err != nil {
		panic(fmt.Errorf("table %s: %w", tableName, err))
	}

	defs := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.name + " " + c.sqlType
		marks[i] = "?"
	}

	w.mustExec(fmt.Sprintf("CREATE TABLE %s (%s)",
		tableName, strings.Join(defs, ", ")))

	insert, err := w.db.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		tableName, strings.Join(marks, ", ")))
	if err != nil {
		panic(err)
	}

	w.tables[tableName] = &table{
		entryType: reflect.TypeOf(sampleEntry),
		insert:    insert,
	}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.entryType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	t.rows = append(t.rows, structs.Values(entry))

	w.pending++
	if w.pending >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (w *sqliteWriter) Flush() {
	if w.pending == 0 {
		return
	}

	tx, err := w.db.Begin()
	if err != nil {
		panic(err)
	}

	for _, name := range w.ListTables() {
		if err := w.flushTable(tx, w.tables[name]); err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("flushing table %s: %w", name, err))
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.pending = 0
}

func (w *sqliteWriter) flushTable(tx *sql.Tx, t *table) error {
	if len(t.rows) == 0 {
		return nil
	}

	insert := tx.Stmt(t.insert)
	defer insert.Close()

	for _, row := range t.rows {
		if _, err := insert.Exec(row...); err != nil {
			return err
		}
	}

	t.rows = nil

	return nil
}

func (w *sqliteWriter) mustExec(query string) {
	if _, err := w.db.Exec(query); err != nil {
		panic(fmt.Errorf("executing %q: %w", query, err))
	}
}
