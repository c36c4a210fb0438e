package mifont

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bodgit/mifont/clipboard"
	_ "github.com/mattn/go-sqlite3"
)

var errNoClip = errors.New("mifont: no such clip")

// ClipDB stores clips so they can be reused between sessions, along with
// the results of verifying sheets.
type ClipDB struct {
	db *sql.DB
}

// SheetInfo describes a verified sheet.
type SheetInfo struct {
	File        string
	CRC         string
	Size        int64
	Orientation string
	CellHeight  int
	// RoundTrip is set when writing the sheet back reproduces the file
	// exactly and a freshly encoded copy decodes to the same pixels and
	// palette.
	RoundTrip bool
}

// NewClipDB opens, creating if necessary, the database in file.
func NewClipDB(file string) (*ClipDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS clip (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, pix BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sheet (id INTEGER PRIMARY KEY NOT NULL, file TEXT NOT NULL UNIQUE, crc TEXT NOT NULL, size INTEGER NOT NULL, orientation TEXT, cell_height INTEGER, round_trip INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &ClipDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *ClipDB) Close() error {
	return db.db.Close()
}

// StoreClip saves c under name, replacing any clip already using it.
func (db *ClipDB) StoreClip(name string, c *clipboard.Clip) error {
	if len(c.Pix) != c.Width*c.Height {
		return errors.New("mifont: clip size mismatch")
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO clip (name, width, height, pix) VALUES (?, ?, ?, ?)", name, c.Width, c.Height, c.Pix); err != nil {
		return err
	}
	return nil
}

// FindClip returns the clip saved under name, or nil if there isn't one.
func (db *ClipDB) FindClip(name string) (*clipboard.Clip, error) {
	c := new(clipboard.Clip)
	switch err := db.db.QueryRow("SELECT width, height, pix FROM clip WHERE name = ?", name).Scan(&c.Width, &c.Height, &c.Pix); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return c, nil
	default:
		return nil, err
	}
}

// Clips returns the names of all saved clips.
func (db *ClipDB) Clips() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM clip ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteClip removes the clip saved under name.
func (db *ClipDB) DeleteClip(name string) error {
	result, err := db.db.Exec("DELETE FROM clip WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoClip
	}
	return nil
}

// RecordSheet stores the result of verifying a sheet.
func (db *ClipDB) RecordSheet(s SheetInfo) error {
	var orientation sql.NullString
	var height sql.NullInt64
	if s.Orientation != "" {
		orientation.String, orientation.Valid = s.Orientation, true
		height.Int64, height.Valid = int64(s.CellHeight), true
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO sheet (file, crc, size, orientation, cell_height, round_trip) VALUES (?, ?, ?, ?, ?, ?)", s.File, s.CRC, s.Size, orientation, height, s.RoundTrip); err != nil {
		return err
	}
	return nil
}

// Sheets returns every recorded sheet ordered by file name.
func (db *ClipDB) Sheets() ([]SheetInfo, error) {
	rows, err := db.db.Query("SELECT file, crc, size, orientation, cell_height, round_trip FROM sheet ORDER BY file")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []SheetInfo
	for rows.Next() {
		var s SheetInfo
		var orientation sql.NullString
		var height sql.NullInt64
		if err := rows.Scan(&s.File, &s.CRC, &s.Size, &orientation, &height, &s.RoundTrip); err != nil {
			return nil, err
		}
		s.Orientation = orientation.String
		s.CellHeight = int(height.Int64)
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}
