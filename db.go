package rlepix

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SpriteDB stores run length encoded sprites in a sqlite database.
// Identical encodings are stored once and shared between names.
type SpriteDB struct {
	db *sql.DB
}

// Record is a stored sprite
type Record struct {
	Name   string
	Width  int
	Height int
	Trim   uint8
	RLE    []byte
}

func NewSpriteDB(file string) (*SpriteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS encoding (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, vertical_trim INTEGER NOT NULL, rle BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, encoding_id INTEGER NOT NULL, FOREIGN KEY(encoding_id) REFERENCES encoding(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &SpriteDB{
		db: db,
	}, nil
}

func (db *SpriteDB) Close() error {
	return db.db.Close()
}

func (db *SpriteDB) addEncoding(sha string, trim uint8, rle []byte) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM encoding WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO encoding (sha1, vertical_trim, rle) VALUES (?, ?, ?)", sha, trim, rle)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// PutSprite stores or replaces the sprite called name
func (db *SpriteDB) PutSprite(name, sha string, width, height int, trim uint8, rle []byte) error {
	id, err := db.addEncoding(sha, trim, rle)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT INTO sprite (name, width, height, encoding_id) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO UPDATE SET width = excluded.width, height = excluded.height, encoding_id = excluded.encoding_id", name, width, height, id); err != nil {
		return err
	}

	return db.pruneEncodings()
}

// FindSprite returns the sprite called name, or nil if there is no such
// sprite
func (db *SpriteDB) FindSprite(name string) (*Record, error) {
	s := Record{Name: name}
	switch err := db.db.QueryRow("SELECT s.width, s.height, e.vertical_trim, e.rle FROM sprite AS s JOIN encoding AS e ON s.encoding_id = e.id WHERE s.name = ?", name).Scan(&s.Width, &s.Height, &s.Trim, &s.RLE); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &s, nil
	default:
		return nil, err
	}
}

// Sprites returns every sprite sorted by name
func (db *SpriteDB) Sprites() ([]Record, error) {
	rows, err := db.db.Query("SELECT s.name, s.width, s.height, e.vertical_trim, e.rle FROM sprite AS s JOIN encoding AS e ON s.encoding_id = e.id ORDER BY s.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprites []Record
	for rows.Next() {
		var s Record
		if err := rows.Scan(&s.Name, &s.Width, &s.Height, &s.Trim, &s.RLE); err != nil {
			return nil, err
		}
		sprites = append(sprites, s)
	}

	return sprites, rows.Err()
}

// DeleteSprite removes the sprite called name, reporting whether it existed
func (db *SpriteDB) DeleteSprite(name string) (bool, error) {
	result, err := db.db.Exec("DELETE FROM sprite WHERE name = ?", name)
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

	return true, db.pruneEncodings()
}

// Encodings returns the number of distinct stored encodings
func (db *SpriteDB) Encodings() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM encoding").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (db *SpriteDB) pruneEncodings() error {
	_, err := db.db.Exec("DELETE FROM encoding WHERE id NOT IN (SELECT encoding_id FROM sprite)")
	return err
}
