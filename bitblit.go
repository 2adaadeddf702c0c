/*
Package bitblit is a library for maintaining a collection of packed images
for low-memory displays.

Images are imported from common formats, converted to the packed format at a
chosen bit depth and kept in a small SQLite database. From there they can be
exported as a bank for a device to load or composited onto a surface by name.
*/
package bitblit

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/bodgit/bitblit/render"
	_ "github.com/mattn/go-sqlite3"
)

// Library is a collection of named images.
type Library struct {
	db       *sql.DB
	logger   *log.Logger
	renderer render.Renderer
}

// New opens, creating if necessary, the library stored in file. A nil logger
// discards everything.
func New(file string, logger *log.Logger) (*Library, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, name STRING NOT NULL UNIQUE, sha1 TEXT NOT NULL, bpp INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Library{
		db:     db,
		logger: logger,
		renderer: render.Renderer{
			Logger: logger,
		},
	}, nil
}

// Close closes the library.
func (l *Library) Close() error {
	return l.db.Close()
}
