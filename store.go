package bitblit

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/bodgit/bitblit/bank"
	"github.com/bodgit/bitblit/bitmap"
	_ "golang.org/x/image/bmp" // register BMP decoder
)

// ErrNotFound is returned when no image has the requested name.
var ErrNotFound = errors.New("bitblit: image not found")

type record struct {
	name string
	sha  string
	bpp  int
	data []byte
}

// prepare decodes and packs file. It returns nil if the library already
// holds the same file at the same bit depth under name.
func (l *Library) prepare(file, name string, bpp int) (*record, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var id int64
	switch err := l.db.QueryRow("SELECT id FROM image WHERE name = ? AND sha1 = ? AND bpp = ?", name, sha, bpp).Scan(&id); err {
	case sql.ErrNoRows:
	case nil:
		l.logger.Printf("Skipping \"%s\", unchanged\n", file)
		return nil, nil
	default:
		return nil, err
	}

	b := new(bytes.Buffer)
	if err := bitmap.Encode(b, m, &bitmap.EncodeOptions{BPP: bpp}); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return &record{
		name: name,
		sha:  sha,
		bpp:  bpp,
		data: b.Bytes(),
	}, nil
}

func (l *Library) store(r *record) error {
	if _, err := l.db.Exec("INSERT OR REPLACE INTO image (name, sha1, bpp, data) VALUES (?, ?, ?, ?)", r.name, r.sha, r.bpp, r.data); err != nil {
		return err
	}
	l.logger.Printf("Stored \"%s\", %d bytes\n", r.name, len(r.data))
	return nil
}

// Import decodes the PNG, GIF, JPEG or BMP image in file and stores it under
// name, packed at the given bit depth. An existing image with the same name
// is replaced.
func (l *Library) Import(file, name string, bpp int) error {
	r, err := l.prepare(file, name, bpp)
	if err != nil || r == nil {
		return err
	}
	return l.store(r)
}

// Find returns the packed image stored under name.
func (l *Library) Find(name string) (bitmap.Packed, error) {
	var data []byte
	switch err := l.db.QueryRow("SELECT data FROM image WHERE name = ?", name).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return bitmap.Packed(data), nil
	default:
		return nil, err
	}
}

// Names returns the names of all images in the library, sorted.
func (l *Library) Names() ([]string, error) {
	rows, err := l.db.Query("SELECT name FROM image ORDER BY name")
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

// Export writes a bank of the named images to w, or of every image if no
// names are given.
func (l *Library) Export(w io.Writer, names ...string) error {
	if len(names) == 0 {
		var err error
		if names, err = l.Names(); err != nil {
			return err
		}
	}

	db := bank.New()
	for _, name := range names {
		p, err := l.Find(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := db.Set(name, p); err != nil {
			return err
		}
	}

	b, err := db.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
