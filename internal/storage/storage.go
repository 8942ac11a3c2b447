// Package storage persists uploaded photos for users and contacts.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"agenda/internal/apperr"
)

// Key prefixes, one per owner kind.
const (
	PrefixUsers    = "users"
	PrefixContacts = "contacts"
)

// Upload is a photo received with a request.
type Upload struct {
	Filename string
	Size     int64 // as declared by the client, -1 if unknown
	Body     io.Reader
}

// PhotoStore saves photos and returns an opaque reference stored in photo_path.
type PhotoStore interface {
	Save(ctx context.Context, prefix string, u Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func invalidPhoto(reason string) error {
	return apperr.Validation("photo", "foto inválida: "+reason)
}

// extension returns the lower-cased, allow-listed extension of name.
func extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		return "", invalidPhoto("formato não suportado")
	}
	return ext, nil
}

// readLimited reads the whole upload, failing once it exceeds max bytes.
func readLimited(u Upload, max int64) ([]byte, error) {
	if u.Size > max {
		return nil, invalidPhoto("arquivo muito grande")
	}
	data, err := io.ReadAll(io.LimitReader(u.Body, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, invalidPhoto("arquivo muito grande")
	}
	if len(data) == 0 {
		return nil, invalidPhoto("arquivo vazio")
	}
	return data, nil
}

func body(data []byte) io.Reader { return bytes.NewReader(data) }
