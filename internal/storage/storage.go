package storage

import (
	"io"
)

type Storer interface {
	Store(in io.Reader, path ...string) (StoredFile, error)
	Load(path ...string) (io.ReadCloser, error)
	Size(path ...string) (int64, error)
}

type StoredFile struct {
	Path         string
	AbsolutePath string
}
