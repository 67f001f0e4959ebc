package project

import (
	"errors"
	"io/fs"
	"log/slog"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

var errReadOnly = errors.New("read-only file system")

type failingFS struct{}

func (failingFS) MkdirAll(string, fs.FileMode) error { return errReadOnly }

func (failingFS) WriteFile(string, []byte, fs.FileMode) error { return errReadOnly }

func (failingFS) ReadDir(string) ([]fs.DirEntry, error) { return nil, fs.ErrNotExist }
