package storage

import (
	"os"
	"path/filepath"
)

// Local writes files into a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) (self *Local) {
	self = new(Local)
	self.dir = dir
	return
}

func (self *Local) Put(key string, data []byte) (url string, err error) {
	err = os.MkdirAll(self.dir, 0755)
	if err != nil {
		return
	}

	path := filepath.Join(self.dir, key)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return
	}

	url = "file://" + path
	return
}

// Noop discards files, used when contract archiving is disabled.
type Noop struct{}

func NewNoop() (self *Noop) {
	return new(Noop)
}

func (self *Noop) Put(key string, data []byte) (url string, err error) {
	return "", nil
}
