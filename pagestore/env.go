package pagestore

import (
	"os"
	"path/filepath"
)

// lockFileName is the advisory lock guarding one dbenvpath against
// concurrent environment opens from separate processes.
const lockFileName = ".heapdb-env-lock"

// Environment is an open page-store environment rooted at one directory.
// Every relation's "<name>.db" file lives directly under it.
type Environment struct {
	root *os.Root
	path string
	lock *fileLock
	lf   *os.File
}

// OpenEnvironment opens (creating if necessary) the environment directory
// at path and takes an exclusive advisory lock on it.
func OpenEnvironment(path string) (*Environment, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, err
	}

	lf, err := root.OpenFile(lockFileName, os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		root.Close()
		return nil, err
	}

	lock := &fileLock{f: lf}
	if err := lock.Lock(LockExclusive); err != nil {
		lf.Close()
		root.Close()
		return nil, err
	}

	return &Environment{root: root, path: filepath.Clean(path), lock: lock, lf: lf}, nil
}

// Path returns the directory this environment is rooted at.
func (e *Environment) Path() string { return e.path }

// WriteArchive writes data to name under the environment root, creating or
// truncating it. It is used for compressed pre-drop snapshots rather than
// live relation storage.
func (e *Environment) WriteArchive(name string, data []byte) error {
	f, err := e.root.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// Close releases the environment lock and closes the root handle.
func (e *Environment) Close() error {
	e.lock.Unlock()
	e.lock.setFile(nil)
	if err := e.lf.Close(); err != nil {
		e.root.Close()
		return err
	}
	return e.root.Close()
}
