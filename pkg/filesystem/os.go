package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/composer/pkg/types"
	"golang.org/x/sys/unix"
)

// osFS implements types.FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() types.FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (o *osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (o *osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (o *osFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

func (o *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (o *osFS) Identify(name string) (types.FileIdentity, error) {
	var st unix.Stat_t
	if err := unix.Stat(name, &st); err != nil {
		return types.FileIdentity{}, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return types.FileIdentity{
		// Dev is narrower than uint64 on some platforms.
		Device: uint64(st.Dev),
		Inode:  st.Ino,
	}, nil
}
