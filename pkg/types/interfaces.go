package types

import "io/fs"

// FileIdentity identifies a file on disk independently of its path.
type FileIdentity struct {
	Device uint64
	Inode  uint64
}

// SameDevice reports whether both files live on the same device.
func (f FileIdentity) SameDevice(other FileIdentity) bool {
	return f.Device == other.Device
}

// SameFile reports whether both identities refer to the same inode.
func (f FileIdentity) SameFile(other FileIdentity) bool {
	return f.Device == other.Device && f.Inode == other.Inode
}

// FS is the filesystem surface composer reads documents from and mutates
// repository trees through.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Tree mutations
	Rename(oldpath, newpath string) error
	Link(oldname, newname string) error
	Remove(name string) error

	// Identify returns the device and inode of name, following symlinks.
	Identify(name string) (FileIdentity, error)
}
