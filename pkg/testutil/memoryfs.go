package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/arthur-debert/composer/pkg/types"
)

// DefaultDevice is the device id of everything outside an explicit mount.
const DefaultDevice uint64 = 1

// MemoryFS implements types.FS with in-memory storage.
//
// Hardlinked paths share one node, so inode numbers behave like the real
// thing. Mount assigns a device id to a path prefix; links and renames
// across devices fail with EXDEV the way the kernel does.
type MemoryFS struct {
	mu        sync.RWMutex
	files     map[string]*fileNode
	mounts    map[string]uint64
	nextInode uint64

	// Error injection
	errorPaths map[string]error

	linkHook func(oldname, newname string)
	calls    []string
}

// fileNode represents a file or directory in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	device   uint64
	inode    uint64
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		mode:     0755 | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		device:   DefaultDevice,
		inode:    1,
		children: make(map[string]*fileNode),
	}

	return &MemoryFS{
		files:      map[string]*fileNode{"/": root},
		mounts:     make(map[string]uint64),
		nextInode:  2,
		errorPaths: make(map[string]error),
	}
}

// Mount makes every node created under prefix live on device.
func (m *MemoryFS) Mount(prefix string, device uint64) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mounts[filepath.Clean(prefix)] = device
	return m
}

// WithError configures the filesystem to return an error for a specific path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[filepath.Clean(path)] = err
	return m
}

// OnLink registers a hook called at the start of every Link, outside the lock.
func (m *MemoryFS) OnLink(hook func(oldname, newname string)) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.linkHook = hook
	return m
}

// Calls returns the mutating calls made so far, e.g. "link /a /b".
func (m *MemoryFS) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Exists reports whether path exists.
func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Paths returns every file (not directory) path, sorted.
func (m *MemoryFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for p, node := range m.files {
		if !node.isDir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemoryFS) record(call string) {
	m.calls = append(m.calls, call)
}

// deviceFor returns the device of the longest mount prefix containing path.
func (m *MemoryFS) deviceFor(path string) uint64 {
	device := DefaultDevice
	longest := -1
	for prefix, dev := range m.mounts {
		if (path == prefix || strings.HasPrefix(path, prefix+"/")) && len(prefix) > longest {
			device, longest = dev, len(prefix)
		}
	}
	return device
}

func (m *MemoryFS) newNode(path string, isDir bool, perm os.FileMode) *fileNode {
	node := &fileNode{
		name:    filepath.Base(path),
		mode:    perm,
		modTime: time.Now(),
		isDir:   isDir,
		device:  m.deviceFor(path),
		inode:   m.nextInode,
	}
	if isDir {
		node.mode |= os.ModeDir
		node.children = make(map[string]*fileNode)
	}
	m.nextInode++
	return node
}

// getNode retrieves a node at the given path
func (m *MemoryFS) getNode(path string) (*fileNode, error) {
	path = filepath.Clean(path)

	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}

	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// getParent returns the directory node that holds path
func (m *MemoryFS) getParent(path string) (*fileNode, error) {
	dir := filepath.Dir(path)
	parent, err := m.getNode(dir)
	if err != nil {
		return nil, err
	}
	if !parent.isDir {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: errors.New("not a directory")}
	}
	return parent, nil
}

func (m *MemoryFS) injected(op, path string) error {
	if err, ok := m.errorPaths[path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file, creating parent directories as needed
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Clean(name)
	if err := m.injected("write", path); err != nil {
		return err
	}
	if err := m.mkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	parent, err := m.getParent(path)
	if err != nil {
		return err
	}

	node, ok := m.files[path]
	if !ok {
		node = m.newNode(path, false, perm)
		parent.children[node.name] = node
		m.files[path] = node
	}
	node.content = append([]byte(nil), data...)
	node.modTime = time.Now()
	return nil
}

// Stat returns file info
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Identify returns the simulated device and inode of name
func (m *MemoryFS) Identify(name string) (types.FileIdentity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return types.FileIdentity{}, err
	}
	return types.FileIdentity{Device: node.device, Inode: node.inode}, nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.injected("mkdir", path); err != nil {
		return err
	}
	if err := m.mkdirAll(path, perm); err != nil {
		return err
	}
	m.record("mkdir " + path)
	return nil
}

// mkdirAll is the internal implementation without locking
func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) error {
	if node, ok := m.files[path]; ok {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("not a directory")}
		}
		return nil
	}

	current := "/"
	currentNode := m.files["/"]
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)
		child, exists := currentNode.children[part]
		if !exists {
			child = m.newNode(next, true, perm)
			currentNode.children[part] = child
			m.files[next] = child
		} else if !child.isDir {
			return &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
		}
		currentNode = child
		current = next
	}
	return nil
}

// Rename moves a file, replacing whatever file was at newpath
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	if err := m.injected("rename", oldpath); err != nil {
		return err
	}
	node, err := m.getNode(oldpath)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	newParent, err := m.getParent(newpath)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if node.device != m.deviceFor(newpath) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	oldParent, _ := m.getParent(oldpath)

	delete(oldParent.children, filepath.Base(oldpath))
	delete(m.files, oldpath)
	newParent.children[filepath.Base(newpath)] = node
	m.files[newpath] = node
	m.record("rename " + oldpath + " " + newpath)
	return nil
}

// Link creates a hardlink: newname becomes another name for oldname's node
func (m *MemoryFS) Link(oldname, newname string) error {
	m.mu.RLock()
	hook := m.linkHook
	m.mu.RUnlock()
	if hook != nil {
		hook(oldname, newname)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldname, newname = filepath.Clean(oldname), filepath.Clean(newname)
	if err := m.injected("link", newname); err != nil {
		return err
	}
	node, err := m.getNode(oldname)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: fs.ErrNotExist}
	}
	parent, err := m.getParent(newname)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: fs.ErrNotExist}
	}
	// The kernel reports an existing target before it compares mounts.
	if _, exists := m.files[newname]; exists {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if node.device != m.deviceFor(newname) {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: syscall.EXDEV}
	}

	parent.children[filepath.Base(newname)] = node
	m.files[newname] = node
	m.record("link " + oldname + " " + newname)
	return nil
}

// Remove removes a file or empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Clean(name)
	if err := m.injected("remove", path); err != nil {
		return err
	}
	node, err := m.getNode(path)
	if err != nil {
		return err
	}
	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
	}
	parent, err := m.getParent(path)
	if err != nil {
		return err
	}

	delete(parent.children, filepath.Base(path))
	delete(m.files, path)
	m.record("remove " + path)
	return nil
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return fi.node }

var _ types.FS = (*MemoryFS)(nil)
