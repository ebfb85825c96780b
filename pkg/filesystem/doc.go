// Package filesystem provides filesystem implementations for composer.
//
// The OS implementation backs the executor in real runs; hardlinks and
// device/inode identity come straight from the kernel.
package filesystem
