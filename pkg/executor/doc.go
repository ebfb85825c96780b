// Package executor applies a command set to a repository tree.
//
// Execution happens in three phases: directories, moves, then links. The
// link phase starts only after every move has finished, because links may
// point at files a move just put in place. Within a phase the work can be
// split into contiguous partitions, one worker each.
//
// Links are reconciled rather than blindly created. An existing destination
// that already is the same inode is left alone; one that is a different
// inode on the same device is replaced; one on another device is a fatal
// error, since hardlinks cannot cross devices. The first fatal error stops
// every worker before its next tuple and is returned to the caller.
//
// In dry-run mode nothing is touched. Each planned step is written to the
// report writer, using the same reconciliation decisions as a real run.
package executor
