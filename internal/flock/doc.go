// Package flock serializes mutating sitebox commands with an advisory lock
// on a file in the sitebox home directory. Acquire polls a non-blocking
// platform lock (flock on unix, LockFileEx on windows) until it succeeds or
// the timeout elapses:
//
//	lock, err := flock.Acquire(ctx, path, 5*time.Second)
//	if err != nil {
//	    // another sitebox process holds the lock
//	}
//	defer lock.Release()
package flock
