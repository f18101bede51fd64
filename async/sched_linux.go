//go:build linux

package async

import "golang.org/x/sys/unix"

// setThreadPriority requests SCHED_FIFO for the calling thread. The caller
// must hold runtime.LockOSThread.
func setThreadPriority(priority int) error {
	attr := &unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(priority),
	}
	return unix.SchedSetAttr(0, attr, 0)
}
