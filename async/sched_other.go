//go:build !linux

package async

import "errors"

func setThreadPriority(int) error {
	return errors.New("thread scheduling priority not supported on this platform")
}
