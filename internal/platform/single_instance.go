package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another timer session already holds the lock.
var ErrAlreadyRunning = errors.New("countdown already running")

const (
	minPort = 20000
	maxPort = 39999
)

// SessionLock keeps a single timer session per user by holding a
// localhost port derived from the application name.
type SessionLock struct {
	listener net.Listener
}

// AcquireSession takes the lock for appName.
func AcquireSession(appName string) (*SessionLock, error) {
	listener, err := net.Listen("tcp", SessionAddress(appName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &SessionLock{listener: listener}, nil
}

// Release frees the lock. It is safe on a nil lock.
func (lock *SessionLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Address returns the bound address.
func (lock *SessionLock) Address() string {
	if lock == nil || lock.listener == nil {
		return ""
	}
	return lock.listener.Addr().String()
}

// SessionAddress returns the loopback address used for appName.
func SessionAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	port := minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
	return fmt.Sprintf("127.0.0.1:%d", port)
}
