package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os/user"
)

// ErrAlreadyRunning indicates another timer already holds the lock.
var ErrAlreadyRunning = errors.New("focus timer already running")

// InstanceLock keeps a single timer per user session.
type InstanceLock struct {
	listener net.Listener
}

// AcquireInstanceLock binds a loopback port derived from the app and user names.
// The port is released by the OS if the process dies.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	address := lockAddress(appName, currentUserName())
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, address)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

func lockAddress(appName, userName string) string {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(userName))
	port := minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
	return fmt.Sprintf("127.0.0.1:%d", port)
}

func currentUserName() string {
	current, err := user.Current()
	if err != nil {
		return ""
	}
	return current.Username
}
