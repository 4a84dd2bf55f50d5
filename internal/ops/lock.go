package ops

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/tms-archive/meetings/internal/errors"
)

// LockFileName is created in the archive directory while an action writes.
const LockFileName = ".meetings.lock"

// lockArchive takes the archive lock so two runs never write the same
// outputs. The returned func releases it.
func lockArchive(env *Env, action string) (func(), error) {
	path := filepath.Join(env.Dir, LockFileName)
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("acquire archive lock: %w", err))
	}
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s: archive is locked by another run (%s)", action, path))
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			env.Logger.Warn("failed to release archive lock", "lock", path, "error", err)
		}
	}, nil
}
