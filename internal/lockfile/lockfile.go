// Package lockfile provides a cross-process exclusive lock keyed by a
// file path. A lock is a file created with O_EXCL containing the holder's
// pid and acquisition time; locks older than a staleness threshold are
// treated as abandoned by a crashed holder and reclaimed.
package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options controls lock acquisition behavior.
type Options struct {
	// Retries is the number of additional attempts after the first.
	Retries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration

	// Stale is the age past which an existing lock is reclaimed.
	Stale time.Duration
}

// DefaultRetryDelay is used when Options.RetryDelay is zero.
const DefaultRetryDelay = 100 * time.Millisecond

// Acquire takes the exclusive lock at path, retrying per opts. It returns
// a release function that must be called to drop the lock.
//
// Removal is always ownership-checked: release only deletes the file
// while it still holds this acquisition's token, and stale reclaim only
// deletes the exact stale content it observed. A slow holder whose lock
// was reclaimed out from under it can therefore never delete the
// reclaimer's lock.
func Acquire(path string, opts Options) (func(), error) {
	delay := opts.RetryDelay
	if delay == 0 {
		delay = DefaultRetryDelay
	}

	for attempt := 0; ; attempt++ {
		token, ok, err := tryAcquire(path)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { removeIfMatches(path, token) }, nil
		}

		// Reclaim abandoned locks from crashed holders. Only the stale
		// content just observed is removed, so two waiters racing here
		// cannot delete each other's freshly created lock.
		if opts.Stale > 0 {
			if content, age := snapshot(path); content != "" && age > opts.Stale {
				removeIfMatches(path, content)
				continue
			}
		}

		if attempt >= opts.Retries {
			break
		}
		time.Sleep(delay)
	}

	pid, _ := holder(path)
	if pid > 0 {
		return nil, fmt.Errorf("failed to acquire lock %s: held by pid %d", path, pid)
	}
	return nil, fmt.Errorf("failed to acquire lock %s: still held after %d attempts", path, opts.Retries+1)
}

// tryAcquire attempts a single O_EXCL creation of the lock file. On
// success it returns the token written, which identifies this
// acquisition: the nanosecond timestamp keeps tokens distinct even for
// back-to-back acquisitions by one process.
func tryAcquire(path string) (string, bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to create lock file: %w", err)
	}

	token := fmt.Sprintf("%d\n%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := f.WriteString(token); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", false, fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", false, fmt.Errorf("failed to close lock file: %w", err)
	}

	return token, true, nil
}

// removeIfMatches deletes the lock file only while it still carries the
// given content, so a holder never deletes a lock that has since been
// reclaimed and re-acquired by someone else.
func removeIfMatches(path, content string) {
	data, err := os.ReadFile(path)
	if err != nil || string(data) != content {
		return
	}
	_ = os.Remove(path)
}

// snapshot reads the lock file and reports its content and age. The
// recorded timestamp is preferred; file mtime is the fallback for
// unreadable or truncated lock files.
func snapshot(path string) (string, time.Duration) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0
	}

	if _, taken := parseHolder(string(data)); !taken.IsZero() {
		return string(data), time.Since(taken)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", 0
	}
	return string(data), time.Since(info.ModTime())
}

// holder reads the pid and acquisition time recorded in the lock file.
func holder(path string) (int, time.Time) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}
	}
	return parseHolder(string(data))
}

func parseHolder(content string) (int, time.Time) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	pid := 0
	var taken time.Time
	if len(lines) > 0 {
		pid, _ = strconv.Atoi(strings.TrimSpace(lines[0]))
	}
	if len(lines) > 1 {
		taken, _ = time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
	}
	return pid, taken
}
