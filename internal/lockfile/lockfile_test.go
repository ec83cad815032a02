package lockfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "registry.lock")
}

func TestAcquire_AndRelease(t *testing.T) {
	path := lockPath(t)

	release, err := Acquire(path, Options{})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	release()

	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAcquire_HeldLockFails(t *testing.T) {
	path := lockPath(t)

	release, err := Acquire(path, Options{})
	require.NoError(t, err)
	defer release()

	_, err = Acquire(path, Options{Retries: 2, RetryDelay: time.Millisecond, Stale: time.Hour})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "held by pid")
}

func TestAcquire_ReacquireAfterRelease(t *testing.T) {
	path := lockPath(t)

	release, err := Acquire(path, Options{})
	require.NoError(t, err)
	release()

	release, err = Acquire(path, Options{})
	require.NoError(t, err)
	release()
}

func TestAcquire_StaleLockReclaimed(t *testing.T) {
	path := lockPath(t)

	// A crashed holder's lock: present, but recorded long ago
	old := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	require.NoError(t, os.WriteFile(path, []byte("99999\n"+old+"\n"), 0644))

	release, err := Acquire(path, Options{Retries: 1, RetryDelay: time.Millisecond, Stale: time.Minute})
	require.NoError(t, err)
	release()
}

func TestAcquire_FreshLockNotReclaimed(t *testing.T) {
	path := lockPath(t)

	now := time.Now().UTC().Format(time.RFC3339)
	require.NoError(t, os.WriteFile(path, []byte("99999\n"+now+"\n"), 0644))

	_, err := Acquire(path, Options{Retries: 1, RetryDelay: time.Millisecond, Stale: time.Hour})
	assert.Error(t, err)
}

func TestRelease_DoesNotRemoveReclaimedLock(t *testing.T) {
	path := lockPath(t)

	// A holds the lock but is slow; its lock goes stale
	releaseA, err := Acquire(path, Options{})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	// B reclaims the stale lock and now legitimately holds it
	releaseB, err := Acquire(path, Options{Retries: 1, RetryDelay: time.Millisecond, Stale: 10 * time.Millisecond})
	require.NoError(t, err)

	// A's late release must not delete B's lock
	releaseA()
	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "release by a reclaimed holder removed the current lock")

	// So a third acquirer still blocks on B
	_, err = Acquire(path, Options{Retries: 0, RetryDelay: time.Millisecond, Stale: time.Hour})
	assert.Error(t, err)

	releaseB()
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRelease_IgnoresReplacedLockContent(t *testing.T) {
	path := lockPath(t)

	release, err := Acquire(path, Options{})
	require.NoError(t, err)

	// Another acquisition's content is in place; release must leave it
	replaced := []byte("12345\n" + time.Now().UTC().Format(time.RFC3339) + "\n")
	require.NoError(t, os.WriteFile(path, replaced, 0644))

	release()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, replaced, data)
}

func TestAcquire_GarbledLockFallsBackToMtime(t *testing.T) {
	path := lockPath(t)

	require.NoError(t, os.WriteFile(path, []byte("not a lock"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	release, err := Acquire(path, Options{Retries: 1, RetryDelay: time.Millisecond, Stale: time.Minute})
	require.NoError(t, err)
	release()
}
