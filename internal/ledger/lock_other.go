//go:build !unix

package ledger

import "os"

// lockFile only creates the sidecar file; advisory locks are unix-only.
func lockFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
