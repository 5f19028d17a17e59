//go:build !linux

package burn

import "os"

func syncData(f *os.File) error {
	return f.Sync()
}
