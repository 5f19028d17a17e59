//go:build !linux

package device

func blockDeviceSize(path string) (int64, error) {
	return seekSize(path)
}
