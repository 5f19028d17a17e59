package device

import (
	"fmt"
	"slices"
)

// ResolveError reports that an identifier could not be canonicalized,
// typically because the path does not exist. It is distinct from an
// identifier that canonicalizes but matches no catalog entry.
type ResolveError struct {
	Input string
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve device %q: %v", e.Input, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolver maps user-typed identifiers to canonical device paths.
type Resolver struct {
	// Passthrough paths are accepted verbatim without consulting the
	// catalog, so loopback images and plain files can stand in for disks.
	Passthrough []string
}

// Resolve looks input up in devices. Precedence: passthrough paths, then an
// exact Name match, then a canonical Path match. ok is false when nothing
// matches; err is non-nil only when input could not be canonicalized.
func (r Resolver) Resolve(devices []Device, input string) (path string, ok bool, err error) {
	if slices.Contains(r.Passthrough, input) {
		return input, true, nil
	}

	for _, d := range devices {
		if d.Name == input {
			return d.Path, true, nil
		}
	}

	path, err = canonical(input)
	if err != nil {
		return "", false, &ResolveError{Input: input, Err: err}
	}

	if _, found := Lookup(devices, path); found {
		return path, true, nil
	}
	return "", false, nil
}

// Path resolves input against devices with no passthrough paths.
func Path(devices []Device, input string) (string, bool, error) {
	return Resolver{}.Resolve(devices, input)
}
