//go:build !(js && wasm)

package api

// CurrentHost returns the host name this process runs on.
func CurrentHost() string {
	return osHostname()
}
