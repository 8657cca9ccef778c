//go:build js && wasm

package api

import "syscall/js"

// CurrentHost returns the host name of the page serving the wasm module.
func CurrentHost() string {
	host := js.Global().Get("location").Get("hostname")
	if host.IsUndefined() || host.IsNull() || host.String() == "" {
		return osHostname()
	}
	return host.String()
}
