//go:build !unix

package secret

func lock([]byte) bool { return false }

func unlock([]byte) {}
