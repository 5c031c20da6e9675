//go:build !darwin

package platform

func cloneFile(_, _ string) bool { return false }
