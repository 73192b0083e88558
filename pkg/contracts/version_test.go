package contracts

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("Expected go version %s, got %s", runtime.Version(), info.GoVersion)
	}
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString()
	if !strings.Contains(s, "v"+Version) || !strings.Contains(s, runtime.GOOS) {
		t.Errorf("Unexpected version string: %s", s)
	}
}
