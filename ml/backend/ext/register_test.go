//go:build !noext

package ext

import (
	"testing"

	"github.com/ollama/devicemgr/ml"
)

func TestRegisteredLoaderHonorsNoExtension(t *testing.T) {
	t.Setenv("DEVICEMGR_NO_EXTENSION", "1")
	if _, ok := ml.Probe(ml.ModuleExtension); ok {
		t.Error("expected extension to be absent when disabled")
	}

	t.Setenv("DEVICEMGR_NO_EXTENSION", "")
	if _, ok := ml.Probe(ml.ModuleExtension); !ok {
		t.Error("expected extension to load")
	}
}
