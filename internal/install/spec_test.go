package install

import (
	"errors"
	"testing"
)

func TestNewSourceSpec(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		localPath string
		wantErr   bool
	}{
		{name: "version only", version: "llvmorg-13.0.1"},
		{name: "local only", localPath: "/src/llvm-project"},
		{name: "both", version: "v1", localPath: "/src", wantErr: true},
		{name: "neither", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewSourceSpec(tt.version, tt.localPath)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewSourceSpec succeeded, want ValidationError")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if spec.Version() != tt.version || spec.LocalPath() != tt.localPath {
				t.Errorf("spec = %+v, want {%q %q}", spec, tt.version, tt.localPath)
			}
		})
	}
}

func TestSourceSpecID(t *testing.T) {
	pinned, err := NewSourceSpec("v1.2.3", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := pinned.ID(); got != "v1.2.3" {
		t.Errorf("ID() = %q, want %q", got, "v1.2.3")
	}

	local, err := NewSourceSpec("", "/src/binder")
	if err != nil {
		t.Fatal(err)
	}
	if got := local.ID(); got != "FROM_SOURCE_/src/binder" {
		t.Errorf("ID() = %q, want %q", got, "FROM_SOURCE_/src/binder")
	}
	if !local.IsLocal() {
		t.Error("IsLocal() = false, want true")
	}
}
