package main

import (
	"errors"
	"testing"

	"veribench/internal/toolinfo"
)

func TestLookupTool(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"metaval", false},
		{"esbmc", false},
		{"cpachecker-metaval", false},
		{"ULTIMATEAUTOMIZER", false},
		{"nonesuch", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := lookupTool(tt.name)
			if tt.wantErr {
				if !errors.Is(err, toolinfo.ErrToolNotFound) {
					t.Fatalf("error = %v, want ErrToolNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupTool(%q) failed: %v", tt.name, err)
			}
			if tool.Name() == "" {
				t.Error("tool has no name")
			}
		})
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"tools", "cmdline", "run", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}
