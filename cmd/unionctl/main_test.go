package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRealMain_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"reindex"}, 2},
		{"bad flag", []string{"sync-sites", "-no-such-flag"}, 2},
		{"help", []string{"provision-logins", "-h"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := realMain(tt.args, &stderr); got != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", got, tt.want, stderr.String())
			}
			if stderr.Len() == 0 {
				t.Error("expected usage output on stderr")
			}
		})
	}
}

func TestRealMain_UsageNamesCommands(t *testing.T) {
	var stderr bytes.Buffer
	realMain([]string{"bogus"}, &stderr)
	for cmd := range commands {
		if !strings.Contains(stderr.String(), cmd) {
			t.Errorf("usage does not mention %q", cmd)
		}
	}
}
