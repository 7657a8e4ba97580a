package main

import (
	"bytes"
	"testing"

	"autocontent/internal/faults"
)

func TestRunExitCodes(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"--help"}, 0},
		{"unknown flag", []string{"pull", "--nope"}, faults.ExitUsage},
		{"missing source", []string{"--config", env.configPath, "convert"}, faults.ExitUsage},
		{"missing file", []string{"--config", env.configPath, "convert", "-s", "/definitely/not/here.json"}, faults.ExitFilesystem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(tc.args, &stdout, &stderr); got != tc.want {
				t.Fatalf("run(%v) = %d, want %d (stderr %q)", tc.args, got, tc.want, stderr.String())
			}
			if tc.want != 0 {
				requireContains(t, stderr.String(), "Error:")
			}
		})
	}
}
