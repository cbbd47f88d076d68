package main

import (
	"testing"

	"github.com/fatih/color"
)

func TestProgressBar(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    "░░░░   0%",
		},
		{
			name:    "mid range",
			percent: 50,
			width:   4,
			want:    "██░░  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    "████ 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"stats", "translate", "auth", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}

	if root.PersistentFlags().Lookup("file") == nil {
		t.Fatal("--file flag missing")
	}
}
