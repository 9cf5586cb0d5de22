package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	want := map[string]bool{"serve": false, "version": false, "config": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommandRuns(t *testing.T) {
	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command: %v", err)
	}
}

func TestConfigValidateRejectsMissingSecret(t *testing.T) {
	// No jwt secret configured anywhere: validation must fail.
	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"config", "validate"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected validation error without a jwt secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("error = %v, want mention of jwt_secret", err)
	}
}

func TestConfigValidateAcceptsEnvSecret(t *testing.T) {
	t.Setenv("CLIPTUBE_AUTH_JWT_SECRET", "cli-test-secret")

	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"config", "validate"})

	if err := root.Execute(); err != nil {
		t.Fatalf("config validate: %v", err)
	}
}
