package testutil

import (
	"strings"
	"testing"
)

func TestPathStaysInSandbox(t *testing.T) {
	env := NewTestEnv(t)

	p := env.Path("a", "b.txt")
	if !strings.HasPrefix(p, env.RootDir()) {
		t.Fatalf("path %q not under sandbox %q", p, env.RootDir())
	}
}

func TestWriteAndReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("nested/dir/file.txt", "hello")
	if got := env.ReadFileString("nested/dir/file.txt"); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if !env.FileExists("nested/dir/file.txt") {
		t.Fatal("expected file to exist")
	}
	if env.FileExists("nested/dir/other.txt") {
		t.Fatal("expected file to not exist")
	}
}
