package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestRoot(t *testing.T) (string, *Service) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "nmclean-fs-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return tmpDir, New(tmpDir)
}

func cleanupTestRoot(t *testing.T, path string) {
	t.Helper()
	os.RemoveAll(path)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestService_ValidateRoot(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		if err := svc.ValidateRoot(); err != nil {
			t.Errorf("ValidateRoot() error = %v, want nil", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		tmpDir, _ := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		svc := New(filepath.Join(tmpDir, "does-not-exist"))
		err := svc.ValidateRoot()
		if !errors.Is(err, ErrInvalidRoot) {
			t.Fatalf("ValidateRoot() error = %v, want ErrInvalidRoot", err)
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("error should mention not found: %v", err)
		}
	})

	t.Run("regular file", func(t *testing.T) {
		tmpDir, _ := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		file := filepath.Join(tmpDir, "package.json")
		writeFile(t, file)

		err := New(file).ValidateRoot()
		if !errors.Is(err, ErrInvalidRoot) {
			t.Fatalf("ValidateRoot() error = %v, want ErrInvalidRoot", err)
		}
		if !strings.Contains(err.Error(), "not a directory") {
			t.Errorf("error should mention not a directory: %v", err)
		}
	})
}

func TestService_ResolvePath(t *testing.T) {
	tmpDir, svc := setupTestRoot(t)
	defer cleanupTestRoot(t, tmpDir)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"relative", "app/node_modules", filepath.Join(svc.Root(), "app", "node_modules"), false},
		{"windows separators", "app\\node_modules", filepath.Join(svc.Root(), "app", "node_modules"), false},
		{"absolute inside", filepath.Join(svc.Root(), "x"), filepath.Join(svc.Root(), "x"), false},
		{"root itself", ".", svc.Root(), false},
		{"traversal", "../outside", "", true},
		{"nested traversal", "app/../../outside", "", true},
		{"absolute outside", filepath.Dir(svc.Root()), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolvePath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolvePath(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestService_RelPath(t *testing.T) {
	tmpDir, svc := setupTestRoot(t)
	defer cleanupTestRoot(t, tmpDir)

	got := svc.RelPath(filepath.Join(svc.Root(), "proj", "node_modules"))
	if got != "proj/node_modules" {
		t.Errorf("RelPath() = %q, want %q", got, "proj/node_modules")
	}
}

func TestService_RemoveTree(t *testing.T) {
	t.Run("removes nested contents", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		target := filepath.Join(svc.Root(), "node_modules")
		writeFile(t, filepath.Join(target, "a.txt"))
		writeFile(t, filepath.Join(target, "pkg", "index.js"))
		writeFile(t, filepath.Join(target, "pkg", "lib", "util.js"))
		if err := os.MkdirAll(filepath.Join(target, "empty", "deeper"), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := svc.RemoveTree(target); err != nil {
			t.Fatalf("RemoveTree() error = %v", err)
		}
		if _, err := os.Lstat(target); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("target still exists after RemoveTree, Lstat error = %v", err)
		}
	})

	t.Run("handles deep nesting", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		target := filepath.Join(svc.Root(), "node_modules")
		deepest := target
		for i := 0; i < 300; i++ {
			deepest = filepath.Join(deepest, "d")
		}
		writeFile(t, filepath.Join(deepest, "leaf.txt"))

		if err := svc.RemoveTree(target); err != nil {
			t.Fatalf("RemoveTree() error = %v", err)
		}
		if _, err := os.Lstat(target); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("target still exists after RemoveTree, Lstat error = %v", err)
		}
	})

	t.Run("does not follow symlinks", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		outside, err := os.MkdirTemp("", "nmclean-fs-outside-*")
		if err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(outside)
		keep := filepath.Join(outside, "keep.txt")
		writeFile(t, keep)

		target := filepath.Join(svc.Root(), "node_modules")
		writeFile(t, filepath.Join(target, "a.txt"))
		if err := os.Symlink(outside, filepath.Join(target, "linked")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		if err := svc.RemoveTree(target); err != nil {
			t.Fatalf("RemoveTree() error = %v", err)
		}
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("symlink target content was removed: %v", err)
		}
	})

	t.Run("symlink match removes only the link", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		store := filepath.Join(svc.Root(), "store")
		writeFile(t, filepath.Join(store, "pkg.js"))
		link := filepath.Join(svc.Root(), "node_modules")
		if err := os.Symlink(store, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		if err := svc.RemoveTree(link); err != nil {
			t.Fatalf("RemoveTree() error = %v", err)
		}
		if _, err := os.Lstat(link); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("link still exists, Lstat error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(store, "pkg.js")); err != nil {
			t.Errorf("link target was modified: %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		err := svc.RemoveTree(filepath.Join(svc.Root(), "node_modules"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("RemoveTree() error = %v, want fs.ErrNotExist", err)
		}
		if Reason(err) != "not found" {
			t.Errorf("Reason() = %q, want %q", Reason(err), "not found")
		}
	})

	t.Run("refuses root and outside paths", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		if err := svc.RemoveTree(svc.Root()); err == nil {
			t.Error("RemoveTree(root) error = nil, want error")
		}
		if err := svc.RemoveTree(filepath.Dir(svc.Root())); err == nil {
			t.Error("RemoveTree(parent) error = nil, want error")
		}
		if _, err := os.Stat(svc.Root()); err != nil {
			t.Errorf("root should still exist: %v", err)
		}
	})

	t.Run("stops on first removal error", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		defer cleanupTestRoot(t, tmpDir)

		target := filepath.Join(svc.Root(), "node_modules")
		writeFile(t, filepath.Join(target, "locked.txt"))

		svc.remove = func(path string) error {
			if filepath.Base(path) == "locked.txt" {
				return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrPermission}
			}
			return os.Remove(path)
		}

		err := svc.RemoveTree(target)
		if !errors.Is(err, fs.ErrPermission) {
			t.Fatalf("RemoveTree() error = %v, want fs.ErrPermission", err)
		}
		if _, err := os.Stat(target); err != nil {
			t.Errorf("target should remain after failure: %v", err)
		}
	})
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&fs.PathError{Op: "remove", Path: "x", Err: fs.ErrNotExist}, "not found"},
		{fmt.Errorf("wrapped: %w", fs.ErrPermission), "permission denied"},
		{&fs.PathError{Op: "remove", Path: "x", Err: errors.New("device busy")}, "device busy"},
		{errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
