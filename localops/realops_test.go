package localops

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenWriteReadClose(t *testing.T) {
	var ops Real
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	fd, errno := ops.Open(path, os.O_CREATE|os.O_WRONLY, 0644)
	if errno != 0 {
		t.Fatalf("Open: errno %v", errno)
	}

	n, errno := ops.Write(fd, []byte("hello"))
	if errno != 0 || n != 5 {
		t.Fatalf("Write: n=%d errno=%v", n, errno)
	}

	if errno := ops.Close(fd); errno != 0 {
		t.Fatalf("Close: errno %v", errno)
	}

	fd, errno = ops.Open(path, os.O_RDONLY, 0)
	if errno != 0 {
		t.Fatalf("re-Open: errno %v", errno)
	}
	buf := make([]byte, 5)
	n, errno = ops.Read(fd, buf)
	if errno != 0 || n != 5 || string(buf) != "hello" {
		t.Fatalf("Read: n=%d errno=%v buf=%q", n, errno, buf)
	}
	ops.Close(fd)

	st, errno := ops.Stat(path)
	if errno != 0 || st.Size != 5 {
		t.Fatalf("Stat: errno=%v size=%d", errno, st.Size)
	}

	if errno := ops.Unlink(path); errno != 0 {
		t.Fatalf("Unlink: errno %v", errno)
	}
	if _, errno := ops.Stat(path); errno != unix.ENOENT {
		t.Fatalf("Stat after unlink: errno %v, want ENOENT", errno)
	}
}

func TestCloseThenReadIsEBADF(t *testing.T) {
	var ops Real
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	fd, errno := ops.Open(path, os.O_CREATE|os.O_WRONLY, 0644)
	if errno != 0 {
		t.Fatalf("Open: errno %v", errno)
	}
	if errno := ops.Close(fd); errno != 0 {
		t.Fatalf("Close: errno %v", errno)
	}
	if _, errno := ops.Read(fd, make([]byte, 1)); errno != unix.EBADF {
		t.Fatalf("Read after close: errno %v, want EBADF", errno)
	}
}

func TestGetdirtreeOnlyCountsSubdirs(t *testing.T) {
	var ops Real
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "b"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "c"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notadir"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tree, err := ops.Getdirtree(root)
	if err != nil {
		t.Fatalf("Getdirtree: %v", err)
	}
	if tree.NumSubdirs() != 2 {
		t.Fatalf("NumSubdirs() = %d, want 2", tree.NumSubdirs())
	}
	for _, child := range tree.Children {
		if child.NumSubdirs() != 0 {
			t.Fatalf("child %q should have no subdirs", child.Name)
		}
	}
}
