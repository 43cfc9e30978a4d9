package remotefs_test

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacobsa/timeutil"
	. "github.com/jacobsa/ogletest"
	"golang.org/x/sys/unix"

	"github.com/cs15440/remotefs"
	"github.com/cs15440/remotefs/localops"
	"github.com/cs15440/remotefs/rfsd"
	"github.com/cs15440/remotefs/rfsproto"
)

func TestShim(t *testing.T) { RunTests(t) }

type ShimTest struct {
	dir      string
	listener net.Listener
	shim     *remotefs.Shim
}

func init() { RegisterTestSuite(&ShimTest{}) }

func (t *ShimTest) SetUp(ti *TestInfo) {
	var err error
	t.dir, err = os.MkdirTemp("", "remotefs_shim_test")
	AssertEq(nil, err)

	t.listener, err = net.Listen("tcp", "127.0.0.1:0")
	AssertEq(nil, err)

	srv := rfsd.New(&localops.Real{}, timeutil.RealClock(), nil)
	go srv.Serve(t.listener)

	os.Setenv("server15440", "127.0.0.1")
	_, port, err := net.SplitHostPort(t.listener.Addr().String())
	AssertEq(nil, err)
	os.Setenv("serverport15440", port)

	t.shim = remotefs.New(&localops.Real{})
}

func (t *ShimTest) TearDown() {
	t.listener.Close()
	os.RemoveAll(t.dir)
	os.Unsetenv("server15440")
	os.Unsetenv("serverport15440")
}

func (t *ShimTest) path(name string) string {
	return filepath.Join(t.dir, name)
}

func (t *ShimTest) TestWriteReadRoundTrip() {
	p := t.path("hello.txt")

	fd, err := t.shim.Open(p, os.O_CREATE|os.O_RDWR, 0644)
	AssertEq(nil, err)
	AssertGe(fd, rfsproto.DescriptorBias)

	const contents = "the quick brown fox"
	n, err := t.shim.Write(fd, []byte(contents))
	AssertEq(nil, err)
	ExpectEq(len(contents), n)

	_, err = t.shim.Lseek(fd, 0, 0)
	AssertEq(nil, err)

	buf := make([]byte, len(contents))
	n, err = t.shim.Read(fd, buf)
	AssertEq(nil, err)
	ExpectEq(len(contents), n)
	ExpectEq(contents, string(buf))

	err = t.shim.Close(fd)
	AssertEq(nil, err)
}

func (t *ShimTest) TestStatReturnsRealSize() {
	p := t.path("sized.txt")
	AssertEq(nil, os.WriteFile(p, []byte("0123456789"), 0644))

	st, err := t.shim.Stat(p)
	AssertEq(nil, err)
	ExpectEq(10, st.Size)
}

func (t *ShimTest) TestCloseThenReadIsEBADF() {
	p := t.path("closeme.txt")
	fd, err := t.shim.Open(p, os.O_CREATE|os.O_RDWR, 0644)
	AssertEq(nil, err)
	AssertEq(nil, t.shim.Close(fd))

	buf := make([]byte, 1)
	_, err = t.shim.Read(fd, buf)
	ExpectEq(unix.EBADF, err)
}

func (t *ShimTest) TestUnlinkRemovesFile() {
	p := t.path("deleteme.txt")
	AssertEq(nil, os.WriteFile(p, []byte("x"), 0644))

	AssertEq(nil, t.shim.Unlink(p))

	_, statErr := os.Stat(p)
	ExpectTrue(os.IsNotExist(statErr))
}

func (t *ShimTest) TestGetdirtreeOnlyCountsSubdirs() {
	AssertEq(nil, os.Mkdir(t.path("b"), 0755))
	AssertEq(nil, os.Mkdir(t.path("c"), 0755))
	AssertEq(nil, os.WriteFile(t.path("leaf.txt"), []byte("x"), 0644))

	root, err := t.shim.Getdirtree(t.dir)
	AssertEq(nil, err)
	ExpectEq(2, root.NumSubdirs())
}

func (t *ShimTest) TestReadLargerThanMaxMsgLenChunks() {
	p := t.path("big.bin")
	payload := make([]byte, rfsproto.MaxReadChunk+37)
	for i := range payload {
		payload[i] = byte(i)
	}
	AssertEq(nil, os.WriteFile(p, payload, 0644))

	fd, err := t.shim.Open(p, os.O_RDONLY, 0)
	AssertEq(nil, err)

	buf := make([]byte, len(payload))
	n, err := t.shim.Read(fd, buf)
	AssertEq(nil, err)
	ExpectEq(len(payload), n)
	ExpectTrue(bytesEqual(payload, buf))

	AssertEq(nil, t.shim.Close(fd))
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
