package rfsproto

import (
	"bytes"
	"testing"
)

func TestReadFrameOpen(t *testing.T) {
	req := &OpenRequest{Path: "/a/b", Flags: 0x41, Mode: 0644}
	op, body, err := ReadFrame(bytes.NewReader(req.Marshal()))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if op != OpOpen {
		t.Fatalf("op = %v, want OpOpen", op)
	}
	got, err := UnmarshalOpenRequest(body)
	if err != nil {
		t.Fatalf("UnmarshalOpenRequest: %v", err)
	}
	if *got != *req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestReadFrameWrite(t *testing.T) {
	payload := []byte("some data")
	req := &WriteRequest{Fd: 9, Count: uint32(len(payload)), Data: payload}
	op, body, err := ReadFrame(bytes.NewReader(req.Marshal()))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if op != OpWrite {
		t.Fatalf("op = %v, want OpWrite", op)
	}
	got, err := UnmarshalWriteRequest(body)
	if err != nil {
		t.Fatalf("UnmarshalWriteRequest: %v", err)
	}
	if got.Fd != req.Fd || !bytes.Equal(got.Data, payload) {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestReadFrameTwoRequestsBackToBack(t *testing.T) {
	var buf bytes.Buffer
	buf.Write((&CloseRequest{Fd: 1}).Marshal())
	buf.Write((&LseekRequest{Fd: 2, Offset: 5, Whence: 0}).Marshal())

	op1, body1, err := ReadFrame(&buf)
	if err != nil || op1 != OpClose {
		t.Fatalf("first ReadFrame: op=%v err=%v", op1, err)
	}
	if c, err := UnmarshalCloseRequest(body1); err != nil || c.Fd != 1 {
		t.Fatalf("first decode: %+v %v", c, err)
	}

	op2, body2, err := ReadFrame(&buf)
	if err != nil || op2 != OpLseek {
		t.Fatalf("second ReadFrame: op=%v err=%v", op2, err)
	}
	if l, err := UnmarshalLseekRequest(body2); err != nil || l.Fd != 2 {
		t.Fatalf("second decode: %+v %v", l, err)
	}
}

func TestReadFrameUnknownOpcode(t *testing.T) {
	buf := []byte{99, 0, 0, 0}
	if _, _, err := ReadFrame(bytes.NewReader(buf)); err == nil {
		t.Fatalf("expected error for unknown opcode")
	}
}
