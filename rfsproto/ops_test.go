package rfsproto

import (
	"bytes"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenRoundTrip(t *testing.T) {
	req := &OpenRequest{Path: "/tmp/x", Flags: 0101, Mode: 0644}
	frame := req.Marshal()

	op, body, err := DecodeOpcode(frame)
	if err != nil {
		t.Fatalf("DecodeOpcode: %v", err)
	}
	if op != OpOpen {
		t.Fatalf("opcode = %v, want OpOpen", op)
	}

	got, err := UnmarshalOpenRequest(body)
	if err != nil {
		t.Fatalf("UnmarshalOpenRequest: %v", err)
	}
	if got.Path != req.Path || got.Flags != req.Flags || got.Mode != req.Mode {
		t.Fatalf("got %+v, want %+v", got, req)
	}

	reply := &OpenReply{Fd: 7, Errno: 0}
	gotReply, err := UnmarshalOpenReply(reply.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalOpenReply: %v", err)
	}
	if *gotReply != *reply {
		t.Fatalf("got %+v, want %+v", gotReply, reply)
	}
}

func TestReadReplyCarriesOnlyRequestedCount(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 32)
	reply := &ReadReply{Bytes: 32, Errno: 0, Data: data}
	got, err := UnmarshalReadReply(reply.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalReadReply: %v", err)
	}
	if got.Bytes != 32 || !bytes.Equal(got.Data, data) {
		t.Fatalf("got %+v", got)
	}
}

func TestWriteRequestRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	req := &WriteRequest{Fd: 3, Count: uint32(len(payload)), Data: payload}
	_, body, err := DecodeOpcode(req.Marshal())
	if err != nil {
		t.Fatalf("DecodeOpcode: %v", err)
	}
	got, err := UnmarshalWriteRequest(body)
	if err != nil {
		t.Fatalf("UnmarshalWriteRequest: %v", err)
	}
	if got.Fd != req.Fd || got.Count != req.Count || !bytes.Equal(got.Data, payload) {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestLseekRoundTrip(t *testing.T) {
	req := &LseekRequest{Fd: 4, Offset: -100, Whence: 2}
	_, body, _ := DecodeOpcode(req.Marshal())
	got, err := UnmarshalLseekRequest(body)
	if err != nil {
		t.Fatalf("UnmarshalLseekRequest: %v", err)
	}
	if *got != *req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestStatReplyCarriesRawStatT(t *testing.T) {
	var st unix.Stat_t
	st.Size = 12345
	st.Mode = 0100644

	reply := &StatReply{Success: 0, Errno: 0}
	PutStatT(reply.Statbuf[:], &st)

	got, err := UnmarshalStatReply(reply.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalStatReply: %v", err)
	}

	roundTripped := StatTFrom(got.Statbuf[:])
	if roundTripped.Size != 12345 || roundTripped.Mode != 0100644 {
		t.Fatalf("stat_t round trip lost data: %+v", roundTripped)
	}
}

func TestGetdirtreeReplyHeader(t *testing.T) {
	hdr := &GetdirtreeReplyHeader{Length: 1 << 16}
	got, err := UnmarshalGetdirtreeReplyHeader(hdr.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalGetdirtreeReplyHeader: %v", err)
	}
	if got.Length != hdr.Length {
		t.Fatalf("got %+v, want %+v", got, hdr)
	}
}

func TestUnknownOpcodeRejected(t *testing.T) {
	if Opcode(100).Valid() {
		t.Fatalf("opcode 100 should not be valid")
	}
	if !OpGetdirtree.Valid() {
		t.Fatalf("OpGetdirtree should be valid")
	}
}

func TestDecodeOpcodeShortFrame(t *testing.T) {
	if _, _, err := DecodeOpcode([]byte{1, 2}); err == nil {
		t.Fatalf("expected error for short frame")
	}
}
