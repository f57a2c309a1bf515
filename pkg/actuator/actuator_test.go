package actuator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort implements serial.Port, accepting at most chunk bytes per Write.
type fakePort struct {
	buf      bytes.Buffer
	chunk    int
	writeErr error
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	n := len(b)
	if p.chunk > 0 && n > p.chunk {
		n = p.chunk
	}
	p.buf.Write(b[:n])
	return n, nil
}

func (p *fakePort) Read(b []byte) (int, error)                           { return 0, io.EOF }
func (p *fakePort) SetMode(mode *serial.Mode) error                      { return nil }
func (p *fakePort) Drain() error                                         { return nil }
func (p *fakePort) ResetInputBuffer() error                              { return nil }
func (p *fakePort) ResetOutputBuffer() error                             { return nil }
func (p *fakePort) SetDTR(dtr bool) error                                { return nil }
func (p *fakePort) SetRTS(rts bool) error                                { return nil }
func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) { return nil, nil }
func (p *fakePort) SetReadTimeout(t time.Duration) error                 { return nil }
func (p *fakePort) Break(time.Duration) error                            { return nil }
func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func withFakePort(t *testing.T, port *fakePort) *serial.Mode {
	t.Helper()
	var got serial.Mode
	orig := openPort
	openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
		got = *mode
		return port, nil
	}
	t.Cleanup(func() { openPort = orig })
	return &got
}

func TestPortOptions_Normalize(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if opts.BaudRate != DefaultBaudRate || opts.DataBits != 8 || opts.StopBits != 1 || opts.Parity != "N" {
		t.Errorf("defaults = %+v", opts)
	}

	opts, err = PortOptions{Parity: " even "}.Normalize()
	if err != nil || opts.Parity != "E" {
		t.Errorf("even parity = %q, %v", opts.Parity, err)
	}

	bad := []PortOptions{
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	}
	for _, o := range bad {
		if _, err := o.Normalize(); err == nil {
			t.Errorf("Normalize(%+v) should fail", o)
		}
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 115200, StopBits: 2, Parity: "O"}.SerialMode()
	if err != nil {
		t.Fatalf("SerialMode() error = %v", err)
	}
	if mode.BaudRate != 115200 {
		t.Errorf("BaudRate = %d", mode.BaudRate)
	}
	if mode.StopBits != serial.TwoStopBits {
		t.Errorf("StopBits = %v, want TwoStopBits", mode.StopBits)
	}
	if mode.Parity != serial.OddParity {
		t.Errorf("Parity = %v, want OddParity", mode.Parity)
	}

	mode, _ = PortOptions{}.SerialMode()
	if mode.StopBits != serial.OneStopBit || mode.Parity != serial.NoParity {
		t.Errorf("default mode = %+v", mode)
	}
}

func TestOpenSerial_WritesCommands(t *testing.T) {
	port := &fakePort{}
	mode := withFakePort(t, port)

	sink, err := OpenSerial(context.Background(), "/dev/ttyUSB0", PortOptions{})
	if err != nil {
		t.Fatalf("OpenSerial() error = %v", err)
	}
	if mode.BaudRate != DefaultBaudRate {
		t.Errorf("opened at %d baud, want %d", mode.BaudRate, DefaultBaudRate)
	}

	for _, cmd := range []string{"115\n", "90\n"} {
		if err := sink.Send([]byte(cmd)); err != nil {
			t.Fatalf("Send(%q) error = %v", cmd, err)
		}
	}
	if got := port.buf.String(); got != "115\n90\n" {
		t.Errorf("port received %q", got)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !port.closed {
		t.Error("port not closed")
	}
	if err := sink.Send([]byte("115\n")); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestOpenSerial_SettleCancelled(t *testing.T) {
	port := &fakePort{}
	withFakePort(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenSerial(ctx, "/dev/ttyUSB0", PortOptions{SettleDelay: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("OpenSerial() error = %v, want context.Canceled", err)
	}
	if !port.closed {
		t.Error("port should be closed when settle is cancelled")
	}
}

func TestOpenSerial_OpenError(t *testing.T) {
	orig := openPort
	openPort = func(string, *serial.Mode) (serial.Port, error) {
		return nil, errors.New("no such device")
	}
	defer func() { openPort = orig }()

	if _, err := OpenSerial(context.Background(), "/dev/missing", PortOptions{}); err == nil {
		t.Error("expected error")
	}
}

func TestSerialSink_ShortWrites(t *testing.T) {
	port := &fakePort{chunk: 1}
	sink := NewSerialSink("fake", port)

	if err := sink.Send([]byte("140\n")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := port.buf.String(); got != "140\n" {
		t.Errorf("port received %q, want %q", got, "140\n")
	}
}

func TestSerialSink_WriteError(t *testing.T) {
	port := &fakePort{writeErr: errors.New("unplugged")}
	sink := NewSerialSink("fake", port)

	if err := sink.Send([]byte("115\n")); err == nil {
		t.Error("expected error")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	sink.Send([]byte("LEFT\n"))
	sink.Send([]byte("STRAIGHT\n"))
	if buf.String() != "LEFT\nSTRAIGHT\n" {
		t.Errorf("got %q", buf.String())
	}

	sink.Close()
	if err := sink.Send([]byte("RIGHT\n")); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close = %v", err)
	}
}

func TestRecordingSink(t *testing.T) {
	sink := NewRecordingSink()
	boom := errors.New("boom")

	sink.Send([]byte("100\n"))
	sink.FailNext = boom
	if err := sink.Send([]byte("101\n")); !errors.Is(err, boom) {
		t.Errorf("FailNext not returned: %v", err)
	}
	sink.Send([]byte("102\n"))

	got := sink.Commands()
	if len(got) != 2 || got[0] != "100\n" || got[1] != "102\n" {
		t.Errorf("Commands() = %q", got)
	}

	sink.Close()
	if !sink.Closed() {
		t.Error("Closed() = false")
	}
}
