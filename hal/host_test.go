//go:build !tinygo

package hal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

type lineSink struct{ lines []string }

func (s *lineSink) WriteLineString(l string) { s.lines = append(s.lines, l) }
func (s *lineSink) WriteLineBytes(b []byte)  { s.lines = append(s.lines, string(b)) }

func TestLogWriterSplitsRecords(t *testing.T) {
	var sink lineSink
	w := LogWriter{L: &sink}
	n, err := w.Write([]byte("level=INFO msg=a\nlevel=WARN msg=b\n"))
	if err != nil || n != 34 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if len(sink.lines) != 2 || sink.lines[1] != "level=WARN msg=b" {
		t.Fatalf("lines = %q", sink.lines)
	}
	if _, err := (LogWriter{}).Write([]byte("x\n")); err != nil {
		t.Fatalf("nil logger: %v", err)
	}
}

func TestHostLoggerPlain(t *testing.T) {
	var buf bytes.Buffer
	l := newHostLogger(&buf, false)
	l.WriteLineString("level=ERROR msg=boom")
	l.WriteLineBytes([]byte("tail\n"))
	if got := buf.String(); got != "level=ERROR msg=boom\ntail\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestHostLoggerColorKeepsText(t *testing.T) {
	var buf bytes.Buffer
	l := newHostLogger(&buf, true)
	l.WriteLineString("level=WARN msg=slow")
	if !strings.Contains(buf.String(), "level=WARN msg=slow") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := newHostFramebuffer(3, 2)
	if fb.StrideBytes() != 12 || len(fb.Buffer()) != 24 {
		t.Fatalf("stride=%d len=%d", fb.StrideBytes(), len(fb.Buffer()))
	}
	fb.ClearRGB(1, 2, 3)
	if got := fb.Image().RGBAAt(2, 1); got.R != 1 || got.G != 2 || got.B != 3 || got.A != 0xFF {
		t.Fatalf("pixel = %v", got)
	}
}

func TestFixedStepClock(t *testing.T) {
	c := newHostTime(16 * time.Millisecond)
	if c.Now() != 0 {
		t.Fatalf("start = %v", c.Now())
	}
	c.advance()
	c.advance()
	if c.Now() != 32*time.Millisecond {
		t.Fatalf("now = %v", c.Now())
	}
}

func TestOfferFSQueuesDroppedFiles(t *testing.T) {
	u := newHostUploads()
	n := u.offerFS(fstest.MapFS{
		"a.pdf":      {Data: []byte("%PDF-1.4")},
		"dir/b.txt":  {Data: []byte("hello")},
		"dir/nested": {Mode: os.ModeDir},
	})
	if n != 2 {
		t.Fatalf("offered %d", n)
	}
	got := map[string]string{}
	for range n {
		up := <-u.Uploads()
		if up.Err != nil {
			t.Fatalf("upload %s: %v", up.Name, up.Err)
		}
		got[up.Name] = string(up.Data)
	}
	if got["a.pdf"] != "%PDF-1.4" || got["b.txt"] != "hello" {
		t.Fatalf("uploads = %v", got)
	}
}

func TestOfferDropsWhenFull(t *testing.T) {
	u := newHostUploads()
	for i := range uploadQueue {
		if !u.offer(Upload{Name: "x"}) {
			t.Fatalf("offer %d dropped", i)
		}
	}
	if u.offer(Upload{Name: "overflow"}) {
		t.Fatalf("offer past capacity accepted")
	}
}

func TestOfferFileReportsReadErrors(t *testing.T) {
	u := newHostUploads()
	u.offerFile(filepath.Join(t.TempDir(), "missing.pdf"))
	up := <-u.Uploads()
	if up.Err == nil || up.Name != "missing.pdf" {
		t.Fatalf("upload = %+v", up)
	}
}

func TestWatchOffersSettledFiles(t *testing.T) {
	dir := t.TempDir()
	u := newHostUploads()
	if err := u.watch(dir, nil); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer u.close()

	if err := os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case up := <-u.Uploads():
		if up.Name != "notes.pdf" || string(up.Data) != "%PDF-1.7" {
			t.Fatalf("upload = %+v", up)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no upload from inbox")
	}
}

func TestNewHostRejectsEmptyFramebuffer(t *testing.T) {
	if _, err := newHost(HostConfig{}); err == nil {
		t.Fatalf("expected size error")
	}
}
