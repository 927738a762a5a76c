package diag

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestBagEnforcesLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Severity: SevInfo, Message: "one"}) {
		t.Fatalf("first add rejected")
	}
	if !b.Add(Diagnostic{Severity: SevWarning, Message: "two"}) {
		t.Fatalf("second add rejected")
	}
	if b.Add(Diagnostic{Severity: SevError, Message: "three"}) {
		t.Fatalf("add beyond the limit accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("got %d items", b.Len())
	}
	if b.HasErrors() {
		t.Fatalf("dropped diagnostic counted")
	}
	if !b.HasWarnings() {
		t.Fatalf("warning not seen")
	}
}

func TestBagHandlesConcurrentProducers(t *testing.T) {
	b := NewBag(1000)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Add(Diagnostic{Severity: SevInfo})
			}
		}()
	}
	wg.Wait()
	if b.Len() != 800 {
		t.Fatalf("got %d items, want 800", b.Len())
	}
}

func TestWarningHelperFillsFields(t *testing.T) {
	b := NewBag(10)
	Warning(BagReporter{Bag: b}, LiveUnsupportedTerm, "f", "bad term %d", 7)
	items := b.Items()
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	d := items[0]
	if d.Severity != SevWarning || d.Code != LiveUnsupportedTerm || d.Function != "f" || d.Message != "bad term 7" {
		t.Fatalf("wrong diagnostic: %+v", d)
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	b1, b2 := NewBag(10), NewBag(10)
	r := MultiReporter{BagReporter{Bag: b1}, BagReporter{Bag: b2}}
	Info(r, PipeInfo, "starting")
	if b1.Len() != 1 || b2.Len() != 1 {
		t.Fatalf("fan-out missed a sink: %d, %d", b1.Len(), b2.Len())
	}
}

func TestWriterReporterFiltersBySeverity(t *testing.T) {
	var buf bytes.Buffer
	r := WriterReporter{W: &buf, MinSev: SevWarning}
	r.Report(Diagnostic{Severity: SevInfo, Code: PipeInfo, Message: "chatty"})
	r.Report(Diagnostic{Severity: SevWarning, Code: LiveUnsupportedTerm, Message: "kept"})
	out := buf.String()
	if strings.Contains(out, "chatty") {
		t.Fatalf("info leaked through: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "DRIFT2002") {
		t.Fatalf("warning missing: %q", out)
	}
}

func TestCodeString(t *testing.T) {
	if got := LiveUnsupportedStatement.String(); got != "DRIFT2001" {
		t.Fatalf("got %q", got)
	}
}
