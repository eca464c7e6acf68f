package diag

import "testing"

func TestBagAccumulatesInOrder(t *testing.T) {
	b := NewBag()
	if b.HasErrors() {
		t.Fatal("expected a fresh bag to have no errors")
	}
	b.Addf("a.cl", 3, "first %s", "error")
	b.Addf("a.cl", 5, "second error")

	if !b.HasErrors() || b.Count() != 2 {
		t.Fatalf("expected 2 errors, got HasErrors=%v Count=%d", b.HasErrors(), b.Count())
	}
	all := b.All()
	if all[0].Line != 3 || all[0].Message != "first error" {
		t.Fatalf("unexpected first diagnostic: %+v", all[0])
	}
	if all[1].Line != 5 || all[1].Message != "second error" {
		t.Fatalf("unexpected second diagnostic: %+v", all[1])
	}
}

func TestDiagnosticOneline(t *testing.T) {
	d := &Diagnostic{Filename: "a.cl", Line: 7, Message: "Type mismatch"}
	want := `"a.cl":7: Type mismatch`
	if got := d.Oneline(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if d.Error() != want {
		t.Fatalf("expected Error() to match Oneline(), got %q", d.Error())
	}
}

func TestFormatAllJoinsOneLinePerDiagnostic(t *testing.T) {
	b := NewBag()
	b.Addf("a.cl", 1, "one")
	b.Addf("a.cl", 2, "two")
	want := "\"a.cl\":1: one\n\"a.cl\":2: two\n"
	if got := b.FormatAll(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatWithContextAppendsSourceLine(t *testing.T) {
	src := "class A {\n  x : Int;\n};\n"
	d := &Diagnostic{Filename: "a.cl", Line: 2, Message: "bad attr", Source: src}
	got := d.FormatWithContext()
	want := "\"a.cl\":2: bad attr\n      x : Int;\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatWithContextOutOfRangeLineOmitsSource(t *testing.T) {
	d := &Diagnostic{Filename: "a.cl", Line: 99, Message: "oops", Source: "class A {};\n"}
	got := d.FormatWithContext()
	want := "\"a.cl\":99: oops\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
