package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/config"
)

func TestCompileSucceedsOnWellFormedProgram(t *testing.T) {
	src := `
class Main {
  main() : Int { 1 + 2 };
};`
	var buf bytes.Buffer
	res, err := Compile([]Source{{Filename: "t.cl", Text: src}}, &buf, config.GCNone, false)
	if err != nil {
		t.Fatalf("unexpected error: %v (diagnostics: %s)", err, res.Bag.FormatAll())
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty assembly output")
	}
}

func TestCompileStopsAtParseErrors(t *testing.T) {
	src := `class Main { main() : Int { ; }; };`
	var buf bytes.Buffer
	res, err := Compile([]Source{{Filename: "t.cl", Text: src}}, &buf, config.GCNone, false)
	if err != ErrCompilation {
		t.Fatalf("expected ErrCompilation, got %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected diagnostics to be recorded")
	}
	if buf.Len() != 0 {
		t.Fatal("expected no assembly output once a fatal barrier trips")
	}
}

func TestCompileStopsAtMissingMain(t *testing.T) {
	src := `class A { };`
	var buf bytes.Buffer
	_, err := Compile([]Source{{Filename: "t.cl", Text: src}}, &buf, config.GCNone, false)
	if err != ErrCompilation {
		t.Fatalf("expected ErrCompilation for a program without Main, got %v", err)
	}
}

func TestCompileStopsAtTypeErrors(t *testing.T) {
	src := `
class Main {
  main() : Int { true + 1 };
};`
	var buf bytes.Buffer
	res, err := Compile([]Source{{Filename: "t.cl", Text: src}}, &buf, config.GCNone, false)
	if err != ErrCompilation {
		t.Fatalf("expected ErrCompilation, got %v", err)
	}
	if !strings.Contains(res.Bag.FormatAll(), "non-Int") {
		t.Fatalf("expected a non-Int-arguments diagnostic, got: %s", res.Bag.FormatAll())
	}
}

func TestCompileAcrossMultipleFiles(t *testing.T) {
	listFile := `
class List {
  isNil() : Bool { true };
};`
	mainFile := `
class Main inherits List {
  main() : Bool { isNil() };
};`
	var buf bytes.Buffer
	_, err := Compile([]Source{
		{Filename: "list.cl", Text: listFile},
		{Filename: "main.cl", Text: mainFile},
	}, &buf, config.GCNone, false)
	if err != nil {
		t.Fatalf("unexpected error compiling across files: %v", err)
	}
}

func TestParseReturnsClassesEvenWithoutSemanticAnalysis(t *testing.T) {
	src := `class Main { main() : Int { 1 }; };`
	_, classes, bag := Parse([]Source{{Filename: "t.cl", Text: src}})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", bag.FormatAll())
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
}
