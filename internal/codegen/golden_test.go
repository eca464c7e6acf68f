package codegen

import (
	"testing"

	"github.com/cwbudde/coolc/internal/config"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGoldenAssemblyIsStable snapshots whole-program assembly for a handful
// of canonical inputs, exercising the determinism property of spec.md §8
// (same input always produces byte-identical output) the way the reference
// fixture suite snapshots interpreter output.
func TestGoldenAssemblyIsStable(t *testing.T) {
	tests := []struct {
		name string
		src  string
		gc   config.GCMode
	}{
		{"arithmetic", simpleMain, config.GCNone},
		{"dispatch-override", `
class A {
  f() : Int { 1 };
};
class Main inherits A {
  f() : Int { 2 };
  main() : Int { f() };
};`, config.GCNone},
		{"generational-gc", simpleMain, config.GCGenerational},
		{"multi-formal-method", `
class Main {
  sub(a : Int, b : Int) : Int { a - b };
  main() : Int { sub(5, 2) };
};`, config.GCNone},
		{"let-and-case", `
class Main {
  main() : Object {
    let x : Int <- 1 in
      case x of
        i : Int => i + 1;
        o : Object => o;
      esac
  };
};`, config.GCNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := generate(t, tt.src, tt.gc)
			snaps.MatchSnapshot(t, out)
		})
	}
}
