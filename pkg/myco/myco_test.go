package myco

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEndToEndScenarios exercises four of the six literal input/output
// scenarios this package's contract is built against, snapshotting stdout;
// the try/catch and module scenarios have their own tests below.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic_precedence", `let x = 2 + 3 * 4; print(x);`, "14\n"},
		{"string_concatenation", `let s = "Hello"; let t = "World"; print(s + " " + t);`, "Hello World\n"},
		{"for_loop_positive_step", `for i in 1:5: print(i); end`, "1\n2\n3\n4\n5\n"},
		{"for_loop_negative_step", `for i in 10:1:-2: print(i); end`, "10\n8\n6\n4\n2\n"},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			result, err := Run(sc.source, "<test>")
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if result.Stdout != sc.want {
				t.Errorf("stdout = %q, want %q", result.Stdout, sc.want)
			}
			snaps.MatchSnapshot(t, sc.name, result.Stdout)
		})
	}
}

func TestTryCatchBindsDivisionByZero(t *testing.T) {
	result, err := Run(`try: let x = 10 / 0; catch err: print(err); end`, "<test>")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(result.Stdout, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line of output, got %d: %q", len(lines), result.Stdout)
	}
	if !strings.Contains(strings.ToLower(lines[0]), "division by zero") {
		t.Errorf("expected the caught error to describe division by zero, got %q", lines[0])
	}
}

func TestModuleFunctionCallableQualifiedAndBare(t *testing.T) {
	result, err := Run(`use "m" as m; print(m.double(21)); print(double(21));`, "testdata/entry.myco")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stdout != "42\n42\n" {
		t.Errorf("stdout = %q, want %q", result.Stdout, "42\n42\n")
	}
}

func TestResultOkIsFalseOnUncaughtRuntimeError(t *testing.T) {
	result, err := Run(`print(1 / 0);`, "<test>")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Ok {
		t.Error("expected Ok=false for an uncaught top-level division by zero")
	}
	if result.Stderr == "" {
		t.Error("expected the uncaught error to be printed to stderr")
	}
}

func TestResultOkIsTrueOnCleanRun(t *testing.T) {
	result, err := Run(`print(1 + 1);`, "<test>")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Ok {
		t.Errorf("expected Ok=true for a clean run, stderr=%q", result.Stderr)
	}
}

func TestIndependentRunsProduceIdenticalOutput(t *testing.T) {
	source := `let x = 2 + 3 * 4; print(x);`
	first, err := Run(source, "<test>")
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := Run(source, "<test>")
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if first.Stdout != second.Stdout {
		t.Errorf("independent runs diverged: %q != %q", first.Stdout, second.Stdout)
	}
}
