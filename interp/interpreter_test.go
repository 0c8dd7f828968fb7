package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.org/tlox/lexer"
	"example.org/tlox/parser"
	"example.org/tlox/resolver"
	"example.org/tlox/token"
)

type collector struct {
	lines []string
}

func (c *collector) Print(s string) { c.lines = append(c.lines, s) }

func (c *collector) output() string { return strings.Join(c.lines, "\n") }

// run scans, parses, resolves and interprets src, failing the test on any
// scan/parse/resolve error. It returns the joined print output and any
// runtime error.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	var diag []string
	toks := lexer.Scan(src, func(line int, msg string) { diag = append(diag, msg) })
	p := parser.New(toks, func(tok token.Token, msg string) { diag = append(diag, msg) })
	stmts := p.Parse()
	if len(diag) != 0 {
		t.Fatalf("scan/parse errors: %v", diag)
	}

	r := resolver.New(func(tok token.Token, msg string) { diag = append(diag, msg) })
	r.Resolve(stmts)
	if len(diag) != 0 {
		t.Fatalf("resolve errors: %v", diag)
	}

	out := &collector{}
	i := New(r.Locals, out)
	err := i.Interpret(stmts)
	return out.output(), err
}

func TestScenario1ArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7", out)
}

func TestScenario2LexicalCapturePinnedByResolver(t *testing.T) {
	out, err := run(t, `var a = "global"; { fun show() { print a; } show(); var a = "local"; show(); }`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "global\nglobal" {
		t.Errorf("got %q", out)
	}
}

func TestScenario3ClosureIdentity(t *testing.T) {
	out, err := run(t, `fun make() { var i = 0; fun tick() { i = i + 1; return i; } return tick; } var t = make(); print t(); print t(); print t();`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n2\n3" {
		t.Errorf("got %q", out)
	}
}

func TestScenario4ClassFieldsAndMethods(t *testing.T) {
	out, err := run(t, `class A { greet() { print "hi " + this.name; } } var a = A(); a.name = "x"; a.greet();`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi x" {
		t.Errorf("got %q", out)
	}
}

func TestScenario5SuperclassInheritance(t *testing.T) {
	out, err := run(t, `class A { greet() { print "from A"; } } class B < A { greet() { super.greet(); print "hi " + this.name; print "from B"; } } var b = B(); b.name = "y"; b.greet();`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "from A\nhi y\nfrom B" {
		t.Errorf("got %q", out)
	}
}

func TestScenario6BreakContinue(t *testing.T) {
	out, err := run(t, `for (var i = 0; i < 3; i = i + 1) { if (i == 1) continue; print i; }`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "0\n2" {
		t.Errorf("got %q", out)
	}
}

func TestScenario7UninitializedVarIsNil(t *testing.T) {
	out, err := run(t, `var x; print x;`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "nil" {
		t.Errorf("got %q", out)
	}
}

func TestScenario8RuntimeErrorOperandsMustBeNumbersOrStrings(t *testing.T) {
	_, err := run(t, `1 + "a";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "operands must be numbers or strings") {
		t.Errorf("got %v", err)
	}
}

func TestScenario8RuntimeErrorNonNumericNonStringOperand(t *testing.T) {
	_, err := run(t, `1 + true;`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "operands must be numbers or strings") {
		t.Errorf("got %v", err)
	}
}

func TestScenario9SelfReferentialInitializerIsResolveError(t *testing.T) {
	toks := lexer.Scan(`{ var a = a; }`, nil)
	p := parser.New(toks, nil)
	stmts := p.Parse()

	var diag []string
	r := resolver.New(func(tok token.Token, msg string) { diag = append(diag, msg) })
	r.Resolve(stmts)

	if len(diag) != 1 || diag[0] != "can not read local variable in its own initializer" {
		t.Fatalf("got %v", diag)
	}
}

func TestBreakContinueReturnNeverEscapeAsRuntimeErrors(t *testing.T) {
	// A stray break/continue is rejected by the resolver (not at runtime),
	// and a well-formed program's control-flow signals never surface as
	// the error returned from Interpret.
	_, err := run(t, `for (var i = 0; i < 1; i = i + 1) { break; }`)
	if err != nil {
		t.Fatalf("break inside a loop must not surface as an error: %v", err)
	}
	_, err = run(t, `for (var i = 0; i < 2; i = i + 1) { continue; }`)
	if err != nil {
		t.Fatalf("continue inside a loop must not surface as an error: %v", err)
	}
	out, err := run(t, `fun f() { return 1; } print f();`)
	if err != nil {
		t.Fatalf("return inside a function must not surface as an error: %v", err)
	}
	if out != "1" {
		t.Errorf("got %q", out)
	}
}

func TestAndOrReturnOperandValueNotBoolean(t *testing.T) {
	out, err := run(t, `print nil or "default"; print 1 and 2;`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "default\n2" {
		t.Errorf("got %q", out)
	}
}

func TestEqualitySymmetryAndNotEqual(t *testing.T) {
	out, err := run(t, `print 1 == 1; print 1 != 2; print "a" == "a"; print 1 == "1";`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "true\ntrue\ntrue\nfalse" {
		t.Errorf("got %q", out)
	}
}

func TestTruthinessZeroAndEmptyStringAreTruthy(t *testing.T) {
	out, err := run(t, `if (0) print "zero is truthy"; if ("") print "empty string is truthy";`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "zero is truthy\nempty string is truthy" {
		t.Errorf("got %q", out)
	}
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, err := run(t, `class A {} var a = A(); print a.missing;`)
	if err == nil || !strings.Contains(err.Error(), "undefined property missing") {
		t.Errorf("got %v", err)
	}
}

func TestCallNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var a = 1; a();`)
	if err == nil || !strings.Contains(err.Error(), "can only call functions and classes") {
		t.Errorf("got %v", err)
	}
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	if err == nil || !strings.Contains(err.Error(), "expected 2 arguments but got 1") {
		t.Errorf("got %v", err)
	}
}

func TestInheritedMethodsAndFields(t *testing.T) {
	out, err := run(t, `
class Animal {
	init(name) { this.name = name; }
	speak() { print this.name + " makes a sound"; }
}
class Dog < Animal {
	speak() { print this.name + " barks"; }
}
var a = Animal("Rex");
a.speak();
var d = Dog("Fido");
d.speak();
`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Rex makes a sound\nFido barks" {
		t.Errorf("got %q", out)
	}
}
