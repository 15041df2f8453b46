package pretty

import "testing"

func TestReindentNestsByBraceDepth(t *testing.T) {
	in := "int f(void) {\nif (x) {\nreturn 1;\n}\nreturn 0;\n}\n"
	want := "int f(void) {\n    if (x) {\n        return 1;\n    }\n    return 0;\n}\n"
	if got := Reindent(in); got != want {
		t.Errorf("Reindent mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentKeepsPreprocessorAtColumnZero(t *testing.T) {
	in := "int f(void) {\n#ifdef __clang__\nreturn 1;\n#endif\n}\n"
	want := "int f(void) {\n#ifdef __clang__\n    return 1;\n#endif\n}\n"
	if got := Reindent(in); got != want {
		t.Errorf("Reindent mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentIgnoresBracesInStringLiterals(t *testing.T) {
	in := "int f(void) {\nreturn luaL_error(L, \"unexpected {\");\n}\n"
	want := "int f(void) {\n    return luaL_error(L, \"unexpected {\");\n}\n"
	if got := Reindent(in); got != want {
		t.Errorf("Reindent mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentCollapsesBlankRuns(t *testing.T) {
	in := "int a;\n\n\n\nint b;\n"
	want := "int a;\n\nint b;\n"
	if got := Reindent(in); got != want {
		t.Errorf("Reindent mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentElseChainStaysLevel(t *testing.T) {
	in := "if (a) {\nx = 1;\n} else {\nx = 2;\n}\n"
	want := "if (a) {\n    x = 1;\n} else {\n    x = 2;\n}\n"
	if got := Reindent(in); got != want {
		t.Errorf("Reindent mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentIsIdempotent(t *testing.T) {
	in := "int f(void) {\nif (x) {\nreturn 1;\n}\nreturn 0;\n}\n"
	once := Reindent(in)
	if twice := Reindent(once); twice != once {
		t.Errorf("Reindent not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}
