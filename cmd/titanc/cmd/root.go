package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/titanlang/titanc/internal/ccompiler"
	"github.com/titanlang/titanc/internal/driver"
	"github.com/titanlang/titanc/internal/errors"
)

// Version information (set by build flags)
var (
	Version = "0.1.0-dev"
	GitCommit = "unknown"
)

// ErrCompileFailed signals that diagnostics were already printed and the
// process should exit non-zero without any further message.
var ErrCompileFailed = fmt.Errorf("compilation failed")

var (
	emitLua bool
	keepIntermediates bool
	ccBin string
	luaInclude string
	stopAfter string
)

var rootCmd = &cobra.Command{
	Use: "titanc <input.pln>",
	Short: "Titan ahead-of-time compiler",
	Long: `titanc compiles a Titan module to a native shared object loadable by the
Lua interpreter with require(). The pipeline runs

  input.pln -> input.c -> input.s -> input.o -> input.so

where the first step is titanc itself and the remaining three invoke the
system C compiler against the Lua source headers.`,
	Version: Version,
	Args: cobra.ExactArgs(1),
	SilenceUsage: true,
	SilenceErrors: true,
	RunE: runCompile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))

	rootCmd.Flags().BoolVar(&emitLua, "emit-lua", false, "dump the generated Lua entry-point wrappers to stderr")
	rootCmd.Flags().BoolVar(&keepIntermediates, "keep-intermediates", false, "keep the .c/.s/.o files next to the input")
	rootCmd.Flags().StringVar(&ccBin, "cc", "cc", "C compiler binary for the back-end steps")
	rootCmd.Flags().StringVar(&luaInclude, "lua-include", "lua/src", "directory containing the Lua headers")
	rootCmd.Flags().StringVar(&stopAfter, "stop-after", "so", `extension to stop at ("c", "s", "o" or "so")`)
}

func runCompile(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	cc := &ccompiler.CC{Bin: ccBin, IncludeDir: luaInclude}
	p := driver.New(cc)
	p.KeepIntermediates = keepIntermediates
	if emitLua {
		p.EmitLua = stderr
	}

	if errs := p.Compile("pln", stopAfter, args[0]); len(errs) > 0 {
		printDiagnostics(stderr, errs)
		return ErrCompileFailed
	}
	return nil
}

// printDiagnostics writes one diagnostic per line in the
// <file>:<line>:<col>: <message> wire format. The position prefix is
// bolded when stderr is a terminal; piped output stays byte-identical to
// the wire format.
func printDiagnostics(w io.Writer, errs errors.List) {
	bold := color.New(color.Bold)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		bold.DisableColor()
	}
	for _, d := range errs {
		bold.Fprintf(w, "%s:%d:%d:", d.Loc.Filename, d.Loc.Line, d.Loc.Column)
		fmt.Fprintf(w, " %s\n", d.Message)
	}
}
