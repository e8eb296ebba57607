// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"peergrade/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	RosterFile  string
	SurveyFiles []string
	MapFile     string

	// Matching
	Mode        string
	MaxDistance int // -1=auto by --mode; 0=exact stages only
	Batch       bool
	AliasDB     string
	ListAliases bool

	// Compilation
	SortBy string
	NA     []string

	// Output
	Format          string
	Out             string
	Header          bool // true unless --no-header
	NoMatchExitCode int

	// Misc
	ConfigFile string
	Quiet      bool
	Version    bool
}

// sliceValue appends each value to a *[]string (for --survey/-s, --na).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}
func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// NewFlagSet returns a configured FlagSet with the grouped usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – peer-evaluation survey compiler\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s --roster gradebook.csv [options] survey.xlsx [survey2.xlsx ...]\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -r, --roster file           Gradebook CSV export [*]")
		fmt.Fprintln(out, "  -s, --survey file           Survey workbook(s) (repeatable) or '-' for STDIN")
		fmt.Fprintln(out, "  -m, --map file              Response-map YAML (overrides workbook map sheets)")

		fmt.Fprintln(out, "\nMatching:")
		fmt.Fprintf(out, "      --mode string           Matching mode: fuzzy | strict [%s]\n", def("mode"))
		fmt.Fprintf(out, "      --max-distance int      Max edit distance for fuzzy matches (-1=auto) [%s]\n", def("max-distance"))
		fmt.Fprintf(out, "      --batch                 Never prompt; record unresolved names as unmatched [%s]\n", def("batch"))
		fmt.Fprintln(out, "      --alias-db file         Alias database path (empty=config default)")
		fmt.Fprintf(out, "      --list-aliases          Print remembered aliases and exit [%s]\n", def("list-aliases"))

		fmt.Fprintln(out, "\nCompilation:")
		fmt.Fprintf(out, "      --sort-by string        Row order: student | name | team | section [%s]\n", def("sort-by"))
		fmt.Fprintln(out, "      --na value              Extra token treated as an empty answer (repeatable)")

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -f, --format string         Output: xlsx | csv | text | json [%s]\n", def("format"))
		fmt.Fprintf(out, "  -o, --out file              Output path ('-' for STDOUT) [%s]\n", def("out"))
		fmt.Fprintf(out, "      --no-header             Suppress header line (text) [%s]\n", def("no-header"))
		fmt.Fprintf(out, "      --no-match-exit-code int  Exit code when nothing matched [%s]\n", def("no-match-exit-code"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --config file           Config YAML (also $PEERGRADE_CONFIG)")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
		fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(NewFlagSet("peergrade"), nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	var showExamples bool

	// Input
	fs.StringVar(&o.RosterFile, "roster", "", "gradebook CSV export [*]")
	fs.StringVar(&o.RosterFile, "r", "", "alias of --roster")
	surveys := &sliceValue{dst: &o.SurveyFiles}
	fs.Var(surveys, "survey", "survey workbook(s) (repeatable) or '-'")
	fs.Var(surveys, "s", "alias of --survey")
	fs.StringVar(&o.MapFile, "map", "", "response-map YAML sidecar")
	fs.StringVar(&o.MapFile, "m", "", "alias of --map")

	// Matching
	fs.StringVar(&o.Mode, "mode", "fuzzy", "matching mode: fuzzy | strict [fuzzy]")
	fs.IntVar(&o.MaxDistance, "max-distance", -1, "max edit distance for fuzzy matches (-1=auto: strict=0) [-1]")
	fs.BoolVar(&o.Batch, "batch", false, "never prompt; record unresolved names as unmatched [false]")
	fs.StringVar(&o.AliasDB, "alias-db", "", "alias database path (empty=config default)")
	fs.BoolVar(&o.ListAliases, "list-aliases", false, "print remembered aliases and exit [false]")

	// Compilation
	fs.StringVar(&o.SortBy, "sort-by", "student", "row order: student | name | team | section [student]")
	fs.Var(&sliceValue{dst: &o.NA}, "na", "extra token treated as an empty answer (repeatable)")

	// Output
	fs.StringVar(&o.Format, "format", "xlsx", "output format: xlsx | csv | text | json [xlsx]")
	fs.StringVar(&o.Format, "f", "xlsx", "alias of --format")
	fs.StringVar(&o.Out, "out", "compiled_gradebook.xlsx", "output path ('-' for STDOUT) [compiled_gradebook.xlsx]")
	fs.StringVar(&o.Out, "o", "compiled_gradebook.xlsx", "alias of --out")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.IntVar(&o.NoMatchExitCode, "no-match-exit-code", 1, "exit code when nothing matched [1]")

	// Misc
	fs.StringVar(&o.ConfigFile, "config", "", "config YAML (also $PEERGRADE_CONFIG)")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&o.Version, "v", false, "alias of --version")
	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := splitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	o.Header = !noHeader

	pos, err := expandPositionals(posArgs)
	if err != nil {
		return o, err
	}
	o.SurveyFiles = append(o.SurveyFiles, pos...)

	return o, validate(&o)
}

// validate applies the CLI invariants. --list-aliases runs without
// roster or survey input; everything else requires both.
func validate(o *Options) error {
	switch o.Mode {
	case "fuzzy", "strict":
	default:
		return fmt.Errorf("invalid --mode %q", o.Mode)
	}
	if o.MaxDistance < -1 {
		return errors.New("--max-distance must be ≥ -1")
	}
	switch o.SortBy {
	case "student", "name", "team", "section":
	default:
		return fmt.Errorf("invalid --sort-by %q", o.SortBy)
	}
	switch o.Format {
	case "xlsx", "csv", "text", "json":
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.NoMatchExitCode < 0 || o.NoMatchExitCode > 255 {
		return errors.New("--no-match-exit-code must be between 0 and 255")
	}
	if o.ListAliases {
		return nil
	}
	if o.RosterFile == "" {
		return errors.New("--roster is required")
	}
	if len(o.SurveyFiles) == 0 {
		return errors.New("at least one survey file is required")
	}
	return nil
}
