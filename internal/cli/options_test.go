// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"strings"
	"testing"
)

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	o, err := ParseArgs(NewFlagSet("test"), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return o
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, "--roster", "gb.csv", "--survey", "s.xlsx")
	if o.Mode != "fuzzy" || o.MaxDistance != -1 || o.SortBy != "student" {
		t.Errorf("unexpected matching defaults %+v", o)
	}
	if o.Format != "xlsx" || o.Out != "compiled_gradebook.xlsx" || !o.Header || o.NoMatchExitCode != 1 {
		t.Errorf("unexpected output defaults %+v", o)
	}
}

func TestRepeatableSurveys(t *testing.T) {
	o := mustParse(t, "--roster", "gb.csv", "--survey", "a.xlsx", "--survey", "b.xlsx")
	if len(o.SurveyFiles) != 2 || o.SurveyFiles[1] != "b.xlsx" {
		t.Errorf("bad survey list %v", o.SurveyFiles)
	}
}

func TestPositionalSurveys(t *testing.T) {
	o := mustParse(t, "--roster", "gb.csv", "a.xlsx", "b.xlsx")
	if len(o.SurveyFiles) != 2 || o.SurveyFiles[0] != "a.xlsx" {
		t.Errorf("positionals not collected: %v", o.SurveyFiles)
	}
}

func TestShortAliases(t *testing.T) {
	o := mustParse(t, "-r", "gb.csv", "-s", "s.xlsx", "-f", "csv", "-o", "-", "-q")
	if o.RosterFile != "gb.csv" || o.Format != "csv" || o.Out != "-" || !o.Quiet {
		t.Errorf("alias parse %+v", o)
	}
}

func TestNoHeader(t *testing.T) {
	o := mustParse(t, "--roster", "gb.csv", "--no-header", "s.xlsx")
	if o.Header {
		t.Errorf("--no-header should clear Header")
	}
}

func TestRepeatableNA(t *testing.T) {
	o := mustParse(t, "--roster", "gb.csv", "--na", "none", "--na", "-", "s.xlsx")
	if len(o.NA) != 2 || o.NA[0] != "none" {
		t.Errorf("bad NA tokens %v", o.NA)
	}
}

func TestErrorMissingRoster(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"s.xlsx"})
	if err == nil || !strings.Contains(err.Error(), "--roster") {
		t.Fatalf("expected roster error, got %v", err)
	}
}

func TestErrorNoSurvey(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv"})
	if err == nil || !strings.Contains(err.Error(), "survey") {
		t.Fatalf("expected survey error, got %v", err)
	}
}

func TestListAliasesNeedsNoInput(t *testing.T) {
	o := mustParse(t, "--list-aliases", "--alias-db", "x.db")
	if !o.ListAliases || o.AliasDB != "x.db" {
		t.Errorf("list-aliases parse %+v", o)
	}
}

func TestErrorBadMode(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv", "--mode", "psychic", "s.xlsx"})
	if err == nil || !strings.Contains(err.Error(), "--mode") {
		t.Fatalf("expected mode error, got %v", err)
	}
}

func TestErrorBadFormat(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv", "--format", "xml", "s.xlsx"})
	if err == nil || !strings.Contains(err.Error(), "--format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestErrorBadSortBy(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv", "--sort-by", "gpa", "s.xlsx"})
	if err == nil || !strings.Contains(err.Error(), "--sort-by") {
		t.Fatalf("expected sort error, got %v", err)
	}
}

func TestErrorMaxDistanceRange(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv", "--max-distance", "-2", "s.xlsx"})
	if err == nil {
		t.Fatalf("expected max-distance error")
	}
}

func TestErrorExitCodeRange(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--roster", "gb.csv", "--no-match-exit-code", "300", "s.xlsx"})
	if err == nil || !strings.Contains(err.Error(), "0 and 255") {
		t.Fatalf("expected exit-code error, got %v", err)
	}
}

func TestHelpReturnsErrHelp(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want flag.ErrHelp, got %v", err)
	}
}

func TestVersionSkipsValidation(t *testing.T) {
	o, err := ParseArgs(NewFlagSet("test"), []string{"--version"})
	if err != nil || !o.Version {
		t.Fatalf("version parse: err=%v opts=%+v", err, o)
	}
}

func TestExamplesSentinel(t *testing.T) {
	_, err := ParseArgs(NewFlagSet("test"), []string{"--examples"})
	if !errors.Is(err, ErrPrintedAndExitOK) {
		t.Fatalf("want ErrPrintedAndExitOK, got %v", err)
	}
}
