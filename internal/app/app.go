// internal/app/app.go
//
// Package app wires the whole run together: flags, config, roster,
// surveys, matching, interactive resolution, aggregation, output.
// Exit codes: 0 ok, 1 nothing matched (see --no-match-exit-code),
// 2 usage or input error, 3 runtime error, 130 canceled.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"peergrade/internal/aliasdb"
	"peergrade/internal/cli"
	"peergrade/internal/cmdutil"
	"peergrade/internal/common"
	"peergrade/internal/compile"
	"peergrade/internal/config"
	"peergrade/internal/namematch"
	"peergrade/internal/output"
	"peergrade/internal/resolve"
	"peergrade/internal/roster"
	"peergrade/internal/survey"
	"peergrade/internal/version"
	"peergrade/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("peergrade")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(stdout)
		fs.Usage()
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, cli.ErrPrintedAndExitOK):
			cli.PrintExamples(stdout)
			return 0
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stdout)
		fs.Usage()
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(stdout, "peergrade version %s\n", version.Version)
		return 0
	}

	warnf := cmdutil.WarnFunc(stderr, opts.Quiet)

	cfgPath := opts.ConfigFile
	if cfgPath == "" {
		cfgPath = os.Getenv("PEERGRADE_CONFIG")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	aliasPath := opts.AliasDB
	if aliasPath == "" {
		aliasPath = cfg.AliasDB
	}
	if opts.ListAliases {
		return listAliases(stdout, stderr, aliasPath)
	}

	ro, err := roster.Load(opts.RosterFile)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if ro.Len() == 0 {
		_, _ = fmt.Fprintf(stderr, "%s: no student rows\n", opts.RosterFile)
		return 2
	}

	sv, err := loadSurveys(opts.SurveyFiles, opts.MapFile)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	var store *aliasdb.Store
	var aliases namematch.AliasLookup
	if aliasPath != "" {
		store, err = aliasdb.Open(aliasPath)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		defer func() { _ = store.Close() }()
		aliases = store
	}

	matcher := namematch.New(ro, namematch.EffectiveMaxDistance(opts.Mode, opts.MaxDistance, cfg.MaxDistance), aliases)
	matcher.Warnf = warnf

	copts := &compile.Options{
		CommentSep:      cfg.CommentSeparator,
		SelfPrefix:      cfg.SelfPrefix,
		PeerPrefix:      cfg.PeerPrefix,
		DiffPrefix:      cfg.DiffPrefix,
		SortBy:          opts.SortBy,
		NA:              common.NewNASet(append(append([]string(nil), cfg.NATokens...), opts.NA...)...),
		RatingsRequired: cfg.RatingsRequired,
		Warnf:           warnf,
	}

	ms := compile.Match(ro, sv, matcher, copts)

	decisions := map[int]int{}
	if len(ms.Requests) > 0 && interactive(opts.Batch) {
		decisions, err = resolve.Run(parent, ms.Requests, ro)
		if err != nil {
			if errors.Is(err, resolve.ErrCanceled) || parent.Err() != nil {
				return 130
			}
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		rememberAliases(store, ms.Requests, decisions, ro, warnf)
	}

	res, err := ms.Aggregate(decisions, copts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if n := len(res.Unmatched); n > 0 {
		warnf("unmatched survey entries: %d (see the unmatched report)", n)
	}

	doc := &output.Doc{
		Result: res,
		Meta: api.RunMetaV1{
			Tool:        "peergrade",
			Version:     version.Version,
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Sources:     append([]string(nil), opts.SurveyFiles...),
		},
		Header: opts.Header,
		Sheets: output.SheetNames{
			Compiled:  cfg.SheetCompiled,
			Unmatched: cfg.SheetUnmatched,
			Summary:   cfg.SheetSummary,
		},
	}
	if err := writeOutput(opts.Out, opts.Format, stdout, doc); err != nil {
		if output.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	if res.Stats.SelfMatched == 0 && res.Stats.PeerMatched == 0 {
		warnf("no survey response matched the roster")
		return opts.NoMatchExitCode
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// loadSurveys reads every workbook, overlays the sidecar map when one
// was given, and concatenates the rows. The first file's map governs.
func loadSurveys(files []string, mapFile string) (*survey.Survey, error) {
	svs := make([]*survey.Survey, 0, len(files))
	for _, p := range files {
		s, err := survey.LoadWorkbook(p)
		if err != nil {
			return nil, err
		}
		svs = append(svs, s)
	}
	base := svs[0]
	if mapFile != "" {
		m, err := survey.LoadMapFile(mapFile)
		if err != nil {
			return nil, err
		}
		base, err = survey.Bind(base.Source, base.Headers, base.Rows, base.Refs, m)
		if err != nil {
			return nil, err
		}
	}
	if base.Map == nil {
		return nil, fmt.Errorf("%s: no %q sheet; provide --map", base.Source, survey.SheetMap)
	}
	return survey.Merge(base, svs[1:]...)
}

// interactive reports whether the resolver UI can run: batch not
// requested, stdin a terminal for keys, stderr one for drawing.
func interactive(batch bool) bool {
	if batch {
		return false
	}
	return tty(os.Stdin) && tty(os.Stderr)
}

func tty(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// rememberAliases persists accepted decisions so the same entered name
// resolves without prompting next run.
func rememberAliases(store *aliasdb.Store, reqs []compile.Request, decisions map[int]int, ro *roster.Roster, warnf func(string, ...any)) {
	if store == nil {
		return
	}
	now := time.Now().UTC()
	for _, req := range reqs {
		idx, ok := decisions[req.ID]
		if !ok {
			continue
		}
		s := ro.Students[idx]
		err := store.Put(req.AliasKey(), aliasdb.Alias{
			SISLoginID: s.SISLoginID,
			Name:       s.Name,
			ResolvedAt: now,
		})
		if err != nil {
			warnf("alias store: %v", err)
		}
	}
}

func listAliases(stdout, stderr io.Writer, path string) int {
	if path == "" {
		_, _ = fmt.Fprintln(stderr, "--list-aliases needs --alias-db (or alias_db in the config)")
		return 2
	}
	store, err := aliasdb.Open(path)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	defer func() { _ = store.Close() }()
	entries, err := store.List()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", e.Key, e.SISLoginID, e.Name, e.ResolvedAt.UTC().Format(time.RFC3339))
	}
	return 0
}

// writeOutput renders doc to path, or to stdout when path is "-".
func writeOutput(path, format string, stdout io.Writer, doc *output.Doc) error {
	if path == "-" {
		return output.Write(format, stdout, doc)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.Write(format, f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
