package internal

import (
	"fmt"
	"io"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
)

// ComposeLocale returns the locale used for Compose tables
func ComposeLocale(config Configuration) string {
	if config.ComposeLocale != "" {
		return config.ComposeLocale
	}
	return compose.LocaleFromEnv()
}

// LoadComposeTable loads the configured Compose file, or the table of the
// configured locale
func LoadComposeTable(ctx *xkb.Context, config Configuration) (*compose.Table, error) {
	locale := ComposeLocale(config)
	if config.ComposeFile != "" {
		Info("Loading Compose file %s (locale %s)", config.ComposeFile, locale)
		return compose.NewTableFromFile(ctx, config.ComposeFile, locale, compose.FormatTextV1, compose.CompileNoFlags)
	}
	Info("Loading Compose table for locale %s", locale)
	return compose.NewTableFromLocale(ctx, locale, compose.CompileNoFlags)
}

// NewComposeState builds a compose state for the tracers. It returns nil
// when Compose is disabled or the table cannot be loaded.
func NewComposeState(ctx *xkb.Context, config Configuration) *compose.State {
	if config.NoCompose {
		return nil
	}
	table, err := LoadComposeTable(ctx, config)
	if err != nil {
		Warn("Compose disabled: %v", err)
		return nil
	}
	defer table.Unref()

	st, err := compose.NewState(table, compose.StateNoFlags)
	if err != nil {
		Warn("Compose disabled: %v", err)
		return nil
	}
	return st
}

// RunCompose feeds keysyms into st one at a time and records the outcome
// of each step
func RunCompose(st *compose.State, keysyms []xkb.Keysym) []ComposeResult {
	results := make([]ComposeResult, 0, len(keysyms))
	for _, ks := range keysyms {
		r := ComposeResult{Keysym: ks}
		r.Feed = st.Feed(ks)
		r.Status = st.Status()
		if r.Status == compose.StatusComposed {
			r.Text, _ = st.UTF8()
			r.Result, _ = st.Keysym()
		}
		results = append(results, r)
	}
	return results
}

// WriteComposeResults prints one line per fed keysym
func WriteComposeResults(w io.Writer, results []ComposeResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%-16s %-9s %s", r.Keysym, r.Feed, r.Status)
		if r.Status == compose.StatusComposed {
			fmt.Fprintf(w, " %q", r.Text)
			if r.Result != xkb.KeyNoSymbol {
				fmt.Fprintf(w, " %s", r.Result)
			}
		}
		fmt.Fprintln(w)
	}
}
