package internal

import (
	"bytes"
	_ "embed"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
)

//go:embed testdata/test.xkb
var testKeymap string

const (
	testKeymapPath  = "testdata/test.xkb"
	testComposePath = "testdata/Compose"
)

// Keycodes in testdata/test.xkb
const (
	testKeyEsc   xkb.Keycode = 9
	testKey1     xkb.Keycode = 10
	testKeyA     xkb.Keycode = 38
	testKeyAcute xkb.Keycode = 48
	testKeyShift xkb.Keycode = 50
	testKeyCaps  xkb.Keycode = 66
)

func skipWithoutLibrary(t *testing.T) {
	t.Helper()
	if err := xkb.Load(); err != nil {
		t.Skipf("libxkbcommon not available: %v", err)
	}
}

// testConfig never touches the system XKB data or environment
func testConfig() Configuration {
	config := DefaultConfig()
	config.NoDefaultIncludes = true
	config.NoEnvironmentNames = true
	return config
}

func newTestContext(t *testing.T) *xkb.Context {
	t.Helper()
	skipWithoutLibrary(t)
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)
	t.Cleanup(ctx.Unref)
	return ctx
}

func newTestKeymap(t *testing.T) *xkb.Keymap {
	t.Helper()
	ctx := newTestContext(t)
	km, err := xkb.NewKeymapFromString(ctx, testKeymap, xkb.KeymapFormatTextV1, xkb.KeymapCompileNoFlags)
	require.NoError(t, err)
	t.Cleanup(km.Unref)
	return km
}

func newTestComposeState(t *testing.T, ctx *xkb.Context) *compose.State {
	t.Helper()
	config := testConfig()
	config.ComposeFile = testComposePath
	config.ComposeLocale = "C"
	st := NewComposeState(ctx, config)
	require.NotNil(t, st)
	t.Cleanup(st.Unref)
	return st
}

// newTestTracer returns a tracer over a fresh state of the test keymap,
// writing to the returned buffer
func newTestTracer(t *testing.T, composeState *compose.State) (*Tracer, *bytes.Buffer) {
	t.Helper()
	km := newTestKeymap(t)
	st, err := xkb.NewState(km)
	require.NoError(t, err)
	t.Cleanup(st.Unref)

	var out bytes.Buffer
	tracer := NewTracer(st, composeState, xkb.ConsumedModeXKB, &out)
	t.Cleanup(tracer.Close)
	return tracer, &out
}

// captureLogs sends log output to a buffer for the rest of the test
func captureLogs(t *testing.T, level LogLevel, debug bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogOutput(&buf)
	InitLogger(level, debug)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		InitLogger(LevelInfo, false)
	})
	return &buf
}
