package x11

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxx/goxkb/xkb"
)

func connectOrSkip(t *testing.T) *Conn {
	t.Helper()
	if err := Load(); err != nil {
		t.Skipf("libxkbcommon-x11 not available: %v", err)
	}
	if os.Getenv("DISPLAY") == "" {
		t.Skip("DISPLAY not set")
	}
	conn, err := Connect("")
	if err != nil {
		t.Skipf("no X server: %v", err)
	}
	t.Cleanup(conn.Close)
	return conn
}

func TestConnect_BadDisplay(t *testing.T) {
	if err := Load(); err != nil {
		t.Skipf("libxkbcommon-x11 not available: %v", err)
	}
	_, err := Connect(":987")
	assert.ErrorIs(t, err, ErrConnection)
}

func TestConnFromRawNotClosed(t *testing.T) {
	conn := ConnFromRaw(0x1234)
	assert.Equal(t, uintptr(0x1234), conn.Raw())
	conn.Close()
	assert.Zero(t, conn.Raw())
}

func TestCoreKeyboard(t *testing.T) {
	conn := connectOrSkip(t)

	ext, err := SetupXkbExtension(conn, MinMajorXkbVersion, MinMinorXkbVersion, SetupNoFlags)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ext.Major, uint16(MinMajorXkbVersion))

	id, err := CoreKeyboardDeviceID(conn)
	require.NoError(t, err)

	ctx, err := xkb.NewContext(xkb.ContextNoFlags)
	require.NoError(t, err)
	defer ctx.Unref()

	km, err := KeymapNewFromDevice(ctx, conn, id, xkb.KeymapCompileNoFlags)
	require.NoError(t, err)
	defer km.Unref()
	assert.NotZero(t, km.NumLayouts())

	st, err := StateNewFromDevice(km, conn, id)
	require.NoError(t, err)
	defer st.Unref()
	assert.Less(t, uint32(st.SerializeLayout(xkb.StateLayoutEffective)), km.NumLayouts())
}
