package xkb

// Named keysyms. Letters keep the case of their XKB names: Keya is the
// keysym "a", KeyA is "A".
const (
	// Special
	KeyNoSymbol   Keysym = 0x0000
	KeyVoidSymbol Keysym = 0x00ffffff

	// TTY function keys
	KeyBackSpace  Keysym = 0xff08
	KeyTab        Keysym = 0xff09
	KeyLinefeed   Keysym = 0xff0a
	KeyClear      Keysym = 0xff0b
	KeyReturn     Keysym = 0xff0d
	KeyPause      Keysym = 0xff13
	KeyScrollLock Keysym = 0xff14
	KeySysReq     Keysym = 0xff15
	KeyEscape     Keysym = 0xff1b
	KeyMultiKey   Keysym = 0xff20
	KeyDelete     Keysym = 0xffff

	// Cursor control
	KeyHome       Keysym = 0xff50
	KeyLeft       Keysym = 0xff51
	KeyUp         Keysym = 0xff52
	KeyRight      Keysym = 0xff53
	KeyDown       Keysym = 0xff54
	KeyPageUp     Keysym = 0xff55
	KeyPageDown   Keysym = 0xff56
	KeyEnd        Keysym = 0xff57
	KeyBegin      Keysym = 0xff58
	KeyInsert     Keysym = 0xff63
	KeyMenu       Keysym = 0xff67
	KeyNumLock    Keysym = 0xff7f
	KeyKPEnter    Keysym = 0xff8d
	KeyISOLeftTab Keysym = 0xfe20

	// Function keys
	KeyF1  Keysym = 0xffbe
	KeyF2  Keysym = 0xffbf
	KeyF3  Keysym = 0xffc0
	KeyF4  Keysym = 0xffc1
	KeyF5  Keysym = 0xffc2
	KeyF6  Keysym = 0xffc3
	KeyF7  Keysym = 0xffc4
	KeyF8  Keysym = 0xffc5
	KeyF9  Keysym = 0xffc6
	KeyF10 Keysym = 0xffc7
	KeyF11 Keysym = 0xffc8
	KeyF12 Keysym = 0xffc9

	// Modifiers
	KeyShiftL         Keysym = 0xffe1
	KeyShiftR         Keysym = 0xffe2
	KeyControlL       Keysym = 0xffe3
	KeyControlR       Keysym = 0xffe4
	KeyCapsLock       Keysym = 0xffe5
	KeyShiftLock      Keysym = 0xffe6
	KeyMetaL          Keysym = 0xffe7
	KeyMetaR          Keysym = 0xffe8
	KeyAltL           Keysym = 0xffe9
	KeyAltR           Keysym = 0xffea
	KeySuperL         Keysym = 0xffeb
	KeySuperR         Keysym = 0xffec
	KeyHyperL         Keysym = 0xffed
	KeyHyperR         Keysym = 0xffee
	KeyISOLevel3Shift Keysym = 0xfe03
	KeyISOLevel5Shift Keysym = 0xfe11
	KeyISONextGroup   Keysym = 0xfe08
	KeyISOPrevGroup   Keysym = 0xfe0a
	KeyISOLock        Keysym = 0xfe01

	// Dead keys
	KeyDeadGrave       Keysym = 0xfe50
	KeyDeadAcute       Keysym = 0xfe51
	KeyDeadCircumflex  Keysym = 0xfe52
	KeyDeadTilde       Keysym = 0xfe53
	KeyDeadMacron      Keysym = 0xfe54
	KeyDeadBreve       Keysym = 0xfe55
	KeyDeadAbovedot    Keysym = 0xfe56
	KeyDeadDiaeresis   Keysym = 0xfe57
	KeyDeadAbovering   Keysym = 0xfe58
	KeyDeadDoubleacute Keysym = 0xfe59
	KeyDeadCaron       Keysym = 0xfe5a
	KeyDeadCedilla     Keysym = 0xfe5b
	KeyDeadOgonek      Keysym = 0xfe5c

	// Latin 1
	KeySpace        Keysym = 0x0020
	KeyExclam       Keysym = 0x0021
	KeyQuotedbl     Keysym = 0x0022
	KeyNumbersign   Keysym = 0x0023
	KeyDollar       Keysym = 0x0024
	KeyPercent      Keysym = 0x0025
	KeyAmpersand    Keysym = 0x0026
	KeyApostrophe   Keysym = 0x0027
	KeyParenleft    Keysym = 0x0028
	KeyParenright   Keysym = 0x0029
	KeyAsterisk     Keysym = 0x002a
	KeyPlus         Keysym = 0x002b
	KeyComma        Keysym = 0x002c
	KeyMinus        Keysym = 0x002d
	KeyPeriod       Keysym = 0x002e
	KeySlash        Keysym = 0x002f
	Key0            Keysym = 0x0030
	Key1            Keysym = 0x0031
	Key2            Keysym = 0x0032
	Key3            Keysym = 0x0033
	Key4            Keysym = 0x0034
	Key5            Keysym = 0x0035
	Key6            Keysym = 0x0036
	Key7            Keysym = 0x0037
	Key8            Keysym = 0x0038
	Key9            Keysym = 0x0039
	KeyColon        Keysym = 0x003a
	KeySemicolon    Keysym = 0x003b
	KeyLess         Keysym = 0x003c
	KeyEqual        Keysym = 0x003d
	KeyGreater      Keysym = 0x003e
	KeyQuestion     Keysym = 0x003f
	KeyAt           Keysym = 0x0040
	KeyA            Keysym = 0x0041
	KeyB            Keysym = 0x0042
	KeyC            Keysym = 0x0043
	KeyD            Keysym = 0x0044
	KeyE            Keysym = 0x0045
	KeyF            Keysym = 0x0046
	KeyG            Keysym = 0x0047
	KeyH            Keysym = 0x0048
	KeyI            Keysym = 0x0049
	KeyJ            Keysym = 0x004a
	KeyK            Keysym = 0x004b
	KeyL            Keysym = 0x004c
	KeyM            Keysym = 0x004d
	KeyN            Keysym = 0x004e
	KeyO            Keysym = 0x004f
	KeyP            Keysym = 0x0050
	KeyQ            Keysym = 0x0051
	KeyR            Keysym = 0x0052
	KeyS            Keysym = 0x0053
	KeyT            Keysym = 0x0054
	KeyU            Keysym = 0x0055
	KeyV            Keysym = 0x0056
	KeyW            Keysym = 0x0057
	KeyX            Keysym = 0x0058
	KeyY            Keysym = 0x0059
	KeyZ            Keysym = 0x005a
	KeyBracketleft  Keysym = 0x005b
	KeyBackslash    Keysym = 0x005c
	KeyBracketright Keysym = 0x005d
	KeyAsciicircum  Keysym = 0x005e
	KeyUnderscore   Keysym = 0x005f
	KeyGrave        Keysym = 0x0060
	Keya            Keysym = 0x0061
	Keyb            Keysym = 0x0062
	Keyc            Keysym = 0x0063
	Keyd            Keysym = 0x0064
	Keye            Keysym = 0x0065
	Keyf            Keysym = 0x0066
	Keyg            Keysym = 0x0067
	Keyh            Keysym = 0x0068
	Keyi            Keysym = 0x0069
	Keyj            Keysym = 0x006a
	Keyk            Keysym = 0x006b
	Keyl            Keysym = 0x006c
	Keym            Keysym = 0x006d
	Keyn            Keysym = 0x006e
	Keyo            Keysym = 0x006f
	Keyp            Keysym = 0x0070
	Keyq            Keysym = 0x0071
	Keyr            Keysym = 0x0072
	Keys            Keysym = 0x0073
	Keyt            Keysym = 0x0074
	Keyu            Keysym = 0x0075
	Keyv            Keysym = 0x0076
	Keyw            Keysym = 0x0077
	Keyx            Keysym = 0x0078
	Keyy            Keysym = 0x0079
	Keyz            Keysym = 0x007a
	KeyBraceleft    Keysym = 0x007b
	KeyBar          Keysym = 0x007c
	KeyBraceright   Keysym = 0x007d
	KeyAsciitilde   Keysym = 0x007e

	// Accented Latin 1
	KeyAgrave      Keysym = 0x00c0
	KeyAacute      Keysym = 0x00c1
	KeyAcircumflex Keysym = 0x00c2
	KeyAtilde      Keysym = 0x00c3
	KeyAdiaeresis  Keysym = 0x00c4
	KeyCcedilla    Keysym = 0x00c7
	KeyEgrave      Keysym = 0x00c8
	KeyEacute      Keysym = 0x00c9
	KeyNtilde      Keysym = 0x00d1
	KeyOacute      Keysym = 0x00d3
	KeyOdiaeresis  Keysym = 0x00d6
	KeyUacute      Keysym = 0x00da
	KeyUdiaeresis  Keysym = 0x00dc
	KeySsharp      Keysym = 0x00df
	Keyagrave      Keysym = 0x00e0
	Keyaacute      Keysym = 0x00e1
	Keyacircumflex Keysym = 0x00e2
	Keyatilde      Keysym = 0x00e3
	Keyadiaeresis  Keysym = 0x00e4
	Keyccedilla    Keysym = 0x00e7
	Keyegrave      Keysym = 0x00e8
	Keyeacute      Keysym = 0x00e9
	Keyntilde      Keysym = 0x00f1
	Keyoacute      Keysym = 0x00f3
	Keyodiaeresis  Keysym = 0x00f6
	Keyuacute      Keysym = 0x00fa
	Keyudiaeresis  Keysym = 0x00fc
	KeyEuroSign    Keysym = 0x20ac

	// XF86 media keys
	KeyXF86AudioLowerVolume Keysym = 0x1008ff11
	KeyXF86AudioMute        Keysym = 0x1008ff12
	KeyXF86AudioRaiseVolume Keysym = 0x1008ff13
)
