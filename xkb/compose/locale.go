package compose

import "os"

// LocaleFromEnv picks the locale the way setlocale(LC_CTYPE, "") would:
// LC_ALL, then LC_CTYPE, then LANG, then "C".
func LocaleFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "C"
}
