package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tuxx/goxkb/internal"
	"github.com/tuxx/goxkb/xkb"
)

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [args]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  compile [-verify] [-describe] [-o file]  print the compiled keymap")
	fmt.Fprintln(out, "  how-to-type KEYSYM...                     list the keys producing each keysym")
	fmt.Fprintln(out, "  compose KEYSYM...                         feed keysyms to the Compose table")
	fmt.Fprintln(out, "  trace [-backend auto|wayland|x11|evdev]   trace key presses")
	fmt.Fprintln(out, "  preview -o file [-layout N] [-font file]  draw the keymap as PNG or BMP")
	fmt.Fprintln(out, "  gen-config                                write the default config file")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	// Parse command-line flags
	configPath := flag.String("c", "", "Path to configuration file")
	flag.StringVar(configPath, "config", "", "Path to configuration file")

	keymapPath := flag.String("keymap", "", "Compile this keymap file instead of RMLVO names")
	rules := flag.String("rules", "", "XKB rules")
	model := flag.String("model", "", "XKB model")
	layout := flag.String("layout", "", "XKB layout(s)")
	variant := flag.String("variant", "", "XKB variant(s)")
	options := flag.String("options", "", "XKB options; pass an empty value for none")
	localed := flag.Bool("localed", false, "Fill empty names from systemd-localed")
	var includes stringList
	flag.Var(&includes, "include", "Extra XKB include path (repeatable)")

	// Add debug mode flag
	debugMode := flag.Bool("log", false, "Enable debug logging")

	flag.Usage = usage
	flag.Parse()

	internal.InitLogger(internal.LevelInfo, *debugMode)

	config := internal.DefaultConfig()
	if *configPath == "" {
		if defaultConfigPath, err := internal.DefaultConfigPath(); err == nil {
			if _, err := os.Stat(defaultConfigPath); err == nil {
				internal.Debug("Using default config file: %s", defaultConfigPath)
				*configPath = defaultConfigPath
			}
		}
	}
	if *configPath != "" {
		if err := internal.LoadConfig(*configPath, &config); err != nil {
			internal.Fatal("Failed to load config: %v", err)
		}
	}

	level, err := internal.ParseLogLevel(config.LogLevel)
	if err != nil {
		level = internal.LevelInfo
	}
	internal.InitLogger(level, *debugMode)

	// Command line overrides the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rules":
			config.Rules = *rules
		case "model":
			config.Model = *model
		case "layout":
			config.Layout = *layout
		case "variant":
			config.Variant = *variant
		case "options":
			config.Options = xkb.StringOption(*options)
		case "localed":
			config.UseLocaled = *localed
		}
	})
	config.IncludePaths = append(config.IncludePaths, includes...)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, args := args[0], args[1:]

	if cmd == "gen-config" {
		path, err := internal.GenerateDefaultConfigFile()
		if err != nil {
			internal.Fatal("Failed to generate config: %v", err)
		}
		fmt.Println(path)
		return
	}

	if err := xkb.Load(); err != nil {
		internal.Fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "compile":
		err = runCompile(config, *keymapPath, args)
	case "how-to-type":
		err = runHowToType(config, *keymapPath, args)
	case "compose":
		err = runCompose(config, args)
	case "trace":
		err = runTrace(ctx, config, *keymapPath, args)
	case "preview":
		err = runPreview(config, *keymapPath, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		internal.Fatal("%s: %v", cmd, err)
	}
}

// withKeymap creates a context and keymap for the duration of fn
func withKeymap(config internal.Configuration, keymapPath string, fn func(*xkb.Context, *xkb.Keymap) error) error {
	ctx, err := internal.NewContext(config)
	if err != nil {
		return err
	}
	defer ctx.Unref()

	keymap, err := internal.LoadKeymap(ctx, config, keymapPath)
	if err != nil {
		return err
	}
	defer keymap.Unref()
	return fn(ctx, keymap)
}

func runCompile(config internal.Configuration, keymapPath string, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	verify := fs.Bool("verify", false, "Compile the output again and compare")
	describe := fs.Bool("describe", false, "Print a summary instead of the keymap")
	output := fs.String("o", "", "Write to this file instead of stdout")
	fs.Parse(args)

	return withKeymap(config, keymapPath, func(ctx *xkb.Context, keymap *xkb.Keymap) error {
		w := os.Stdout
		if *output != "" {
			f, err := os.Create(*output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if *describe {
			internal.DescribeKeymap(w, keymap)
			return nil
		}
		return internal.DumpKeymap(w, ctx, keymap, *verify)
	})
}

func runHowToType(config internal.Configuration, keymapPath string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing keysym")
	}
	return withKeymap(config, keymapPath, func(_ *xkb.Context, keymap *xkb.Keymap) error {
		for i, arg := range args {
			target, err := internal.ParseKeysym(arg)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Println()
			}
			internal.WriteCombos(os.Stdout, keymap, target, internal.HowToType(keymap, target))
		}
		return nil
	})
}

func runCompose(config internal.Configuration, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing keysym")
	}
	keysyms := make([]xkb.Keysym, 0, len(args))
	for _, arg := range args {
		ks, err := internal.ParseKeysym(arg)
		if err != nil {
			return err
		}
		keysyms = append(keysyms, ks)
	}

	ctx, err := internal.NewContext(config)
	if err != nil {
		return err
	}
	defer ctx.Unref()

	config.NoCompose = false
	st := internal.NewComposeState(ctx, config)
	if st == nil {
		return fmt.Errorf("no Compose table for locale %s", internal.ComposeLocale(config))
	}
	defer st.Unref()

	internal.WriteComposeResults(os.Stdout, internal.RunCompose(st, keysyms))
	return nil
}

func runTrace(ctx context.Context, config internal.Configuration, keymapPath string, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	backend := fs.String("backend", "auto", "auto, wayland, x11 or evdev")
	device := fs.String("device", "", "evdev device (overrides evdev_device)")
	grab := fs.Bool("grab", config.Grab, "Grab the keyboard")
	fs.Parse(args)

	if *device != "" {
		config.EvdevDevice = *device
	}
	config.Grab = *grab
	if *backend == "auto" {
		*backend = DetectDisplayServer()
	}
	internal.Info("Tracing with the %s backend", *backend)

	xctx, err := internal.NewContext(config)
	if err != nil {
		return err
	}
	defer xctx.Unref()

	composeState := internal.NewComposeState(xctx, config)
	if composeState != nil {
		defer composeState.Unref()
	}

	switch *backend {
	case "wayland":
		t, err := internal.NewWaylandTracer(xctx, config, composeState, os.Stdout)
		if err != nil {
			return err
		}
		defer t.Close()
		if err := t.Init(); err != nil {
			return err
		}
		return t.Run(ctx)

	case "x11":
		t, err := internal.NewX11Tracer(xctx, config, composeState, os.Stdout)
		if err != nil {
			return err
		}
		defer t.Close()
		if err := t.Init(); err != nil {
			return err
		}
		return t.Run(ctx)

	case "evdev":
		keymap, err := internal.LoadKeymap(xctx, config, keymapPath)
		if err != nil {
			return err
		}
		defer keymap.Unref()
		state, err := xkb.NewState(keymap)
		if err != nil {
			return err
		}
		defer state.Unref()
		mode, err := internal.ParseConsumedMode(config.ConsumedMode)
		if err != nil {
			return err
		}
		tracer := internal.NewTracer(state, composeState, mode, os.Stdout)
		defer tracer.Close()

		t, err := internal.NewEvdevTracer(config, tracer)
		if err != nil {
			return err
		}
		return t.RunLoop(ctx)
	}
	return fmt.Errorf("unknown backend %q", *backend)
}

func runPreview(config internal.Configuration, keymapPath string, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	output := fs.String("o", "keymap.png", "Output image (.png or .bmp)")
	layout := fs.Uint("layout", 0, "Layout index")
	fontPath := fs.String("font", "", "TrueType/OpenType font file")
	size := fs.Float64("size", 14, "Font size in points")
	fs.Parse(args)

	return withKeymap(config, keymapPath, func(_ *xkb.Context, keymap *xkb.Keymap) error {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		opts := internal.PreviewOptions{
			Layout:   xkb.LayoutIndex(*layout),
			FontPath: *fontPath,
			FontSize: *size,
		}
		if err := internal.WritePreview(f, keymap, opts, internal.PreviewFormat(*output)); err != nil {
			f.Close()
			os.Remove(*output)
			return err
		}
		internal.Info("Wrote %s", *output)
		return f.Close()
	})
}

// DetectDisplayServer picks the trace backend for the current session
func DetectDisplayServer() string {
	// Check for Wayland session
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}

	// Check for X11 session
	if os.Getenv("DISPLAY") != "" || os.Getenv("XDG_SESSION_TYPE") == "x11" {
		return "x11"
	}

	// Console: read the device directly
	return "evdev"
}
