package internal

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/tuxx/goxkb/xkb"
)

// previewRows is the main block of a PC keyboard by XKB key name. Widths
// are in quarter keys.
var previewRows = [][]previewKey{
	{{"ESC", 4}, {"", 4}, {"FK01", 4}, {"FK02", 4}, {"FK03", 4}, {"FK04", 4}, {"", 2},
		{"FK05", 4}, {"FK06", 4}, {"FK07", 4}, {"FK08", 4}, {"", 2},
		{"FK09", 4}, {"FK10", 4}, {"FK11", 4}, {"FK12", 4}},
	{{"TLDE", 4}, {"AE01", 4}, {"AE02", 4}, {"AE03", 4}, {"AE04", 4}, {"AE05", 4}, {"AE06", 4},
		{"AE07", 4}, {"AE08", 4}, {"AE09", 4}, {"AE10", 4}, {"AE11", 4}, {"AE12", 4}, {"BKSP", 8}},
	{{"TAB", 6}, {"AD01", 4}, {"AD02", 4}, {"AD03", 4}, {"AD04", 4}, {"AD05", 4}, {"AD06", 4},
		{"AD07", 4}, {"AD08", 4}, {"AD09", 4}, {"AD10", 4}, {"AD11", 4}, {"AD12", 4}, {"BKSL", 6}},
	{{"CAPS", 7}, {"AC01", 4}, {"AC02", 4}, {"AC03", 4}, {"AC04", 4}, {"AC05", 4}, {"AC06", 4},
		{"AC07", 4}, {"AC08", 4}, {"AC09", 4}, {"AC10", 4}, {"AC11", 4}, {"RTRN", 9}},
	{{"LFSH", 5}, {"LSGT", 4}, {"AB01", 4}, {"AB02", 4}, {"AB03", 4}, {"AB04", 4}, {"AB05", 4},
		{"AB06", 4}, {"AB07", 4}, {"AB08", 4}, {"AB09", 4}, {"AB10", 4}, {"RTSH", 11}},
	{{"LCTL", 5}, {"LWIN", 5}, {"LALT", 5}, {"SPCE", 25}, {"RALT", 5}, {"RWIN", 5},
		{"MENU", 5}, {"RCTL", 5}},
}

type previewKey struct {
	name  string
	width int
}

const (
	previewUnit   = 14 // pixels per quarter key
	previewRowH   = 64
	previewMargin = 12
)

var (
	previewBackground = color.RGBA{0x20, 0x22, 0x26, 0xff}
	previewKeyFill    = color.RGBA{0x3a, 0x3d, 0x44, 0xff}
	previewKeyMissing = color.RGBA{0x2a, 0x2c, 0x31, 0xff}
	previewBase       = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	previewShift      = color.RGBA{0x8a, 0xc4, 0xff, 0xff}
	previewName       = color.RGBA{0x80, 0x84, 0x8c, 0xff}
)

// PreviewOptions controls RenderPreview
type PreviewOptions struct {
	Layout   xkb.LayoutIndex
	FontPath string // TrueType/OpenType font; empty uses Go Regular
	FontSize float64
}

// RenderPreview draws the first two levels of every key on a PC keyboard
// outline. The second level is drawn above the first.
func RenderPreview(keymap *xkb.Keymap, opts PreviewOptions) (*image.RGBA, error) {
	if uint32(opts.Layout) >= keymap.NumLayouts() {
		return nil, fmt.Errorf("layout %d out of range, keymap has %d", opts.Layout, keymap.NumLayouts())
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	face, err := previewFace(opts)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	small, err := previewFace(PreviewOptions{FontPath: opts.FontPath, FontSize: 9})
	if err != nil {
		return nil, err
	}
	defer small.Close()

	width := 0
	for _, row := range previewRows {
		w := 0
		for _, k := range row {
			w += k.width
		}
		width = max(width, w)
	}
	img := image.NewRGBA(image.Rect(0, 0,
		width*previewUnit+2*previewMargin,
		len(previewRows)*previewRowH+2*previewMargin))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	for r, row := range previewRows {
		x := previewMargin
		y := previewMargin + r*previewRowH
		for _, k := range row {
			rect := image.Rect(x+2, y+2, x+k.width*previewUnit-2, y+previewRowH-2)
			x += k.width * previewUnit
			if k.name == "" {
				continue
			}

			key, ok := keymap.KeyByName(k.name)
			fill := previewKeyFill
			if !ok {
				fill = previewKeyMissing
			}
			draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
			drawText(img, small, previewName, rect.Min.X+4, rect.Max.Y-4, k.name)
			if !ok || uint32(opts.Layout) >= keymap.NumLayoutsForKey(key) {
				continue
			}

			levels := keymap.NumLevelsForKey(key, opts.Layout)
			if levels > 0 {
				base := keyLabel(keymap.KeySymsByLevel(key, opts.Layout, 0))
				drawText(img, face, previewBase, rect.Min.X+4, rect.Max.Y-18, base)
			}
			if levels > 1 {
				shift := keyLabel(keymap.KeySymsByLevel(key, opts.Layout, 1))
				drawText(img, face, previewShift, rect.Min.X+4, rect.Min.Y+int(opts.FontSize)+4, shift)
			}
		}
	}
	return img, nil
}

func previewFace(opts PreviewOptions) (font.Face, error) {
	data := goregular.TTF
	if opts.FontPath != "" {
		var err error
		if data, err = os.ReadFile(opts.FontPath); err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
	}
	ttf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func drawText(img draw.Image, face font.Face, c color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// keyLabel is the text printed for a level: its characters when they are
// printable, otherwise a shortened keysym name
func keyLabel(syms []xkb.Keysym) string {
	if len(syms) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ks := range syms {
		text := xkb.KeysymToUTF8(ks)
		if text == "" || !isPrintable(text) {
			name := ks.String()
			name = strings.TrimPrefix(name, "dead_")
			if len(name) > 6 {
				name = name[:6]
			}
			return name
		}
		b.WriteString(text)
	}
	return b.String()
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// WritePreview renders the keymap and encodes it to w. format is "png" or
// "bmp".
func WritePreview(w io.Writer, keymap *xkb.Keymap, opts PreviewOptions, format string) error {
	img, err := RenderPreview(keymap, opts)
	if err != nil {
		return err
	}
	switch format {
	case "bmp":
		return bmp.Encode(w, img)
	case "png", "":
		return png.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// PreviewFormat picks the image format from a file extension
func PreviewFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	default:
		return "png"
	}
}
