package surface

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

type faceKey struct {
	bold   bool
	italic bool
	size   float64
}

// fontCache resolves theme fonts onto the embedded Go font family. CSS
// family lists are not resolved against system fonts.
type fontCache struct {
	mu      sync.Mutex
	sources map[[2]bool]*text.FontSource
	faces   map[faceKey]text.Face
}

var defaultFonts = &fontCache{
	sources: make(map[[2]bool]*text.FontSource),
	faces:   make(map[faceKey]text.Face),
}

func (c *fontCache) face(f theme.Font) (text.Face, error) {
	key := faceKey{bold: isBold(f.Weight), italic: isItalic(f.Style), size: f.Size}
	if key.size <= 0 {
		key.size = 12
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if face, ok := c.faces[key]; ok {
		return face, nil
	}

	variant := [2]bool{key.bold, key.italic}
	src, ok := c.sources[variant]
	if !ok {
		var err error
		src, err = text.NewFontSource(fontData(key.bold, key.italic))
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		c.sources[variant] = src
	}

	face := src.Face(key.size)
	c.faces[key] = face
	return face, nil
}

func fontData(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func isBold(weight string) bool {
	w := strings.ToLower(strings.TrimSpace(weight))
	switch w {
	case "bold", "bolder":
		return true
	}
	if n, err := strconv.Atoi(w); err == nil {
		return n >= 600
	}
	return false
}

func isItalic(style string) bool {
	s := strings.ToLower(strings.TrimSpace(style))
	return s == "italic" || s == "oblique"
}
