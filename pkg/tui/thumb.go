package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/stefanpenner/goalpost/pkg/photo"
)

// thumbnail draws img with half blocks, two pixel rows per line, fitting
// it into maxW columns and maxH lines.
func thumbnail(img image.Image, maxW, maxH int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || maxW <= 0 || maxH <= 0 {
		return ""
	}
	w := maxW
	h := b.Dy() * w / b.Dx()
	if h > maxH*2 {
		h = maxH * 2
		w = max(b.Dx()*h/b.Dy(), 1)
	}
	h = max(h+h%2, 2)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top, bot := dst.RGBAAt(x, y), dst.RGBAAt(x, y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bot.R, bot.G, bot.B))).
				Render("▀"))
		}
	}
	return sb.String()
}

// thumbCache keeps rendered thumbnails, since decoding a data URL on every
// frame is slow.
type thumbCache map[string]string

func (c thumbCache) get(id string, idx int, dataURL string, maxW, maxH int) (string, error) {
	k := fmt.Sprintf("%s/%d/%d/%dx%d", id, idx, len(dataURL), maxW, maxH)
	if s, ok := c[k]; ok {
		return s, nil
	}
	img, err := photo.Decode(dataURL)
	if err != nil {
		return "", err
	}
	s := thumbnail(img, maxW, maxH)
	c[k] = s
	return s, nil
}
