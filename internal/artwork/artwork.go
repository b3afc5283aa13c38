package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// Palette holds hex colors for the lyric view.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Dim       string
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#8BA4E8",
		Secondary: "#E8A4C8",
		Accent:    "#B8A8E8",
		Dim:       "#6272A4",
	}
}

// Fetch loads album art from an http(s) or file:// url, as found in
// mpris:artUrl.
func Fetch(ctx context.Context, artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if path, ok := strings.CutPrefix(artworkURL, "file://"); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artwork image: %w", err)
		}
		return img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}

	return img, nil
}

type scoredColor struct {
	hex        string
	sat        float64
	brightness float64
	score      float64
}

// ExtractPalette picks readable foreground colors from the dominant colors of
// img, falling back to the default palette.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	// covers are usually framed edge to edge, so keep the borders
	extracted, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, nil)
	if err != nil || len(extracted) < 3 {
		return DefaultPalette()
	}

	scored := make([]scoredColor, 0, len(extracted))
	for _, c := range extracted {
		r := float64(c.Color.R) / 255.0
		g := float64(c.Color.G) / 255.0
		b := float64(c.Color.B) / 255.0

		maxC := math.Max(math.Max(r, g), b)
		minC := math.Min(math.Min(r, g), b)

		var sat float64
		if maxC > 0 {
			sat = (maxC - minC) / maxC
		}

		scored = append(scored, scoredColor{
			hex:        boostColor(c.Color.R, c.Color.G, c.Color.B, maxC),
			sat:        sat,
			brightness: maxC,
			score:      sat * (1.0 - math.Abs(maxC-0.6)),
		})
	}

	palette := DefaultPalette()

	best := -1
	for i, c := range scored {
		if c.brightness > 0.3 && c.sat > 0.2 && (best < 0 || c.score > scored[best].score) {
			best = i
		}
	}
	if best < 0 {
		return palette
	}
	palette.Primary = scored[best].hex

	var rest []string
	for i, c := range scored {
		if i != best && c.hex != palette.Primary && c.brightness > 0.25 && c.sat > 0.1 {
			rest = append(rest, c.hex)
		}
	}
	if len(rest) > 0 {
		palette.Secondary = rest[0]
	}
	if len(rest) > 1 {
		palette.Accent = rest[1]
	}

	return palette
}

func boostColor(r, g, b uint32, brightness float64) string {
	if brightness > 0 && brightness < 0.4 {
		factor := math.Min(0.4/brightness, 2.5)
		r = uint32(math.Min(255, float64(r)*factor))
		g = uint32(math.Min(255, float64(g)*factor))
		b = uint32(math.Min(255, float64(b)*factor))
	}

	if brightness > 0.85 {
		avg := float64(r+g+b) / 3
		r = uint32(avg + (float64(r)-avg)*0.7)
		g = uint32(avg + (float64(g)-avg)*0.7)
		b = uint32(avg + (float64(b)-avg)*0.7)
	}

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RenderHalfBlockArt draws img with "▀" cells, two pixels per cell.
func RenderHalfBlockArt(img image.Image, targetWidth int, targetHeight int) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	resized := resize.Resize(uint(targetWidth), uint(targetHeight*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, targetHeight)

	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := bounds.Min.Y + y*2
		bottomY := topY + 1

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			topR, topG, topB, topA := resized.At(x, topY).RGBA()
			bottomR, bottomG, bottomB, bottomA := resized.At(x, bottomY).RGBA()

			if topA>>8 < 128 && bottomA>>8 < 128 {
				line.WriteString(" ")
				continue
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", topR>>8, topG>>8, topB>>8))).
				Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", bottomR>>8, bottomG>>8, bottomB>>8)))

			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}
