package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dyatelok/chip8/chip8"
)

const windowScale = 10

// gui presents the machine display in a window and collects key
// transitions. It exchanges data with the machine goroutine through a
// handshake: each frame it hands over the tick's key-event batch and
// receives a display snapshot back, so it never touches the machine.
type gui struct {
	r *Runner

	events chan []chip8.KeyEvent
	frames chan []byte

	frame []byte
	img   *ebiten.Image
}

func newGUI(r *Runner) *gui {
	return &gui{
		r:      r,
		events: make(chan []chip8.KeyEvent),
		frames: make(chan []byte),
	}
}

func (g *gui) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	select {
	case <-g.r.done:
		return ebiten.Termination
	case g.events <- readKeys():
	}
	g.frame = <-g.frames
	return nil
}

func (g *gui) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	if g.img == nil {
		g.img = ebiten.NewImage(chip8.Width, chip8.Height)
	}
	g.img.WritePixels(g.frame)
	screen.DrawImage(g.img, nil)
}

func (g *gui) Layout(outerWidth, outerHeight int) (screenWidth, screenHeight int) {
	return chip8.Width, chip8.Height
}

// render rasterizes the display into an RGBA snapshot, on cells dark
// and off cells light.
func render(s *chip8.Screen) []byte {
	pix := make([]byte, chip8.Width*chip8.Height*4)
	i := 0
	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			c := byte(0xff)
			if s.Set(x, y) {
				c = 0x00
			}
			pix[i] = c
			pix[i+1] = c
			pix[i+2] = c
			pix[i+3] = 0xff
			i += 4
		}
	}
	return pix
}
