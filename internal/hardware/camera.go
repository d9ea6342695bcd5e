package hardware

import (
	"image"
	"image/color"
	"sync"
)

// CameraInfo identifies the physical camera module.
type CameraInfo struct {
	Model  string
	Serial string
}

// CameraSource is the base capture capability consumed by the frame pipeline.
// ColorFrame reports false when no frame is currently available; that is a
// transient condition, not an error.
type CameraSource interface {
	ColorFrame() (image.Image, bool)
	Info() CameraInfo
	Width() int
	Height() int
}

// DepthSource is the optional depth capture extension of a camera.
type DepthSource interface {
	DepthFrame() (image.Image, bool)
}

// SimCamera produces synthetic frames without camera hardware. Each color
// frame shifts a gradient by one step so consecutive frames differ.
type SimCamera struct {
	width  int
	height int
	depth  bool

	mu  sync.Mutex
	seq uint8
}

func NewSimCamera(width, height int, depth bool) *SimCamera {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &SimCamera{width: width, height: height, depth: depth}
}

func (c *SimCamera) ColorFrame() (image.Image, bool) {
	c.mu.Lock()
	c.seq++
	offset := c.seq
	c.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x) + offset,
				G: uint8(y),
				B: offset,
				A: 255,
			})
		}
	}
	return img, true
}

func (c *SimCamera) DepthFrame() (image.Image, bool) {
	if !c.depth {
		return nil, false
	}
	img := image.NewGray16(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(1000 + x + y)})
		}
	}
	return img, true
}

func (c *SimCamera) Info() CameraInfo {
	return CameraInfo{Model: "D455-sim", Serial: "simulated"}
}

func (c *SimCamera) Width() int  { return c.width }
func (c *SimCamera) Height() int { return c.height }
