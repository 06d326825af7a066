//go:build tinygo

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"github.com/sparques/irbadge/badge"
)

// pixel shows the badge colour on a single WS2812.
type pixel struct {
	dev  ws2812.Device
	leds [1]color.RGBA
}

func newPixel(pin machine.Pin) *pixel {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &pixel{dev: ws2812.New(pin)}
}

func (p *pixel) SetColour(colour uint8) {
	r, g, b := badge.RGB(colour)
	p.leds[0] = color.RGBA{R: r, G: g, B: b, A: 255}
	_ = p.dev.WriteColors(p.leds[:])
}
