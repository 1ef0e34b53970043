package detector

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// connections lists the landmark pairs joined by a bone in the skeleton overlay.
var connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

var (
	boneColor  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	jointColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	tipColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// DrawSkeleton draws the hand's joints and bones onto frame in place.
func DrawSkeleton(frame *gocv.Mat, hand *HandLandmarks) {
	if frame == nil || hand == nil {
		return
	}

	w, h := frame.Cols(), frame.Rows()
	toPixel := func(p Point3D) image.Point {
		return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}

	for _, c := range connections {
		gocv.Line(frame, toPixel(hand.Points[c[0]]), toPixel(hand.Points[c[1]]), boneColor, 2)
	}

	for i, p := range hand.Points {
		gocv.Circle(frame, toPixel(p), 4, jointColor, -1)
		if i == IndexTip {
			gocv.Circle(frame, toPixel(p), 12, tipColor, -1)
		}
	}
}
