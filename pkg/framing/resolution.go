package framing

import "fmt"

// Resolution is an exact output size in pixels
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resolve computes the output resolution for an object's millimeter
// dimensions. The fractional pixel count truncates: an object never gains
// pixels it does not cover, so a 99.96mm object at 10 px/mm spans 999 px
// plus padding.
func Resolve(widthMM, heightMM float64, spec RenderSpec) Resolution {
	return Resolution{
		Width:  int(widthMM*spec.ScalePxPerMM) + 2*spec.PaddingPx,
		Height: int(heightMM*spec.ScalePxPerMM) + 2*spec.PaddingPx,
	}
}

// AspectRatio returns width over height of the integer pixel counts, which
// is the ratio the output image actually has
func (r Resolution) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
