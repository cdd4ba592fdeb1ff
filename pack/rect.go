package pack

import "image"

// Unplaced is the X and Y value of a rectangle that did not fit.
const Unplaced = -1

// Rect is a packing request.
//
// W and H are inputs. ID is an opaque caller value that Pack never reads,
// typically an index into a side table. X, Y and Placed are outputs.
type Rect struct {
	W, H int
	ID   int

	X, Y   int
	Placed bool
}

// Bounds returns the placed rectangle in atlas coordinates.
// The result is empty for an unplaced rect.
func (r *Rect) Bounds() image.Rectangle {
	if !r.Placed {
		return image.Rectangle{}
	}
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Area returns W*H.
func (r *Rect) Area() int {
	return r.W * r.H
}

// TotalArea returns the summed area of rects.
func TotalArea(rects []Rect) int {
	n := 0
	for i := range rects {
		n += rects[i].Area()
	}
	return n
}
