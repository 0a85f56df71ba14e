package edge

import "github.com/mjsolidarios/image-cad-to-svg/internal/raster"

// Thin reduces a binary mask to a one-pixel-wide skeleton using the
// Zhang–Suen thinning algorithm.
//
// The algorithm alternates two sub-iterations until neither deletes a pixel.
// For each foreground pixel P1, its 8 neighbors P2..P9 are numbered clockwise
// starting from north:
//
//	P9 P2 P3
//	P8 P1 P4
//	P7 P6 P5
//
// A pixel is deleted when A(P1) == 1, 2 <= B(P1) <= 6, and the sub-iteration's
// directional products are zero, where A is the number of 0->1 transitions in
// the cyclic sequence P2..P9,P2 and B is the neighbor sum. Deletions are
// applied simultaneously after each sub-iteration, which is what keeps the
// result independent of scan order.
//
// Thinning an already thinned mask is a no-op.
func Thin(mask *raster.Mask) *raster.Mask {
	w, h := mask.Width, mask.Height
	cur := make([]uint8, w*h)
	for i, v := range mask.Pix {
		if v > 0 {
			cur[i] = 1
		}
	}

	at := func(x, y int) uint8 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return cur[y*w+x]
	}

	var marks []int
	for {
		changed := false
		for sub := 0; sub < 2; sub++ {
			marks = marks[:0]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if cur[y*w+x] == 0 {
						continue
					}
					p2 := at(x, y-1)
					p3 := at(x+1, y-1)
					p4 := at(x+1, y)
					p5 := at(x+1, y+1)
					p6 := at(x, y+1)
					p7 := at(x-1, y+1)
					p8 := at(x-1, y)
					p9 := at(x-1, y-1)

					b := int(p2) + int(p3) + int(p4) + int(p5) + int(p6) + int(p7) + int(p8) + int(p9)
					if b < 2 || b > 6 {
						continue
					}
					if transitions(p2, p3, p4, p5, p6, p7, p8, p9) != 1 {
						continue
					}
					if sub == 0 {
						if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
							continue
						}
					} else {
						if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
							continue
						}
					}
					marks = append(marks, y*w+x)
				}
			}
			for _, i := range marks {
				cur[i] = 0
			}
			if len(marks) > 0 {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := raster.NewMask(w, h)
	for i, v := range cur {
		if v != 0 {
			out.Pix[i] = 255
		}
	}
	return out
}

// transitions counts 0->1 steps in the cyclic neighbor sequence P2..P9,P2.
func transitions(ps ...uint8) int {
	n := 0
	for i := range ps {
		if ps[i] == 0 && ps[(i+1)%len(ps)] == 1 {
			n++
		}
	}
	return n
}
