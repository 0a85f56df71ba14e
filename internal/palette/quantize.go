package palette

import (
	"math/rand"
	"sort"
)

// KMeans clusters sample colors into k dominant colors.
//
// Centroids are seeded with k-means++: the first uniformly, each subsequent
// one weighted by squared distance to its nearest existing centroid. The
// random source is fixed so conversions stay deterministic. Iteration stops
// when no centroid moves more than one unit or after 20 rounds. Empty
// clusters are skipped and do not count toward convergence.
func KMeans(samples []Color, k int) []Color {
	if k <= 0 || len(samples) == 0 {
		return nil
	}
	if len(samples) <= k {
		out := make([]Color, len(samples))
		copy(out, samples)
		return out
	}

	rng := rand.New(rand.NewSource(1))
	centroids := seedPlusPlus(samples, k, rng)

	assign := make([]int, len(samples))
	for iter := 0; iter < 20; iter++ {
		for i, s := range samples {
			best, bestDist := 0, sqDist(s, centroids[0])
			for j := 1; j < len(centroids); j++ {
				if d := sqDist(s, centroids[j]); d < bestDist {
					best, bestDist = j, d
				}
			}
			assign[i] = best
		}

		moved := false
		for j := range centroids {
			var sumR, sumG, sumB, n int
			for i, a := range assign {
				if a != j {
					continue
				}
				sumR += int(samples[i].R)
				sumG += int(samples[i].G)
				sumB += int(samples[i].B)
				n++
			}
			if n == 0 {
				continue // empty cluster: keep the old centroid, no vote
			}
			next := Color{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n), A: 255}
			if absDiff(next.R, centroids[j].R) > 1 ||
				absDiff(next.G, centroids[j].G) > 1 ||
				absDiff(next.B, centroids[j].B) > 1 {
				moved = true
			}
			centroids[j] = next
		}
		if !moved {
			break
		}
	}
	return centroids
}

// seedPlusPlus picks initial centroids with the k-means++ weighting.
func seedPlusPlus(samples []Color, k int, rng *rand.Rand) []Color {
	centroids := []Color{samples[rng.Intn(len(samples))]}
	dist := make([]float64, len(samples))

	for len(centroids) < k {
		total := 0.0
		for i, s := range samples {
			d := sqDist(s, centroids[0])
			for _, c := range centroids[1:] {
				if dd := sqDist(s, c); dd < d {
					d = dd
				}
			}
			dist[i] = d
			total += d
		}
		if total == 0 {
			// All samples coincide with a centroid already.
			centroids = append(centroids, samples[rng.Intn(len(samples))])
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		pick := len(samples) - 1
		for i, d := range dist {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, samples[pick])
	}
	return centroids
}

// MedianCut quantizes sample colors down to at most count representatives.
// Starting from one box holding every sample, the box with the largest
// channel range is split at its median along that channel until the
// requested count is reached or no box can be split further.
func MedianCut(samples []Color, count int) []Color {
	if count <= 0 || len(samples) == 0 {
		return nil
	}
	boxes := [][]Color{append([]Color(nil), samples...)}

	for len(boxes) < count {
		// Pick the splittable box with the largest channel range.
		bestBox, bestRange, bestChannel := -1, -1, 0
		for i, box := range boxes {
			if len(box) < 2 {
				continue
			}
			ch, r := widestChannel(box)
			if r > bestRange {
				bestBox, bestRange, bestChannel = i, r, ch
			}
		}
		if bestBox < 0 || bestRange == 0 {
			break
		}

		box := boxes[bestBox]
		sort.Slice(box, func(i, j int) bool {
			return channel(box[i], bestChannel) < channel(box[j], bestChannel)
		})
		mid := len(box) / 2
		boxes[bestBox] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	out := make([]Color, 0, len(boxes))
	for _, box := range boxes {
		var sumR, sumG, sumB int
		for _, c := range box {
			sumR += int(c.R)
			sumG += int(c.G)
			sumB += int(c.B)
		}
		n := len(box)
		out = append(out, Color{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n), A: 255})
	}
	return out
}

// widestChannel returns the channel index (0=R, 1=G, 2=B) with the largest
// value range in the box, and that range.
func widestChannel(box []Color) (int, int) {
	var min, max [3]int
	for i := range min {
		min[i], max[i] = 255, 0
	}
	for _, c := range box {
		for ch := 0; ch < 3; ch++ {
			v := int(channel(c, ch))
			if v < min[ch] {
				min[ch] = v
			}
			if v > max[ch] {
				max[ch] = v
			}
		}
	}
	bestCh, bestRange := 0, -1
	for ch := 0; ch < 3; ch++ {
		if r := max[ch] - min[ch]; r > bestRange {
			bestCh, bestRange = ch, r
		}
	}
	return bestCh, bestRange
}

func channel(c Color, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

func sqDist(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
