// Package sim generates synthetic touch contacts for demos and tests.
package sim

import (
	"math/rand"

	"kuldippatel.dev/touchtrack/mt"
)

const minPointCount = 2

// Swipe returns the points of a straight stroke from start to end, both
// included, with consecutive points at most maxStep apart on either axis.
func Swipe(start, end mt.Pos, maxStep int32) []mt.Pos {
	if maxStep <= 0 {
		maxStep = 1
	}
	dX := int64(end.X) - int64(start.X)
	dY := int64(end.Y) - int64(start.Y)

	xCount := ceilDiv(i64Abs(dX), int64(maxStep))
	yCount := ceilDiv(i64Abs(dY), int64(maxStep))
	count := i64Max(xCount, yCount)
	count = i64Max(count, minPointCount)

	points := make([]mt.Pos, 0, count+1)
	for i := int64(0); i <= count; i++ {
		points = append(points, mt.Pos{
			X: start.X + int32(dX*i/count),
			Y: start.Y + int32(dY*i/count),
		})
	}
	return points
}

// Jitter moves p by up to amp in each direction, like a noisy sensor.
func Jitter(rng *rand.Rand, p mt.Pos, amp int32) mt.Pos {
	if amp <= 0 {
		return p
	}
	//rand(max - min) - min, Range: [-amp, amp]
	return mt.Pos{
		X: p.X + rng.Int31n(2*amp+1) - amp,
		Y: p.Y + rng.Int31n(2*amp+1) - amp,
	}
}

// Finger is one contact following Path, landing at frame Start.
type Finger struct {
	Path  []mt.Pos
	Start int
	Tool  int32
}

// Gesture is a set of fingers replayed together.
type Gesture []Finger

// Len returns the number of frames the gesture spans.
func (g Gesture) Len() int {
	n := 0
	for _, f := range g {
		n = intMax(n, f.Start+len(f.Path))
	}
	return n
}

// Frames returns the unindexed contact list of every frame. With a non-nil
// rng each frame's contacts are shuffled, since hardware without slots
// reports contacts in no particular order.
func (g Gesture) Frames(rng *rand.Rand) [][]mt.Contact {
	frames := make([][]mt.Contact, g.Len())
	for i := range frames {
		var cs []mt.Contact
		for _, f := range g {
			k := i - f.Start
			if k < 0 || k >= len(f.Path) {
				continue
			}
			cs = append(cs, mt.Contact{Pos: f.Path[k], Tool: f.Tool})
		}
		if rng != nil {
			rng.Shuffle(len(cs), func(a, b int) { cs[a], cs[b] = cs[b], cs[a] })
		}
		frames[i] = cs
	}
	return frames
}

// RandomGesture builds fingers swiping between random points inside a
// width x height surface.
func RandomGesture(rng *rand.Rand, fingers int, width, height, maxStep, jitter int32) Gesture {
	g := make(Gesture, fingers)
	for i := range g {
		start := mt.Pos{X: rng.Int31n(width), Y: rng.Int31n(height)}
		end := mt.Pos{X: rng.Int31n(width), Y: rng.Int31n(height)}
		path := Swipe(start, end, maxStep)
		for k := range path {
			path[k] = Jitter(rng, path[k], jitter)
		}
		g[i] = Finger{Path: path, Start: rng.Intn(len(path))}
	}
	return g
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func i64Abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}

func i64Max(a int64, b int64) int64 {
	if a < b {
		return b
	}
	return a
}

func intMax(a, b int) int {
	if a < b {
		return b
	}
	return a
}
