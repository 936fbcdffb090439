package grdrag

import "math"

// LineNearestTime returns the parameter t in [0,1] of the point on segment AB closest to P.
func LineNearestTime(a, b, p Point) float64 {
	ab := b.Sub(a)
	d := ab.Dot(ab)
	if equal(d, 0.0) {
		return 0.0
	}
	t := p.Sub(a).Dot(ab) / d
	return math.Max(0.0, math.Min(1.0, t))
}

// CubicBezierPos returns the position on the cubic Bézier at t.
func CubicBezierPos(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(1.0 - 3.0*t + 3.0*t*t - t*t*t)
	p1 = p1.Mul(3.0*t - 6.0*t*t + 3.0*t*t*t)
	p2 = p2.Mul(3.0*t*t - 3.0*t*t*t)
	p3 = p3.Mul(t * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(-3.0 + 6.0*t - 3.0*t*t)
	p1 = p1.Mul(3.0 - 12.0*t + 9.0*t*t)
	p2 = p2.Mul(6.0*t - 9.0*t*t)
	p3 = p3.Mul(3.0 * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv2(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(6.0 - 6.0*t)
	p1 = p1.Mul(18.0*t - 12.0)
	p2 = p2.Mul(6.0 - 18.0*t)
	p3 = p3.Mul(6.0 * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

// SplitCubicBezier splits the cubic Bézier at t and returns the control points of both halves.
func SplitCubicBezier(p0, p1, p2, p3 Point, t float64) (Point, Point, Point, Point, Point, Point, Point, Point) {
	pm := p1.Interpolate(p2, t)

	q0 := p0
	q1 := p0.Interpolate(p1, t)
	q2 := q1.Interpolate(pm, t)

	r3 := p3
	r2 := p2.Interpolate(p3, t)
	r1 := pm.Interpolate(r2, t)

	r0 := q2.Interpolate(r1, t)
	q3 := r0
	return q0, q1, q2, q3, r0, r1, r2, r3
}

// CubicBezierNearestTime returns the parameter t in [0,1] of the point on the cubic Bézier closest to P. The curve is sampled coarsely and the best sample is refined with Newton's method on the squared distance.
func CubicBezierNearestTime(p0, p1, p2, p3, p Point) float64 {
	const samples = 32
	const iterations = 8

	tBest, dBest := 0.0, math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		if d := CubicBezierPos(p0, p1, p2, p3, t).Sub(p).Length(); d < dBest {
			tBest, dBest = t, d
		}
	}

	t := tBest
	for i := 0; i < iterations; i++ {
		q := CubicBezierPos(p0, p1, p2, p3, t).Sub(p)
		d1 := cubicBezierDeriv(p0, p1, p2, p3, t)
		d2 := cubicBezierDeriv2(p0, p1, p2, p3, t)
		num := q.Dot(d1)
		den := d1.Dot(d1) + q.Dot(d2)
		if equal(den, 0.0) {
			break
		}
		tNext := math.Max(0.0, math.Min(1.0, t-num/den))
		if math.Abs(tNext-t) < Epsilon {
			t = tNext
			break
		}
		t = tNext
	}
	if CubicBezierPos(p0, p1, p2, p3, t).Sub(p).Length() < dBest {
		return t
	}
	return tBest
}
