package memdoc

import (
	"image/color"
	"math"

	"github.com/tdewolff/grdrag"
)

// splitRow splits the patch row at t by subdividing every column of nodes that crosses it, inserting a new row of corners.
func splitRow(nodes [][]grdrag.MeshNode, row int, t float64) ([][]grdrag.MeshNode, bool) {
	rows, cols := grdrag.MeshSize(nodes)
	if row < 0 || rows <= row || t <= 0.0 || 1.0 <= t {
		return nodes, false
	}

	r := 3 * row
	width := 3*cols + 1
	inserted := make([][]grdrag.MeshNode, 7)
	for k := range inserted {
		inserted[k] = make([]grdrag.MeshNode, width)
	}
	for j := 0; j < width; j++ {
		n0, n1, n2, n3 := nodes[r][j], nodes[r+1][j], nodes[r+2][j], nodes[r+3][j]
		_, q1, q2, q3, _, r1, r2, _ := grdrag.SplitCubicBezier(n0.Point, n1.Point, n2.Point, n3.Point, t)
		set := n1.Set || n2.Set
		inserted[0][j] = n0
		inserted[1][j] = grdrag.MeshNode{Point: q1, Set: set}
		inserted[2][j] = grdrag.MeshNode{Point: q2, Set: set}
		inserted[3][j] = grdrag.MeshNode{Point: q3, Set: true}
		inserted[4][j] = grdrag.MeshNode{Point: r1, Set: set}
		inserted[5][j] = grdrag.MeshNode{Point: r2, Set: set}
		inserted[6][j] = n3
	}
	// the new corners interpolate the colors of the corners above and below
	for j := 0; j < width; j += 3 {
		inserted[3][j].Color = lerpColor(nodes[r][j].Color, nodes[r+3][j].Color, t)
	}

	out := make([][]grdrag.MeshNode, 0, len(nodes)+3)
	out = append(out, nodes[:r]...)
	out = append(out, inserted...)
	out = append(out, nodes[r+4:]...)
	for i := range out {
		for j := range out[i] {
			out[i][j].Type = grdrag.NodeTypeAt(i, j)
			if out[i][j].Type == grdrag.CornerNode {
				out[i][j].Set = true
			}
		}
	}
	resetUnset(out)
	return out, true
}

func transpose(nodes [][]grdrag.MeshNode) [][]grdrag.MeshNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([][]grdrag.MeshNode, len(nodes[0]))
	for j := range out {
		out[j] = make([]grdrag.MeshNode, len(nodes))
		for i := range nodes {
			out[j][i] = nodes[i][j]
		}
	}
	return out
}

// moveHandles moves the set handles next to a corner by the displacement of the corner from old, and recomputes the handles and tensors that were not set explicitly.
func moveHandles(nodes [][]grdrag.MeshNode, corner int, old grdrag.Point) bool {
	ci, cj, ok := grdrag.MeshPosition(nodes, grdrag.CornerNode, corner)
	if !ok {
		return false
	}
	dp := nodes[ci][cj].Point.Sub(old)
	for _, n := range [4][2]int{{ci - 1, cj}, {ci, cj + 1}, {ci + 1, cj}, {ci, cj - 1}} {
		if n[0] < 0 || len(nodes) <= n[0] || n[1] < 0 || len(nodes[n[0]]) <= n[1] {
			continue
		}
		if node := &nodes[n[0]][n[1]]; node.Set {
			node.Point = node.Point.Add(dp)
		}
	}
	resetUnset(nodes)
	return true
}

// resetUnset places the handles that were not set on the thirds of their edge, and the tensors that were not set where a Coons patch would have them.
func resetUnset(nodes [][]grdrag.MeshNode) {
	rows, cols := grdrag.MeshSize(nodes)
	for i := 0; i <= 3*rows; i++ {
		for j := 0; j <= 3*cols; j++ {
			node := &nodes[i][j]
			if node.Set || grdrag.NodeTypeAt(i, j) != grdrag.HandleNode {
				continue
			}
			if i%3 == 0 {
				a, b := nodes[i][j-j%3].Point, nodes[i][j-j%3+3].Point
				node.Point = a.Interpolate(b, float64(j%3)/3.0)
			} else {
				a, b := nodes[i-i%3][j].Point, nodes[i-i%3+3][j].Point
				node.Point = a.Interpolate(b, float64(i%3)/3.0)
			}
		}
	}
	for pi := 0; pi < rows; pi++ {
		for pj := 0; pj < cols; pj++ {
			r, c := 3*pi, 3*pj
			p := func(i, j int) grdrag.Point {
				return nodes[r+i][c+j].Point
			}
			coons := func(p00, p01, p10, p03, p30, p31, p13, p33 grdrag.Point) grdrag.Point {
				q := p00.Mul(-4.0)
				q = q.Add(p01.Add(p10).Mul(6.0))
				q = q.Sub(p03.Add(p30).Mul(2.0))
				q = q.Add(p31.Add(p13).Mul(3.0))
				q = q.Sub(p33)
				return q.Div(9.0)
			}
			if t := &nodes[r+1][c+1]; !t.Set {
				t.Point = coons(p(0, 0), p(0, 1), p(1, 0), p(0, 3), p(3, 0), p(3, 1), p(1, 3), p(3, 3))
			}
			if t := &nodes[r+1][c+2]; !t.Set {
				t.Point = coons(p(0, 3), p(0, 2), p(1, 3), p(0, 0), p(3, 3), p(3, 2), p(1, 0), p(3, 0))
			}
			if t := &nodes[r+2][c+1]; !t.Set {
				t.Point = coons(p(3, 0), p(3, 1), p(2, 0), p(3, 3), p(0, 0), p(0, 1), p(2, 3), p(0, 3))
			}
			if t := &nodes[r+2][c+2]; !t.Set {
				t.Point = coons(p(3, 3), p(3, 2), p(2, 3), p(3, 0), p(0, 3), p(0, 2), p(2, 0), p(0, 0))
			}
		}
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	f := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return color.NRGBA{f(a.R, b.R), f(a.G, b.G), f(a.B, b.B), f(a.A, b.A)}
}
