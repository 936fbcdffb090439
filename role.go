package grdrag

import "strconv"

// Kind is the kind of paint server that fills or strokes an item.
type Kind int

// see Kind
const (
	NoGradient Kind = iota
	Linear
	Radial
	Mesh
)

func (k Kind) String() string {
	switch k {
	case NoGradient:
		return "NoGradient"
	case Linear:
		return "Linear"
	case Radial:
		return "Radial"
	case Mesh:
		return "Mesh"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Target selects one of the two paintable channels of an item.
type Target int

// see Target
const (
	Fill Target = iota
	Stroke
)

// Targets lists the paintable channels in the order they are visited.
var Targets = [2]Target{Fill, Stroke}

func (t Target) String() string {
	switch t {
	case Fill:
		return "Fill"
	case Stroke:
		return "Stroke"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Role is the role a control point plays within its gradient.
type Role int

// see Role
const (
	LinearBegin Role = iota
	LinearEnd
	LinearMid
	RadialCenter
	RadialR1
	RadialR2
	RadialFocus
	RadialMid1
	RadialMid2
	MeshCorner
	MeshHandle
	MeshTensor
)

func (r Role) String() string {
	switch r {
	case LinearBegin:
		return "LinearBegin"
	case LinearEnd:
		return "LinearEnd"
	case LinearMid:
		return "LinearMid"
	case RadialCenter:
		return "RadialCenter"
	case RadialR1:
		return "RadialR1"
	case RadialR2:
		return "RadialR2"
	case RadialFocus:
		return "RadialFocus"
	case RadialMid1:
		return "RadialMid1"
	case RadialMid2:
		return "RadialMid2"
	case MeshCorner:
		return "MeshCorner"
	case MeshHandle:
		return "MeshHandle"
	case MeshTensor:
		return "MeshTensor"
	}
	return "Invalid(" + strconv.Itoa(int(r)) + ")"
}

// Kind returns the kind of gradient the role belongs to.
func (r Role) Kind() Kind {
	switch r {
	case LinearBegin, LinearEnd, LinearMid:
		return Linear
	case RadialCenter, RadialR1, RadialR2, RadialFocus, RadialMid1, RadialMid2:
		return Radial
	case MeshCorner, MeshHandle, MeshTensor:
		return Mesh
	}
	return NoGradient
}

// IsMid is true for interior stops, which never merge with other points.
func (r Role) IsMid() bool {
	return r == LinearMid || r == RadialMid1 || r == RadialMid2
}

// IsMesh is true for mesh nodes.
func (r Role) IsMesh() bool {
	return r == MeshCorner || r == MeshHandle || r == MeshTensor
}

// Description is a short human readable name of the role.
func (r Role) Description() string {
	switch r {
	case LinearBegin:
		return "Linear gradient start"
	case LinearEnd:
		return "Linear gradient end"
	case LinearMid:
		return "Linear gradient mid stop"
	case RadialCenter:
		return "Radial gradient center"
	case RadialR1, RadialR2:
		return "Radial gradient radius"
	case RadialFocus:
		return "Radial gradient focus"
	case RadialMid1, RadialMid2:
		return "Radial gradient mid stop"
	case MeshCorner:
		return "Mesh gradient corner"
	case MeshHandle:
		return "Mesh gradient handle"
	case MeshTensor:
		return "Mesh gradient tensor"
	}
	return r.String()
}

// Shape returns the marker shape used to draw a point of this role.
func (r Role) Shape() Shape {
	switch r {
	case LinearBegin, RadialCenter:
		return SquareShape
	case LinearEnd, RadialR1, RadialR2, MeshHandle:
		return CircleShape
	case RadialFocus:
		return CrossShape
	case MeshTensor:
		return TriangleShape
	}
	return DiamondShape
}

// Shape is the outline of an on-canvas marker.
type Shape int

// see Shape
const (
	SquareShape Shape = iota
	CircleShape
	DiamondShape
	CrossShape
	TriangleShape
)

func (s Shape) String() string {
	switch s {
	case SquareShape:
		return "Square"
	case CircleShape:
		return "Circle"
	case DiamondShape:
		return "Diamond"
	case CrossShape:
		return "Cross"
	case TriangleShape:
		return "Triangle"
	}
	return "Invalid(" + strconv.Itoa(int(s)) + ")"
}

// NodeType is the type of a node in a mesh gradient's node grid.
type NodeType int

// see NodeType
const (
	CornerNode NodeType = iota
	HandleNode
	TensorNode
)

func (t NodeType) String() string {
	switch t {
	case CornerNode:
		return "Corner"
	case HandleNode:
		return "Handle"
	case TensorNode:
		return "Tensor"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Role returns the draggable role of nodes of this type.
func (t NodeType) Role() Role {
	switch t {
	case HandleNode:
		return MeshHandle
	case TensorNode:
		return MeshTensor
	}
	return MeshCorner
}

// NodeTypeAt returns the node type at a grid position, which follows from the position alone: corners sit on rows and columns that are multiples of three, handles on the edges in between and tensors inside.
func NodeTypeAt(row, col int) NodeType {
	r, c := row%3 == 0, col%3 == 0
	if r && c {
		return CornerNode
	} else if r || c {
		return HandleNode
	}
	return TensorNode
}
