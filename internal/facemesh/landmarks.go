package facemesh

// Landmark names a fixed semantic point on the tracked face.
type Landmark string

const (
	NoseTip       Landmark = "nose_tip"
	ForeheadLeft  Landmark = "forehead_left"
	ForeheadRight Landmark = "forehead_right"
)

// landmarkVertex maps landmark names to vertex indices in the canonical
// face-mesh topology. The forehead entries are the leading vertices of the
// triangles the canonical mesh assigns to those regions (left: 297/299/333,
// right: 67/69/104).
var landmarkVertex = map[Landmark]int{
	NoseTip:       4,
	ForeheadLeft:  297,
	ForeheadRight: 67,
}

// VertexIndex returns the canonical-topology vertex index for the landmark.
func (l Landmark) VertexIndex() (int, bool) {
	idx, ok := landmarkVertex[l]
	return idx, ok
}

// Landmarks returns the known landmark names.
func Landmarks() []Landmark {
	return []Landmark{NoseTip, ForeheadLeft, ForeheadRight}
}

// Region identifies the face regions the tracker reports dedicated poses
// for, in the order they appear in the capture format.
type Region uint8

const (
	RegionNoseTip Region = iota
	RegionForeheadLeft
	RegionForeheadRight
	RegionCount
)

func (r Region) String() string {
	switch r {
	case RegionNoseTip:
		return "NOSE_TIP"
	case RegionForeheadLeft:
		return "FOREHEAD_LEFT"
	case RegionForeheadRight:
		return "FOREHEAD_RIGHT"
	}
	return "UNKNOWN"
}

// RegionForLandmark maps a landmark name to its region pose, for bindings
// that anchor to the tracker's region pose rather than a mesh vertex.
func RegionForLandmark(l Landmark) (Region, bool) {
	switch l {
	case NoseTip:
		return RegionNoseTip, true
	case ForeheadLeft:
		return RegionForeheadLeft, true
	case ForeheadRight:
		return RegionForeheadRight, true
	}
	return RegionCount, false
}
