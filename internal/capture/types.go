// Package capture reads and writes recorded face-tracking sessions: the
// per-frame poses, mesh buffers, and camera matrices an AR tracking session
// produces, serialized so the renderer can replay them offline.
package capture

import (
	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/pose"
)

// Face holds one tracked face's state for one frame. Mesh buffers are only
// present while the face is tracking; a paused face carries an identity
// center pose per the tracking contract.
type Face struct {
	State   pose.TrackingState
	Center  pose.Pose
	Regions [facemesh.RegionCount]pose.Pose
	Mesh    facemesh.Mesh
}

// Frame is one tracking update: camera matrices, the light-estimate color
// correction vector, and every face the tracker knew about.
type Frame struct {
	TimestampUS     int64
	ColorCorrection [4]float32 // rgb scale factors + average pixel intensity
	View            [16]float32
	Projection      [16]float32
	Faces           []Face
}

// Capture is a full recorded session.
type Capture struct {
	Frames []Frame
}
