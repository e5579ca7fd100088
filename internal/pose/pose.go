// Package pose holds the rigid-transform types the face tracker reports and
// the landmark placement math the overlay renderer runs once per tracked face
// per frame.
package pose

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"

	"arface-renderer/internal/mathutil"
)

// Pose is an immutable per-frame snapshot of a tracked object's orientation
// (unit quaternion, x y z w) and position (meters).
type Pose struct {
	Rotation    mathutil.Quat
	Translation mathutil.Vec3
}

// Identity returns the pose with no rotation and zero translation. Trackers
// report this for faces in the paused state.
func Identity() Pose {
	return Pose{Rotation: mathutil.QuatIdentity()}
}

// quatNormTolerance is how far the rotation magnitude may deviate from 1
// before the pose is rejected as malformed.
const quatNormTolerance = 1e-4

// Validate checks the pose against the tracking input contract: all
// components finite, rotation normalized within tolerance.
func (p Pose) Validate() error {
	if !p.Rotation.IsFinite() {
		return &InvalidInputError{Reason: "non-finite rotation component"}
	}
	if !p.Translation.IsFinite() {
		return &InvalidInputError{Reason: "non-finite translation component"}
	}
	n := p.Rotation.Norm()
	if n-1 > quatNormTolerance || 1-n > quatNormTolerance {
		return &InvalidInputError{Reason: fmt.Sprintf("quaternion magnitude %g, want 1", n)}
	}
	return nil
}

// Matrix returns the pose as a rigid 4×4 transform without validation.
// Callers that accept external input should Validate first or use
// LandmarkTransform.
func (p Pose) Matrix() mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.QuatToMat3(p.Rotation.Normalize()), p.Translation)
}

// RotateVec rotates v by the pose orientation (q v q*).
func (p Pose) RotateVec(v mathutil.Vec3) mathutil.Vec3 {
	q := toNumber(p.Rotation)
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v[0], Jmag: v[1], Kmag: v[2]}), quat.Conj(q))
	return mathutil.Vec3{r.Imag, r.Jmag, r.Kmag}
}

// TransformPoint maps a point from the pose's local frame to world space.
func (p Pose) TransformPoint(v mathutil.Vec3) mathutil.Vec3 {
	return p.Translation.Add(p.RotateVec(v))
}

// Mul composes two poses: the result maps points through o first, then p.
func (p Pose) Mul(o Pose) Pose {
	q := quat.Mul(toNumber(p.Rotation), toNumber(o.Rotation))
	return Pose{
		Rotation:    fromNumber(q),
		Translation: p.TransformPoint(o.Translation),
	}
}

// LandmarkTransform places an accessory at a facial landmark: it composes the
// reference pose's rotation with the world point referencePose.Translation +
// localOffset into a rigid 4×4 model matrix.
//
// The offset is added to the pose translation without being rotated by the
// pose orientation: mesh-vertex offsets from the tracker are already
// expressed in the same frame as the pose translation.
//
// Returns InvalidInputError for a degenerate or denormalized quaternion and
// for any non-finite input component. Pure function, no retained state.
func LandmarkTransform(referencePose Pose, localOffset mathutil.Vec3) (mathutil.Mat4, error) {
	if err := referencePose.Validate(); err != nil {
		return mathutil.Mat4{}, err
	}
	if !localOffset.IsFinite() {
		return mathutil.Mat4{}, &InvalidInputError{Reason: "non-finite offset component"}
	}

	world := referencePose.Translation.Add(localOffset)
	rot := mathutil.QuatToMat3(referencePose.Rotation.Normalize())
	return mathutil.FromMat3Translation(rot, world), nil
}

func toNumber(q mathutil.Quat) quat.Number {
	return quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}
}

func fromNumber(q quat.Number) mathutil.Quat {
	return mathutil.Quat{q.Imag, q.Jmag, q.Kmag, q.Real}
}
