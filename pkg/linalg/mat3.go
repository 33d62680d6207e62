// Package linalg provides the linear-algebra helpers shared by the geometry
// and simulation packages.
//
// Convention: points are column vectors. Apply(M, v) computes M·v and
// Combine(A, B) computes A·B, so applying Combine(A, B) equals applying B
// first, then A. Every arena transform is built against this one convention;
// mixing in the row-vector form silently mirrors geometry.
package linalg

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewMat3 builds a Mat3 from row-major arguments, so literals read like
// written mathematics. mgl32 stores matrices in column-major order.
func NewMat3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float32) mgl32.Mat3 {
	return mgl32.Mat3{
		m00, m10, m20,
		m01, m11, m21,
		m02, m12, m22,
	}
}

// FlipX returns the reflection across the YZ plane.
func FlipX() mgl32.Mat3 {
	return mgl32.Diag3(mgl32.Vec3{-1, 1, 1})
}

// FlipY returns the reflection across the XZ plane.
func FlipY() mgl32.Mat3 {
	return mgl32.Diag3(mgl32.Vec3{1, -1, 1})
}

// Scaling returns a uniform scaling matrix.
func Scaling(s float32) mgl32.Mat3 {
	return mgl32.Diag3(mgl32.Vec3{s, s, s})
}

// Combine composes two transforms into one.
func Combine(a, b mgl32.Mat3) mgl32.Mat3 {
	return a.Mul3(b)
}

// Apply transforms the point v by m.
func Apply(m mgl32.Mat3, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul3x1(v)
}

// AxisRotation converts an axis-angle vector (direction = rotation axis,
// length = angle in radians) to a rotation matrix using Rodrigues' formula.
// The zero vector yields the identity.
func AxisRotation(omega mgl32.Vec3) mgl32.Mat3 {
	angle := omega.Len()
	if angle < 1e-8 {
		return mgl32.Ident3()
	}
	u := omega.Mul(1 / angle)
	c := float32(gomath.Cos(float64(angle)))
	s := float32(gomath.Sin(float64(angle)))
	t := 1 - c

	return NewMat3(
		c+u.X()*u.X()*t, u.X()*u.Y()*t-u.Z()*s, u.X()*u.Z()*t+u.Y()*s,
		u.Y()*u.X()*t+u.Z()*s, c+u.Y()*u.Y()*t, u.Y()*u.Z()*t-u.X()*s,
		u.Z()*u.X()*t-u.Y()*s, u.Z()*u.Y()*t+u.X()*s, c+u.Z()*u.Z()*t,
	)
}
