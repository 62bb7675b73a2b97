package model

// Matrix is a PDF transformation matrix, stored in the row-major order
// used throughout ISO 32000 8.3.4:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix [6]Fl // a, b, c, d, e, f

// Identity is the neutral transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Apply maps the point (x, y) through the matrix.
func (m Matrix) Apply(x, y Fl) (Fl, Fl) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVector maps a direction vector, ignoring the translation part.
func (m Matrix) ApplyVector(x, y Fl) (Fl, Fl) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// Multiply returns the matrix representing "apply `m` then `other`",
// which is the semantics PDF content streams give `cm`: the operand
// matrix is concatenated so that it takes effect before the current CTM.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translated returns a matrix translating by (tx, ty), pre-concatenated.
func Translated(tx, ty Fl) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scaled returns a matrix scaling by (sx, sy).
func Scaled(sx, sy Fl) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Invert returns the matrix undoing m's mapping, used by the renderer to
// walk backward from a device pixel to the image- or pattern-space point
// that landed on it (spec §4.9's inverse-mapped image painting). ok is
// false for a singular matrix (a zero-area CTM), which a caller should
// treat as "nothing to paint" rather than dividing by zero.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Matrix{}, false
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(-m[3]*m[4] + m[2]*m[5]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}
