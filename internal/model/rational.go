package model

import "strconv"

// Rational is an EXIF RATIONAL or SRATIONAL value.
// Both unsigned and signed variants are widened to int64 so callers never
// need to know which TIFF type the decoder saw.
type Rational struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// Float returns the value as a float64.
// The second return value is false when the denominator is zero.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// Reduced returns the rational in lowest terms with a positive denominator.
// A zero denominator is returned unchanged.
func (r Rational) Reduced() Rational {
	if r.Den == 0 {
		return r
	}
	num, den := r.Num, r.Den
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num /= g
		den /= g
	}
	return Rational{Num: num, Den: den}
}

// String formats the reduced value as "n" when it is integral and "n/d" otherwise.
func (r Rational) String() string {
	red := r.Reduced()
	if red.Den == 1 {
		return strconv.FormatInt(red.Num, 10)
	}
	return strconv.FormatInt(red.Num, 10) + "/" + strconv.FormatInt(red.Den, 10)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
