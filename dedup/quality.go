package dedup

import "github.com/grailbio/base/simd"

// Score returns the quality score of a quality string: the sum of
// (c - zeroPoint) over its characters. An empty string scores 0. Characters
// below zeroPoint contribute negative values.
func Score(qual []byte, zeroPoint byte) int64 {
	return int64(simd.Accumulate8(qual)) - int64(len(qual))*int64(zeroPoint)
}
