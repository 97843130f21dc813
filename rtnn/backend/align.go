// SPDX-License-Identifier: Apache-2.0

package backend

import "unsafe"

// CacheLineSize is the alignment target for layer parameter and scratch
// storage. 64 bytes covers current x86-64 and arm64 parts and is a
// multiple of every SIMD register width hwy dispatches to.
const CacheLineSize = 64

// IsAligned reports whether addr sits on a cache line boundary.
func IsAligned(addr uintptr) bool {
	return addr%CacheLineSize == 0
}

// AlignedSlice allocates a length-n slice of T whose first element sits
// on a cache line boundary. The slice capacity equals its length, so an
// append cannot silently walk past the aligned region.
//
// Fixed-size layers allocate all weights and scratch through this once
// at construction; nothing on the forward path allocates afterwards.
func AlignedSlice[T Floats](n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	elem := uintptr(unsafe.Sizeof(zero))

	// Over-allocate by one cache line of elements, then slice from the
	// first aligned element. The backing array is at least elem-aligned,
	// so the boundary always lands a whole number of elements in.
	pad := int(CacheLineSize / elem)
	buf := make([]T, n+pad)

	ptr := uintptr(unsafe.Pointer(&buf[0]))
	offset := 0
	if mod := ptr % CacheLineSize; mod != 0 {
		offset = int((CacheLineSize - mod) / elem)
	}
	return buf[offset : offset+n : offset+n]
}
