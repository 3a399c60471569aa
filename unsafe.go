package linkheap

import "unsafe"

// addrOf returns the address of the backing array of buf.
func addrOf(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

func alignDown(n, align uintptr) uintptr {
	return n &^ (align - 1)
}
