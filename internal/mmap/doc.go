// Package mmap provides read-only memory-mapped file access.
//
// LocalStore uses it to serve snapshot reads without copying file contents
// through kernel buffers.
//
//	m, err := mmap.Open("layouts/demo/0001.rlx")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix platforms use mmap(2) via golang.org/x/sys/unix; Windows uses
// CreateFileMapping/MapViewOfFile.
package mmap
