//go:build !linux

package watcher

// DetectFilesystemType classifies the filesystem holding path.
// Only implemented on Linux; other platforms report unknown and rely on
// fsnotify working or the user forcing polling.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
