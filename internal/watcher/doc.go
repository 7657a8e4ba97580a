// Package watcher reports transcript files dropped into a directory so they
// can be converted as they arrive. Hidden files and unlisted extensions are
// ignored; handler failures are logged and do not stop the watch.
package watcher
