// Package upload provides formbuilder.UploadMover implementations that
// store submitted files on the local disk or in S3.
//
// A destination is a file name, a directory (ending in "/") or a glob
// pattern. Existing files matching it are removed before the new file is
// stored, so a destination like "avatars/42.*" keeps one avatar per user
// whatever its extension.
package upload

import (
	"path"
	"strings"
)

// destination returns the final location for a file named filename.
// A directory destination gets the base name of the file appended; any
// other destination keeps its base name and takes the extension of the
// uploaded file.
func destination(dest, filename string, isDir bool) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if isDir {
		return strings.TrimSuffix(dest, "/") + "/" + base
	}
	dir, file := path.Split(dest)
	if i := strings.IndexAny(file, "*?["); i >= 0 {
		file = file[:i]
	}
	file = strings.TrimSuffix(file, path.Ext(file))
	file = strings.TrimSuffix(file, ".")
	return dir + file + path.Ext(base)
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
