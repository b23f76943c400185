package videoreader

import (
	"strings"
)

// imageExtensions is reproduced exactly as the plugin's own list; extending
// it (hdr, pic, psd are notably absent) is a host-plugin policy decision,
// not something this package should second-guess.
var imageExtensions = map[string]bool{
	"bmp":  true,
	"pix":  true,
	"dpx":  true,
	"exr":  true,
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"ppm":  true,
	"ptx":  true,
	"tiff": true,
	"tga":  true,
	"rgba": true,
	"rgb":  true,
}

// IsImageFile reports whether name's extension identifies it as a
// single-frame image the enclosing plugin should route elsewhere, rather
// than through this reader.
func IsImageFile(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	ext := strings.ToLower(name[i+1:])
	return imageExtensions[ext]
}
