package output

import (
	"path/filepath"
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Display types shown in the Type column.
const (
	TypeDirectory = "Directory"
	TypePicture   = "Picture"
	TypeText      = "Text"
	TypeDocument  = "Document"
	TypeArchive   = "Archive"
	TypeVideo     = "Video"
	TypeMusic     = "Music"
	TypeJava      = "Java"
	TypeFile      = "File"
)

// typeByExt maps a lowercase extension to its display type.
var typeByExt = map[string]string{
	// Pictures
	".bmp":  TypePicture,
	".png":  TypePicture,
	".jpeg": TypePicture,
	".jpg":  TypePicture,
	".gif":  TypePicture,
	".svg":  TypePicture,
	".webp": TypePicture,

	// Text
	".txt":  TypeText,
	".text": TypeText,
	".log":  TypeText,
	".md":   TypeText,

	// Documents
	".doc":  TypeDocument,
	".docs": TypeDocument,
	".docx": TypeDocument,
	".xls":  TypeDocument,
	".xlsx": TypeDocument,
	".pdf":  TypeDocument,

	// Archives
	".zip": TypeArchive,
	".rar": TypeArchive,
	".7z":  TypeArchive,
	".tar": TypeArchive,
	".gz":  TypeArchive,

	// Video
	".avi": TypeVideo,
	".mov": TypeVideo,
	".mp4": TypeVideo,
	".mpg": TypeVideo,
	".mkv": TypeVideo,

	// Music
	".mp3":  TypeMusic,
	".flac": TypeMusic,
	".wav":  TypeMusic,

	// Java
	".java":  TypeJava,
	".jar":   TypeJava,
	".class": TypeJava,
}

// DetectType returns the display type of an entry: Directory for
// directories, otherwise a type inferred from the name's extension.
func DetectType(e types.FileEntry) string {
	if e.IsDir() {
		return TypeDirectory
	}
	if t, ok := typeByExt[extension(e.Name)]; ok {
		return t
	}
	return TypeFile
}

// extension returns the lowercase extension of name. A leading dot alone
// does not start an extension, so ".log" has none.
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}
