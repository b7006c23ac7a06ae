package vfs

import "strings"

// binaryExtensions classifies a filename extension as binary content (§6.2).
var binaryExtensions = map[string]string{
	"jpg": "image/jpeg", "jpeg": "image/jpeg", "png": "image/png",
	"gif": "image/gif", "bmp": "image/bmp", "ico": "image/x-icon",
	"tiff": "image/tiff", "webp": "image/webp",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip", "tar": "application/x-tar", "gz": "application/gzip",
	"rar": "application/vnd.rar", "7z": "application/x-7z-compressed",
	"mp3": "audio/mpeg", "mp4": "video/mp4", "avi": "video/x-msvideo",
	"mov": "video/quicktime", "wmv": "video/x-ms-wmv", "flv": "video/x-flv",
	"exe": "application/x-msdownload", "dll": "application/x-msdownload",
	"so": "application/octet-stream", "dylib": "application/octet-stream",
	"woff": "font/woff", "woff2": "font/woff2", "ttf": "font/ttf", "otf": "font/otf",
}

// textExtensions classifies a filename extension as text content (§6.2).
var textExtensions = map[string]string{
	"md": "text/markdown", "txt": "text/plain", "json": "application/json",
	"html": "text/html", "htm": "text/html", "css": "text/css",
	"js": "application/javascript", "ts": "text/typescript",
	"xml": "application/xml", "yaml": "application/yaml", "yml": "application/yaml",
}

// extOf returns the lowercase extension of filename without the leading dot,
// or "" when there is none.
func extOf(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// ClassifyContentType returns (isBinary, contentType) for filename per the
// extension table in §6.2. Unknown extensions are treated as text with
// content_type "application/octet-stream".
func ClassifyContentType(filename string) (isBinary bool, contentType string) {
	ext := extOf(filename)

	if ct, ok := binaryExtensions[ext]; ok {
		return true, ct
	}
	if ct, ok := textExtensions[ext]; ok {
		return false, ct
	}
	return false, "application/octet-stream"
}
