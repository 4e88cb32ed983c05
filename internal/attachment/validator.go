package attachment

import (
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".dgn": {}, ".dwg": {},
	".docx": {}, ".txt": {}, ".gt": {}, ".tiff": {}, ".tif": {}, ".xlsx": {},
}

// Validate checks the file name and type of an upload.
func Validate(u Upload) error {
	name := strings.TrimSpace(u.FileName)
	if name == "" {
		return &InvalidError{Reason: "file name missing"}
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return &InvalidError{Reason: "file name contains path characters: " + name}
	}
	if strings.TrimSpace(u.ContentType) == "" {
		return &InvalidError{Reason: "content type missing"}
	}
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
		return &InvalidError{Reason: "file type not allowed: " + name}
	}
	if len(u.Bytes) == 0 {
		return &InvalidError{Reason: "file is empty"}
	}
	return nil
}
