// Package multipart implements a multipart/form-data body parser driven by
// a size/extension/MIME allow-list configuration, independent of the
// standard library's mime/multipart so the framework controls every limit
// and error message uniformly.
package multipart

import (
	"fmt"
	"path"
	"strings"

	"github.com/aras-services/weave/pkg/weave/apperror"
)

// Config bounds what a multipart body parse will accept.
type Config struct {
	MaxBodySize        int64
	MaxFileSize         int64
	MaxFields           int
	MaxFiles            int
	MaxFieldNameLength  int
	AllowedExtensions   []string
	AllowedMIMETypes    []string
}

// DefaultConfig mirrors generous defaults suitable for a typical JSON API
// that also accepts occasional file uploads.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:        32 << 20,
		MaxFileSize:        10 << 20,
		MaxFields:          100,
		MaxFiles:           20,
		MaxFieldNameLength: 128,
	}
}

// UploadedFile is a single parsed file part.
type UploadedFile struct {
	FieldName         string
	Filename          string
	SanitizedFilename string
	ContentType       string
	Extension         string
	Bytes             []byte
}

// Size returns the file's byte length.
func (f UploadedFile) Size() int64 { return int64(len(f.Bytes)) }

// FormField is either a text field or a file field.
type FormField struct {
	Name  string
	Value string // set when File is nil
	File  *UploadedFile
}

// IsFile reports whether this field carries file content.
func (f FormField) IsFile() bool { return f.File != nil }

// Multipart is the parsed result: the full field list plus name-indexed
// views and a running total of file bytes.
type Multipart struct {
	Fields        []FormField
	TextFields    map[string][]string
	FileFields    map[string][]UploadedFile
	TotalFileSize int64
}

func empty() Multipart {
	return Multipart{
		TextFields: map[string][]string{},
		FileFields: map[string][]UploadedFile{},
	}
}

// Text returns the first text value for name.
func (m Multipart) Text(name string) (string, bool) {
	vs, ok := m.TextFields[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// File returns the first uploaded file for name.
func (m Multipart) File(name string) (UploadedFile, bool) {
	fs, ok := m.FileFields[name]
	if !ok || len(fs) == 0 {
		return UploadedFile{}, false
	}
	return fs[0], true
}

// ParseBoundary reads the boundary parameter out of a Content-Type header,
// requiring it to name multipart/form-data (spec §4.7 step 1).
func ParseBoundary(contentType string) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), "multipart/form-data") {
		return "", apperror.BadRequest("Content-Type must be multipart/form-data")
	}

	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(part)
		if rest, ok := strings.CutPrefix(part, "boundary="); ok {
			boundary := strings.Trim(strings.Trim(rest, `"`), "'")
			if boundary == "" {
				return "", apperror.BadRequest("Empty boundary")
			}
			return boundary, nil
		}
	}

	return "", apperror.BadRequest("Missing boundary in Content-Type")
}

// Parse parses body as multipart/form-data using the Content-Type header's
// boundary and cfg's limits.
func Parse(body []byte, contentType string, cfg Config) (Multipart, error) {
	if cfg.MaxBodySize > 0 && int64(len(body)) > cfg.MaxBodySize {
		return Multipart{}, apperror.PayloadTooLarge(fmt.Sprintf("Request body exceeds maximum size of %d bytes", cfg.MaxBodySize))
	}

	boundary, err := ParseBoundary(contentType)
	if err != nil {
		return Multipart{}, err
	}
	return parseBody(body, boundary, cfg)
}

func parseBody(body []byte, boundary string, cfg Config) (Multipart, error) {
	result := empty()
	delimiter := "--" + boundary
	rawParts := strings.Split(string(body), delimiter)

	fieldCount := 0
	fileCount := 0

	for _, raw := range rawParts[1:] {
		part := strings.TrimPrefix(raw, "\r\n")
		part = strings.TrimSuffix(part, "\r\n")
		if part == "" || strings.HasPrefix(part, "--") {
			continue
		}

		fieldCount++
		if cfg.MaxFields > 0 && fieldCount > cfg.MaxFields {
			return Multipart{}, apperror.BadRequest(fmt.Sprintf("Too many fields (max: %d)", cfg.MaxFields))
		}

		field, err := parsePart(part, cfg)
		if err != nil {
			return Multipart{}, err
		}

		if field.IsFile() {
			fileCount++
			if cfg.MaxFiles > 0 && fileCount > cfg.MaxFiles {
				return Multipart{}, apperror.BadRequest(fmt.Sprintf("Too many files (max: %d)", cfg.MaxFiles))
			}

			file := *field.File
			if cfg.MaxFileSize > 0 && file.Size() > cfg.MaxFileSize {
				return Multipart{}, apperror.BadRequest(fmt.Sprintf("File '%s' exceeds maximum size of %d bytes", file.Filename, cfg.MaxFileSize))
			}

			if len(cfg.AllowedExtensions) > 0 {
				if file.Extension == "" {
					return Multipart{}, apperror.BadRequest("Files must have an extension")
				}
				if !containsFold(cfg.AllowedExtensions, file.Extension) {
					return Multipart{}, apperror.BadRequest(fmt.Sprintf("File extension '%s' is not allowed", file.Extension))
				}
			}

			// Corrected AND-gated check: an empty allow-list means no
			// restriction, matching the extension check above. The
			// original implementation's equivalent condition always
			// evaluated true regardless of the list's contents.
			if len(cfg.AllowedMIMETypes) > 0 && !containsFold(cfg.AllowedMIMETypes, file.ContentType) {
				return Multipart{}, apperror.BadRequest(fmt.Sprintf("Content type '%s' is not allowed", file.ContentType))
			}

			result.TotalFileSize += file.Size()
			result.FileFields[file.FieldName] = append(result.FileFields[file.FieldName], file)
		} else {
			result.TextFields[field.Name] = append(result.TextFields[field.Name], field.Value)
		}

		result.Fields = append(result.Fields, field)
	}

	return result, nil
}

func parsePart(part string, cfg Config) (FormField, error) {
	headersStr, body, ok := splitHeaders(part)
	if !ok {
		return FormField{}, apperror.BadRequest("Invalid multipart part format")
	}

	var name, filename string
	var hasName, hasFilename bool
	contentType := "text/plain"

	for _, line := range strings.Split(headersStr, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "Content-Disposition:"); ok {
			rest = strings.TrimSpace(rest)
			if n, ok := extractHeaderParam(rest, "name"); ok {
				if cfg.MaxFieldNameLength > 0 && len(n) > cfg.MaxFieldNameLength {
					return FormField{}, apperror.BadRequest(fmt.Sprintf("Field name exceeds maximum length of %d", cfg.MaxFieldNameLength))
				}
				name, hasName = n, true
			}
			if f, ok := extractHeaderParam(rest, "filename"); ok {
				filename, hasFilename = f, true
			}
		} else if rest, ok := strings.CutPrefix(line, "Content-Type:"); ok {
			contentType = strings.TrimSpace(rest)
		}
	}

	if !hasName {
		return FormField{}, apperror.BadRequest("Missing field name in part")
	}

	if hasFilename {
		sanitized := SanitizeFilename(filename)
		return FormField{
			Name: name,
			File: &UploadedFile{
				FieldName:         name,
				Filename:          filename,
				SanitizedFilename: sanitized,
				ContentType:       contentType,
				Extension:         ExtractExtension(filename),
				Bytes:             []byte(body),
			},
		}, nil
	}

	return FormField{Name: name, Value: body}, nil
}

// splitHeaders separates a part's header block from its content, honoring
// either CRLF or bare-LF blank-line termination.
func splitHeaders(part string) (headers, body string, ok bool) {
	if idx := strings.Index(part, "\r\n\r\n"); idx >= 0 {
		return part[:idx], part[idx+4:], true
	}
	if idx := strings.Index(part, "\n\n"); idx >= 0 {
		return part[:idx], part[idx+2:], true
	}
	return "", "", false
}

func extractHeaderParam(header, param string) (string, bool) {
	prefix := param + "="
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if rest, ok := strings.CutPrefix(part, prefix); ok {
			value := strings.Trim(strings.Trim(rest, `"`), "'")
			return value, true
		}
	}
	return "", false
}

// SanitizeFilename restricts a filename to [A-Za-z0-9 ._-], trims leading
// and trailing dots/spaces, caps it at 255 characters, and falls back to
// "unnamed_file" if nothing survives.
func SanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '-' || r == '_' || r == ' ' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ". ")
	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}
	if cleaned == "" {
		return "unnamed_file"
	}
	return cleaned
}

// ExtractExtension returns the lowercased extension (without the dot), or
// "" if filename has none.
func ExtractExtension(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
