package multipart

import "testing"

const boundary = "----WeaveBoundary7MA4YWxk"

func buildBody(parts ...string) []byte {
	var out string
	for _, p := range parts {
		out += "--" + boundary + "\r\n" + p
	}
	out += "--" + boundary + "--\r\n"
	return []byte(out)
}

func TestParseBoundaryRequiresMultipartContentType(t *testing.T) {
	_, err := ParseBoundary("application/json")
	if err == nil {
		t.Fatal("expected error for non-multipart content type")
	}
}

func TestParseBoundaryExtractsValue(t *testing.T) {
	b, err := ParseBoundary(`multipart/form-data; boundary="abc123"`)
	if err != nil || b != "abc123" {
		t.Fatalf("expected abc123, got %q err=%v", b, err)
	}
}

func TestParseBoundaryRejectsEmpty(t *testing.T) {
	_, err := ParseBoundary(`multipart/form-data; boundary=""`)
	if err == nil {
		t.Fatal("expected error for empty boundary")
	}
}

func TestParseTextField(t *testing.T) {
	body := buildBody("Content-Disposition: form-data; name=\"username\"\r\n\r\nalice\r\n")
	result, err := Parse(body, "multipart/form-data; boundary="+boundary, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := result.Text("username")
	if !ok || v != "alice" {
		t.Fatalf("expected alice, got %q ok=%v", v, ok)
	}
}

func TestParseFileField(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"avatar\"; filename=\"pic.png\"\r\nContent-Type: image/png\r\n\r\nbinarydata\r\n",
	)
	result, err := Parse(body, "multipart/form-data; boundary="+boundary, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := result.File("avatar")
	if !ok {
		t.Fatal("expected file field")
	}
	if f.Filename != "pic.png" || f.ContentType != "image/png" || f.Extension != "png" {
		t.Fatalf("unexpected file metadata: %+v", f)
	}
	if string(f.Bytes) != "binarydata" {
		t.Fatalf("unexpected file contents: %q", f.Bytes)
	}
}

func TestMaxFieldsEnforced(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n",
		"Content-Disposition: form-data; name=\"b\"\r\n\r\n2\r\n",
	)
	cfg := DefaultConfig()
	cfg.MaxFields = 1
	_, err := Parse(body, "multipart/form-data; boundary="+boundary, cfg)
	if err == nil {
		t.Fatal("expected max fields violation")
	}
}

func TestMaxFileSizeEnforced(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"f\"; filename=\"big.bin\"\r\nContent-Type: application/octet-stream\r\n\r\n0123456789\r\n",
	)
	cfg := DefaultConfig()
	cfg.MaxFileSize = 5
	_, err := Parse(body, "multipart/form-data; boundary="+boundary, cfg)
	if err == nil {
		t.Fatal("expected max file size violation")
	}
}

func TestAllowedExtensionsEnforced(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"f\"; filename=\"doc.exe\"\r\nContent-Type: application/octet-stream\r\n\r\ndata\r\n",
	)
	cfg := DefaultConfig()
	cfg.AllowedExtensions = []string{"png", "jpg"}
	_, err := Parse(body, "multipart/form-data; boundary="+boundary, cfg)
	if err == nil {
		t.Fatal("expected extension violation")
	}
}

func TestAllowedMIMETypesSkippedWhenEmpty(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"f\"; filename=\"doc.bin\"\r\nContent-Type: application/octet-stream\r\n\r\ndata\r\n",
	)
	cfg := DefaultConfig()
	// AllowedMIMETypes left empty: must NOT reject, unlike the original
	// implementation's always-true condition.
	_, err := Parse(body, "multipart/form-data; boundary="+boundary, cfg)
	if err != nil {
		t.Fatalf("expected empty allow-list to permit any mime type, got %v", err)
	}
}

func TestAllowedMIMETypesEnforcedWhenSet(t *testing.T) {
	body := buildBody(
		"Content-Disposition: form-data; name=\"f\"; filename=\"doc.bin\"\r\nContent-Type: application/octet-stream\r\n\r\ndata\r\n",
	)
	cfg := DefaultConfig()
	cfg.AllowedMIMETypes = []string{"image/png"}
	_, err := Parse(body, "multipart/form-data; boundary="+boundary, cfg)
	if err == nil {
		t.Fatal("expected mime type violation")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":  "etcpasswd",
		"ok name-1_2.3.txt": "ok name-1_2.3.txt",
		"":                  "unnamed_file",
		"   ...   ":         "unnamed_file",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractExtension(t *testing.T) {
	if got := ExtractExtension("report.PDF"); got != "pdf" {
		t.Fatalf("expected pdf, got %q", got)
	}
	if got := ExtractExtension("noext"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
}
