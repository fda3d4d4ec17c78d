package errors

import (
	"strings"
	"testing"
)

func TestValidateIdea(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "A study planner for college students", "A study planner for college students", false},
		{"collapses whitespace", "  A study\n\tplanner   app  ", "A study planner app", false},
		{"exactly min", "0123456789", "0123456789", false},
		{"barcode is not code", "Barcode for library books tracker", "Barcode for library books tracker", false},

		{"empty", "", "", true},
		{"whitespace only", " \n\t ", "", true},
		{"too short", "short", "", true},
		{"short after collapse", "a    b    c", "", true},
		{"too long", strings.Repeat("x", MaxIdeaLength+1), "", true},
		{"control char", "A planner \x01 for students", "", true},
		{"generate code", "Please generate code for a todo app", "", true},
		{"give me the code", "give me the code of a chat app", "", true},
		{"python code", "I need python code that sorts a list", "", true},
		{"sql queries", "Write sql queries for a library system", "", true},
		{"write a function", "Write a function that reverses strings", "", true},
		{"export code", "Export the whole project code as zip", "", true},
		{"generate script", "Generate a deployment script please", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateIdea(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateIdea(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidIdea) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidIdea)
			}
			if got != tt.want {
				t.Errorf("ValidateIdea(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateIdeaCountsRunes(t *testing.T) {
	// eleven characters, more than twenty bytes
	if _, err := ValidateIdea("ééééééééé é"); err != nil {
		t.Errorf("ValidateIdea() error = %v", err)
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "frontend", false},
		{"kebab", "login-page", false},
		{"unicode", "データ", false},

		{"empty", "", true},
		{"too long", strings.Repeat("n", 257), true},
		{"newline", "a\nb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProjectID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0b6f4a56-3c0e-4d4e-9c64-2f1b9f0a8e11", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"not a uuid", "project-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidID {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "src/main.go", false},
		{"valid nested", "pkg/internal/util/helpers.go", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/package.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidIdea,
		ErrCodeInvalidGraph,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidDiagram,
		ErrCodeInvalidID,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeProjectNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeBackendUnavailable,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
