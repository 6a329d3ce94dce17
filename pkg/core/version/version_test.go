package version

import (
	"regexp"
	"strings"
	"testing"
)

func TestVersionConstants(t *testing.T) {
	if !regexp.MustCompile(`^\d+\.\d+$`).MatchString(Platform) {
		t.Errorf("Platform %q is not major.minor", Platform)
	}
	if !regexp.MustCompile(`^\d+\.\d+\.\d+$`).MatchString(Engine) {
		t.Errorf("Engine %q does not match semver format (x.y.z)", Engine)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "DexComX "+Platform) {
		t.Errorf("String() = %q", s)
	}
	if !strings.Contains(s, "commit "+Commit) {
		t.Errorf("String() missing commit: %q", s)
	}
}
