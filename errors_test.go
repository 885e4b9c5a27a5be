package alumnietl

import (
	"strings"
	"testing"

	"golang.org/x/xerrors"
)

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindLoad, Table: TableMajor, err: xerrors.New("quota exceeded")}
	for _, want := range []string{"load error", "stats_major", "quota exceeded"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message %q does not contain %q", err, want)
		}
	}

	err = &Error{Kind: KindConfiguration, err: xerrors.New("missing values")}
	if strings.Contains(err.Error(), "table") {
		t.Errorf("message %q mentions a table for a configuration error", err)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	inner := &Error{Kind: KindExtraction, err: xerrors.New("boom")}
	wrapped := xerrors.Errorf("run failed: %w", inner)

	if got := KindOf(wrapped); got != KindExtraction {
		t.Errorf("KindOf(wrapped) = %v, want KindExtraction", got)
	}
	if got := KindOf(xerrors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("KindOf(nil) = %v, want KindUnknown", got)
	}
}
