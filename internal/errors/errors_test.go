package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "direct", err: New(Render, "empty result"), want: Render},
		{name: "wrapped by fmt", err: fmt.Errorf("chart top20: %w", Wrap(Filesystem, "mkdir", fs.ErrPermission)), want: Filesystem},
		{name: "plain error", err: stderrors.New("boom"), want: Unknown},
		{name: "nil", err: nil, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := Wrap(Filesystem, "create output directory", fs.ErrPermission)
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
	if want := "filesystem: create output directory: permission denied"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsLooksThroughNestedKinds(t *testing.T) {
	inner := Wrap(DataAccess, "query top20_demand", stderrors.New("no such table"))
	outer := Wrap(Render, "top20_products", inner)

	if !Is(outer, Render) || !Is(outer, DataAccess) {
		t.Errorf("expected both kinds to be found")
	}
	if Is(outer, Filesystem) {
		t.Errorf("unexpected filesystem kind")
	}
}
