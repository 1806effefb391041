package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLifecycle(t *testing.T) {
	s := NewState("top20_products", "risk_stockout")

	s.Start("top20_products", "fetching")
	s.Start("risk_stockout", "fetching")
	s.Start("top20_products", "rendering")
	assert.Equal(t, []string{"top20_products", "risk_stockout"}, s.Order)
	assert.Equal(t, []string{"* rendering top20_products", "* fetching risk_stockout"}, s.Lines("*"))

	s.Complete("top20_products", "charts_output/top20_products.png")
	s.Fail("risk_stockout", "query failed")
	assert.Equal(t, []string{"✓ wrote top20_products", "✗ failed risk_stockout"}, s.Lines("*"))

	expected, completed, failed := s.Counts()
	assert.Equal(t, 2, expected)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, failed)
	assert.False(t, s.IsFullyCompleted())
}

func TestStateFullyCompleted(t *testing.T) {
	s := NewState("cost_analysis")
	assert.False(t, s.IsFullyCompleted())
	s.Complete("cost_analysis", "x.png")
	assert.True(t, s.IsFullyCompleted())
	assert.False(t, NewState().IsFullyCompleted())
}

func TestRenderStateCompose(t *testing.T) {
	rs := NewRenderState()

	text, changed := rs.Compose([]string{"⠋ fetching top20_products", "✓ wrote x"})
	require.True(t, changed)
	lines := strings.Split(text, "\n")
	assert.Equal(t, len([]rune(lines[0])), len([]rune(lines[1])), "lines are padded to equal width")

	_, changed = rs.Compose([]string{"⠋ fetching top20_products", "✓ wrote x"})
	assert.False(t, changed)

	text, _ = rs.Compose([]string{"short"})
	assert.Equal(t, rs.MaxLineLen, len(text), "width never shrinks")

	assert.Equal(t, 1, rs.Next())
	assert.Equal(t, 2, rs.Next())
}

func TestDisplayPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	d := New(false, "picking_efficiency", "cost_analysis")
	d.Out = &buf

	d.Start()
	d.Stage("picking_efficiency", "fetching")
	d.Done("picking_efficiency", "charts_output/picking_efficiency.png")
	d.Failed("cost_analysis", errors.New("boom"))
	d.Stop()

	out := buf.String()
	assert.Contains(t, out, "wrote charts_output/picking_efficiency.png")
	assert.Contains(t, out, "failed cost_analysis")
	assert.False(t, d.IsInteractive())
	assert.Equal(t, "boom", d.State.Failed["cost_analysis"])
}
