package main

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConsole(t *testing.T, input string, m *Metrics) (*Session, string) {
	t.Helper()
	sess := NewSession(SessionOptions{Source: rand.NewSource(4)})
	var out bytes.Buffer
	require.NoError(t, NewConsole(sess, strings.NewReader(input), &out, m).Run())
	return sess, out.String()
}

func TestConsoleReserveAndUse(t *testing.T) {
	sess := NewSession(SessionOptions{Source: rand.NewSource(4)})
	front := sess.View().Queue[0]

	_, out := runConsole(t, "2\n3\n0\n", nil)
	assert.Contains(t, out, "You reserved "+front.String())
	assert.Contains(t, out, "You used "+front.String())
	assert.Contains(t, out, "Reserve: (empty)")
	assert.Contains(t, out, "Quitting...")
}

func TestConsoleRendersQueue(t *testing.T) {
	sess, out := runConsole(t, "1\n0\n", nil)
	assert.Contains(t, out, "Queue: "+formatPieces(sess.View().Queue))
	assert.Contains(t, out, "You played [")
}

func TestConsoleReportsErrors(t *testing.T) {
	_, out := runConsole(t, "3\n4\n5\n9\nabc\n0\n", nil)
	assert.Contains(t, out, "Cannot use: "+ErrStackEmpty.Error())
	assert.Contains(t, out, "Cannot swap: "+ErrNothingToSwap.Error())
	// Undo after the failed swap restores the saved state.
	assert.Contains(t, out, "Last move undone.")
	assert.Equal(t, 2, strings.Count(out, "Invalid option!"))
}

func TestConsoleSwapAndInvert(t *testing.T) {
	sess, out := runConsole(t, "2\n4\n6\n0\n", nil)
	assert.Contains(t, out, "Swapped: [")
	assert.Contains(t, out, "Inverted 1 pieces between queue and reserve")
	v := sess.View()
	assert.Len(t, v.Queue, 5)
	assert.Len(t, v.Reserve, 1)
}

func TestConsoleStopsAtEOF(t *testing.T) {
	sess, _ := runConsole(t, "1\n1\n", nil)
	assert.Equal(t, 7, sess.View().Issued)
}

func TestConsoleCountsActions(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	runConsole(t, "1\n1\n3\n0\n", m)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.actions.WithLabelValues(ActionPlay, "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.actions.WithLabelValues(ActionUse, "stack_empty")))
}

func TestFormatPieces(t *testing.T) {
	assert.Equal(t, "[I1] [Z2]", formatPieces([]Piece{{Kind: 'I', ID: 1}, {Kind: 'Z', ID: 2}}))
	assert.Equal(t, "", formatPieces(nil))
}
