package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectedOpsParsesKnownNames(t *testing.T) {
	require.Equal(t, []string{"mulgen", "mul", "simul"}, selectedOps("mulgen,mul,simul"))
}

func TestSelectedOpsDropsUnknownNames(t *testing.T) {
	require.Equal(t, []string{"mul"}, selectedOps("bogus,mul,also-bogus"))
}

func TestSelectedOpsEmptyInput(t *testing.T) {
	require.Nil(t, selectedOps(""))
}

func TestScalarStreamIsDeterministic(t *testing.T) {
	s1 := newScalarStream("fixed-seed")
	s2 := newScalarStream("fixed-seed")

	for i := 0; i < 5; i++ {
		a := s1.next()
		b := s2.next()
		require.Equal(t, 1, a.Equal(b))
	}
}

func TestScalarStreamProducesDistinctValues(t *testing.T) {
	s := newScalarStream("distinctness-check")
	a := s.next()
	b := s.next()
	require.Equal(t, 0, a.Equal(b))
}

func TestScalarStreamDifferentSeedsDiffer(t *testing.T) {
	a := newScalarStream("seed-a").next()
	b := newScalarStream("seed-b").next()
	require.Equal(t, 0, a.Equal(b))
}
