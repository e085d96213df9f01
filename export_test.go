package treecluster

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGroupsCSV(t *testing.T) {
	m := lineMatrix(t, []string{"A", "B", "C", "D"}, []float64{0, 0.123, 3, 7})
	d, err := Agglomerate(m, CompleteLinkage)
	require.NoError(t, err)
	p, err := d.Partition(5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGroupsCSV(&buf, p))

	want := "Tree name;Group;Group similarity score\n" +
		"D;Group 1;0\n" +
		"C;Group 2;3\n" +
		"A;Group 2;3\n" +
		"B;Group 2;3\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteGroupsCSV_QuotesSeparator(t *testing.T) {
	m, err := NewDistanceMatrix([]string{"a;b", "c"}, []float64{0, 0.5, 0.5, 0})
	require.NoError(t, err)
	d, err := Agglomerate(m, AverageLinkage)
	require.NoError(t, err)
	p, err := d.Partition(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGroupsCSV(&buf, p))
	assert.Contains(t, buf.String(), "\"a;b\";Group 1;0.5\n")
}

func TestFormatSignificant(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{0.125, "0.13"},
		{0.123456, "0.12"},
		{2.5, "2.5"},
		{3.14159, "3.1"},
		{123, "120"},
		{1250, "1300"},
		{0.000456, "0.00046"},
		{0.99, "0.99"},
		{0.999, "1"},
		{-0.125, "-0.13"},
	}
	for _, tt := range tests {
		if got := formatSignificant(tt.in, 2); got != tt.want {
			t.Errorf("formatSignificant(%v, 2) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "Group 1", GroupName(0))
	assert.Equal(t, "Group 12", GroupName(11))
}
